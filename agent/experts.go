// Package agent implements ldg assist: a Gemini chat where a facilitator
// answers the user with the help of experts, one of them reading the ledger.
package agent

import (
	"github.com/etnz/ledger/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here to understand where their money goes: balances, spending by category,
			income, trends over a period. Always check the ledger before answering about figures.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAdvisor creates an expert in personal finance, grounded with Google
// Search.
func NewAdvisor() *Expert {
	return &Expert{
		Name: "Advisor",
		Description: `This is a personal finance advisor,
		aware of budgeting methods, saving strategies and common spending benchmarks.
		Ask the Advisor for advice or for general knowledge, never for the user's own figures.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in personal finance. You Leverage Google Search to
			ground your assertions in a solid truth. Keep advice concrete and short.
				`}}},
		},
	}
}

// NewBookkeeper creates the expert reading the ledger src, amounts being
// formatted in currency.
func NewBookkeeper(src renderer.Source, currency string) *Expert {
	lib := Bookkeeping(src, currency)

	return &Expert{
		Name: "Bookkeeper",
		Description: `This is the Bookkeeper. They are in charge of reading the user's ledger:
		accounts and balances, transactions, spending by category and period summaries.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a bookkeeper in charge of the user's personal ledger.
				You know how to use the Tools to extract relevant figures about the user's money.
				You are part of a team of experts, yours is everything about the user's ledger. They might ask
				you questions with approximative language, figure out what they meant.

				Use the available tools to get information about
				  - accounts and their balance
				  - transactions over a period or on an account
				  - income, expense and net over a period, and expenses by category
				  - the categories transactions are filed under
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Package cmd implements the ldg CLI application to manage a personal ledger.
package cmd

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/etnz/ledger"
	"github.com/etnz/ledger/gateway"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Environment variables providing defaults for the global flags. They can
// also be set in a .env file of the working directory.
const (
	EnvStore         = "LEDGER_STORE"
	EnvCategories    = "LEDGER_CATEGORIES"
	EnvCurrency      = "LEDGER_CURRENCY"
	EnvVerbose       = "LEDGER_VERBOSE"
	EnvKey           = "LEDGER_KEY"           // base64 AES-256 key encrypting the store
	EnvFallbackKeys  = "LEDGER_FALLBACK_KEYS" // comma separated base64 keys, for rotation
	defaultStoreFile = "ledger.json"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var storeFlag = flag.String("store", "", "Ledger storage: a file path, file:<path>, memory:, leveldb:<dir>, redis://... or postgres://... (default $"+EnvStore+" or "+defaultStoreFile+")")
var categoriesFlag = flag.String("categories", "", "YAML or JSON file overriding the category table (default $"+EnvCategories+")")
var currencyFlag = flag.String("currency", "", "Currency used to display amounts (default $"+EnvCurrency+" or "+ledger.DefaultCurrency+")")
var Verbose = flag.Bool("v", false, "Log storage activity on stderr")

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addAccountCmd{}, "accounts")
	c.Register(&editAccountCmd{}, "accounts")
	c.Register(&rmAccountCmd{}, "accounts")
	c.Register(&accountsCmd{}, "accounts")
	c.Register(&balanceCmd{}, "accounts")

	c.Register(newAddTxCmd(ledger.Expense), "transactions")
	c.Register(newAddTxCmd(ledger.Income), "transactions")
	c.Register(&editTxCmd{}, "transactions")
	c.Register(&rmTxCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&categoriesCmd{}, "reports")
	c.Register(&queryCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")

	c.Register(&serveCmd{}, "")
	c.Register(&AssistCmd{}, "")
	c.Register(&topicCmd{}, "")
}

// LoadEnv loads the .env file of the working directory, if any. Variables
// already set in the environment win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, could not load .env file: %v", err)
	}
}

// setting returns the flag value if set, then the environment variable, then def.
func setting(flagValue, env, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// StoreLocation returns the ledger storage location in use.
func StoreLocation() string { return setting(*storeFlag, EnvStore, defaultStoreFile) }

// Currency returns the display currency in use.
func Currency() string { return setting(*currencyFlag, EnvCurrency, ledger.DefaultCurrency) }

func verbose() bool {
	return *Verbose || os.Getenv(EnvVerbose) == "true"
}

// logger returns the logger of storage activity, written on stderr.
func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// categories returns the category table in use.
func categories() (*ledger.Categories, error) {
	path := setting(*categoriesFlag, EnvCategories, "")
	if path == "" {
		return ledger.DefaultCategories(), nil
	}
	c, err := ledger.LoadCategories(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, categories file %q does not exist, using the default categories instead", path)
		return ledger.DefaultCategories(), nil
	}
	return c, err
}

// openSlot opens the storage slot, encrypted when a key is configured.
func openSlot(ctx context.Context) (gateway.Slot, error) {
	slot, err := gateway.Open(ctx, StoreLocation())
	if err != nil {
		return nil, err
	}
	key := os.Getenv(EnvKey)
	if key == "" {
		return slot, nil
	}
	active, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvKey, err)
	}
	var fallbacks [][]byte
	for _, k := range strings.Split(os.Getenv(EnvFallbackKeys), ",") {
		if k = strings.TrimSpace(k); k == "" {
			continue
		}
		b, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvFallbackKeys, err)
		}
		fallbacks = append(fallbacks, b)
	}
	return gateway.Encrypted(slot, active, fallbacks...)
}

// Session is an opened ledger and the gateway persisting it.
type Session struct {
	*ledger.Ledger
	gw *gateway.Gateway
}

// OpenLedger is the central function to open the ledger configured by the
// global flags. opts configure the gateway.
func OpenLedger(ctx context.Context, opts ...gateway.Option) (*Session, error) {
	cats, err := categories()
	if err != nil {
		return nil, err
	}
	slot, err := openSlot(ctx)
	if err != nil {
		return nil, err
	}
	lg := logger()
	gw := gateway.New(slot, append([]gateway.Option{gateway.WithLogger(lg)}, opts...)...)
	l, err := ledger.Open(ctx, gw, ledger.WithCategories(cats), ledger.WithLogger(lg))
	if err != nil {
		_ = gw.Close()
		return nil, err
	}
	return &Session{Ledger: l, gw: gw}, nil
}

// CloseLedger flushes the ledger and releases the storage.
func CloseLedger(ctx context.Context, s *Session) error {
	err := s.Ledger.Close(ctx)
	return errors.Join(err, s.gw.Close())
}

// withLedger runs f on the opened ledger and closes it. The mutation status
// of f is kept unless saving fails.
func withLedger(ctx context.Context, f func(s *Session) subcommands.ExitStatus) subcommands.ExitStatus {
	s, err := OpenLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger %q: %v\n", StoreLocation(), err)
		return subcommands.ExitFailure
	}
	status := f(s)
	if err := CloseLedger(ctx, s); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger %q: %v\n", StoreLocation(), err)
		return subcommands.ExitFailure
	}
	return status
}

// exitStatus maps ledger errors to exit statuses.
func exitStatus(err error) subcommands.ExitStatus {
	if errors.Is(err, ledger.ErrInvalidInput) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

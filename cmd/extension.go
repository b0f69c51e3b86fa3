package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
)

// RunExtension attempts to find and execute an external ldg-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
//
// The resolved global settings are passed to the extension as environment
// variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "ldg-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		if verbose() {
			log.Printf("External command %q not found in PATH: %v", externalCmdName, err)
		}
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(),
		EnvStore+"="+StoreLocation(),
		EnvCurrency+"="+Currency(),
		EnvVerbose+"="+strconv.FormatBool(verbose()),
	)
	if c := setting(*categoriesFlag, EnvCategories, ""); c != "" {
		cmd.Env = append(cmd.Env, EnvCategories+"="+c)
	}

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}

package cmd

import (
	"fmt"
	"os"

	"github.com/kurtosis-tech/stacktrace"
	"github.com/mattn/go-isatty"

	"github.com/thatrebeccarae/claude-code-skills/internal/config"
)

// handleFirstRun checks whether this is the first time skillkit is running
// (i.e. the skillkit directory does not exist yet). If stdin is a TTY, it
// prints a welcome message pointing at the setup wizard. The root command's
// PersistentPreRunE calls this before creating the directory structure.
func handleFirstRun(skillkitDirpath string) error {
	isFirst, err := config.IsFirstRun(skillkitDirpath)
	if err != nil {
		return stacktrace.Propagate(err, "failed to check first-run status")
	}
	if !isFirst {
		return nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil
	}

	fmt.Println("Welcome to skillkit! Setting up for the first time.")
	fmt.Printf("Run '%s %s' to configure credentials and visualization defaults.\n", skillkitCmdStr, setupCmdStr)
	fmt.Println()
	return nil
}

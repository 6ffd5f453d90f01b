// Command footprint estimates a carbon footprint from questionnaire answers
// and ranks the alternative answers that would change it.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/footprint/internal/cli"
	"github.com/rshade/footprint/internal/questionnaire"
	"github.com/rshade/footprint/internal/session"
	"github.com/rshade/footprint/pkg/version"
)

// Process exit codes.
const (
	exitOK                   = 0
	exitError                = 1
	exitInvalidQuestionnaire = 2
	exitIncompleteAnswers    = 3
)

func run(ctx context.Context) error {
	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(ctx)
}

// exitCode maps an error returned by run to the process exit status, so
// scripts can tell authoring errors and the planning gate from other
// failures.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, questionnaire.ErrInvalidQuestionnaire):
		return exitInvalidQuestionnaire
	case errors.Is(err, session.ErrIncompleteAnswers):
		return exitIncompleteAnswers
	default:
		return exitError
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

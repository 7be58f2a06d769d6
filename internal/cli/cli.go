// Package cli implements the runform command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	service "github.com/okian/runform/internal/app"
	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/i18n"
	"github.com/okian/runform/pkg/logger"
)

// Exit codes returned by ExitCode.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitInvalid = 2
)

type rootFlags struct {
	lang     string
	pretty   bool
	logLevel string
}

// NewRootCommand builds the runform command tree.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "runform",
		Short:         "Score running technique from joint-angle statistics",
		Long:          "runform scores a run across six technique categories, classifies the runner, detects technique errors and builds a training plan.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.lang, "lang", string(i18n.English), "label language for display values (en, ru)")
	pf.BoolVar(&flags.pretty, "pretty", false, "indent JSON output")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		newAnalyzeCommand(flags),
		newSimpleCommand(flags),
		newErrorsCommand(flags),
		newReportCommand(flags),
		newCompareCommand(flags),
		newLoadCommand(flags),
		newServeCommand(),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, model.ErrInvalidInput):
		return ExitInvalid
	default:
		return ExitFailure
	}
}

// Describe renders err for stderr, naming the offending field when there is one.
func Describe(err error) string {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("invalid input: field %s: %s", verr.Field, verr.Reason)
	}
	return err.Error()
}

// locale resolves --lang.
func (f *rootFlags) locale() (i18n.Locale, error) {
	loc, ok := i18n.Parse(f.lang)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocale, f.lang)
	}
	return loc, nil
}

// newService builds a Service logging to the command's stderr.
func (f *rootFlags) newService(cmd *cobra.Command) (*service.Service, error) {
	l, err := logger.New(
		logger.WithWriter(cmd.ErrOrStderr()),
		logger.WithLevel(f.logLevel),
		logger.WithSource(false),
	)
	if err != nil {
		return nil, err
	}
	return service.New(service.WithLogger(l.Named("cli"))), nil
}

package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opal-ir/opal/internal/compiler"
	"github.com/opal-ir/opal/internal/opcount"
	"github.com/opal-ir/opal/internal/runner"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Passes string
	Jobs   int

	// Tokens allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens runner.TokenGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <module.cue>",
		Short: "Run an analysis pipeline over a module",
		Long: `Compile a CUE module description and run an analysis pipeline over
every function in it.

Pass reports stream to stdout in module declaration order; diagnostics
go to stderr. The pipeline is a comma-separated list of registered pass
identifiers (see "opal passes").

Example:
  opal run demo.cue
  opal run demo.cue --passes opcode-counter --jobs 4 --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Passes, "passes", opcount.Name, "comma-separated pass pipeline")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 1, "max concurrent function analyses")

	return cmd
}

func runAnalysis(opts *RunOptions, path string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	logger.Debug("compiling module", "path", path)
	loaded, err := LoadModule(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	mod := loaded.Module

	// Passes assume validated IR, so gate on it here
	if errs := compiler.Validate(mod); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	r := runner.New(runner.Config{
		Pipeline: opts.Passes,
		Out:      cmd.OutOrStdout(),
		Jobs:     opts.Jobs,
		Tokens:   opts.Tokens,
		Logger:   logger,
	})

	result, err := r.Run(ctx, mod)
	if err != nil {
		return runErrorToExitError(err)
	}

	logger.Debug("run finished",
		"token", result.Token,
		"invocations", result.Invocations,
		"all_preserved", result.AllPreserved)
	return nil
}

// runErrorToExitError maps runner errors onto CLI exit codes. Unknown
// passes and other semantic failures exit 1; bad invocations and I/O
// problems exit 2; a cancelled run is not an error.
func runErrorToExitError(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}

	var runErr *runner.RunError
	if errors.As(err, &runErr) {
		switch runErr.Code {
		case runner.ErrCodeBadPipeline:
			return WrapExitError(ExitFailure, "pipeline resolution failed", err)
		case runner.ErrCodeBadJobs:
			return WrapExitError(ExitCommandError, "invalid jobs value", err)
		case runner.ErrCodeWriteFailed:
			return WrapExitError(ExitCommandError, "report output failed", err)
		}
	}
	return WrapExitError(ExitFailure, "run failed", err)
}

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opal-ir/opal/internal/compiler"
	"github.com/opal-ir/opal/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
	Check  bool   // validate only, emit no artifact
}

// ModuleStats holds summary statistics for a compiled module.
type ModuleStats struct {
	Functions    int `json:"functions"`
	Blocks       int `json:"blocks"`
	Instructions int `json:"instructions"`
}

// CompileData is the JSON success payload for the compile command.
type CompileData struct {
	Module      string      `json:"module"`
	Stats       ModuleStats `json:"stats"`
	Fingerprint string      `json:"fingerprint"`
	Output      string      `json:"output,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <module.cue>",
		Short: "Compile a CUE module description to canonical IR",
		Long: `Compile a CUE module description to canonical IR format.

The compiler parses the CUE file, validates the module against the IR
well-formedness rules, and emits canonical JSON. Without --output the
canonical IR goes to stdout, so diagnostics go to stderr.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "validate only, emit no canonical IR")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loaded, err := LoadModule(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	mod := loaded.Module
	formatter.VerboseLog("Compiled %s: module %q", path, mod.Name())

	// Validation failures are semantic errors (exit code 1)
	if errs := compiler.Validate(mod); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	data, err := ir.MarshalCanonical(ir.ModuleValue(mod))
	if err != nil {
		return WrapExitError(ExitCommandError, "encoding canonical IR", err)
	}

	stats := moduleStats(mod)

	if opts.Check {
		return outputCompileSuccess(formatter, mod, stats, "")
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, append(data, '\n'), 0644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("writing output file %s", opts.Output))
		}
		return outputCompileSuccess(formatter, mod, stats, opts.Output)
	}

	// Artifact mode: canonical IR on stdout, nothing else
	fmt.Fprintf(formatter.Writer, "%s\n", data)
	return nil
}

// moduleStats computes summary statistics for a module.
func moduleStats(mod *ir.Module) ModuleStats {
	stats := ModuleStats{
		Functions:    mod.FunctionCount(),
		Instructions: mod.InstructionCount(),
	}
	for _, fn := range mod.Functions() {
		stats.Blocks += fn.BlockCount()
	}
	return stats
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, mod *ir.Module, stats ModuleStats, outputFile string) error {
	fingerprint := ir.MustFingerprintModule(mod)

	if formatter.Format == "json" {
		return formatter.Success(CompileData{
			Module:      mod.Name(),
			Stats:       stats,
			Fingerprint: fingerprint,
			Output:      outputFile,
		})
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "%s Compiled module %q: %d function(s), %d instruction(s)\n",
		passMark(), mod.Name(), stats.Functions, stats.Instructions)
	fmt.Fprintf(formatter.Writer, "Fingerprint: %s\n", fingerprint)

	if stats.Functions > 0 {
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintln(formatter.Writer, "Functions:")
		for _, fn := range mod.Functions() {
			fmt.Fprintf(formatter.Writer, "  %s: %d block(s), %d instruction(s)\n",
				fn.Name(), fn.BlockCount(), fn.InstructionCount())
		}
	}

	if outputFile != "" {
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintf(formatter.Writer, "Wrote canonical IR to %s\n", outputFile)
	}

	return nil
}

// outputLoadError reports a loader failure. Load errors are
// command-level errors (exit code 2).
func outputLoadError(formatter *OutputFormatter, err error) error {
	code, message := ErrCodeGeneric, err.Error()
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code, message = loadErr.Code, loadErr.Message
	}
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

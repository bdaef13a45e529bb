package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opal-ir/opal/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool                       `json:"valid"`
	Module  string                     `json:"module,omitempty"`
	Modules int                        `json:"modules,omitempty"`
	Errors  []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <module.cue | modules-dir>",
		Short: "Validate module descriptions without emitting IR",
		Long: `Validate CUE module descriptions against the IR well-formedness rules.

Accepts a single module file or a directory, in which case every .cue
file under it is checked. Reports every violation found (empty blocks,
duplicate names, bad identifiers), not just the first one.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return runValidateDir(formatter, path)
	}

	loaded, err := LoadModule(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	formatter.VerboseLog("Validating module %q from %s", loaded.Module.Name(), path)

	if errs := compiler.Validate(loaded.Module); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	return outputValidateSuccess(formatter, loaded.Module.Name())
}

// runValidateDir validates every module description under dir. Files
// that fail to load are reported alongside validation errors so one run
// shows everything wrong with the directory.
func runValidateDir(formatter *OutputFormatter, dir string) error {
	modules, loadErrors := LoadModules(dir, LoadModeCollectAll)

	if len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			switch loadErr.Code {
			case ErrCodeNotFound, ErrCodeScanError, ErrCodeNoFiles:
				// Directory-level failure: nothing was loaded at all.
				return outputLoadError(formatter, loadErrors[0])
			}
		}
	}

	var allErrors []compiler.ValidationError
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			allErrors = append(allErrors, compiler.ValidationError{
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
			})
			continue
		}
		allErrors = append(allErrors, compiler.ValidationError{
			Field:   "load",
			Message: err.Error(),
			Code:    ErrCodeGeneric,
		})
	}

	for _, loaded := range modules {
		formatter.VerboseLog("Validating module %q from %s", loaded.Module.Name(), loaded.Path)
		allErrors = append(allErrors, compiler.Validate(loaded.Module)...)
	}

	if len(allErrors) > 0 {
		return outputValidationErrors(formatter, allErrors)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Modules: len(modules)})
	}
	fmt.Fprintf(formatter.Writer, "%s %d module(s) valid\n", passMark(), len(modules))
	return nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, moduleName string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Module: moduleName})
	}

	fmt.Fprintf(formatter.Writer, "%s Module %q is valid\n", passMark(), moduleName)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
// Validation failures are semantic errors (exit code 1).
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  false,
			Errors: errs,
		}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintf(formatter.Writer, "%s Validation failed\n\n", failMark())

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", err.Code, err.Field, err.Message)
	}
	fmt.Fprintln(formatter.Writer)

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

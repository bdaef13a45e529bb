package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"

	"github.com/opal-ir/opal/internal/compiler"
	"github.com/opal-ir/opal/internal/ir"
)

// LoadMode controls how errors are handled during module loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadedModule pairs a compiled module with the file it came from.
type LoadedModule struct {
	Module *ir.Module
	Path   string
}

// LoadError represents an error that occurred during module loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE parse failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // Module could not be built from CUE value
	ErrCodeWriteFailed = "E007" // File write error
)

// LoadModule loads and compiles a single CUE module description file.
func LoadModule(path string) (*LoadedModule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("module file not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error reading module file: %v", err)}
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("parsing CUE: %v", err)}
	}

	moduleVal := value.LookupPath(cue.ParsePath("module"))
	if !moduleVal.Exists() {
		return nil, &LoadError{
			Code:    ErrCodeBuildFailed,
			Message: fmt.Sprintf("no module declaration found in %s", path),
			Pos:     value.Pos(),
		}
	}

	mod, err := compiler.CompileModule(moduleVal)
	if err != nil {
		return nil, convertCompileError(err, ErrCodeBuildFailed)
	}

	return &LoadedModule{Module: mod, Path: path}, nil
}

// LoadModules loads every CUE module description under dir. Each file
// holds one module. Results come back in sorted path order so runs are
// reproducible regardless of filesystem iteration order.
func LoadModules(dir string, mode LoadMode) ([]*LoadedModule, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("modules directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing modules directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	var (
		modules []*LoadedModule
		errs    []error
	)
	for _, path := range cueFiles {
		loaded, err := LoadModule(path)
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return modules, errs
			}
			continue
		}
		modules = append(modules, loaded)
	}

	return modules, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths in
// sorted order.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with
// position info.
func convertCompileError(err error, code string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    code,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    code,
		Message: err.Error(),
	}
}

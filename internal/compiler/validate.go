package compiler

import (
	"fmt"

	"github.com/opal-ir/opal/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrBadModuleName     = "E100" // module name fails the identifier pattern
	ErrBadFunctionName   = "E101" // function name fails the identifier pattern
	ErrDuplicateFunction = "E102" // duplicate function name
	ErrBadBlockLabel     = "E103" // block label fails the identifier pattern
	ErrDuplicateBlock    = "E104" // duplicate block label within a function
	ErrEmptyBlock        = "E105" // block with no instructions
	ErrEmptyOpcode       = "E106" // instruction with empty op
)

// ValidationError represents a module validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled module against the well-formedness rules
// passes are allowed to assume. Returns all errors found (does not
// fail-fast).
//
// A function with zero blocks is legal; a block with zero instructions
// is not.
func Validate(mod *ir.Module) []ValidationError {
	var errs []ValidationError

	// E100: module name must be a valid identifier
	if !ir.ValidName(mod.Name()) {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("invalid module name: %q", mod.Name()),
			Code:    ErrBadModuleName,
		})
	}

	// Track names for duplicate detection
	fnNames := make(map[string]bool)

	for _, fn := range mod.Functions() {
		fnField := fmt.Sprintf("function.%s", fn.Name())

		// E101: function name must be a valid identifier
		if !ir.ValidName(fn.Name()) {
			errs = append(errs, ValidationError{
				Field:   fnField,
				Message: fmt.Sprintf("invalid function name: %q", fn.Name()),
				Code:    ErrBadFunctionName,
			})
		}

		// E102: duplicate function name
		if fnNames[fn.Name()] {
			errs = append(errs, ValidationError{
				Field:   fnField,
				Message: fmt.Sprintf("duplicate function name: %q", fn.Name()),
				Code:    ErrDuplicateFunction,
			})
		}
		fnNames[fn.Name()] = true

		errs = append(errs, validateBlocks(fn, fnField)...)
	}

	return errs
}

// validateBlocks checks the blocks and instructions of one function.
func validateBlocks(fn *ir.Function, fnField string) []ValidationError {
	var errs []ValidationError

	labels := make(map[string]bool)

	for _, block := range fn.Blocks() {
		blockField := fmt.Sprintf("%s.block.%s", fnField, block.Label())

		// E103: block label must be a valid identifier
		if !ir.ValidName(block.Label()) {
			errs = append(errs, ValidationError{
				Field:   blockField,
				Message: fmt.Sprintf("invalid block label: %q", block.Label()),
				Code:    ErrBadBlockLabel,
			})
		}

		// E104: duplicate block label
		if labels[block.Label()] {
			errs = append(errs, ValidationError{
				Field:   blockField,
				Message: fmt.Sprintf("duplicate block label: %q", block.Label()),
				Code:    ErrDuplicateBlock,
			})
		}
		labels[block.Label()] = true

		// E105: every block needs at least one instruction
		if block.InstructionCount() == 0 {
			errs = append(errs, ValidationError{
				Field:   blockField,
				Message: "block must contain at least one instruction",
				Code:    ErrEmptyBlock,
			})
		}

		// E106: every instruction needs an opcode
		for i := 0; i < block.InstructionCount(); i++ {
			if block.InstructionAt(i).Opcode() == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.instr[%d].op", blockField, i),
					Message: "instruction op must be non-empty",
					Code:    ErrEmptyOpcode,
				})
			}
		}
	}

	return errs
}

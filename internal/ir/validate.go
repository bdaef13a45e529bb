package ir

import (
	"fmt"
	"regexp"
)

// ValidationError represents a structural IR violation with the path to
// the offending element and a message.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// namePattern matches legal module, function, and block names.
// Leading letter or underscore, then letters, digits, and the separator
// characters that show up in mangled or suffixed names.
var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.$-]*$`)

// ValidName reports whether s is a legal module, function, or block name.
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}

// Validate checks the module against structural rules. All violations
// are collected rather than failing fast; an empty result means the
// module is well formed. Drivers validate before running passes, so
// passes may assume well-formed input.
//
// Rules:
//   - module, function, and block names match namePattern
//   - function names are unique within the module
//   - block labels are unique within their function
//   - every block holds at least one instruction (a function with zero
//     blocks is legal, an empty block is not)
//   - every instruction has a non-empty opcode name
func (m *Module) Validate() []ValidationError {
	var errs []ValidationError

	if !ValidName(m.name) {
		errs = append(errs, ValidationError{
			Field:   "module",
			Message: fmt.Sprintf("invalid module name %q", m.name),
		})
	}

	seen := make(map[string]bool, len(m.fns))
	for _, f := range m.fns {
		field := "function " + f.name
		if !ValidName(f.name) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid function name %q", f.name),
			})
		}
		if seen[f.name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "duplicate function name",
			})
		}
		seen[f.name] = true

		errs = append(errs, f.validate(field)...)
	}

	return errs
}

func (f *Function) validate(field string) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(f.blocks))
	for _, b := range f.blocks {
		bfield := fmt.Sprintf("%s block %s", field, b.label)
		if !ValidName(b.label) {
			errs = append(errs, ValidationError{
				Field:   bfield,
				Message: fmt.Sprintf("invalid block label %q", b.label),
			})
		}
		if seen[b.label] {
			errs = append(errs, ValidationError{
				Field:   bfield,
				Message: "duplicate block label",
			})
		}
		seen[b.label] = true

		if len(b.instrs) == 0 {
			errs = append(errs, ValidationError{
				Field:   bfield,
				Message: "block has no instructions",
			})
		}
		for i, in := range b.instrs {
			if in.op == "" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s instr %d", bfield, i),
					Message: "empty opcode name",
				})
			}
		}
	}

	return errs
}

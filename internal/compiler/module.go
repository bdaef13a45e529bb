package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/opal-ir/opal/internal/ir"
)

// CompileModule parses a CUE value into an ir.Module.
//
// The CUE value should be the module struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`module: { name: "demo", ... }`)
//	mod, err := CompileModule(v.LookupPath(cue.ParsePath("module")))
//
// Functions and blocks are keyed by label and compiled in declaration
// order, which is the order reports are emitted in.
func CompileModule(v cue.Value) (*ir.Module, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	// Module name (required)
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{
			Field:   "name",
			Message: "module name is required",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	// Functions (optional, can be empty)
	var fns []*ir.Function
	fnVal := v.LookupPath(cue.ParsePath("function"))
	if fnVal.Exists() {
		iter, err := fnVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}

		for iter.Next() {
			fn, err := CompileFunction(iter.Label(), iter.Value())
			if err != nil {
				return nil, err
			}
			fns = append(fns, fn)
		}
	}

	return ir.NewModule(name, fns), nil
}

// CompileFunction parses a single function struct keyed by name.
// A function with no block field compiles to a declaration with zero
// blocks, which is legal IR.
func CompileFunction(name string, v cue.Value) (*ir.Function, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var blocks []*ir.Block
	blockVal := v.LookupPath(cue.ParsePath("block"))
	if blockVal.Exists() {
		iter, err := blockVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}

		for iter.Next() {
			block, err := compileBlock(name, iter.Label(), iter.Value())
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, block)
		}
	}

	return ir.NewFunction(name, blocks), nil
}

// compileBlock parses one basic block. Instruction well-formedness
// beyond "op is a string" is left to Validate so the validate command
// can report everything at once.
func compileBlock(fnName, label string, v cue.Value) (*ir.Block, error) {
	var instrs []ir.Instruction

	instrVal := v.LookupPath(cue.ParsePath("instr"))
	if instrVal.Exists() {
		iter, err := instrVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}

		for i := 0; iter.Next(); i++ {
			field := fmt.Sprintf("function.%s.block.%s.instr[%d]", fnName, label, i)
			instr, err := compileInstruction(field, iter.Value())
			if err != nil {
				return nil, err
			}
			instrs = append(instrs, instr)
		}
	}

	return ir.NewBlock(label, instrs), nil
}

// compileInstruction parses one {op, operands?} struct.
func compileInstruction(field string, v cue.Value) (ir.Instruction, error) {
	opVal := v.LookupPath(cue.ParsePath("op"))
	if !opVal.Exists() {
		return ir.Instruction{}, &CompileError{
			Field:   field + ".op",
			Message: "instruction op is required",
			Pos:     v.Pos(),
		}
	}
	op, err := opVal.String()
	if err != nil {
		return ir.Instruction{}, formatCUEError(err)
	}

	var operands []string
	operandsVal := v.LookupPath(cue.ParsePath("operands"))
	if operandsVal.Exists() {
		iter, err := operandsVal.List()
		if err != nil {
			return ir.Instruction{}, formatCUEError(err)
		}
		for iter.Next() {
			operand, err := iter.Value().String()
			if err != nil {
				return ir.Instruction{}, formatCUEError(err)
			}
			operands = append(operands, operand)
		}
	}

	return ir.NewInstruction(op, operands...), nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

package testutil

import "github.com/opal-ir/opal/internal/ir"

// BlockOf builds a block from bare opcodes. Operand-carrying
// instructions should use ir.NewInstruction directly.
func BlockOf(label string, ops ...string) *ir.Block {
	instrs := make([]ir.Instruction, 0, len(ops))
	for _, op := range ops {
		instrs = append(instrs, ir.NewInstruction(op))
	}
	return ir.NewBlock(label, instrs)
}

// FunctionOf builds a function from blocks.
func FunctionOf(name string, blocks ...*ir.Block) *ir.Function {
	return ir.NewFunction(name, blocks)
}

// ModuleOf builds a module from functions.
func ModuleOf(name string, fns ...*ir.Function) *ir.Module {
	return ir.NewModule(name, fns)
}

package ir

// ModuleValue encodes a module as a canonical value tree. Functions,
// blocks, and instructions appear in declaration order; object keys
// marshal in canonical order.
func ModuleValue(m *Module) IRObject {
	fns := make(IRArray, 0, m.FunctionCount())
	for i := 0; i < m.FunctionCount(); i++ {
		fns = append(fns, FunctionValue(m.FunctionAt(i)))
	}
	return IRObject{
		"ir_version": IRString(IRVersion),
		"name":       IRString(m.Name()),
		"functions":  fns,
	}
}

// FunctionValue encodes a function as a canonical value tree.
func FunctionValue(f *Function) IRObject {
	blocks := make(IRArray, 0, f.BlockCount())
	for i := 0; i < f.BlockCount(); i++ {
		blocks = append(blocks, blockValue(f.BlockAt(i)))
	}
	return IRObject{
		"name":   IRString(f.Name()),
		"blocks": blocks,
	}
}

func blockValue(b *Block) IRObject {
	instrs := make(IRArray, 0, b.InstructionCount())
	for i := 0; i < b.InstructionCount(); i++ {
		instrs = append(instrs, instructionValue(b.InstructionAt(i)))
	}
	return IRObject{
		"label": IRString(b.Label()),
		"instr": instrs,
	}
}

func instructionValue(in Instruction) IRObject {
	operands := in.Operands()
	ops := make(IRArray, 0, len(operands))
	for _, o := range operands {
		ops = append(ops, IRString(o))
	}
	return IRObject{
		"op":       IRString(in.Opcode()),
		"operands": ops,
	}
}

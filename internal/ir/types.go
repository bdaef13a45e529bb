package ir

import "strings"

// Instruction is a single IR instruction: an opcode name plus zero or
// more operand strings. Operands are opaque at this layer; analysis
// passes that only care about opcodes never look at them.
type Instruction struct {
	op       string
	operands []string
}

// NewInstruction constructs an instruction. The operand slice is copied.
func NewInstruction(op string, operands ...string) Instruction {
	return Instruction{op: op, operands: append([]string(nil), operands...)}
}

// Opcode returns the opcode name, e.g. "add" or "br".
func (in Instruction) Opcode() string { return in.op }

// Operands returns a copy of the operand list.
func (in Instruction) Operands() []string {
	return append([]string(nil), in.operands...)
}

// String renders the instruction in assembly-like form: "add %x, %y".
func (in Instruction) String() string {
	if len(in.operands) == 0 {
		return in.op
	}
	return in.op + " " + strings.Join(in.operands, ", ")
}

// Block is a basic block: a labeled, ordered run of instructions.
type Block struct {
	label  string
	instrs []Instruction
}

// NewBlock constructs a block. The instruction slice is copied.
func NewBlock(label string, instrs []Instruction) *Block {
	return &Block{label: label, instrs: append([]Instruction(nil), instrs...)}
}

// Label returns the block label, e.g. "entry".
func (b *Block) Label() string { return b.label }

// InstructionCount returns the number of instructions in the block.
func (b *Block) InstructionCount() int { return len(b.instrs) }

// InstructionAt returns the instruction at index i.
// Panics if i is out of range, matching slice semantics.
func (b *Block) InstructionAt(i int) Instruction { return b.instrs[i] }

// Instructions returns a copy of the block's instruction list.
func (b *Block) Instructions() []Instruction {
	return append([]Instruction(nil), b.instrs...)
}

// Function is a named, ordered sequence of basic blocks. A function with
// zero blocks is legal and represents an empty body.
type Function struct {
	name   string
	blocks []*Block
}

// NewFunction constructs a function. The block slice is copied.
func NewFunction(name string, blocks []*Block) *Function {
	return &Function{name: name, blocks: append([]*Block(nil), blocks...)}
}

// Name returns the function name.
func (f *Function) Name() string { return f.name }

// BlockCount returns the number of basic blocks.
func (f *Function) BlockCount() int { return len(f.blocks) }

// BlockAt returns the block at index i.
// Panics if i is out of range, matching slice semantics.
func (f *Function) BlockAt(i int) *Block { return f.blocks[i] }

// Blocks returns a copy of the block list.
func (f *Function) Blocks() []*Block {
	return append([]*Block(nil), f.blocks...)
}

// EntryBlock returns the first block. The second return is false for a
// function with an empty body.
func (f *Function) EntryBlock() (*Block, bool) {
	if len(f.blocks) == 0 {
		return nil, false
	}
	return f.blocks[0], true
}

// InstructionCount returns the total instruction count across all blocks.
func (f *Function) InstructionCount() int {
	total := 0
	for _, b := range f.blocks {
		total += len(b.instrs)
	}
	return total
}

// Module is a named, ordered collection of functions. Order is the
// declaration order from the source and drives processing order.
type Module struct {
	name string
	fns  []*Function
}

// NewModule constructs a module. The function slice is copied.
func NewModule(name string, fns []*Function) *Module {
	return &Module{name: name, fns: append([]*Function(nil), fns...)}
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// FunctionCount returns the number of functions.
func (m *Module) FunctionCount() int { return len(m.fns) }

// FunctionAt returns the function at index i.
// Panics if i is out of range, matching slice semantics.
func (m *Module) FunctionAt(i int) *Function { return m.fns[i] }

// Functions returns a copy of the function list.
func (m *Module) Functions() []*Function {
	return append([]*Function(nil), m.fns...)
}

// Function looks up a function by name. The second return is false when
// no function with that name exists.
func (m *Module) Function(name string) (*Function, bool) {
	for _, f := range m.fns {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

// InstructionCount returns the total instruction count across all
// functions.
func (m *Module) InstructionCount() int {
	total := 0
	for _, f := range m.fns {
		total += f.InstructionCount()
	}
	return total
}

// Package opcount implements the opcode-counter analysis pass: for each
// function it is run on, a histogram of opcode occurrences printed as a
// fixed-format report.
//
// The pass is purely observational. It never mutates the function, it
// keeps no state between invocations, and it always reports that every
// cached analysis remains valid.
package opcount

import (
	"io"
	"log/slog"
	"sort"

	"github.com/opal-ir/opal/internal/ir"
	"github.com/opal-ir/opal/internal/pass"
)

// Name is the pipeline identifier the pass registers under. Lookup is
// exact: nothing else selects this pass.
const Name = "opcode-counter"

// Plugin metadata reported to the host.
const (
	pluginName    = "OpcodeCounter"
	pluginVersion = "1.0"
)

// Info returns the plugin metadata descriptor.
func Info() pass.PluginInfo {
	return pass.PluginInfo{
		APIVersion: pass.PluginAPIVersion,
		Name:       pluginName,
		Version:    pluginVersion,
	}
}

func init() {
	pass.MustRegister(Info(), Name, func(opts pass.Options) pass.FunctionPass {
		return New(opts.Output())
	})
}

// RegisterPipeline is the registration hook form of pipeline extension:
// when name is exactly Name, a new counter instance writing to the
// options' output is appended to fm and the hook reports a match. On
// any other name fm is left untouched.
func RegisterPipeline(name string, fm *pass.FunctionManager, opts pass.Options) bool {
	if name != Name {
		return false
	}
	fm.Add(New(opts.Output()))
	return true
}

// Histogram maps opcode names to occurrence counts within one function.
// Each pass invocation builds a fresh histogram; histograms are never
// shared or reused across functions.
type Histogram map[string]int

// Total returns the sum of all counts, which equals the instruction
// count of the counted function.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// Opcodes returns opcode names in ascending lexicographic order, the
// order count lines appear in the report.
func (h Histogram) Opcodes() []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CountFunction walks every instruction in every basic block of fn, in
// block order then instruction order, and returns a fresh histogram of
// opcode occurrences. fn is read-only.
func CountFunction(fn *ir.Function) Histogram {
	hist := make(Histogram)
	for i := 0; i < fn.BlockCount(); i++ {
		b := fn.BlockAt(i)
		for j := 0; j < b.InstructionCount(); j++ {
			hist[b.InstructionAt(j).Opcode()]++
		}
	}
	return hist
}

// Counter is the opcode-counter function pass. Its only state is the
// report writer; counting state lives inside each Run call.
type Counter struct {
	out io.Writer
}

// New creates a counter that writes reports to out.
func New(out io.Writer) *Counter {
	return &Counter{out: out}
}

// Name returns the pipeline identifier.
func (c *Counter) Name() string {
	return Name
}

// Run counts opcode occurrences in fn and writes the report. The
// function is never mutated, so every cached analysis stays valid. A
// report write failure is logged and does not affect the result: the
// counting itself succeeded and there is nowhere better to say so.
func (c *Counter) Run(fn *ir.Function, am *pass.AnalysisManager) pass.PreservedAnalyses {
	hist := CountFunction(fn)
	if err := WriteReport(c.out, fn.Name(), hist); err != nil {
		slog.Warn("report write failed",
			"pass", Name,
			"function", fn.Name(),
			"error", err)
	}
	return pass.PreservedAll()
}

package pass

import "github.com/opal-ir/opal/internal/ir"

// FunctionManager holds an ordered list of function passes. Order of
// addition is execution order and never changes after construction of
// the pipeline.
type FunctionManager struct {
	passes []FunctionPass
}

// NewFunctionManager creates an empty manager.
func NewFunctionManager() *FunctionManager {
	return &FunctionManager{}
}

// Add appends a pass to the end of the pipeline.
func (m *FunctionManager) Add(p FunctionPass) {
	m.passes = append(m.passes, p)
}

// Len returns the number of passes in the pipeline.
func (m *FunctionManager) Len() int {
	return len(m.passes)
}

// PassNames returns pass names in execution order.
func (m *FunctionManager) PassNames() []string {
	names := make([]string, len(m.passes))
	for i, p := range m.passes {
		names[i] = p.Name()
	}
	return names
}

// RunFunction runs every pass on fn in pipeline order and intersects
// their preserved-analyses results. An empty pipeline preserves
// everything.
func (m *FunctionManager) RunFunction(fn *ir.Function, am *AnalysisManager) PreservedAnalyses {
	preserved := PreservedAll()
	for _, p := range m.passes {
		preserved = preserved.Intersect(p.Run(fn, am))
	}
	return preserved
}

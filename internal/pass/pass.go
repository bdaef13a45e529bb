package pass

import (
	"io"
	"os"

	"github.com/opal-ir/opal/internal/ir"
)

// FunctionPass is a unit of analysis applied to one function at a time.
//
// Run must treat fn as read-only. A pass instance may be invoked for
// many functions over its lifetime and must not carry state from one
// invocation into the next: anything per-function is local to Run.
type FunctionPass interface {
	// Name returns the pipeline identifier of the pass.
	Name() string

	// Run applies the pass to fn and reports which cached analyses
	// remain valid afterwards.
	Run(fn *ir.Function, am *AnalysisManager) PreservedAnalyses
}

// PreservedAnalyses reports which cached analyses survive a pass run.
// Per-analysis tracking is reserved for transformation passes; today the
// value is all-or-nothing, kept as a type so pass signatures already
// have the final shape.
type PreservedAnalyses struct {
	all bool
}

// PreservedAll reports that the pass left every analysis valid. This is
// what analysis-only passes return.
func PreservedAll() PreservedAnalyses {
	return PreservedAnalyses{all: true}
}

// PreservedNone reports that the pass may have invalidated anything.
func PreservedNone() PreservedAnalyses {
	return PreservedAnalyses{all: false}
}

// AllPreserved reports whether every analysis survived.
func (p PreservedAnalyses) AllPreserved() bool {
	return p.all
}

// Intersect combines two results. An analysis counts as preserved only
// if both operands preserved it.
func (p PreservedAnalyses) Intersect(other PreservedAnalyses) PreservedAnalyses {
	return PreservedAnalyses{all: p.all && other.all}
}

// AnalysisManager is the opaque per-module handle passed to every pass
// invocation. It reserves the slot where cached analysis lookup will
// live; current passes accept it to satisfy the calling convention and
// never use it.
type AnalysisManager struct {
	// No exported state. Passes must not depend on anything in here.
}

// NewAnalysisManager creates an analysis manager for one module run.
func NewAnalysisManager() *AnalysisManager {
	return &AnalysisManager{}
}

// Options configures pass construction.
type Options struct {
	// Out is where printing passes write their reports.
	// Nil means os.Stdout.
	Out io.Writer
}

// Output returns the configured report writer, defaulting to os.Stdout.
func (o Options) Output() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

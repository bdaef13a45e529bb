package harness

import "github.com/opal-ir/opal/internal/opcount"

// RunResult captures the outcome of running a scenario.
type RunResult struct {
	// Pass indicates whether every assertion held.
	Pass bool

	// Report holds the bytes the pipeline wrote, in module order.
	Report []byte

	// Histograms maps each function name to its opcode histogram.
	Histograms map[string]opcount.Histogram

	// Failures lists assertion failures in evaluation order.
	Failures []string
}

// NewRunResult creates a result that passes until a failure is added.
func NewRunResult() *RunResult {
	return &RunResult{
		Pass:       true,
		Histograms: make(map[string]opcount.Histogram),
	}
}

// AddFailure records an assertion failure and marks the result failed.
func (r *RunResult) AddFailure(msg string) {
	r.Failures = append(r.Failures, msg)
	r.Pass = false
}

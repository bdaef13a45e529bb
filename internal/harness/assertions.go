package harness

import (
	"bytes"
	"fmt"

	"github.com/opal-ir/opal/internal/opcount"
	"github.com/opal-ir/opal/internal/runner"
)

// AssertionError provides detailed information about an assertion
// failure, including expected and actual values.
type AssertionError struct {
	Type     string
	Function string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	msg := fmt.Sprintf("Assertion failed: %s", e.Type)
	if e.Function != "" {
		msg += fmt.Sprintf(" (function %s)", e.Function)
	}
	msg += fmt.Sprintf("\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return msg
}

// EvaluateAssertions checks all assertions against the run result and
// returns a list of failure messages. An empty list means every
// assertion held.
func EvaluateAssertions(result *RunResult, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string

	for _, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertOpcodeCount:
			err = assertOpcodeCount(result.Histograms, assertion)
		case AssertTotalCount:
			err = assertTotalCount(result.Histograms, assertion)
		case AssertAllPreserved:
			err = assertAllPreserved(actx.Run)
		case AssertIdempotent:
			err = assertIdempotent(result, actx)
		case AssertReportGolden:
			// Golden comparison happens in the caller, which owns the
			// golden file location.
		default:
			err = fmt.Errorf("unknown assertion type: %s", assertion.Type)
		}
		if err != nil {
			failures = append(failures, err.Error())
		}
	}

	return failures
}

// assertOpcodeCount checks that an opcode appears the expected number
// of times in a function. A count of zero asserts absence.
func assertOpcodeCount(hists map[string]opcount.Histogram, a Assertion) error {
	hist, ok := hists[a.Function]
	if !ok {
		return fmt.Errorf("function %q not found in module", a.Function)
	}

	actual := hist[a.Opcode]
	if actual != a.Count {
		return &AssertionError{
			Type:     AssertOpcodeCount,
			Function: a.Function,
			Expected: fmt.Sprintf("%d occurrence(s) of %q", a.Count, a.Opcode),
			Actual:   fmt.Sprintf("%d occurrence(s) of %q", actual, a.Opcode),
		}
	}

	return nil
}

// assertTotalCount checks that a function's histogram sums to the
// expected instruction count.
func assertTotalCount(hists map[string]opcount.Histogram, a Assertion) error {
	hist, ok := hists[a.Function]
	if !ok {
		return fmt.Errorf("function %q not found in module", a.Function)
	}

	actual := hist.Total()
	if actual != a.Count {
		return &AssertionError{
			Type:     AssertTotalCount,
			Function: a.Function,
			Expected: fmt.Sprintf("%d instruction(s)", a.Count),
			Actual:   fmt.Sprintf("%d instruction(s)", actual),
		}
	}

	return nil
}

// assertAllPreserved checks that every pass invocation reported all
// analyses preserved.
func assertAllPreserved(run *runner.Result) error {
	if !run.AllPreserved {
		return &AssertionError{
			Type:     AssertAllPreserved,
			Expected: "all analyses preserved",
			Actual:   "at least one invocation invalidated analyses",
		}
	}
	return nil
}

// assertIdempotent checks that re-running the pipeline produced
// byte-identical output and left the module unchanged.
func assertIdempotent(result *RunResult, actx *AssertionContext) error {
	if !bytes.Equal(result.Report, actx.SecondReport) {
		return &AssertionError{
			Type:     AssertIdempotent,
			Expected: "identical report on re-run",
			Actual:   "report bytes differ between runs",
		}
	}

	if actx.FingerprintBefore != actx.FingerprintAfter {
		return &AssertionError{
			Type:     AssertIdempotent,
			Expected: fmt.Sprintf("module fingerprint %s", actx.FingerprintBefore),
			Actual:   fmt.Sprintf("module fingerprint %s", actx.FingerprintAfter),
		}
	}

	return nil
}

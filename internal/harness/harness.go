package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/opal-ir/opal/internal/compiler"
	"github.com/opal-ir/opal/internal/ir"
	"github.com/opal-ir/opal/internal/opcount"
	"github.com/opal-ir/opal/internal/runner"
	"github.com/opal-ir/opal/internal/testutil"
)

// AssertionContext carries the run artifacts assertions evaluate
// against, beyond what RunResult itself records.
type AssertionContext struct {
	// Module is the compiled module the pipeline ran over.
	Module *ir.Module

	// Run summarizes the first pipeline run.
	Run *runner.Result

	// SecondReport holds the report bytes of the re-run. Populated
	// only when the scenario carries an idempotent assertion.
	SecondReport []byte

	// FingerprintBefore and FingerprintAfter frame the re-run so
	// idempotent assertions can detect module mutation.
	FingerprintBefore string
	FingerprintAfter  string
}

// Run executes a scenario and evaluates its assertions.
// Errors are reserved for scenarios that cannot execute at all
// (unreadable module, compile or validation failure, unknown pass);
// assertion failures land in the result instead.
func Run(scenario *Scenario) (*RunResult, error) {
	mod, err := compileModuleFile(scenario.Module)
	if err != nil {
		return nil, err
	}

	if errs := compiler.Validate(mod); len(errs) > 0 {
		return nil, fmt.Errorf("module %s failed validation: %s", scenario.Module, errs[0].Error())
	}

	pipeline := scenario.Pipeline
	if pipeline == "" {
		pipeline = opcount.Name
	}

	// Suppress logs during scenario runs
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := testutil.NewFixedTokenGenerator("")

	fingerprintBefore := ir.MustFingerprintModule(mod)

	report, runSummary, err := runPipeline(mod, pipeline, scenario.Jobs, tokens, logger)
	if err != nil {
		return nil, err
	}

	result := NewRunResult()
	result.Report = report
	for _, fn := range mod.Functions() {
		result.Histograms[fn.Name()] = opcount.CountFunction(fn)
	}

	actx := &AssertionContext{
		Module:            mod,
		Run:               runSummary,
		FingerprintBefore: fingerprintBefore,
	}

	if scenario.HasAssertion(AssertIdempotent) {
		second, _, err := runPipeline(mod, pipeline, scenario.Jobs, tokens, logger)
		if err != nil {
			return nil, err
		}
		actx.SecondReport = second
		actx.FingerprintAfter = ir.MustFingerprintModule(mod)
	}

	for _, failure := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddFailure(failure)
	}

	return result, nil
}

// runPipeline runs the pipeline over the module and captures the
// report bytes alongside the run summary.
func runPipeline(mod *ir.Module, pipeline string, jobs int, tokens runner.TokenGenerator, logger *slog.Logger) ([]byte, *runner.Result, error) {
	var buf bytes.Buffer
	r := runner.New(runner.Config{
		Pipeline: pipeline,
		Out:      &buf,
		Jobs:     jobs,
		Tokens:   tokens,
		Logger:   logger,
	})
	summary, err := r.Run(context.Background(), mod)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline run failed: %w", err)
	}
	return buf.Bytes(), summary, nil
}

// compileModuleFile reads a CUE file and compiles its module
// declaration into IR.
func compileModuleFile(path string) (*ir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module file: %w", err)
	}

	value := cuecontext.New().CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("parsing CUE: %w", err)
	}

	moduleValue := value.LookupPath(cue.ParsePath("module"))
	if !moduleValue.Exists() {
		return nil, fmt.Errorf("no module declaration found in %s", path)
	}

	return compiler.CompileModule(moduleValue)
}

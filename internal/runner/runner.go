package runner

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/opal-ir/opal/internal/ir"
	"github.com/opal-ir/opal/internal/pass"
)

// Config configures a Runner. Zero values select sensible defaults:
// the process-wide registry, stdout, sequential execution, UUIDv7
// tokens, and the default slog logger.
type Config struct {
	// Registry resolves pipeline identifiers. Nil means
	// pass.DefaultRegistry().
	Registry *pass.Registry

	// Pipeline is the comma-separated pass pipeline description,
	// e.g. "opcode-counter".
	Pipeline string

	// Out receives pass reports. Nil means os.Stdout.
	Out io.Writer

	// Jobs caps concurrent per-function invocations. Values of 0 and 1
	// run sequentially; negative values are rejected.
	Jobs int

	// Tokens generates per-run correlation tokens. Nil means UUIDv7.
	Tokens TokenGenerator

	// Logger receives run diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Result summarizes one module run.
type Result struct {
	// Token is the correlation token this run logged under.
	Token string

	// Module is the analyzed module's name.
	Module string

	// Functions is the number of functions the pipeline visited.
	Functions int

	// Invocations is the total number of pass invocations
	// (functions times pipeline length).
	Invocations int

	// AllPreserved reports whether every invocation left all cached
	// analyses valid.
	AllPreserved bool
}

// Runner applies one pass pipeline to modules.
type Runner struct {
	registry *pass.Registry
	pipeline string
	out      io.Writer
	jobs     int
	tokens   TokenGenerator
	logger   *slog.Logger
}

// New creates a Runner from cfg.
func New(cfg Config) *Runner {
	r := &Runner{
		registry: cfg.Registry,
		pipeline: cfg.Pipeline,
		out:      cfg.Out,
		jobs:     cfg.Jobs,
		tokens:   cfg.Tokens,
		logger:   cfg.Logger,
	}
	if r.registry == nil {
		r.registry = pass.DefaultRegistry()
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.tokens == nil {
		r.tokens = UUIDv7Generator{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run applies the pipeline to every function of mod in declaration
// order. The pipeline is resolved once up front, so an unknown pass
// identifier fails the run before any function is processed.
//
// Functions are read-only throughout: a completed run leaves every
// function fingerprint exactly as it found it.
func (r *Runner) Run(ctx context.Context, mod *ir.Module) (*Result, error) {
	if r.jobs < 0 {
		return nil, &RunError{Code: ErrCodeBadJobs, Message: "jobs must not be negative"}
	}

	// Resolve the pipeline against the shared writer. Parallel mode
	// re-resolves per function with private buffers; this up-front parse
	// is what guarantees unknown identifiers fail before any invocation.
	fm, err := r.registry.ParsePipeline(r.pipeline, pass.Options{Out: r.out})
	if err != nil {
		return nil, &RunError{Code: ErrCodeBadPipeline, Message: "cannot resolve pipeline", Err: err}
	}

	token := r.tokens.Generate()
	logger := r.logger.With("run", token, "module", mod.Name())

	logger.Info("run starting",
		"passes", fm.PassNames(),
		"functions", mod.FunctionCount(),
		"jobs", r.jobs)

	am := pass.NewAnalysisManager()

	var allPreserved bool
	if r.jobs > 1 {
		allPreserved, err = r.runParallel(ctx, mod, am, logger)
	} else {
		allPreserved, err = r.runSequential(ctx, mod, fm, am, logger)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Token:        token,
		Module:       mod.Name(),
		Functions:    mod.FunctionCount(),
		Invocations:  mod.FunctionCount() * fm.Len(),
		AllPreserved: allPreserved,
	}

	logger.Info("run complete",
		"functions", result.Functions,
		"invocations", result.Invocations,
		"all_preserved", result.AllPreserved)

	return result, nil
}

// runSequential invokes the shared pipeline on one function at a time.
// Reports go straight to the shared writer in module order.
func (r *Runner) runSequential(ctx context.Context, mod *ir.Module, fm *pass.FunctionManager, am *pass.AnalysisManager, logger *slog.Logger) (bool, error) {
	allPreserved := true
	for i := 0; i < mod.FunctionCount(); i++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		fn := mod.FunctionAt(i)
		preserved := fm.RunFunction(fn, am)
		if !preserved.AllPreserved() {
			allPreserved = false
		}
		logger.Debug("function analyzed",
			"function", fn.Name(),
			"instructions", fn.InstructionCount(),
			"all_preserved", preserved.AllPreserved())
	}
	return allPreserved, nil
}

// runParallel fans invocations out over an errgroup. Every function
// gets a fresh pipeline instance writing into a private buffer, and the
// buffers are flushed in module order once the group is done, keeping
// the output bytes identical to a sequential run.
func (r *Runner) runParallel(ctx context.Context, mod *ir.Module, am *pass.AnalysisManager, logger *slog.Logger) (bool, error) {
	n := mod.FunctionCount()
	bufs := make([]bytes.Buffer, n)
	preserved := make([]bool, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	for i := 0; i < n; i++ {
		fn := mod.FunctionAt(i)
		buf := &bufs[i]
		idx := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fm, err := r.registry.ParsePipeline(r.pipeline, pass.Options{Out: buf})
			if err != nil {
				return &RunError{Code: ErrCodeBadPipeline, Message: "cannot resolve pipeline", Err: err}
			}
			p := fm.RunFunction(fn, am)
			preserved[idx] = p.AllPreserved()
			logger.Debug("function analyzed",
				"function", fn.Name(),
				"instructions", fn.InstructionCount(),
				"all_preserved", p.AllPreserved())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return false, err
	}

	for i := 0; i < n; i++ {
		if _, err := r.out.Write(bufs[i].Bytes()); err != nil {
			return false, &RunError{
				Code:    ErrCodeWriteFailed,
				Message: "cannot flush report for " + mod.FunctionAt(i).Name(),
				Err:     err,
			}
		}
	}

	allPreserved := true
	for _, p := range preserved {
		if !p {
			allPreserved = false
		}
	}
	return allPreserved, nil
}

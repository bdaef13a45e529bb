// Package runner drives pass pipelines over modules.
//
// A Runner owns one pipeline description and one report writer. Run
// resolves the pipeline against the pass registry once up front, then
// invokes it on every function of a module in declaration order.
//
// Concurrency model:
//   - Jobs <= 1 (default): invocations are synchronous, one at a time,
//     writing reports straight to the shared writer.
//   - Jobs > 1: up to Jobs invocations run concurrently, each against a
//     fresh pipeline instance bound to a private buffer. Buffers are
//     flushed to the shared writer in module order after all
//     invocations finish, so the output bytes are identical to a
//     sequential run.
//
// Either way a function is analyzed by exactly one invocation per
// pipeline element, and reports never interleave.
package runner

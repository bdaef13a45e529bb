// Package pass defines the function pass framework: the pass interface,
// the manager that runs passes over a function, and the registry that
// maps pipeline identifiers to pass factories.
//
// Registration follows the database/sql driver pattern: a pass package
// registers a factory under its pipeline identifier from an init
// function, and pipeline parsing resolves identifiers by exact string
// match against the process-wide registry. There is no reflection and
// no pattern matching in dispatch.
//
// Passes receive functions read-only. A pass that needs to report
// findings writes to the io.Writer it was constructed with; it never
// mutates the IR it is handed.
package pass

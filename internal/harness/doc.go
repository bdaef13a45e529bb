// Package harness provides scenario-based conformance testing for
// analysis pipelines.
//
// The harness compiles a CUE module description, runs a pass pipeline
// over it, and validates the resulting histograms and report bytes
// against declared assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	module: path/to/module.cue
//	pipeline: opcode-counter
//	jobs: 4
//	assertions:
//	  - type: opcode_count
//	    function: foo
//	    opcode: add
//	    count: 2
//	  - type: total_count
//	    function: foo
//	    count: 4
//	  - type: report_golden
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - opcode_count: Verifies an opcode appears exactly N times in a function
//   - total_count: Verifies a function's histogram sums to N instructions
//   - report_golden: Verifies the report bytes against a golden file
//   - all_preserved: Verifies every invocation preserved all analyses
//   - idempotent: Verifies re-running yields identical reports and fingerprints
//
// # Deterministic Testing
//
// Scenarios execute with a fixed run token, and reports flush in module
// declaration order regardless of the jobs setting, so repeated runs
// produce byte-identical output for golden comparison.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/demo.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, failure := range result.Failures {
//	        log.Println(failure)
//	    }
//	}
package harness

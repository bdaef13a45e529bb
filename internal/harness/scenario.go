package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios run an analysis pipeline over a compiled module and assert
// on the resulting histograms and report bytes.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Module is the path to the CUE module description to compile.
	// Relative paths are resolved against the scenario file location
	// by LoadScenarioWithBasePath.
	Module string `yaml:"module"`

	// Pipeline is the comma-separated pass pipeline to run.
	// Empty means the opcode counter alone.
	Pipeline string `yaml:"pipeline,omitempty"`

	// Jobs caps concurrent function analyses. Zero means sequential.
	Jobs int `yaml:"jobs,omitempty"`

	// Assertions validate the histograms and the report.
	// Supported types: opcode_count, total_count, report_golden,
	// all_preserved, idempotent.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of a pipeline run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "opcode_count": opcode appears exactly Count times in Function
	// - "total_count": Function holds exactly Count instructions
	// - "report_golden": report bytes match the scenario's golden file
	// - "all_preserved": every invocation reported all analyses preserved
	// - "idempotent": re-running produces identical reports and leaves
	//   function fingerprints unchanged
	Type string `yaml:"type"`

	// Function names the function under test (opcode_count, total_count).
	Function string `yaml:"function,omitempty"`

	// Opcode is the opcode whose count is checked (opcode_count).
	Opcode string `yaml:"opcode,omitempty"`

	// Count is the expected number of occurrences (opcode_count,
	// total_count). Zero asserts absence.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertOpcodeCount  = "opcode_count"
	AssertTotalCount   = "total_count"
	AssertReportGolden = "report_golden"
	AssertAllPreserved = "all_preserved"
	AssertIdempotent   = "idempotent"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, "")
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the module path relative to the provided base path.
// This is useful when scenario files reference modules using relative
// paths.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve module path relative to base path BEFORE validation
	if scenario.Module != "" && !filepath.IsAbs(scenario.Module) && basePath != "" {
		scenario.Module = filepath.Join(basePath, scenario.Module)
	}

	// Validate required fields (now with resolved path)
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// HasAssertion reports whether the scenario carries an assertion of
// the given type.
func (s *Scenario) HasAssertion(typ string) bool {
	for _, a := range s.Assertions {
		if a.Type == typ {
			return true
		}
	}
	return false
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Module == "" {
		return fmt.Errorf("module is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	// Validate module path exists
	if _, err := os.Stat(s.Module); os.IsNotExist(err) {
		return fmt.Errorf("module file not found: %s", s.Module)
	}

	if s.Jobs < 0 {
		return fmt.Errorf("jobs must be non-negative")
	}

	// Validate assertions
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOpcodeCount:
		if a.Function == "" {
			return fmt.Errorf("assertions[%d]: function is required for opcode_count", index)
		}
		if a.Opcode == "" {
			return fmt.Errorf("assertions[%d]: opcode is required for opcode_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for opcode_count", index)
		}
	case AssertTotalCount:
		if a.Function == "" {
			return fmt.Errorf("assertions[%d]: function is required for total_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for total_count", index)
		}
	case AssertReportGolden, AssertAllPreserved, AssertIdempotent:
		// No extra fields
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

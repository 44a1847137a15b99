package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tempus/internal/base"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Type is the temporal type of inputs that do not name their own.
	Type string `yaml:"type"`

	// Inputs maps names to temporal literals.
	Inputs map[string]Input `yaml:"inputs"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`
}

// Input is a named temporal literal. In YAML it is either a plain string or
// a mapping with type and literal.
type Input struct {
	Type    string `yaml:"type"`
	Literal string `yaml:"literal"`
}

// UnmarshalYAML accepts the scalar shorthand.
func (in *Input) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		in.Literal = node.Value
		return nil
	}
	type plain Input
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*in = Input(p)
	return nil
}

// Step applies one operation to named inputs.
type Step struct {
	// Op is the operation name.
	Op string `yaml:"op"`

	// Input names the first operand.
	Input string `yaml:"input"`

	// With names the second operand of binary operations.
	With string `yaml:"with,omitempty"`

	// Args holds operation parameters. Scalars are coerced with cast, so
	// YAML numbers and strings are interchangeable.
	Args map[string]any `yaml:"args,omitempty"`

	// Save names the temporal result for later steps.
	Save string `yaml:"save,omitempty"`

	// Expect is checked against the step result when present.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the expected outcome of a step.
type Expect struct {
	// Output is the expected result literal.
	Output string `yaml:"output,omitempty"`

	// Other is the expected second result of synchronize.
	Other string `yaml:"other,omitempty"`

	// Empty expects that the operation produced no value.
	Empty bool `yaml:"empty,omitempty"`

	// Error is the expected error code.
	Error string `yaml:"error,omitempty"`

	// Crossings lists the expected crossing timestamps of synchronize.
	Crossings []string `yaml:"crossings,omitempty"`
}

// Operation names.
const (
	OpValueAt         = "value_at"
	OpAtTimestamp     = "at_timestamp"
	OpAtPeriod        = "at_period"
	OpMinusPeriod     = "minus_period"
	OpAtPeriodSet     = "at_period_set"
	OpMinusPeriodSet  = "minus_period_set"
	OpSynchronize     = "synchronize"
	OpNormalize       = "normalize"
	OpLift            = "lift"
	OpEverEq          = "ever_eq"
	OpAlwaysEq        = "always_eq"
	OpEncodeRoundTrip = "encode_roundtrip"
	OpStoreRoundTrip  = "store_roundtrip"
)

// opArgs lists the required args of each operation.
var opArgs = map[string][]string{
	OpValueAt:         {"at"},
	OpAtTimestamp:     {"at"},
	OpAtPeriod:        {"period"},
	OpMinusPeriod:     {"period"},
	OpAtPeriodSet:     {"periods"},
	OpMinusPeriodSet:  {"periods"},
	OpSynchronize:     {},
	OpNormalize:       {},
	OpLift:            {"fn"},
	OpEverEq:          {"value"},
	OpAlwaysEq:        {"value"},
	OpEncodeRoundTrip: {},
	OpStoreRoundTrip:  {},
}

// binaryOps need a second operand in With.
var binaryOps = map[string]bool{
	OpSynchronize: true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "step:" vs "steps:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario, base.NewRegistry()); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir, ordered by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and that every
// step refers to inputs defined before it.
func validateScenario(s *Scenario, reg *base.Registry) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Inputs) == 0 {
		return fmt.Errorf("inputs are required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps are required and must be non-empty")
	}

	defined := make(map[string]bool, len(s.Inputs))
	for name, in := range s.Inputs {
		typeName := in.Type
		if typeName == "" {
			typeName = s.Type
		}
		if typeName == "" {
			return fmt.Errorf("inputs.%s: type is required when the scenario has none", name)
		}
		if _, ok := reg.Lookup(typeName); !ok {
			return fmt.Errorf("inputs.%s: unknown type %q", name, typeName)
		}
		if in.Literal == "" {
			return fmt.Errorf("inputs.%s: literal is required", name)
		}
		defined[name] = true
	}

	for i, step := range s.Steps {
		required, ok := opArgs[step.Op]
		if !ok {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if !defined[step.Input] {
			return fmt.Errorf("steps[%d]: input %q is not defined", i, step.Input)
		}
		if binaryOps[step.Op] && step.With == "" {
			return fmt.Errorf("steps[%d]: %s requires with", i, step.Op)
		}
		if step.With != "" && !defined[step.With] {
			return fmt.Errorf("steps[%d]: with %q is not defined", i, step.With)
		}
		for _, arg := range required {
			if _, ok := step.Args[arg]; !ok {
				return fmt.Errorf("steps[%d]: %s requires args.%s", i, step.Op, arg)
			}
		}
		if step.Save != "" {
			defined[step.Save] = true
		}
	}
	return nil
}

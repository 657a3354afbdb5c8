package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/nodegen/internal/emit"
)

// Scenario defines a conformance test scenario for one node.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Spec is the CUE file or directory declaring the node.
	Spec string `yaml:"spec"`

	// Node selects the node by display name. May be empty when the specs file
	// declares exactly one node.
	Node string `yaml:"node,omitempty"`

	// Options are passed to the generator.
	Options Options `yaml:"options,omitempty"`

	// Assertions validate the generator output.
	Assertions []Assertion `yaml:"assertions"`
}

// Options mirror the generator naming options.
type Options struct {
	EnumPrefix string `yaml:"enum_prefix,omitempty"`
	NodeType   string `yaml:"node_type,omitempty"`
}

// Emit converts the scenario options to generator options.
func (o Options) Emit() emit.Options {
	return emit.Options{EnumPrefix: o.EnumPrefix, NodeType: o.NodeType}
}

// Assertion validates one aspect of the generated output.
type Assertion struct {
	// Type specifies the assertion type:
	// - "storage": expect is "inline" or "struct"
	// - "words": words lists every header word's encode expression
	// - "guard": expect is the guard rendered for socket
	// - "fragment_contains": fragment contains text
	// - "fragment_absent": fragment was not generated
	// - "error": generation fails with expect in the message
	Type string `yaml:"type"`

	// Expect is the expected value (used by storage, guard, error).
	Expect string `yaml:"expect,omitempty"`

	// Socket is the output socket name (used by guard).
	Socket string `yaml:"socket,omitempty"`

	// Fragment is the fragment name (used by fragment_contains, fragment_absent).
	Fragment string `yaml:"fragment,omitempty"`

	// Text must appear in the fragment (used by fragment_contains).
	Text string `yaml:"text,omitempty"`

	// Words are the expected encode expressions (used by words).
	Words []string `yaml:"words,omitempty"`
}

// Assertion type constants.
const (
	AssertStorage          = "storage"
	AssertWords            = "words"
	AssertGuard            = "guard"
	AssertFragmentContains = "fragment_contains"
	AssertFragmentAbsent   = "fragment_absent"
	AssertError            = "error"
)

// LoadScenario reads and parses a scenario YAML file, resolving the specs file
// path relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the specs path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	// Resolve the specs path BEFORE validation
	if scenario.Spec != "" && !filepath.IsAbs(scenario.Spec) && basePath != "" {
		scenario.Spec = filepath.Join(basePath, scenario.Spec)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if _, err := os.Stat(scenario.Spec); err != nil {
		return nil, fmt.Errorf("invalid scenario: spec not found: %s", scenario.Spec)
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML without touching the filesystem.
// The specs path is left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Spec == "" {
		return fmt.Errorf("spec is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
		if assertion.Type == AssertError && len(s.Assertions) > 1 {
			return fmt.Errorf("assertions[%d]: error must be the only assertion", i)
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
	case AssertStorage:
		if a.Expect != "inline" && a.Expect != "struct" {
			return fmt.Errorf("assertions[%d]: storage expect must be \"inline\" or \"struct\", got %q", index, a.Expect)
		}
	case AssertWords:
		if len(a.Words) == 0 {
			return fmt.Errorf("assertions[%d]: words list is required for words", index)
		}
	case AssertGuard:
		if a.Socket == "" {
			return fmt.Errorf("assertions[%d]: socket is required for guard", index)
		}
		if a.Expect == "" {
			return fmt.Errorf("assertions[%d]: expect is required for guard", index)
		}
	case AssertFragmentContains:
		if a.Fragment == "" || a.Text == "" {
			return fmt.Errorf("assertions[%d]: fragment and text are required for fragment_contains", index)
		}
	case AssertFragmentAbsent:
		if a.Fragment == "" {
			return fmt.Errorf("assertions[%d]: fragment is required for fragment_absent", index)
		}
	case AssertError:
		if a.Expect == "" {
			return fmt.Errorf("assertions[%d]: expect is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

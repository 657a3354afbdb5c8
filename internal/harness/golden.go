package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/nodegen/internal/emit"
	"github.com/roach88/nodegen/internal/ir"
	"github.com/roach88/nodegen/internal/packing"
)

// Snapshot captures the generator output for one scenario.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string
	Node         string
	Storage      string
	Words        []string
	Fragments    []emit.Fragment
}

// NewSnapshot captures a successful generation.
func NewSnapshot(scenarioName string, gen *emit.Result) Snapshot {
	return Snapshot{
		ScenarioName: scenarioName,
		Node:         gen.Plan.Schema.Name,
		Storage:      gen.Plan.Layout.Strategy.String(),
		Words:        packing.Encode(gen.Plan.Words),
		Fragments:    gen.Fragments,
	}
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON serialization.
func (s *Snapshot) toCanonicalMap() map[string]any {
	words := make([]any, len(s.Words))
	for i, w := range s.Words {
		words[i] = w
	}

	frags := make([]any, len(s.Fragments))
	for i, f := range s.Fragments {
		frags[i] = map[string]any{
			"backend": string(f.Backend),
			"name":    f.Name,
			"text":    f.Text,
		}
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"node":          s.Node,
		"storage":       s.Storage,
		"words":         words,
		"fragments":     frags,
	}
}

// MarshalCanonical serializes the snapshot.
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the generated fragments
// against a golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the output doesn't match the golden file. Scenarios expecting a
// generation error have no golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if result.Generation == nil {
		return result, nil
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	if result.Generation == nil {
		return fmt.Errorf("scenario %s: no output to compare: %v", scenarioName, result.GenerateError)
	}

	snapshot := NewSnapshot(scenarioName, result.Generation)
	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}

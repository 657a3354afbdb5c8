package harness

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/nodegen/internal/compiler"
	"github.com/roach88/nodegen/internal/emit"
)

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Load the CUE spec and compile the selected node
// 2. Generate every fragment with the scenario options
// 3. Evaluate assertions against the output
//
// A spec that fails to load or compile is an error. A node that fails to
// generate is a result, checked by the scenario's error assertion.
func Run(scenario *Scenario) (*Result, error) {
	schema, err := compiler.LoadNode(scenario.Spec, scenario.Node)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult(schema.Name)
	result.Generation, result.GenerateError = emit.Generate(schema, scenario.Options.Emit())

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	Logger().Debug("scenario finished",
		zap.String("scenario", scenario.Name),
		zap.String("node", schema.Name),
		zap.Bool("pass", result.Pass),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

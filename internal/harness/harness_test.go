package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nodesSpec = filepath.Join("testdata", "specs", "nodes.cue")

func TestRun_ScenarioFiles(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_FailingAssertionsAreReported(t *testing.T) {
	s := &Scenario{
		Name:        "wrong",
		Description: "every assertion is wrong",
		Spec:        nodesSpec,
		Node:        "Dropdowns",
		Assertions: []Assertion{
			{Type: AssertStorage, Expect: "struct"},
			{Type: AssertGuard, Socket: "Color", Expect: "dropdown1 == PROP1"},
			{Type: AssertGuard, Socket: "Fac", Expect: "true"},
			{Type: AssertFragmentAbsent, Fragment: "ui_update"},
			{Type: AssertFragmentContains, Fragment: "dna_struct", Text: "int x;"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "Expected: struct")
	assert.Contains(t, result.Errors[0], "Actual: inline")
	assert.Contains(t, result.Errors[1], "Actual: dropdown1 != PROP2")
	assert.Contains(t, result.Errors[2], "socket has no availability table")
	assert.Contains(t, result.Errors[3], "fragment generated")
	assert.Contains(t, result.Errors[4], "fragment not generated")
}

func TestRun_UnexpectedGenerationFailure(t *testing.T) {
	s := &Scenario{
		Name:        "crowded_storage",
		Description: "overflowing node checked as if it generated",
		Spec:        nodesSpec,
		Node:        "Crowded",
		Assertions:  []Assertion{{Type: AssertStorage, Expect: "inline"}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Nil(t, result.Generation)
	require.Error(t, result.GenerateError)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "generation to succeed")
}

func TestRun_ExpectedErrorButGenerated(t *testing.T) {
	s := &Scenario{
		Name:        "dropdowns_error",
		Description: "expects a failure that never happens",
		Spec:        nodesSpec,
		Node:        "Dropdowns",
		Assertions:  []Assertion{{Type: AssertError, Expect: "overflow"}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "generation succeeded")
}

func TestRun_UnknownNode(t *testing.T) {
	s := &Scenario{
		Name:        "ghost",
		Description: "names a node the specs file does not declare",
		Spec:        nodesSpec,
		Node:        "Ghost",
		Assertions:  []Assertion{{Type: AssertStorage, Expect: "inline"}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node "Ghost" not found`)
}

func TestRun_NodeRequiredForMultiNodeSpec(t *testing.T) {
	s := &Scenario{
		Name:        "unnamed",
		Description: "omits the node in a spec with several",
		Spec:        nodesSpec,
		Assertions:  []Assertion{{Type: AssertStorage, Expect: "inline"}},
	}

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares 4 nodes")
}

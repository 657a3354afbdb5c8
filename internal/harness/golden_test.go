package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodegen/internal/emit"
)

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"dropdowns", "brick_texture"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRunWithGolden_ErrorScenarioHasNoSnapshot(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/crowded.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Nil(t, result.Generation)
}

func TestAssertGolden_RequiresOutput(t *testing.T) {
	err := AssertGolden(t, "none", &Result{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no output to compare")
}

func TestSnapshotCanonical(t *testing.T) {
	snap := Snapshot{
		ScenarioName: "s",
		Node:         "N",
		Storage:      "inline",
		Words:        []string{"a_stack_offset"},
		Fragments:    []emit.Fragment{{Backend: emit.BackendUI, Name: "ui_init", Text: "x <&> y\n"}},
	}

	data, err := snap.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"fragments":[{"backend":"ui","name":"ui_init","text":"x <&> y\n"}],"node":"N","scenario_name":"s","storage":"inline","words":["a_stack_offset"]}`,
		string(data))
}

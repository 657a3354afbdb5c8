package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ResolvesSpecRelativeToFile(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/dropdowns.yaml")
	require.NoError(t, err)

	assert.Equal(t, "dropdowns", s.Name)
	assert.Equal(t, "Dropdowns", s.Node)
	assert.Equal(t, filepath.Join("testdata", "specs", "nodes.cue"), s.Spec)
	require.Len(t, s.Assertions, 5)
	assert.Equal(t, AssertGuard, s.Assertions[2].Type)
	assert.Equal(t, "Color", s.Assertions[2].Socket)
}

func TestLoadScenario_Options(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/brick_texture.yaml")
	require.NoError(t, err)

	assert.Equal(t, "SHD_BRICK", s.Options.EnumPrefix)
	assert.Equal(t, "SHD_BRICK", s.Options.Emit().EnumPrefix)
	assert.Empty(t, s.Options.NodeType)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MissingSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: s
description: d
spec: nowhere.cue
assertions:
  - type: storage
    expect: inline
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spec not found")
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: s
description: d
spec: a.cue
assertion:
  - type: storage
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateScenario(t *testing.T) {
	valid := func() *Scenario {
		return &Scenario{
			Name:        "s",
			Description: "d",
			Spec:        "a.cue",
			Assertions:  []Assertion{{Type: AssertStorage, Expect: "inline"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr string
	}{
		{"valid", func(*Scenario) {}, ""},
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"missing description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"missing spec", func(s *Scenario) { s.Spec = "" }, "spec is required"},
		{"no assertions", func(s *Scenario) { s.Assertions = nil }, "assertions list is required"},
		{"bad storage", func(s *Scenario) { s.Assertions[0].Expect = "heap" }, "storage expect must be"},
		{"empty type", func(s *Scenario) { s.Assertions[0].Type = "" }, "type is required"},
		{"unknown type", func(s *Scenario) { s.Assertions[0].Type = "trace_order" }, "unknown assertion type"},
		{"guard without socket", func(s *Scenario) {
			s.Assertions[0] = Assertion{Type: AssertGuard, Expect: "true"}
		}, "socket is required"},
		{"words without list", func(s *Scenario) {
			s.Assertions[0] = Assertion{Type: AssertWords}
		}, "words list is required"},
		{"fragment_contains without text", func(s *Scenario) {
			s.Assertions[0] = Assertion{Type: AssertFragmentContains, Fragment: "ui_init"}
		}, "fragment and text are required"},
		{"error mixed with others", func(s *Scenario) {
			s.Assertions = append(s.Assertions, Assertion{Type: AssertError, Expect: "overflow"})
		}, "error must be the only assertion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := validateScenario(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

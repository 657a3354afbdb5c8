package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs a subcommand through the root so global flags apply.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCmd(t, NewRootCommand(), args...)
}

func executeCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	if args == nil {
		args = []string{} // nil makes cobra fall back to os.Args
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestGenerateText(t *testing.T) {
	out, err := execute(t, "generate", "--node", "Dropdowns", "testdata/specs")
	require.NoError(t, err)

	assert.Contains(t, out, "== Dropdowns ==\n-- bytecode/svm_node_type --\nNODE_DROPDOWNS,\n")
	assert.Contains(t, out, "-- ui/ui_update --\n")
	assert.NotContains(t, out, "Brick Texture")
}

func TestGenerateJSON(t *testing.T) {
	out, err := execute(t, "generate", "--format", "json", "--enum-prefix", "SHD_BRICK", "testdata/specs")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   []NodeOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 2)

	brick := resp.Data[1]
	assert.Equal(t, "Brick Texture", brick.Node)
	assert.Equal(t, "struct", brick.Storage)
	assert.Len(t, brick.SchemaHash, 64)
	assert.Empty(t, brick.RunID)

	var enums string
	for _, f := range brick.Fragments {
		if f.Name == "dna_enums" {
			enums = f.Text
		}
	}
	assert.Contains(t, enums, "SHD_BRICK_EASING = 1,")
}

func TestGenerateNodeType(t *testing.T) {
	out, err := execute(t, "generate", "--node", "Dropdowns", "--node-type", "NODE_CUSTOM_DROPDOWNS", "testdata/specs")
	require.NoError(t, err)
	assert.Contains(t, out, "NODE_CUSTOM_DROPDOWNS,\n")
	assert.NotContains(t, out, "NODE_DROPDOWNS")
}

func TestGenerateOutputDirectory(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "generate", "--node", "Brick Texture", "--output", dir, "testdata/specs")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Brick Texture:")

	data, err := os.ReadFile(filepath.Join(dir, "brick_texture", "dna_struct.inc"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "typedef struct NodeTexBrickTexture {")

	_, err = os.Stat(filepath.Join(dir, "brick_texture", "svm_kernel.inc"))
	assert.NoError(t, err)
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantExit int
		wantText string
	}{
		{"unknown node", []string{"generate", "--node", "Noise", "testdata/specs"}, ExitCommandError, "E008"},
		{"missing specs", []string{"generate", "testdata/nowhere"}, ExitCommandError, "E005"},
		{"compile error", []string{"generate", "testdata/broken"}, ExitFailure, "E103"},
		{"header overflow", []string{"generate", "--node", "Crowded", "testdata/invalid"}, ExitFailure, "header overflow"},
		{"ambiguous", []string{"generate", "--node", "Blocked", "testdata/invalid"}, ExitFailure, "unavailable for every value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.Contains(t, out, tt.wantText)
		})
	}
}

func TestGenerateRecordsRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	out, err := execute(t, "generate", "--format", "json", "--node", "Dropdowns", "--db", db, "testdata/specs")
	require.NoError(t, err)
	var first struct {
		Data []NodeOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	require.Len(t, first.Data, 1)
	require.NotEmpty(t, first.Data[0].RunID)

	// Unchanged output reuses the recorded run.
	out, err = execute(t, "generate", "--format", "json", "--node", "Dropdowns", "--db", db, "testdata/specs")
	require.NoError(t, err)
	var second struct {
		Data []NodeOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.Equal(t, first.Data[0].RunID, second.Data[0].RunID)

	// A different enum prefix changes the output and records a new run.
	out, err = execute(t, "generate", "--format", "json", "--node", "Dropdowns", "--enum-prefix", "SHD_DD", "--db", db, "testdata/specs")
	require.NoError(t, err)
	var third struct {
		Data []NodeOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &third))
	assert.NotEqual(t, first.Data[0].RunID, third.Data[0].RunID)
}

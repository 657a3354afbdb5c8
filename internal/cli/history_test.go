package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordHistory(t *testing.T, db string, extra ...string) {
	t.Helper()
	args := append([]string{"generate", "--db", db}, extra...)
	_, err := execute(t, append(args, "testdata/specs")...)
	require.NoError(t, err)
}

func TestHistoryListsRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	recordHistory(t, db)
	recordHistory(t, db) // unchanged, nothing new
	recordHistory(t, db, "--node", "Dropdowns", "--enum-prefix", "SHD_DD")

	out, err := execute(t, "history", "--format", "json", "--db", db)
	require.NoError(t, err)

	var resp struct {
		Data HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Runs, 3)
	assert.Equal(t, "Dropdowns", resp.Data.Runs[0].Node)
	assert.Equal(t, "Brick Texture", resp.Data.Runs[1].Node)
	assert.Equal(t, "SHD_DD", resp.Data.Runs[2].Options["enum_prefix"])
	for i, r := range resp.Data.Runs {
		assert.Equal(t, int64(i+1), r.Seq)
	}
	assert.Empty(t, resp.Data.Fragments)

	out, err = execute(t, "history", "--db", db, "--node", "Brick Texture")
	require.NoError(t, err)
	assert.Contains(t, out, "Brick Texture")
	assert.Contains(t, out, "struct")
	assert.NotContains(t, out, "Dropdowns")
}

func TestHistoryFilters(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	recordHistory(t, db)
	recordHistory(t, db, "--node", "Dropdowns", "--enum-prefix", "SHD_DD")

	tests := []struct {
		name  string
		args  []string
		nodes []string
	}{
		{"storage", []string{"--storage", "struct"}, []string{"Brick Texture"}},
		{"since", []string{"--since", "2"}, []string{"Brick Texture", "Dropdowns"}},
		{"node and storage", []string{"--node", "Dropdowns", "--storage", "inline"}, []string{"Dropdowns", "Dropdowns"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"history", "--format", "json", "--db", db}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err)

			var resp struct {
				Data HistoryResult `json:"data"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			var nodes []string
			for _, r := range resp.Data.Runs {
				nodes = append(nodes, r.Node)
			}
			assert.Equal(t, tt.nodes, nodes)
		})
	}
}

func TestHistoryFragments(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	recordHistory(t, db, "--node", "Dropdowns")
	recordHistory(t, db, "--node", "Dropdowns", "--node-type", "NODE_DD")

	out, err := execute(t, "history", "--db", db, "--node", "Dropdowns", "--fragments")
	require.NoError(t, err)
	assert.Contains(t, out, "-- bytecode/svm_node_type --\nNODE_DD,\n")
	assert.NotContains(t, out, "NODE_DROPDOWNS,")
}

func TestHistoryEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	recordHistory(t, db, "--node", "Dropdowns")

	out, err := execute(t, "history", "--db", db, "--node", "Noise")
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", out)
}

func TestHistoryFailures(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	recordHistory(t, db, "--node", "Dropdowns")

	tests := []struct {
		name     string
		args     []string
		wantText string
	}{
		{"missing database", []string{"history", "--db", filepath.Join(t.TempDir(), "none.db")}, "E005"},
		{"fragments without node", []string{"history", "--db", db, "--fragments"}, "--fragments needs --node"},
		{"bad storage", []string{"history", "--db", db, "--storage", "heap"}, "must be inline or struct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, tt.wantText)
		})
	}
}

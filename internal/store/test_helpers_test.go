package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory with fixed run IDs.
func createTestStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if len(ids) > 0 {
		s.SetIDGenerator(NewFixedGenerator(ids...))
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(node, schemaHash string) Run {
	return Run{
		Node:             node,
		SchemaHash:       schemaHash,
		GeneratorVersion: "0.1.0",
		Storage:          "inline",
		Words:            3,
	}
}

func testFragments(kernel string) []Fragment {
	return []Fragment{
		{Name: "svm_node_type", Backend: "bytecode", Text: "NODE_MIX,\n"},
		{Name: "svm_kernel", Backend: "bytecode", Text: kernel},
	}
}

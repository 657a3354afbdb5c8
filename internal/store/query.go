package store

import (
	"github.com/roach88/nodegen/internal/queryir"
	"github.com/roach88/nodegen/internal/querysql"
)

// runColumnList is the scan order of scanRun.
var runColumnList = []string{
	"id",
	queryir.FieldNode,
	queryir.FieldSchemaHash,
	queryir.FieldOutputHash,
	queryir.FieldGeneratorVersion,
	queryir.FieldStorage,
	queryir.FieldWords,
	"options",
	queryir.FieldSeq,
}

var runQueries = querysql.NewSQLCompiler(runColumnList...)

// RunFilter narrows ListRuns. Zero fields match every run.
type RunFilter struct {
	Node     string
	Storage  string // "inline" or "struct"
	SinceSeq int64  // only runs with seq >= SinceSeq
}

func (f RunFilter) predicate() queryir.Predicate {
	var node, storage, since queryir.Predicate
	if f.Node != "" {
		node = queryir.Equals{Field: queryir.FieldNode, Value: f.Node}
	}
	if f.Storage != "" {
		storage = queryir.Equals{Field: queryir.FieldStorage, Value: f.Storage}
	}
	if f.SinceSeq > 0 {
		since = queryir.AtLeast{Field: queryir.FieldSeq, Value: f.SinceSeq}
	}
	return queryir.Where(node, storage, since)
}

// Package querysql compiles history queries to parameterized SQLite SQL.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/nodegen/internal/queryir"
)

// SQLCompiler compiles queryir queries to parameterized SQL for SQLite.
//
// Every query orders by seq with id as tiebreaker. Values are always
// bound as parameters, never interpolated.
type SQLCompiler struct {
	// DefaultColumns is selected when a query names no columns.
	DefaultColumns []string
}

// NewSQLCompiler creates a compiler selecting defaultColumns by default.
func NewSQLCompiler(defaultColumns ...string) *SQLCompiler {
	return &SQLCompiler{DefaultColumns: defaultColumns}
}

// Compile converts a query to SQL and its parameters. Queries that fail
// queryir.Validate are rejected with every problem listed.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if problems := queryir.Validate(q); len(problems) > 0 {
		return "", nil, fmt.Errorf("invalid query: %s", strings.Join(problems, "; "))
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	cols := q.Columns
	if len(cols) == 0 {
		cols = c.DefaultColumns
	}
	selectClause := "*"
	if len(cols) > 0 {
		selectClause = strings.Join(cols, ", ")
	}

	var b strings.Builder
	var params []any
	fmt.Fprintf(&b, "SELECT %s FROM %s", selectClause, q.From)

	if q.Filter != nil {
		where, whereParams, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		b.WriteString(" WHERE " + where)
		params = whereParams
	}

	b.WriteString(" ORDER BY " + stableOrderKey(q.Order))

	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, int64(q.Limit))
	}

	return b.String(), params, nil
}

// stableOrderKey orders by sequence number with the run ID as tiebreaker.
// COLLATE BINARY keeps text ordering identical across SQLite builds.
func stableOrderKey(o queryir.Order) string {
	if o == queryir.Descending {
		return "seq DESC, id COLLATE BINARY DESC"
	}
	return "seq ASC, id COLLATE BINARY ASC"
}

func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case queryir.Equals:
		return compileEquals(pred)
	case *queryir.Equals:
		return compileEquals(*pred)
	case queryir.AtLeast:
		return fmt.Sprintf("%s >= ?", pred.Field), []any{pred.Value}, nil
	case *queryir.AtLeast:
		return fmt.Sprintf("%s >= ?", pred.Field), []any{pred.Value}, nil
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileEquals(eq queryir.Equals) (string, []any, error) {
	param, err := toParam(eq.Value)
	if err != nil {
		return "", nil, fmt.Errorf("field %s: %w", eq.Field, err)
	}
	return fmt.Sprintf("%s = ?", eq.Field), []any{param}, nil
}

func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, predParams, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		if _, nested := pred.(queryir.And); nested {
			sql = "(" + sql + ")"
		}
		parts = append(parts, sql)
		params = append(params, predParams...)
	}
	return strings.Join(parts, " AND "), params, nil
}

// toParam converts a predicate value to a driver parameter.
func toParam(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %T", v)
	}
}

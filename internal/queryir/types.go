package queryir

// TableRuns holds one row per recorded generation run.
const TableRuns = "generation_runs"

// Filterable columns of TableRuns.
const (
	FieldNode             = "node_name"
	FieldStorage          = "storage"
	FieldSchemaHash       = "schema_hash"
	FieldOutputHash       = "output_hash"
	FieldGeneratorVersion = "generator_version"
	FieldWords            = "words"
	FieldSeq              = "seq"
)

// fields maps each filterable column to whether it holds an integer.
var fields = map[string]bool{
	FieldNode:             false,
	FieldStorage:          false,
	FieldSchemaHash:       false,
	FieldOutputHash:       false,
	FieldGeneratorVersion: false,
	FieldWords:            true,
	FieldSeq:              true,
}

// Query is a sealed interface implemented only by Select.
type Query interface {
	queryNode()
}

// Predicate is a sealed filter condition.
//
// Predicate types:
//   - Equals: field = value
//   - AtLeast: integer field >= value
//   - And: all predicates hold
type Predicate interface {
	predicateNode()
}

// Order is the direction of the sequence ordering.
type Order uint8

const (
	Ascending Order = iota
	Descending
)

// Select reads rows of one table.
//
//	SELECT <columns> FROM <from> WHERE <filter> ORDER BY seq [DESC] LIMIT <limit>
//
// Columns empty selects the backend's full row. Limit zero means no limit.
type Select struct {
	From    string
	Columns []string
	Filter  Predicate // nil = every row
	Order   Order
	Limit   int
}

func (Select) queryNode() {}

// Equals holds when the field equals Value. Value is a string or an
// integer.
type Equals struct {
	Field string
	Value any
}

func (Equals) predicateNode() {}

// AtLeast holds when an integer field is at least Value.
type AtLeast struct {
	Field string
	Value int64
}

func (AtLeast) predicateNode() {}

// And holds when every predicate holds. An empty And always holds.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Where joins the non-nil predicates into a filter: nil for none, the
// predicate itself for one, an And otherwise.
func Where(preds ...Predicate) Predicate {
	var kept []Predicate
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Predicates: kept}
	}
}

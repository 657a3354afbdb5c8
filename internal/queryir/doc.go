// Package queryir describes queries over the generation history without
// committing to a storage backend.
//
// A query is a Select over one history table with an optional filter
// built from sealed predicate types:
//
//	Select{
//	  From:  TableRuns,
//	  Filter: And{Predicates: []Predicate{
//	    Equals{Field: FieldNode, Value: "Brick Texture"},
//	    AtLeast{Field: FieldSeq, Value: 10},
//	  }},
//	  Order: Descending,
//	  Limit: 1,
//	}
//
// Query and Predicate are sealed with marker methods so backends can switch
// exhaustively. Results are always ordered by sequence number; wall-clock
// time never decides order.
//
// Validate reports every problem in a query. Backends compile only queries
// that validate cleanly.
package queryir

package availability

import (
	"fmt"

	"github.com/roach88/nodegen/internal/ir"
)

// Reduce derives the minimal guard for one dependency table.
//
// Properties available for every value are dropped. A property unavailable
// for exactly one value becomes p != v. Otherwise the clause is built on
// the minority literal set: equality when strictly fewer values enable the
// socket than disable it, inequality on ties. At most one property may need
// more than one literal; anything else is an *AmbiguousAvailabilityError.
func Reduce(s *ir.NodeSchema, dep ir.Dependency) (*Guard, error) {
	sock, ok := s.Socket(dep.Socket)
	if !ok {
		return nil, &ir.SchemaError{Field: "availability", Message: fmt.Sprintf("unknown socket %q", dep.Socket)}
	}
	if sock.Direction != ir.DirOut {
		return nil, &ir.SchemaError{Field: "availability", Message: fmt.Sprintf("socket %q is not an output", dep.Socket)}
	}

	table, err := groupRows(s, dep)
	if err != nil {
		return nil, err
	}

	g := &Guard{Socket: dep.Socket}
	multi := ""
	for _, p := range s.Properties {
		name := p.PropertyName()
		rows, ok := table[name]
		if !ok {
			continue
		}

		domain, _ := ir.Domain(p)
		var enabled, disabled []string
		for _, v := range domain {
			avail, ok := rows[v]
			if !ok {
				return nil, &AmbiguousAvailabilityError{Socket: dep.Socket, Property: name,
					Reason: fmt.Sprintf("table is not exhaustive: no row for %q", v)}
			}
			if avail {
				enabled = append(enabled, v)
			} else {
				disabled = append(disabled, v)
			}
		}

		if len(disabled) == 0 {
			continue
		}
		if len(enabled) == 0 {
			return nil, &AmbiguousAvailabilityError{Socket: dep.Socket, Property: name,
				Reason: "socket is unavailable for every value"}
		}

		c := Clause{Property: p, Op: OpNe, Values: disabled}
		if len(disabled) > 1 && len(enabled) < len(disabled) {
			c = Clause{Property: p, Op: OpEq, Values: enabled}
		}

		if len(c.Values) > 1 {
			if multi != "" {
				return nil, &AmbiguousAvailabilityError{Socket: dep.Socket,
					Reason: fmt.Sprintf("properties %q and %q both need multi-value clauses", multi, name)}
			}
			multi = name
		}
		g.Clauses = append(g.Clauses, c)
	}

	return g, nil
}

// groupRows indexes rows by property then value, rejecting rows that
// cannot belong to a finite table.
func groupRows(s *ir.NodeSchema, dep ir.Dependency) (map[string]map[string]bool, error) {
	table := make(map[string]map[string]bool)
	for _, row := range dep.Rows {
		p, _, ok := s.Property(row.Property)
		if !ok {
			return nil, &ir.SchemaError{Field: "availability", Message: fmt.Sprintf("unknown property %q", row.Property)}
		}

		domain, finite := ir.Domain(p)
		if !finite {
			return nil, &AmbiguousAvailabilityError{Socket: dep.Socket, Property: row.Property,
				Reason: fmt.Sprintf("%s properties have no finite set of values", p.Kind())}
		}
		if !contains(domain, row.Value) {
			return nil, &AmbiguousAvailabilityError{Socket: dep.Socket, Property: row.Property,
				Reason: fmt.Sprintf("%q is not a value of the property", row.Value)}
		}

		values, ok := table[row.Property]
		if !ok {
			values = make(map[string]bool)
			table[row.Property] = values
		}
		if prev, seen := values[row.Value]; seen && prev != row.Available {
			return nil, &AmbiguousAvailabilityError{Socket: dep.Socket, Property: row.Property,
				Reason: fmt.Sprintf("conflicting rows for %q", row.Value)}
		}
		values[row.Value] = row.Available
	}
	return table, nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

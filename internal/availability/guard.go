package availability

import (
	"fmt"
	"strings"

	"github.com/roach88/nodegen/internal/ir"
)

// Op is the comparison a clause applies to each of its literals.
type Op uint8

const (
	OpNe Op = iota + 1 // available unless the property holds one of Values
	OpEq               // available only while the property holds one of Values
)

// Clause constrains one property.
type Clause struct {
	Property ir.Property
	Op       Op
	Values   []string // literal values in declaration order
}

// Allows reports whether the clause admits value.
func (c Clause) Allows(value string) bool {
	for _, v := range c.Values {
		if v == value {
			return c.Op == OpEq
		}
	}
	return c.Op == OpNe
}

// Guard is the reduced availability condition of one output socket.
// Clauses are ANDed in property declaration order.
type Guard struct {
	Socket  string
	Clauses []Clause
}

// Empty reports whether the socket is unconditionally available.
func (g *Guard) Empty() bool {
	return len(g.Clauses) == 0
}

// Literals renders property values as C literals.
type Literals struct {
	// EnumPrefix is prepended to enum option constants ("SHD_MODE" -> SHD_MODE_LINEAR).
	EnumPrefix string
}

// Literal renders one value of p.
func (l Literals) Literal(p ir.Property, value string) string {
	if _, ok := p.(ir.BoolProperty); ok {
		if value == "true" {
			return "1"
		}
		return "0"
	}
	return ir.EnumConstant(l.EnumPrefix, value)
}

// Render writes the guard as a C expression over locals named after the
// properties. An empty guard renders as "true".
func (g *Guard) Render(lit Literals) string {
	if g.Empty() {
		return "true"
	}

	parts := make([]string, len(g.Clauses))
	for i, c := range g.Clauses {
		name := ir.Identifier(c.Property.PropertyName())
		terms := make([]string, len(c.Values))
		for j, v := range c.Values {
			op := "!="
			if c.Op == OpEq {
				op = "=="
			}
			terms[j] = fmt.Sprintf("%s %s %s", name, op, lit.Literal(c.Property, v))
		}

		switch {
		case c.Op == OpNe:
			parts[i] = strings.Join(terms, " && ")
		case len(terms) == 1:
			parts[i] = terms[0]
		default:
			parts[i] = "(" + strings.Join(terms, " || ") + ")"
		}
	}
	return strings.Join(parts, " && ")
}

// Expand rebuilds the exhaustive availability table the guard encodes.
func (g *Guard) Expand() ir.Dependency {
	dep := ir.Dependency{Socket: g.Socket}
	for _, c := range g.Clauses {
		domain, _ := ir.Domain(c.Property)
		for _, v := range domain {
			dep.Rows = append(dep.Rows, ir.AvailabilityRow{
				Property:  c.Property.PropertyName(),
				Value:     v,
				Available: c.Allows(v),
			})
		}
	}
	return dep
}

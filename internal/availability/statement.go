package availability

import (
	"fmt"
	"strings"

	"github.com/roach88/nodegen/internal/ir"
	"github.com/roach88/nodegen/internal/layout"
)

// Host UI entry points called by generated update code.
const (
	FindSocketFunc      = "nodeFindSocket"
	SetAvailabilityFunc = "nodeSetSocketAvailability"
	TreeVar             = "ntree"
)

// Statement renders the update-time block that recomputes one socket's
// availability. Every property the guard reads is first bound to a local
// named after it, so the guard text is the same for inline and struct
// storage. An empty guard renders nothing.
func Statement(s *ir.NodeSchema, l *layout.Layout, g *Guard, lit Literals) (string, error) {
	if g.Empty() {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("{\n")
	if fetch := l.Fetch(); fetch != "" {
		b.WriteString("\t" + fetch + "\n")
	}
	for _, c := range g.Clauses {
		name := c.Property.PropertyName()
		read, err := l.Read(name)
		if err != nil {
			return "", fmt.Errorf("availability: socket %q: %w", g.Socket, err)
		}
		fmt.Fprintf(&b, "\tconst int %s = %s;\n", ir.Identifier(name), read)
	}
	fmt.Fprintf(&b, "\tbNodeSocket *sock = %s(%s, SOCK_OUT, %q);\n", FindSocketFunc, layout.NodeVar, g.Socket)
	fmt.Fprintf(&b, "\t%s(%s, sock, %s);\n", SetAvailabilityFunc, TreeVar, g.Render(lit))
	b.WriteString("}\n")
	return b.String(), nil
}

// Statements reduces every dependency table of s and concatenates the
// resulting blocks in declaration order. Nothing is returned on error.
func Statements(s *ir.NodeSchema, l *layout.Layout, lit Literals) (string, error) {
	var b strings.Builder
	for _, dep := range s.Dependencies {
		g, err := Reduce(s, dep)
		if err != nil {
			return "", err
		}
		stmt, err := Statement(s, l, g, lit)
		if err != nil {
			return "", err
		}
		b.WriteString(stmt)
	}
	return b.String(), nil
}

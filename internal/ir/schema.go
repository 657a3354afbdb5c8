package ir

import "fmt"

// Direction is the data flow direction of a socket.
type Direction uint8

const (
	DirIn Direction = iota + 1
	DirOut
)

func (d Direction) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// Socket is a typed input/output connection terminal.
type Socket struct {
	Name      string
	Direction Direction
	Kind      Kind
	Default   *SocketDefault // nil means the backend default (zero)
}

// SocketDefault is the literal used when an input socket is unlinked.
// Scalars carry one component, vectors three, colors four.
type SocketDefault struct {
	Value []float64
}

// Identifier returns the C identifier used for the socket in generated code.
func (s Socket) Identifier() string {
	return Identifier(s.Name)
}

// DefaultScalar returns the first default component, or 0.
func (s Socket) DefaultScalar() float64 {
	if s.Default == nil || len(s.Default.Value) == 0 {
		return 0
	}
	return s.Default.Value[0]
}

// Category selects the node family.
type Category uint8

const (
	CategoryPlain Category = iota
	CategoryTexture
)

func (c Category) String() string {
	if c == CategoryTexture {
		return "texture"
	}
	return "plain"
}

// ParseCategory maps "plain"/"texture" to a Category.
func ParseCategory(name string) (Category, bool) {
	switch name {
	case "", "plain":
		return CategoryPlain, true
	case "texture":
		return CategoryTexture, true
	default:
		return 0, false
	}
}

// AvailabilityRow states whether the dependent socket is available when
// Property holds Value.
type AvailabilityRow struct {
	Property  string
	Value     string
	Available bool
}

// Dependency is the exhaustive availability table of one output socket.
type Dependency struct {
	Socket string
	Rows   []AvailabilityRow
}

// NodeSchema is the complete declarative description of one node.
type NodeSchema struct {
	Name         string
	Category     Category
	Properties   []Property
	Sockets      []Socket
	Dependencies []Dependency
}

// Property looks up a property by name and returns its declaration index.
func (s *NodeSchema) Property(name string) (Property, int, bool) {
	for i, p := range s.Properties {
		if p.PropertyName() == name {
			return p, i, true
		}
	}
	return nil, -1, false
}

// Socket looks up a socket by name.
func (s *NodeSchema) Socket(name string) (Socket, bool) {
	for _, sock := range s.Sockets {
		if sock.Name == name {
			return sock, true
		}
	}
	return Socket{}, false
}

// Inputs returns the input sockets in declaration order.
func (s *NodeSchema) Inputs() []Socket {
	return s.socketsByDirection(DirIn)
}

// Outputs returns the output sockets in declaration order.
func (s *NodeSchema) Outputs() []Socket {
	return s.socketsByDirection(DirOut)
}

func (s *NodeSchema) socketsByDirection(dir Direction) []Socket {
	var out []Socket
	for _, sock := range s.Sockets {
		if sock.Direction == dir {
			out = append(out, sock)
		}
	}
	return out
}

// Identifier returns the node's C identifier ("Brick Texture" -> "brick_texture").
func (s *NodeSchema) Identifier() string {
	return Identifier(s.Name)
}

// SchemaError reports a property or socket that violates a schema invariant.
type SchemaError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Field, e.Message)
}

// Validate checks every schema invariant and returns all violations found.
// A nil result means the schema is well formed.
func Validate(s *NodeSchema) []*SchemaError {
	var errs []*SchemaError
	add := func(field, format string, args ...any) {
		errs = append(errs, &SchemaError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if s.Name == "" {
		add("name", "node name is required")
	}

	propNames := make(map[string]bool)
	propIdents := make(map[string]Property)
	for i, p := range s.Properties {
		field := fmt.Sprintf("properties[%d]", i)
		name := p.PropertyName()
		id := Identifier(name)
		switch prev, clash := propIdents[id]; {
		case name == "":
			add(field, "property name is required")
		case propNames[name]:
			add(field, "duplicate property name: %q", name)
		case clash:
			add(field, "duplicate identifier %q: %q and %q", id, prev.PropertyName(), name)
		default:
			propIdents[id] = p
		}
		propNames[name] = true

		switch p := p.(type) {
		case EnumProperty:
			if len(p.Options) == 0 {
				add(field, "enum %q must have at least one option", name)
				continue
			}
			seen := make(map[string]bool)
			consts := make(map[string]string)
			for _, opt := range p.Options {
				c := EnumConstant("", opt)
				switch prev, clash := consts[c]; {
				case seen[opt]:
					add(field, "enum %q has duplicate option %q", name, opt)
				case clash:
					add(field, "enum %q has duplicate constant %s: %q and %q", name, c, prev, opt)
				default:
					consts[c] = opt
				}
				seen[opt] = true
			}
			if p.Default != "" && !seen[p.Default] {
				add(field, "enum %q default %q is not an option", name, p.Default)
			}
		case StringProperty:
			if p.ByteSize <= 0 {
				add(field, "string %q must declare a positive byte size", name)
			} else if len(p.Default) >= p.ByteSize {
				add(field, "string %q default does not fit in %d bytes", name, p.ByteSize)
			}
		case IntProperty:
			if p.Min > p.Max {
				add(field, "int %q has min %d > max %d", name, p.Min, p.Max)
			} else if p.Default < p.Min || p.Default > p.Max {
				add(field, "int %q default %d is outside [%d, %d]", name, p.Default, p.Min, p.Max)
			}
		case FloatProperty:
			if p.Min > p.Max {
				add(field, "float %q has min %g > max %g", name, p.Min, p.Max)
			} else if p.Default < p.Min || p.Default > p.Max {
				add(field, "float %q default %g is outside [%g, %g]", name, p.Default, p.Min, p.Max)
			}
		case BoolProperty, VectorProperty, ColorProperty:
		}
	}

	sockNames := make(map[string]bool)
	sockIdents := make(map[string]string)
	for i, sock := range s.Sockets {
		field := fmt.Sprintf("sockets[%d]", i)
		id := sock.Identifier()
		switch prev, clash := sockIdents[id]; {
		case sock.Name == "":
			add(field, "socket name is required")
		case sockNames[sock.Name]:
			add(field, "duplicate socket name: %q", sock.Name)
		case clash:
			add(field, "duplicate identifier %q: %q and %q", id, prev, sock.Name)
		default:
			sockIdents[id] = sock.Name
			if p, ok := propIdents[id]; ok && sock.Direction == DirIn && !carries(p, sock) {
				add(field, "duplicate identifier %q: property %q and input %q", id, p.PropertyName(), sock.Name)
			}
		}
		sockNames[sock.Name] = true

		if sock.Direction != DirIn && sock.Direction != DirOut {
			add(field, "socket %q has no direction", sock.Name)
		}
		switch sock.Kind {
		case KindBool, KindInt, KindFloat, KindVector, KindColor:
		default:
			add(field, "socket %q has unsupported kind %s", sock.Name, sock.Kind)
		}
	}

	for i, dep := range s.Dependencies {
		field := fmt.Sprintf("availability[%d]", i)
		sock, ok := s.Socket(dep.Socket)
		if !ok {
			add(field, "unknown socket %q", dep.Socket)
			continue
		}
		if sock.Direction != DirOut {
			add(field, "socket %q is not an output", dep.Socket)
		}
		for _, row := range dep.Rows {
			if !propNames[row.Property] {
				add(field, "unknown property %q", row.Property)
			}
		}
	}

	return errs
}

// carries reports whether p may share its identifier with the input socket
// sock. A float property carries the default of a float input of the same
// identifier; every other pairing declares the same kernel local twice.
func carries(p Property, sock Socket) bool {
	_, isFloat := p.(FloatProperty)
	return isFloat && sock.Kind == KindFloat
}

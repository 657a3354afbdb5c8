package ir

import "fmt"

// Kind identifies the value domain of a property or socket.
type Kind uint8

const (
	KindEnum Kind = iota + 1
	KindBool
	KindInt
	KindFloat
	KindString
	KindVector
	KindColor
)

var kindNames = map[Kind]string{
	KindEnum:   "enum",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindVector: "vector",
	KindColor:  "color",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a kind name ("enum", "bool", ...) to its Kind.
// "boolean" is accepted as an alias for "bool".
func ParseKind(name string) (Kind, bool) {
	if name == "boolean" {
		return KindBool, true
	}
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Property is a sealed interface over the user-configurable node values.
// Only the *Property types in this package implement it.
type Property interface {
	PropertyName() string
	Kind() Kind
	property() // Sealed
}

// EnumProperty is a dropdown with an ordered list of named options.
type EnumProperty struct {
	Name    string
	Options []string
	Default string
}

func (p EnumProperty) PropertyName() string { return p.Name }
func (EnumProperty) Kind() Kind             { return KindEnum }
func (EnumProperty) property()              {}

// DefaultOption returns Default, or the first option when Default is not
// one of Options.
func (p EnumProperty) DefaultOption() string {
	if len(p.Options) == 0 {
		return p.Default
	}
	return p.Options[p.DefaultIndex()]
}

// DefaultIndex returns the position of Default in Options, or 0 if absent.
func (p EnumProperty) DefaultIndex() int {
	for i, opt := range p.Options {
		if opt == p.Default {
			return i
		}
	}
	return 0
}

// BoolProperty is a checkbox.
type BoolProperty struct {
	Name    string
	Default bool
}

func (p BoolProperty) PropertyName() string { return p.Name }
func (BoolProperty) Kind() Kind             { return KindBool }
func (BoolProperty) property()              {}

// IntProperty is a bounded integer.
type IntProperty struct {
	Name    string
	Min     int64
	Max     int64
	Default int64
}

func (p IntProperty) PropertyName() string { return p.Name }
func (IntProperty) Kind() Kind             { return KindInt }
func (IntProperty) property()              {}

// FloatProperty is a bounded scalar.
type FloatProperty struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

func (p FloatProperty) PropertyName() string { return p.Name }
func (FloatProperty) Kind() Kind             { return KindFloat }
func (FloatProperty) property()              {}

// StringProperty is a fixed-capacity text buffer (file paths, attribute names).
type StringProperty struct {
	Name     string
	ByteSize int
	Default  string
}

func (p StringProperty) PropertyName() string { return p.Name }
func (StringProperty) Kind() Kind             { return KindString }
func (StringProperty) property()              {}

// VectorProperty is a three component float value.
type VectorProperty struct {
	Name    string
	Default [3]float64
}

func (p VectorProperty) PropertyName() string { return p.Name }
func (VectorProperty) Kind() Kind             { return KindVector }
func (VectorProperty) property()              {}

// ColorProperty is an RGBA float value.
type ColorProperty struct {
	Name    string
	Default [4]float64
}

func (p ColorProperty) PropertyName() string { return p.Name }
func (ColorProperty) Kind() Kind             { return KindColor }
func (ColorProperty) property()              {}

// FloatComponents returns how many float-like storage components p occupies.
// Non-float kinds return 0.
func FloatComponents(p Property) int {
	switch p.(type) {
	case FloatProperty:
		return 1
	case VectorProperty:
		return 3
	case ColorProperty:
		return 4
	default:
		return 0
	}
}

// Domain returns the finite set of literal values p can take, in
// declaration order. Booleans are "false" then "true". Properties with an
// unbounded domain return ok=false.
func Domain(p Property) (values []string, ok bool) {
	switch p := p.(type) {
	case EnumProperty:
		return append([]string(nil), p.Options...), true
	case BoolProperty:
		return []string{"false", "true"}, true
	default:
		return nil, false
	}
}

// KindCounts tallies properties by storage class.
// Float counts float components, so a Vector adds 3 and a Color adds 4.
type KindCounts struct {
	Enum   int
	Bool   int
	Int    int
	Float  int
	String int
}

// IntLike returns the number of properties needing their own int slot.
func (c KindCounts) IntLike() int {
	return c.Enum + c.Int
}

// CountKinds counts properties by storage class.
func CountKinds(props []Property) KindCounts {
	var c KindCounts
	for _, p := range props {
		switch p.(type) {
		case EnumProperty:
			c.Enum++
		case BoolProperty:
			c.Bool++
		case IntProperty:
			c.Int++
		case StringProperty:
			c.String++
		case FloatProperty, VectorProperty, ColorProperty:
			c.Float += FloatComponents(p)
		}
	}
	return c
}

package ir

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Identifier converts a display name into a C identifier.
// Letters are lower-cased, every run of other characters becomes a single
// underscore, and a leading digit gets an underscore prefix.
//
//	Identifier("Base Color") // "base_color"
//	Identifier("2D")         // "_2d"
func Identifier(name string) string {
	// Casers are stateful; never share one between calls.
	lowered := cases.Lower(language.Und).String(norm.NFC.String(name))

	var b strings.Builder
	pendingUnderscore := false
	for _, r := range lowered {
		if isIdentRune(r) {
			if pendingUnderscore && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingUnderscore = false
			b.WriteRune(r)
			continue
		}
		pendingUnderscore = true
	}

	id := b.String()
	if id == "" {
		return "_"
	}
	if id[0] >= '0' && id[0] <= '9' {
		return "_" + id
	}
	return id
}

// EnumConstant returns the upper-case constant naming an enum option.
// A non-empty prefix is joined with an underscore.
//
//	EnumConstant("", "prop4")           // "PROP4"
//	EnumConstant("SHD_NOISE", "smooth") // "SHD_NOISE_SMOOTH"
func EnumConstant(prefix, option string) string {
	id := Identifier(option)
	if prefix != "" {
		id = Identifier(prefix) + "_" + strings.TrimPrefix(id, "_")
	}
	return cases.Upper(language.Und).String(id)
}

// StructName returns the native struct type name for a node
// ("brick texture" -> "NodeTexBrickTexture" for texture nodes).
func StructName(s *NodeSchema) string {
	if s.Category == CategoryTexture {
		return "NodeTex" + PascalName(s.Name)
	}
	return "Node" + PascalName(s.Name)
}

// PascalName joins the words of a display name with each word
// capitalised ("base color" -> "BaseColor").
func PascalName(name string) string {
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(Identifier(name), "_"), "_") {
		b.WriteString(title.String(part))
	}
	return b.String()
}

func isIdentRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

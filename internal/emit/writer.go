package emit

import (
	"fmt"
	"strconv"
	"strings"
)

// writer accumulates one fragment with tab indentation.
type writer struct {
	out    strings.Builder
	indent int
}

// line writes one indented line. Format arguments are optional.
func (w *writer) line(format string, args ...any) {
	for i := 0; i < w.indent; i++ {
		w.out.WriteByte('\t')
	}
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

// lines writes each element of ls as an indented line.
func (w *writer) lines(ls []string) {
	for _, l := range ls {
		w.line("%s", l)
	}
}

// block writes a multi-line text at the current indentation.
func (w *writer) block(text string) {
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if l == "" {
			w.out.WriteByte('\n')
			continue
		}
		w.line("%s", l)
	}
}

func (w *writer) blank() {
	w.out.WriteByte('\n')
}

func (w *writer) push() { w.indent++ }

func (w *writer) pop() {
	if w.indent > 0 {
		w.indent--
	}
}

func (w *writer) String() string {
	return w.out.String()
}

// cFloat renders v as a C float literal ("0.5f", "1.0f").
func cFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s + "f"
}

// oslFloat renders v as a shading-language float literal ("0.5", "1.0").
func oslFloat(v float64) string {
	return strings.TrimSuffix(cFloat(v), "f")
}

func cBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

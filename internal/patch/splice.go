package patch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Placement says where text goes relative to the line an anchor matched.
type Placement string

const (
	PlaceBefore Placement = "before" // on new lines above the matched line
	PlaceAfter  Placement = "after"  // on new lines below the matched line
)

// Anchor identifies an insertion point in a host file.
type Anchor struct {
	// Pattern is a regular expression matched against the whole file.
	Pattern string `yaml:"pattern" json:"pattern"`

	// Placement defaults to PlaceBefore.
	Placement Placement `yaml:"placement,omitempty" json:"placement,omitempty"`

	// Last selects the final match instead of the first.
	Last bool `yaml:"last,omitempty" json:"last,omitempty"`
}

// Position is a located insertion point.
type Position struct {
	Offset int    // byte offset where inserted text begins, always at a line start
	Line   int    // 1-based line number of Offset
	Indent string // leading whitespace of the matched line
}

// AnchorNotFoundError reports a pattern with no match.
type AnchorNotFoundError struct {
	Pattern string
}

func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("anchor %q not found", e.Pattern)
}

// IsAnchorNotFound reports whether err is an AnchorNotFoundError.
func IsAnchorNotFound(err error) bool {
	var ae *AnchorNotFoundError
	return errors.As(err, &ae)
}

// Locate finds the insertion point for a in src.
func Locate(src string, a Anchor) (Position, error) {
	re, err := regexp.Compile(a.Pattern)
	if err != nil {
		return Position{}, fmt.Errorf("anchor %q: %w", a.Pattern, err)
	}

	var match []int
	if a.Last {
		all := re.FindAllStringIndex(src, -1)
		if len(all) > 0 {
			match = all[len(all)-1]
		}
	} else {
		match = re.FindStringIndex(src)
	}
	if match == nil {
		return Position{}, &AnchorNotFoundError{Pattern: a.Pattern}
	}

	lineStart := strings.LastIndexByte(src[:match[0]], '\n') + 1
	indent := src[lineStart:]
	indent = indent[:len(indent)-len(strings.TrimLeft(indent, " \t"))]

	var offset int
	switch a.Placement {
	case PlaceBefore, "":
		offset = lineStart
	case PlaceAfter:
		end := match[1]
		if end > match[0] && src[end-1] == '\n' {
			end--
		}
		if nl := strings.IndexByte(src[end:], '\n'); nl >= 0 {
			offset = end + nl + 1
		} else {
			offset = len(src)
		}
	default:
		return Position{}, fmt.Errorf("anchor %q: unknown placement %q", a.Pattern, a.Placement)
	}

	return Position{
		Offset: offset,
		Line:   strings.Count(src[:offset], "\n") + 1,
		Indent: indent,
	}, nil
}

// Indent prefixes every non-empty line of text with indent and guarantees
// a trailing newline.
func Indent(text, indent string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indent + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// Splice inserts text at pos, indented to the anchor line. When pos is at
// the end of a file lacking a final newline, one is added first.
func Splice(src string, pos Position, text string) string {
	body := Indent(text, pos.Indent)
	head := src[:pos.Offset]
	if head != "" && !strings.HasSuffix(head, "\n") {
		head += "\n"
	}
	return head + body + src[pos.Offset:]
}

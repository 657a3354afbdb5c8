package packing

import (
	"errors"
	"fmt"
)

// Header capacity.
const (
	MaxWords     = 3
	BytesPerWord = 4
)

// headerFields names the instruction fields that carry words, in order.
var headerFields = [MaxWords]string{"y", "z", "w"}

// WordKind distinguishes byte-packed words from full-precision words.
type WordKind uint8

const (
	WordBytes WordKind = iota + 1
	WordFull
)

// Word is one 32-bit header word.
// A WordBytes word holds one to four byte items; a WordFull word holds
// exactly one full-word item.
type Word struct {
	Kind  WordKind
	Items []Item
}

// Names returns the item identifiers of the word in order.
func (w Word) Names() []string {
	names := make([]string, len(w.Items))
	for i, item := range w.Items {
		names[i] = item.Name
	}
	return names
}

// OverflowError reports an item list that needs more than MaxWords words.
type OverflowError struct {
	Item  string // first item that did not fit
	Items int    // total items requested
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("header overflow: %d item(s) need more than %d words; %q does not fit", e.Items, MaxWords, e.Item)
}

// IsOverflow reports whether err is a header overflow.
func IsOverflow(err error) bool {
	var oe *OverflowError
	return errors.As(err, &oe)
}

// Pack fills header words greedily, left to right.
//
// Byte items join the current byte word until it holds four items. A
// full-word item always starts and ends its own word, closing any open
// byte word. Needing a fourth word fails with *OverflowError and returns no
// words.
func Pack(items []Item) ([]Word, error) {
	var words []Word
	open := false // last word is a byte word that still accepts items

	for _, item := range items {
		if item.FullWord() {
			words = append(words, Word{Kind: WordFull, Items: []Item{item}})
			open = false
		} else {
			if !open {
				words = append(words, Word{Kind: WordBytes})
				open = true
			}
			last := &words[len(words)-1]
			last.Items = append(last.Items, item)
			if len(last.Items) == BytesPerWord {
				open = false
			}
		}

		if len(words) > MaxWords {
			return nil, &OverflowError{Item: item.Name, Items: len(items)}
		}
	}

	return words, nil
}

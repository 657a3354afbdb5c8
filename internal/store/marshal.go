package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/nodegen/internal/ir"
)

// marshalOptions converts generator options to canonical JSON TEXT.
// Empty values are dropped so adding an option never changes old rows.
func marshalOptions(opts map[string]string) (string, error) {
	obj := make(map[string]any, len(opts))
	for k, v := range opts {
		if v != "" {
			obj[k] = v
		}
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	return string(data), nil
}

// unmarshalOptions reverses marshalOptions.
func unmarshalOptions(text string) (map[string]string, error) {
	opts := make(map[string]string)
	if text == "" {
		return opts, nil
	}
	if err := json.Unmarshal([]byte(text), &opts); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	return opts, nil
}

// outputHash identifies a run's complete output: every fragment's name
// and content hash in output order, plus the options that shaped them.
func outputHash(frags []Fragment, options string) string {
	var b strings.Builder
	for _, f := range frags {
		fmt.Fprintf(&b, "%s\x00%s\x00%s\n", f.Backend, f.Name, hashFragment(f.Text))
	}
	b.WriteString(options)
	return ir.FragmentHash(b.String())
}

func hashFragment(text string) string {
	return ir.FragmentHash(text)
}

package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Change records the outcome of one manifest edit.
type Change struct {
	File     string `json:"file"`
	Fragment string `json:"fragment"`
	Line     int    `json:"line"`              // where the fragment starts, 0 when skipped
	Skipped  bool   `json:"skipped,omitempty"` // fragment text was already present or empty
	Empty    bool   `json:"empty,omitempty"`   // node generated nothing for this fragment
}

// Options control Apply.
type Options struct {
	// DryRun locates and splices in memory without writing files.
	DryRun bool
}

// Apply performs every edit in m using the named fragments.
//
// Edits to the same file apply in manifest order against the result of the
// previous edit. A fragment whose indented text already appears in the file
// is skipped, so re-running a manifest is a no-op. A fragment mapped to the
// empty string is skipped without touching its file, letting one manifest
// serve nodes that lack some fragments. Files are written only after all
// edits succeed.
func Apply(m *Manifest, fragments map[string]string, opts Options) ([]Change, error) {
	contents := make(map[string]string)
	var order []string
	var changes []Change

	for i, e := range m.Edits {
		text, ok := fragments[e.Fragment]
		if !ok {
			return nil, fmt.Errorf("edits[%d]: unknown fragment %q", i, e.Fragment)
		}
		if text == "" {
			changes = append(changes, Change{File: e.File, Fragment: e.Fragment, Skipped: true, Empty: true})
			continue
		}

		path := e.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.Root, path)
		}

		src, loaded := contents[path]
		if !loaded {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("edits[%d]: %w", i, err)
			}
			src = string(data)
			order = append(order, path)
		}

		pos, err := Locate(src, e.Anchor)
		if err != nil {
			return nil, fmt.Errorf("edits[%d]: %s: %w", i, e.File, err)
		}

		change := Change{File: e.File, Fragment: e.Fragment}
		if strings.Contains(src, Indent(text, pos.Indent)) {
			change.Skipped = true
			Logger().Debug("fragment already present",
				zap.String("file", e.File),
				zap.String("fragment", e.Fragment))
		} else {
			src = Splice(src, pos, text)
			change.Line = pos.Line
		}
		contents[path] = src
		changes = append(changes, change)
	}

	if opts.DryRun {
		return changes, nil
	}

	for _, path := range order {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(contents[path]), info.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		Logger().Info("patched file", zap.String("file", path))
	}

	return changes, nil
}

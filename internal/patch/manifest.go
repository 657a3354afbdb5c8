package patch

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest lists where each fragment goes in a host source tree.
//
//	root: ../blender
//	edits:
//	  - file: intern/cycles/kernel/svm/types.h
//	    fragment: svm_node_type
//	    anchor: {pattern: 'NODE_NUM', placement: before}
type Manifest struct {
	// Root is the host tree. Relative roots resolve against the manifest's
	// directory.
	Root  string `yaml:"root"`
	Edits []Edit `yaml:"edits"`
}

// Edit inserts one fragment at one anchor.
type Edit struct {
	File     string `yaml:"file"`
	Fragment string `yaml:"fragment"`
	Anchor   Anchor `yaml:"anchor"`
}

// LoadManifest parses a YAML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}

	if !filepath.IsAbs(m.Root) {
		m.Root = filepath.Join(filepath.Dir(path), m.Root)
	}
	return m, nil
}

// ParseManifest decodes a manifest and checks every edit is complete.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(m.Edits) == 0 {
		return nil, fmt.Errorf("invalid manifest: at least one edit is required")
	}
	for i, e := range m.Edits {
		switch {
		case e.File == "":
			return nil, fmt.Errorf("invalid manifest: edits[%d]: file is required", i)
		case e.Fragment == "":
			return nil, fmt.Errorf("invalid manifest: edits[%d]: fragment is required", i)
		case e.Anchor.Pattern == "":
			return nil, fmt.Errorf("invalid manifest: edits[%d]: anchor pattern is required", i)
		}
		switch e.Anchor.Placement {
		case "", PlaceBefore, PlaceAfter:
		default:
			return nil, fmt.Errorf("invalid manifest: edits[%d]: unknown placement %q", i, e.Anchor.Placement)
		}
	}
	return &m, nil
}

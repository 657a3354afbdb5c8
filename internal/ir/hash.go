package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainSchema   = "nodegen/schema/v1"
	DomainFragment = "nodegen/fragment/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SchemaHash computes the content-addressed identity of a schema.
// Two schemas hash equal iff they generate identical code.
func SchemaHash(s *NodeSchema) (string, error) {
	canonical, err := MarshalCanonical(schemaObject(s))
	if err != nil {
		return "", fmt.Errorf("SchemaHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSchema, canonical), nil
}

// MustSchemaHash is SchemaHash for schemas known to be serializable.
// Panics on error.
func MustSchemaHash(s *NodeSchema) string {
	h, err := SchemaHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

// FragmentHash computes the identity of one generated fragment.
func FragmentHash(text string) string {
	return hashWithDomain(DomainFragment, []byte(text))
}

func schemaObject(s *NodeSchema) map[string]any {
	props := make([]any, 0, len(s.Properties))
	for _, p := range s.Properties {
		props = append(props, propertyObject(p))
	}

	sockets := make([]any, 0, len(s.Sockets))
	for _, sock := range s.Sockets {
		obj := map[string]any{
			"name":      sock.Name,
			"direction": sock.Direction.String(),
			"type":      sock.Kind.String(),
		}
		if sock.Default != nil {
			obj["default"] = floats(sock.Default.Value)
		}
		sockets = append(sockets, obj)
	}

	deps := make([]any, 0, len(s.Dependencies))
	for _, dep := range s.Dependencies {
		rows := make([]any, 0, len(dep.Rows))
		for _, row := range dep.Rows {
			rows = append(rows, map[string]any{
				"property":  row.Property,
				"value":     row.Value,
				"available": row.Available,
			})
		}
		deps = append(deps, map[string]any{"socket": dep.Socket, "rows": rows})
	}

	return map[string]any{
		"schema_version": SchemaVersion,
		"name":           s.Name,
		"category":       s.Category.String(),
		"properties":     props,
		"sockets":        sockets,
		"availability":   deps,
	}
}

func propertyObject(p Property) map[string]any {
	obj := map[string]any{
		"name": p.PropertyName(),
		"type": p.Kind().String(),
	}
	switch p := p.(type) {
	case EnumProperty:
		opts := make([]any, len(p.Options))
		for i, o := range p.Options {
			opts[i] = o
		}
		obj["options"] = opts
		obj["default"] = p.DefaultOption()
	case BoolProperty:
		obj["default"] = p.Default
	case IntProperty:
		obj["default"] = p.Default
		obj["min"] = p.Min
		obj["max"] = p.Max
	case FloatProperty:
		obj["default"] = p.Default
		obj["min"] = p.Min
		obj["max"] = p.Max
	case StringProperty:
		obj["default"] = p.Default
		obj["size"] = p.ByteSize
	case VectorProperty:
		obj["default"] = floats(p.Default[:])
	case ColorProperty:
		obj["default"] = floats(p.Default[:])
	}
	return obj
}

func floats(vals []float64) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

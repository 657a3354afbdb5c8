package emit

import (
	"go.uber.org/zap"

	"github.com/roach88/nodegen/internal/ir"
)

// Backend names the host subsystem a fragment belongs to.
type Backend string

const (
	BackendBytecode Backend = "bytecode"
	BackendShading  Backend = "shading"
	BackendNative   Backend = "native"
	BackendUI       Backend = "ui"
)

// Fragment names, stable across releases. Patch manifests refer to these.
const (
	FragNodeType      = "svm_node_type"
	FragDispatch      = "svm_dispatch"
	FragCompile       = "svm_compile"
	FragKernel        = "svm_kernel"
	FragShader        = "osl_shader"
	FragShaderCompile = "osl_compile"
	FragEnums         = "dna_enums"
	FragStruct        = "dna_struct"
	FragInit          = "ui_init"
	FragUpdate        = "ui_update"
)

// FragmentNames lists every fragment name in emission order.
var FragmentNames = []string{
	FragNodeType, FragDispatch, FragCompile, FragKernel,
	FragShader, FragShaderCompile,
	FragEnums, FragStruct,
	FragInit, FragUpdate,
}

// Fragment is one generated piece of host source.
type Fragment struct {
	Backend Backend `json:"backend"`
	Name    string  `json:"name"`
	Text    string  `json:"text"`
}

// Result is the complete output for one node.
type Result struct {
	Plan       *Plan
	SchemaHash string
	Fragments  []Fragment
}

// Fragment looks up a fragment by name.
func (r *Result) Fragment(name string) (Fragment, bool) {
	for _, f := range r.Fragments {
		if f.Name == name {
			return f, true
		}
	}
	return Fragment{}, false
}

// Texts maps fragment names to their text.
func (r *Result) Texts() map[string]string {
	out := make(map[string]string, len(r.Fragments))
	for _, f := range r.Fragments {
		out[f.Name] = f.Text
	}
	return out
}

// AllTexts is Texts with every omitted fragment mapped to the empty string,
// so callers can tell an empty fragment from an unknown name.
func (r *Result) AllTexts() map[string]string {
	out := r.Texts()
	for _, name := range FragmentNames {
		if _, ok := out[name]; !ok {
			out[name] = ""
		}
	}
	return out
}

// Generate plans s and renders every backend. Fragments with no content
// for this node (no struct for inline storage, no update callback without
// availability tables) are omitted. On error no fragments are returned.
func Generate(s *ir.NodeSchema, opts Options) (*Result, error) {
	p, err := NewPlan(s, opts)
	if err != nil {
		return nil, err
	}

	hash, err := ir.SchemaHash(s)
	if err != nil {
		return nil, err
	}

	var frags []Fragment
	for _, emitter := range []func(*Plan) ([]Fragment, error){Bytecode, Shading, Native, Update} {
		out, err := emitter(p)
		if err != nil {
			return nil, err
		}
		for _, f := range out {
			if f.Text != "" {
				frags = append(frags, f)
			}
		}
	}

	Logger().Info("generated node",
		zap.String("node", s.Name),
		zap.String("schema_hash", hash),
		zap.Int("fragments", len(frags)))

	return &Result{Plan: p, SchemaHash: hash, Fragments: frags}, nil
}

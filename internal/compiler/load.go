package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/nodegen/internal/ir"
)

// Load builds the CUE value at path, which is either a directory holding
// one CUE package or a single .cue file.
func Load(path string) (cue.Value, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("load %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("load %s: %w", path, err)
	}

	cfg := &load.Config{Dir: path}
	args := []string{"."}
	if !info.IsDir() {
		cfg.Dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("load %s: no CUE instances loaded", path)
	}
	inst := instances[0]
	if inst.Err != nil {
		return cue.Value{}, fmt.Errorf("load %s: %w", path, inst.Err)
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Validate(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return value, nil
}

// LoadNode loads path and compiles the node with the given name. An empty
// name selects the only node declared.
func LoadNode(path, name string) (*ir.NodeSchema, error) {
	v, err := Load(path)
	if err != nil {
		return nil, err
	}
	schemas, err := CompileNodes(v)
	if err != nil {
		return nil, err
	}

	if name == "" {
		if len(schemas) != 1 {
			return nil, fmt.Errorf("%s declares %d nodes; name one", path, len(schemas))
		}
		return schemas[0], nil
	}
	for _, s := range schemas {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%s: node %q not found", path, name)
}

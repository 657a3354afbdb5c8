package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodegen/internal/compiler"
)

func TestLoadSpecsDirectory(t *testing.T) {
	result, errs := LoadSpecs("testdata/specs", LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Nodes, 2)
	assert.Equal(t, "Dropdowns", result.Nodes[0].Name)
	assert.Equal(t, "Brick Texture", result.Nodes[1].Name)
}

func TestLoadSpecsSingleFile(t *testing.T) {
	result, errs := LoadSpecs("testdata/invalid/nodes.cue", LoadModeCollectAll)
	require.Empty(t, errs)
	assert.Len(t, result.Nodes, 3)
}

func TestLoadSpecsErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantCode string
	}{
		{"missing path", "testdata/nowhere", ErrCodeNotFound},
		{"not a cue file", "testdata/host/types.h", ErrCodeNoFiles},
		{"no cue files", "testdata/host", ErrCodeNoFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, errs := LoadSpecs(tt.path, LoadModeFailFast)
			assert.Nil(t, result)
			require.Len(t, errs, 1)

			var loadErr *LoadError
			require.True(t, errors.As(errs[0], &loadErr))
			assert.Equal(t, tt.wantCode, loadErr.Code)
		})
	}
}

func TestLoadSpecsCompileError(t *testing.T) {
	result, errs := LoadSpecs("testdata/broken", LoadModeCollectAll)
	require.NotNil(t, result)
	assert.Empty(t, result.Nodes)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.True(t, errors.As(errs[0], &loadErr))
	assert.Equal(t, compiler.ErrInvalidSocket, loadErr.Code)
	assert.Contains(t, loadErr.Message, `unknown direction "sideways"`)
	assert.True(t, loadErr.Pos.IsValid())
}

func TestSelectNodes(t *testing.T) {
	result, errs := LoadSpecs("testdata/specs", LoadModeFailFast)
	require.Empty(t, errs)

	all, err := SelectNodes(result.Nodes, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := SelectNodes(result.Nodes, "Brick Texture")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "Brick Texture", one[0].Name)

	_, err = SelectNodes(result.Nodes, "Noise")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNodeNotFound)
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := map[string]string{
		"properties[2].size":   compiler.ErrInvalidProperty,
		"sockets[0].direction": compiler.ErrInvalidSocket,
		"availability[0]":      compiler.ErrInvalidAvailability,
		"category":             compiler.ErrInvalidSchema,
		"cue":                  ErrCodeBuildFailed,
		"name":                 ErrCodeGeneric,
	}
	for field, want := range tests {
		assert.Equal(t, want, MapFieldToErrorCode(field), field)
	}
}

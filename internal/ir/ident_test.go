package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fac", "fac"},
		{"Base Color", "base_color"},
		{"  Normal--Map ", "normal_map"},
		{"dropdown1", "dropdown1"},
		{"snake_case", "snake_case"},
		{"2D", "_2d"},
		{"!!!", "_"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Identifier(tt.in))
		})
	}
}

func TestEnumConstant(t *testing.T) {
	assert.Equal(t, "PROP4", EnumConstant("", "prop4"))
	assert.Equal(t, "SHD_NOISE_SMOOTH", EnumConstant("SHD_NOISE", "smooth"))
	assert.Equal(t, "LINEAR_LIGHT", EnumConstant("", "Linear Light"))
}

func TestStructName(t *testing.T) {
	assert.Equal(t, "NodeDropdowns", StructName(&NodeSchema{Name: "Dropdowns"}))
	assert.Equal(t, "NodeTexBrickTexture", StructName(&NodeSchema{Name: "brick texture", Category: CategoryTexture}))
}

func TestPascalName(t *testing.T) {
	assert.Equal(t, "BaseColor", PascalName("Base Color"))
	assert.Equal(t, "Fac", PascalName("fac"))
	assert.Equal(t, "MixRgb", PascalName("mix-RGB"))
}

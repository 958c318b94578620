package shader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
	}{
		{"shaded", VariantShaded},
		{"Shaded", VariantShaded},
		{"uv", VariantUVDebug},
		{"UVDebug", VariantUVDebug},
		{"checker", VariantChecker},
		{" checker ", VariantChecker},
		{"0", VariantShaded},
		{"2", VariantChecker},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariant(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVariantUnknown(t *testing.T) {
	for _, in := range []string{"", "phong", "3", "-1"} {
		_, err := ParseVariant(in)
		assert.ErrorIs(t, err, ErrUnknownVariant, in)
	}
}

func TestVariantFromIndex(t *testing.T) {
	v, err := VariantFromIndex(1)
	require.NoError(t, err)
	assert.Equal(t, VariantUVDebug, v)

	_, err = VariantFromIndex(int(VariantCount))
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestVariantString(t *testing.T) {
	assert.Equal(t, "shaded", VariantShaded.String())
	assert.Equal(t, "uv", VariantUVDebug.String())
	assert.Equal(t, "checker", VariantChecker.String())
	assert.Equal(t, "Variant(7)", Variant(7).String())
	assert.Len(t, Variants(), int(VariantCount))
}

func TestNewShaders(t *testing.T) {
	shaders := NewShaders()
	for v, s := range shaders {
		require.NotNil(t, s)
		assert.Equal(t, Variant(v), s.Variant())
		assert.True(t, strings.HasPrefix(s.Source(), model.GPUVertexSource))
		assert.Contains(t, s.Source(), "fn "+VertexEntryPoint)
		assert.Contains(t, s.Source(), "fn "+FragmentEntryPoint)
		assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)
		assert.Len(t, s.VertexLayouts(), 1)
		assert.Equal(t, uint64(model.GPUVertexStride), s.VertexLayouts()[0].ArrayStride)
	}
	assert.NotEqual(t, shaders[VariantShaded].Source(), shaders[VariantChecker].Source())
}

func TestNewShaderInvalid(t *testing.T) {
	_, err := NewShader(VariantCount)
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestUniformLayoutDescriptor(t *testing.T) {
	desc := UniformLayoutDescriptor()
	require.Len(t, desc.Entries, 1)
	entry := desc.Entries[0]
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entry.Buffer.Type)
	assert.Equal(t, uint64(model.GPUUniformsSize), entry.Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, entry.Visibility)
}

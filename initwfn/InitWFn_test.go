package initwfn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"gorgonia.org/tensor"
)

func TestUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		want   Config
		wantTy Type
	}{
		{"glorot default gain", "type: GlorotU", GlorotUConfig{Gain: 1}, GlorotU},
		{"he with gain", "type: HeN\nconfig:\n  gain: 2", HeNConfig{Gain: 2}, HeN},
		{"zeroes", "type: Zeroes", ZeroesConfig{}, Zeroes},
		{"constant", "type: Constant\nconfig:\n  value: 0.5",
			ConstantConfig{Value: 0.5}, Constant},
		{"uniform", "type: Uniform\nconfig:\n  low: -1\n  high: 1",
			UniformConfig{Low: -1, High: 1}, Uniform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var init InitWFn
			require.NoError(t, yaml.Unmarshal([]byte(tt.doc), &init))
			assert.Equal(t, tt.wantTy, init.Type)
			assert.Equal(t, tt.want, init.Config)
			assert.NotNil(t, init.InitWFn())
		})
	}
}

func TestUnmarshalYAMLUnknownType(t *testing.T) {
	var init InitWFn
	err := yaml.Unmarshal([]byte("type: Xavier"), &init)
	assert.Error(t, err)
}

func TestZeroesCreatesZeroes(t *testing.T) {
	init, err := NewZeroes()
	require.NoError(t, err)

	weights := init.InitWFn()(tensor.Float64, 2, 3)
	assert.Equal(t, make([]float64, 6), weights)
}

package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func run(t *testing.T, net NeuralNet, input []float64) []float64 {
	t.Helper()
	require.NoError(t, net.SetInput(input))

	vm := G.NewTapeMachine(net.Graph())
	defer vm.Close()
	require.NoError(t, vm.RunAll())

	out := net.Output().Data().([]float64)
	return append([]float64{}, out...)
}

func newOnesMLP(t *testing.T) NeuralNet {
	t.Helper()
	net, err := NewMLP(2, 1, 4, G.NewGraph(), []int{3}, []bool{true},
		G.Ones(), []*Activation{ReLU()})
	require.NoError(t, err)
	return net
}

func TestNewMLPForward(t *testing.T) {
	net := newOnesMLP(t)
	assert.Equal(t, 2, net.Features())
	assert.Equal(t, 4, net.Outputs())
	assert.Equal(t, 1, net.BatchSize())

	// Hidden: 1 + 2 = 3 on each of 3 nodes, output: 3 * 3 = 9
	assert.Equal(t, []float64{9, 9, 9, 9}, run(t, net, []float64{1, 2}))

	// Two layers with biases
	assert.Len(t, net.Learnables(), 4)
	assert.Len(t, net.Model(), 4)
}

func TestNewMLPInvalid(t *testing.T) {
	_, err := NewMLP(2, 1, 4, G.NewGraph(), []int{3}, []bool{true, false},
		G.Ones(), []*Activation{ReLU()})
	assert.Error(t, err)

	_, err = NewMLP(2, 1, 4, G.NewGraph(), []int{3}, []bool{true},
		G.Ones(), nil)
	assert.Error(t, err)

	_, err = NewMLP(2, 1, 4, G.NewGraph(), []int{0}, []bool{true},
		G.Ones(), []*Activation{ReLU()})
	assert.Error(t, err)
}

func TestSetInputWrongLength(t *testing.T) {
	net := newOnesMLP(t)
	assert.Error(t, net.SetInput([]float64{1, 2, 3}))
}

func TestCloneWithBatch(t *testing.T) {
	net := newOnesMLP(t)
	clone, err := net.CloneWithBatch(2)
	require.NoError(t, err)
	assert.NotSame(t, net.Graph(), clone.Graph())
	assert.Equal(t, 2, clone.BatchSize())

	out := run(t, clone, []float64{1, 2, 0, 1})
	assert.Equal(t, []float64{9, 9, 9, 9, 3, 3, 3, 3}, out)
}

func TestSet(t *testing.T) {
	zeroes, err := NewMLP(2, 1, 4, G.NewGraph(), []int{3}, []bool{true},
		G.Zeroes(), []*Activation{ReLU()})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, run(t, zeroes, []float64{1, 2}))

	require.NoError(t, zeroes.Set(newOnesMLP(t)))
	assert.Equal(t, []float64{9, 9, 9, 9}, run(t, zeroes, []float64{1, 2}))

	deeper, err := NewMLP(2, 1, 4, G.NewGraph(), []int{3, 3},
		[]bool{true, true}, G.Ones(), []*Activation{ReLU(), ReLU()})
	require.NoError(t, err)
	assert.Error(t, zeroes.Set(deeper))
}

func TestActivationYAML(t *testing.T) {
	var acts []*Activation
	require.NoError(t, yaml.Unmarshal([]byte("[relu, TanH, identity]"), &acts))
	require.Len(t, acts, 3)
	assert.Equal(t, "relu", acts[0].String())
	assert.Equal(t, "tanh", acts[1].String())
	assert.True(t, acts[2].IsIdentity())

	assert.Error(t, yaml.Unmarshal([]byte("[softplus]"), &acts))
}

func TestLoss(t *testing.T) {
	tests := []struct {
		loss Loss
		want float64
	}{
		{MSE, 2.5},
		{MAE, 1.5},
	}

	for _, tt := range tests {
		t.Run(string(tt.loss), func(t *testing.T) {
			g := G.NewGraph()
			pred := G.NewMatrix(g, tensor.Float64, G.WithShape(1, 2),
				G.WithName("pred"),
				G.WithValue(tensor.New(tensor.WithShape(1, 2),
					tensor.WithBacking([]float64{1, -2}))))
			target := G.NewMatrix(g, tensor.Float64, G.WithShape(1, 2),
				G.WithName("target"), G.WithInit(G.Zeroes()))

			loss, err := tt.loss.Fwd(pred, target)
			require.NoError(t, err)

			vm := G.NewTapeMachine(g)
			defer vm.Close()
			require.NoError(t, vm.RunAll())
			assert.InDelta(t, tt.want, loss.Value().Data().(float64), 1e-12)
		})
	}
}

func TestLossYAML(t *testing.T) {
	var l Loss
	require.NoError(t, yaml.Unmarshal([]byte("MSE"), &l))
	assert.Equal(t, MSE, l)
	assert.Error(t, yaml.Unmarshal([]byte("huber"), &l))
}

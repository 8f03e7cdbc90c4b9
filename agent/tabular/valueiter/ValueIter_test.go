package valueiter

import (
	"testing"

	"github.com/samuelfneumann/gridq/environment/gridworld"
	"github.com/samuelfneumann/gridq/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newValueIter(t *testing.T, mutate func(*Config)) *ValueIter {
	t.Helper()
	c := DefaultConfig()
	if mutate != nil {
		mutate(&c)
	}
	v, err := New(c, nil)
	require.NoError(t, err)
	return v
}

func TestNewInitialTable(t *testing.T) {
	v := newValueIter(t, nil)
	q := v.QTable()

	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			want := -1.0
			if (x == 0 && y == 0) || (x == 4 && y == 4) {
				want = 0.0
			}
			for a := 0; a < gridworld.NumActions; a++ {
				assert.Equal(t, want, q.At(x, y, gridworld.Action(a)),
					"cell (%d, %d) action %d", x, y, a)
			}
		}
	}

	assert.Equal(t, []int{5, 5, 4}, []int(q.Tensor().Shape()))
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(Config{Grid: gridworld.DefaultConfig(), Scale: 0}, nil)
	assert.ErrorIs(t, err, gridworld.ErrInvalidConfig)

	c := DefaultConfig()
	c.Grid.Space = 0
	_, err = New(c, nil)
	assert.ErrorIs(t, err, gridworld.ErrInvalidConfig)
}

func TestMaxRewardFirstSweep(t *testing.T) {
	v := newValueIter(t, nil)

	// Moving off the grid backs up nothing
	assert.Equal(t, 0.0, v.MaxReward(0, 1, gridworld.Up))

	// Into a terminal corner: (-1 + 0.9 * 0) / 25
	assert.InDelta(t, -0.04, v.MaxReward(0, 1, gridworld.Left), 1e-12)

	// Into a non-terminal cell: (-1 + 0.9 * -1) / 25
	assert.InDelta(t, -0.076, v.MaxReward(0, 1, gridworld.Right), 1e-12)
	assert.InDelta(t, -0.076, v.MaxReward(0, 1, gridworld.Down), 1e-12)
}

func TestMaxRewardSlippery(t *testing.T) {
	v := newValueIter(t, func(c *Config) { c.Grid.Prob = 0.7 })

	// 0.7 * -0.04 + 0.1 * (0 + -0.076 + -0.076)
	assert.InDelta(t, -0.0432, v.MaxReward(0, 1, gridworld.Left), 1e-12)
}

func TestForwardSingleSweep(t *testing.T) {
	v := newValueIter(t, nil)

	result := v.Forward(1, 0)
	assert.Equal(t, 1, result.Iterations)
	assert.False(t, result.Converged)
	require.Len(t, result.Deltas, 1)
	assert.Greater(t, result.Deltas[0], 0.0)

	q := v.QTable()
	assert.Equal(t, 0.0, q.At(0, 1, gridworld.Up))
	assert.InDelta(t, -0.04, q.At(0, 1, gridworld.Left), 1e-12)
	assert.InDelta(t, -0.076, q.At(0, 1, gridworld.Right), 1e-12)
}

func TestForwardZeroIterations(t *testing.T) {
	v := newValueIter(t, nil)
	before := v.QTable().Clone()

	result := v.Forward(0, 0.1)
	assert.Equal(t, 0, result.Iterations)
	assert.False(t, result.Converged)
	assert.True(t, before.Equal(v.QTable()))
}

func TestForwardConverges(t *testing.T) {
	v := newValueIter(t, nil)

	result := v.Forward(1000, 1e-9)
	require.True(t, result.Converged)
	assert.Less(t, result.Iterations, 1000)
	assert.Len(t, result.Deltas, result.Iterations)

	// Terminal cells are never touched
	q := v.QTable()
	for a := 0; a < gridworld.NumActions; a++ {
		assert.Equal(t, 0.0, q.At(0, 0, gridworld.Action(a)))
		assert.Equal(t, 0.0, q.At(4, 4, gridworld.Action(a)))
	}

	// Once converged, a further sweep is discarded
	before := q.Clone()
	result = v.Forward(1, 1e9)
	assert.True(t, result.Converged)
	assert.Equal(t, 1, result.Iterations)
	assert.True(t, before.Equal(v.QTable()))
}

func TestForwardStopsWithoutAdoptingConvergedSweep(t *testing.T) {
	v := newValueIter(t, nil)
	before := v.QTable().Clone()

	result := v.Forward(10, 1e9)
	assert.True(t, result.Converged)
	assert.Equal(t, 1, result.Iterations)
	assert.True(t, before.Equal(v.QTable()))
}

func TestValuesAndPolicy(t *testing.T) {
	v := newValueIter(t, nil)
	v.Forward(100, 1e-12)

	values, err := v.Values()
	require.NoError(t, err)
	r, c := values.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 5, c)

	q := v.QTable()
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			assert.Equal(t, q.Max(x, y), values.At(x, y))
		}
	}

	// Moving off the grid backs up 0, which beats every real move since
	// all real moves are penalised
	policy := v.Policy()
	row, err := v.ActionValues(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, row[gridworld.Left])
	assert.InDelta(t, -0.04, row[gridworld.Up], 1e-12)
	assert.Equal(t, gridworld.Left, policy[1][0])
}

func TestSelectAction(t *testing.T) {
	v := newValueIter(t, nil)
	v.Forward(100, 1e-12)

	obs := mat.NewVecDense(2, []float64{2, 3})
	step := timestep.New(timestep.First, 0, 0.9, obs, 0)

	action := v.SelectAction(step)
	require.Equal(t, 1, action.Len())
	assert.Equal(t, float64(v.QTable().Argmax(2, 3)), action.AtVec(0))
}

func TestActionValuesOutOfBounds(t *testing.T) {
	v := newValueIter(t, nil)
	_, err := v.ActionValues(5, 0)
	assert.Error(t, err)
}

func BenchmarkForward(b *testing.B) {
	c := DefaultConfig()
	c.Grid.Space = 20
	for i := 0; i < b.N; i++ {
		v, err := New(c, nil)
		if err != nil {
			b.Error(err)
		}
		v.Forward(50, 1e-9)
	}
}

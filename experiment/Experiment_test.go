package experiment

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/gridq/environment"
	"github.com/samuelfneumann/gridq/environment/gridworld"
	"github.com/samuelfneumann/gridq/experiment/tracker"
	"github.com/samuelfneumann/gridq/initwfn"
	"github.com/samuelfneumann/gridq/solver"
	ts "github.com/samuelfneumann/gridq/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// constant always selects the same action
type constant gridworld.Action

func (c constant) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(c)})
}

// valuer values each action at its index, except in row 0 where Down
// is best
type valuer struct{}

func (valuer) ActionValues(x, y int) ([]float64, error) {
	if x == 0 {
		return []float64{0, 0, 5, 0}, nil
	}
	return []float64{0, 1, 2, 3}, nil
}

func newWorld(t *testing.T, x, y, limit int) *gridworld.GridWorld {
	t.Helper()
	g, err := gridworld.DefaultConfig().Grid()
	require.NoError(t, err)
	s, err := gridworld.NewSingleStart(x, y, g)
	require.NoError(t, err)

	w, _, err := gridworld.New(g, s, environment.NewStepLimit(limit), 1)
	require.NoError(t, err)
	return w
}

func TestRolloutReachesTerminal(t *testing.T) {
	w := newWorld(t, 0, 2, 0)
	ret := tracker.NewReturn("")
	length := tracker.NewEpisodeLength("")

	ep, err := Rollout(w, constant(gridworld.Left), 10, ret, length)
	require.NoError(t, err)

	assert.Equal(t, -2.0, ep.Return)
	assert.Equal(t, 2, ep.Length)
	assert.Equal(t, ts.TerminalStateReached, ep.End)
	assert.Equal(t, [][2]int{{0, 2}, {0, 1}, {0, 0}}, ep.Cells)
	assert.Equal(t, []float64{-2}, ret.Data())
	assert.Equal(t, []float64{2}, length.Data())
}

func TestRolloutFromTerminalCorner(t *testing.T) {
	ret := tracker.NewReturn("")
	length := tracker.NewEpisodeLength("")

	ep, err := Rollout(newWorld(t, 0, 0, 5), constant(gridworld.Right), 5,
		ret, length)
	require.NoError(t, err)

	assert.Equal(t, 0.0, ep.Return)
	assert.Equal(t, 0, ep.Length)
	assert.Equal(t, ts.TerminalStateReached, ep.End)
	assert.Equal(t, [][2]int{{0, 0}}, ep.Cells)
	assert.Equal(t, []float64{0}, ret.Data())
	assert.Equal(t, []float64{0}, length.Data())
}

func TestRolloutTimeout(t *testing.T) {
	// Ended by the environment
	ep, err := Rollout(newWorld(t, 2, 2, 5), constant(gridworld.Up), 0)
	require.NoError(t, err)
	assert.Equal(t, ts.Timeout, ep.End)
	assert.Equal(t, 5, ep.Length)
	assert.Equal(t, -5.0, ep.Return)

	// Ended by Rollout
	ep, err = Rollout(newWorld(t, 2, 2, 0), constant(gridworld.Up), 3)
	require.NoError(t, err)
	assert.Equal(t, ts.Timeout, ep.End)
	assert.Equal(t, 3, ep.Length)
	assert.Len(t, ep.Cells, 4)
}

func TestGreedy(t *testing.T) {
	g, err := gridworld.DefaultConfig().Grid()
	require.NoError(t, err)

	values, policy, err := Greedy(valuer{}, g)
	require.NoError(t, err)
	assert.Equal(t, 5.0, values.At(0, 3))
	assert.Equal(t, 3.0, values.At(2, 2))
	assert.Equal(t, gridworld.Down, policy[0][1])
	assert.Equal(t, gridworld.Left, policy[4][0])
}

func TestParseConfig(t *testing.T) {
	doc := `
seed: 7
grid:
  space: 4
valueiter:
  iterations: 10
deepq:
  layers: [8]
  biases: [false]
  activations: [tanh]
  solver:
    type: Adam
    config:
      step_size: 0.001
  init:
    type: HeN
  steps: 5
rollout:
  start: [1, 2]
output:
  dir: out
`
	c, err := ParseConfig(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, uint64(7), c.Seed)
	assert.Equal(t, 4, c.Grid.Space)
	assert.Equal(t, 0.9, c.Grid.Discount, "unset keys keep their defaults")
	assert.Equal(t, 10, c.ValueIter.Iterations)
	assert.Equal(t, 0.1, c.ValueIter.Delta)
	assert.Equal(t, []int{8}, c.DeepQ.Layers)
	assert.Equal(t, "tanh", c.DeepQ.Activations[0].String())
	assert.Equal(t, solver.Adam, c.DeepQ.Solver.Type)
	assert.Equal(t, initwfn.HeN, c.DeepQ.InitWFn.Type)
	assert.Equal(t, 5, c.DeepQ.Steps)
	assert.Equal(t, []int{1, 2}, c.Rollout.Start)
	assert.Equal(t, "out", c.Output.Dir)

	dq := c.DeepQConfig()
	assert.Equal(t, 4, dq.Grid.Space)
	assert.Equal(t, []bool{false}, dq.Biases)
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "grid:\n  size: 3\n"},
		{"bad grid", "grid:\n  space: 1\n"},
		{"layer mismatch", "deepq:\n  layers: [4, 4]\n"},
		{"start outside grid", "rollout:\n  start: [5, 0]\n"},
		{"start not a cell", "rollout:\n  start: [1]\n"},
		{"no rollout steps", "rollout:\n  max_steps: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("seed: 3\n"), 0o644))

	c, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), c.Seed)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunValueIteration(t *testing.T) {
	c := DefaultConfig()
	c.Output.Dir = t.TempDir()
	c.Rollout.Start = []int{0, 1}

	result, err := RunValueIteration(c, nil, io.Discard)
	require.NoError(t, err)

	assert.True(t, result.Result.Converged)
	assert.Equal(t, result.Result.Iterations, result.Deltas.Len())

	// Bumping into a wall backs up 0, which beats every real move, so
	// the greedy policy never leaves the grid's edge
	assert.Equal(t, ts.Timeout, result.Episode.End)
	assert.Equal(t, c.Rollout.MaxSteps, result.Episode.Length)

	for _, name := range []string{"deltas.bin", "chart.html", "values.png",
		"return.bin", "length.bin"} {
		assert.FileExists(t, filepath.Join(c.Output.Dir, "valueiter-"+name))
	}

	deltas, err := tracker.LoadData(filepath.Join(c.Output.Dir,
		"valueiter-deltas.bin"))
	require.NoError(t, err)
	assert.Equal(t, result.Deltas.Data(), deltas)
}

func TestRunDeepQ(t *testing.T) {
	c := DefaultConfig()
	c.Output.Dir = t.TempDir()
	c.DeepQ.Steps = 10

	result, err := RunDeepQ(c, nil, io.Discard)
	require.NoError(t, err)
	defer result.Agent.Close()

	assert.Equal(t, 10, result.Losses.Len())
	for _, l := range result.Losses.Data() {
		assert.GreaterOrEqual(t, l, 0.0)
	}
	assert.LessOrEqual(t, result.Episode.Length, c.Rollout.MaxSteps)

	for _, name := range []string{"losses.bin", "chart.html", "values.png",
		"return.bin", "length.bin"} {
		assert.FileExists(t, filepath.Join(c.Output.Dir, "deepq-"+name))
	}
}

func TestRunDeepQBadOutputDir(t *testing.T) {
	// A regular file where the output directory should be
	file := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	c := DefaultConfig()
	c.Output.Dir = file
	c.DeepQ.Steps = 1

	result, err := RunDeepQ(c, nil, io.Discard)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestRunWithoutOutput(t *testing.T) {
	c := DefaultConfig()
	c.DeepQ.Steps = 2
	c.ValueIter.Iterations = 0

	vi, err := RunValueIteration(c, nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 0, vi.Result.Iterations)

	dq, err := RunDeepQ(c, nil, io.Discard)
	require.NoError(t, err)
	dq.Agent.Close()
}

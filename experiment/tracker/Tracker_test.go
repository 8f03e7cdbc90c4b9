package tracker

import (
	"bytes"
	"path/filepath"
	"testing"

	ts "github.com/samuelfneumann/gridq/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func episode(rewards ...float64) []ts.TimeStep {
	obs := mat.NewVecDense(2, nil)
	steps := []ts.TimeStep{ts.New(ts.First, 0, 0.9, obs, 0)}
	for i, r := range rewards {
		stepType := ts.Mid
		if i == len(rewards)-1 {
			stepType = ts.Last
		}
		steps = append(steps, ts.New(stepType, r, 0.9, obs, i+1))
	}
	return steps
}

func TestReturnAndEpisodeLength(t *testing.T) {
	dir := t.TempDir()
	ret := NewReturn(filepath.Join(dir, "return.bin"))
	length := NewEpisodeLength(filepath.Join(dir, "length.bin"))

	steps := append(episode(-1, -1, -1), episode(-1, 0)...)
	for _, step := range steps {
		ret.Track(step)
		length.Track(step)
	}

	assert.Equal(t, []float64{-3, -1}, ret.Data())
	assert.Equal(t, []float64{3, 2}, length.Data())

	require.NoError(t, ret.Save())
	data, err := LoadData(filepath.Join(dir, "return.bin"))
	require.NoError(t, err)
	assert.Equal(t, []float64{-3, -1}, data)
}

func TestReturnPanicsOnGaps(t *testing.T) {
	ret := NewReturn("")
	steps := episode(-1, -1, -1)
	ret.Track(steps[0])
	assert.Panics(t, func() { ret.Track(steps[2]) })
}

func TestSeriesSave(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "loss.bin")
	s := NewSeries("loss", filename)
	s.Add(1, 0.5)
	s.Add(0.25)
	assert.Equal(t, 3, s.Len())

	require.NoError(t, s.Save())
	data, err := LoadData(filename)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5, 0.25}, data)
}

func TestLoadDataMissingFile(t *testing.T) {
	_, err := LoadData(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestChart(t *testing.T) {
	s := NewSeries("sweep delta", "")
	s.Add(3, 2, 1)

	var buf bytes.Buffer
	require.NoError(t, Chart(&buf, "value iteration", s))
	assert.Contains(t, buf.String(), "value iteration")
	assert.Contains(t, buf.String(), "sweep delta")

	assert.Error(t, Chart(&buf, "empty"))
}

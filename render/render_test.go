package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/samuelfneumann/gridq/environment/gridworld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func grid3(t *testing.T) *gridworld.Grid {
	t.Helper()
	c := gridworld.DefaultConfig()
	c.Space = 3
	g, err := c.Grid()
	require.NoError(t, err)
	return g
}

func values3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -0.04, -0.05,
		-0.04, -0.05, -0.04,
		-0.05, -0.04, 0,
	})
}

func policy3() [][]gridworld.Action {
	return [][]gridworld.Action{
		{gridworld.Up, gridworld.Left, gridworld.Left},
		{gridworld.Up, gridworld.Up, gridworld.Down},
		{gridworld.Right, gridworld.Right, gridworld.Up},
	}
}

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Terminal(&buf, grid3(t), values3(), policy3(), false))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "|  00.000  | -00.040 ←| -00.050 ←|", lines[0])
	assert.Contains(t, lines[1], "↓")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestTerminalColour(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Terminal(&buf, grid3(t), values3(), nil, true))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestTerminalShapeMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := Terminal(&buf, grid3(t), mat.NewDense(2, 3, nil), nil, false)
	assert.Error(t, err)

	err = Terminal(&buf, grid3(t), values3(), policy3()[:2], false)
	assert.Error(t, err)
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, grid3(t), values3(), policy3()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 3*CellSize, bounds.Dx())
	assert.Equal(t, 3*CellSize, bounds.Dy())

	// Inside the top left terminal cell, away from its border and text
	r, g, b, _ := img.At(10, 10).RGBA()
	assert.Equal(t, uint32(terminalColour.R)*0x101, r)
	assert.Equal(t, uint32(terminalColour.G)*0x101, g)
	assert.Equal(t, uint32(terminalColour.B)*0x101, b)
}

func TestImageShapeMismatch(t *testing.T) {
	_, err := Image(grid3(t), mat.NewDense(3, 2, nil), nil)
	assert.Error(t, err)
}

func TestArrow(t *testing.T) {
	assert.Equal(t, "→", Arrow(gridworld.Right))
	assert.Equal(t, "?", Arrow(gridworld.Action(7)))
}

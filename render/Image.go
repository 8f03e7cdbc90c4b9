package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/gridq/environment/gridworld"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CellSize is the side length of a grid cell in pixels
const CellSize = 80

var (
	lowColour      = color.RGBA{R: 178, G: 24, B: 43, A: 255}
	highColour     = color.RGBA{R: 33, G: 102, B: 172, A: 255}
	terminalColour = color.RGBA{R: 27, G: 120, B: 55, A: 255}
	lineColour     = color.Black
)

// Image draws values as a heat map, one CellSize square per cell,
// with the greedy action of each non-terminal cell drawn as an arrow
// when policy is not nil.
func Image(g *gridworld.Grid, values mat.Matrix,
	policy [][]gridworld.Action) (*gg.Context, error) {
	r, c := values.Dims()
	if r != g.Space || c != g.Space {
		return nil, fmt.Errorf("image: values do not match the grid\n\t"+
			"want(%d x %d)\n\thave(%d x %d)", g.Space, g.Space, r, c)
	}

	flat := mat.DenseCopyOf(values).RawMatrix().Data
	low, high := floats.Min(flat), floats.Max(flat)

	size := g.Space * CellSize
	dc := gg.NewContext(size, size)
	dc.SetColor(color.White)
	dc.Clear()

	for x := 0; x < g.Space; x++ {
		for y := 0; y < g.Space; y++ {
			// Rows are drawn top to bottom, columns left to right
			left, top := float64(y*CellSize), float64(x*CellSize)

			dc.DrawRectangle(left, top, CellSize, CellSize)
			if g.Terminal(x, y) {
				dc.SetColor(terminalColour)
			} else {
				dc.SetColor(shade(values.At(x, y), low, high))
			}
			dc.FillPreserve()
			dc.SetColor(lineColour)
			dc.SetLineWidth(2.0)
			dc.Stroke()

			centreX, centreY := left+CellSize/2, top+CellSize/2
			dc.SetColor(color.White)
			dc.DrawStringAnchored(fmt.Sprintf("%.3f", values.At(x, y)),
				centreX, centreY+CellSize/4, 0.5, 0.5)

			if policy != nil && !g.Terminal(x, y) {
				drawArrow(dc, centreX, centreY-CellSize/8, policy[x][y])
			}
		}
	}

	return dc, nil
}

// WritePNG draws the heat map of Image and encodes it as a PNG to w
func WritePNG(w io.Writer, g *gridworld.Grid, values mat.Matrix,
	policy [][]gridworld.Action) error {
	dc, err := Image(g, values, policy)
	if err != nil {
		return fmt.Errorf("writePNG: %v", err)
	}
	return dc.EncodePNG(w)
}

// SavePNG saves the heat map of Image to the PNG file filename
func SavePNG(filename string, g *gridworld.Grid, values mat.Matrix,
	policy [][]gridworld.Action) error {
	dc, err := Image(g, values, policy)
	if err != nil {
		return fmt.Errorf("savePNG: %v", err)
	}
	return dc.SavePNG(filename)
}

// drawArrow draws the arrow of action a centred at (x, y)
func drawArrow(dc *gg.Context, x, y float64, a gridworld.Action) {
	const length = CellSize / 4
	d := gridworld.Directions[a]

	// Directions are (row, column) offsets, the image is (column, row)
	dx, dy := float64(d[1])*length, float64(d[0])*length

	dc.SetColor(color.White)
	dc.SetLineWidth(3.0)
	dc.DrawLine(x-dx, y-dy, x+dx, y+dy)
	dc.Stroke()
	dc.DrawCircle(x+dx, y+dy, 4)
	dc.Fill()
}

// shade linearly interpolates between the low and high colours
func shade(v, low, high float64) color.Color {
	t := 0.5
	if high > low {
		t = (v - low) / (high - low)
	}

	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + t*(float64(b)-float64(a)))
	}
	return color.RGBA{
		R: mix(lowColour.R, highColour.R),
		G: mix(lowColour.G, highColour.G),
		B: mix(lowColour.B, highColour.B),
		A: 255,
	}
}

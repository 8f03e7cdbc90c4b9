package gridworld

import (
	"fmt"

	"github.com/samuelfneumann/gridq/environment"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SingleStart always starts episodes in the same cell
type SingleStart struct {
	state mat.Vector
}

// NewSingleStart returns a Starter that always starts in cell (x, y)
func NewSingleStart(x, y int, g *Grid) (environment.Starter, error) {
	if !g.InBounds(x, y) {
		return &SingleStart{}, fmt.Errorf("newSingleStart: (%d, %d) is "+
			"outside a grid of side %d", x, y, g.Space)
	}

	return &SingleStart{cell(x, y)}, nil
}

// Start returns the starting cell
func (s *SingleStart) Start() mat.Vector {
	return s.state
}

// UniformStart samples starting cells uniformly from the non-terminal
// cells of a grid
type UniformStart struct {
	space int
	seed  uint64
	rand  distuv.Categorical
}

// NewUniformStart returns a new UniformStart for grid g
func NewUniformStart(g *Grid, seed uint64) *UniformStart {
	source := rand.NewSource(seed)

	weights := make([]float64, g.Cells())
	for i := range weights {
		if !g.Terminal(i/g.Space, i%g.Space) {
			weights[i] = 1.0
		}
	}

	return &UniformStart{
		space: g.Space,
		seed:  seed,
		rand:  distuv.NewCategorical(weights, source),
	}
}

// Start returns a starting cell
func (u *UniformStart) Start() mat.Vector {
	ind := int(u.rand.Rand())
	return cell(ind/u.space, ind%u.space)
}

// cell returns the observation vector of cell (x, y)
func cell(x, y int) *mat.VecDense {
	return mat.NewVecDense(2, []float64{float64(x), float64(y)})
}

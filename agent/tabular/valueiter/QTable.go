package valueiter

import (
	"fmt"

	"github.com/samuelfneumann/gridq/environment/gridworld"
	"github.com/samuelfneumann/gridq/utils/floatutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// QTable is a space x space x 4 table of state-action values. Entry
// (x, y, a) is the value of taking action a in row x, column y.
type QTable struct {
	space int
	t     *tensor.Dense
	data  []float64 // backing of t
}

// NewQTable returns a new QTable of the given side length with every
// value set to fill
func NewQTable(space int, fill float64) *QTable {
	data := make([]float64, space*space*gridworld.NumActions)
	for i := range data {
		data[i] = fill
	}
	return newQTable(space, data)
}

func newQTable(space int, data []float64) *QTable {
	t := tensor.New(
		tensor.WithShape(space, space, gridworld.NumActions),
		tensor.WithBacking(data),
	)
	return &QTable{space: space, t: t, data: data}
}

// initialQTable returns the starting table for a grid: -1 everywhere
// except for the terminal corners, which are 0.
func initialQTable(g *gridworld.Grid) *QTable {
	q := NewQTable(g.Space, -1.0)
	for x := 0; x < g.Space; x++ {
		for y := 0; y < g.Space; y++ {
			if !g.Terminal(x, y) {
				continue
			}
			for a := 0; a < gridworld.NumActions; a++ {
				q.Set(x, y, gridworld.Action(a), 0)
			}
		}
	}
	return q
}

// Space returns the side length of the grid the table describes
func (q *QTable) Space() int {
	return q.space
}

func (q *QTable) index(x, y int) int {
	return (x*q.space + y) * gridworld.NumActions
}

// At returns the value of action a in cell (x, y)
func (q *QTable) At(x, y int, a gridworld.Action) float64 {
	return q.data[q.index(x, y)+int(a)]
}

// Set sets the value of action a in cell (x, y)
func (q *QTable) Set(x, y int, a gridworld.Action, v float64) {
	q.data[q.index(x, y)+int(a)] = v
}

// Row returns the action values of cell (x, y). The returned slice
// shares its memory with the table.
func (q *QTable) Row(x, y int) []float64 {
	i := q.index(x, y)
	return q.data[i : i+gridworld.NumActions]
}

// Max returns the largest action value of cell (x, y)
func (q *QTable) Max(x, y int) float64 {
	return floats.Max(q.Row(x, y))
}

// Argmax returns the first action of largest value in cell (x, y)
func (q *QTable) Argmax(x, y int) gridworld.Action {
	return gridworld.Action(floatutils.Argmax(q.Row(x, y)))
}

// Clone returns a deep copy of the table
func (q *QTable) Clone() *QTable {
	data := make([]float64, len(q.data))
	copy(data, q.data)
	return newQTable(q.space, data)
}

// Diff returns the sum of the element-wise difference q - other
func (q *QTable) Diff(other *QTable) (float64, error) {
	if q.space != other.space {
		return 0, fmt.Errorf("diff: tables have different shapes "+
			"\n\twant(%v)\n\thave(%v)", q.t.Shape(), other.t.Shape())
	}

	diff := make([]float64, len(q.data))
	floats.SubTo(diff, q.data, other.data)
	return floats.Sum(diff), nil
}

// Equal returns whether two tables hold exactly the same values
func (q *QTable) Equal(other *QTable) bool {
	return q.space == other.space && floats.Equal(q.data, other.data)
}

// Tensor returns the table as a tensor of shape (space, space, 4). The
// tensor shares its memory with the table.
func (q *QTable) Tensor() *tensor.Dense {
	return q.t
}

// Values returns the state values of the table, the maximum action
// value of each cell, as a space x space matrix
func (q *QTable) Values() (*mat.Dense, error) {
	max, err := q.t.Max(2)
	if err != nil {
		return nil, fmt.Errorf("values: could not reduce action values: %v",
			err)
	}

	values := make([]float64, q.space*q.space)
	copy(values, max.Data().([]float64))
	return mat.NewDense(q.space, q.space, values), nil
}

// Policy returns the greedy action of each cell
func (q *QTable) Policy() [][]gridworld.Action {
	policy := make([][]gridworld.Action, q.space)
	for x := range policy {
		policy[x] = make([]gridworld.Action, q.space)
		for y := range policy[x] {
			policy[x][y] = q.Argmax(x, y)
		}
	}
	return policy
}

// String implements the fmt.Stringer interface
func (q *QTable) String() string {
	return q.t.String()
}

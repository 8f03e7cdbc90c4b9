// Package valueiter implements tabular value iteration over the square
// grid world
package valueiter

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gridq/agent"
	"github.com/samuelfneumann/gridq/environment/gridworld"
	"github.com/samuelfneumann/gridq/timestep"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Result describes a call to ValueIter.Forward
type Result struct {
	Iterations int       // Sweeps performed
	Converged  bool      // Whether the last sweep was within delta
	Deltas     []float64 // |sum(old - new)| of each sweep
}

// ValueIter implements value iteration on an explicit state-action
// value table.
//
// Each sweep computes a new table from the current one, so every
// backup in a sweep sees the values of the previous sweep. Terminal
// cells are never updated.
type ValueIter struct {
	grid   *gridworld.Grid
	qTable *QTable
	scale  float64

	// updatable marks the cells whose initial value is non-zero, which
	// are exactly the non-terminal cells
	updatable []bool

	logger *zap.Logger
}

var _ agent.Agent = (*ValueIter)(nil)

// New creates and returns a new ValueIter solver. A nil logger discards
// all log output.
func New(c Config, logger *zap.Logger) (*ValueIter, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	g, err := c.Grid.Grid()
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	qTable := initialQTable(g)
	updatable := make([]bool, g.Cells())
	for x := 0; x < g.Space; x++ {
		for y := 0; y < g.Space; y++ {
			updatable[x*g.Space+y] = qTable.At(x, y, gridworld.Up) != 0
		}
	}

	return &ValueIter{
		grid:      g,
		qTable:    qTable,
		scale:     c.Scale,
		updatable: updatable,
		logger:    logger,
	}, nil
}

// Forward performs at most numIter sweeps of value iteration. Sweeping
// stops as soon as |sum(old - new)| <= delta, in which case the final
// sweep is discarded and the table is left as it was before it.
func (v *ValueIter) Forward(numIter int, delta float64) Result {
	var result Result

	for iter := 0; iter < numIter; iter++ {
		next := v.qTable.Clone()
		for x := 0; x < v.grid.Space; x++ {
			for y := 0; y < v.grid.Space; y++ {
				if !v.updatable[x*v.grid.Space+y] {
					continue
				}
				for m := 0; m < gridworld.NumActions; m++ {
					a := gridworld.Action(m)
					next.Set(x, y, a, v.MaxReward(x, y, a))
				}
			}
		}

		// Tables always share a shape here
		diff, _ := v.qTable.Diff(next)
		diff = math.Abs(diff)

		result.Iterations = iter + 1
		result.Deltas = append(result.Deltas, diff)
		v.logger.Debug("value iteration sweep",
			zap.Int("iteration", iter),
			zap.Float64("delta", diff),
		)

		if diff <= delta {
			result.Converged = true
			v.logger.Info("value iteration converged",
				zap.Int("iterations", result.Iterations),
				zap.Float64("delta", diff),
			)
			return result
		}

		v.qTable = next
	}

	v.logger.Debug("value iteration stopped before converging",
		zap.Int("iterations", result.Iterations),
	)
	return result
}

// MaxReward returns the backed-up value of taking action m in cell
// (x, y) against the current table. When moves are deterministic this
// is (reward + discount * max_a Q(next, a)) / scale if the next cell is
// in the grid and 0 otherwise. When moves slip, it is the probability
// weighted sum of that quantity over the directions actually taken.
func (v *ValueIter) MaxReward(x, y int, m gridworld.Action) float64 {
	var reward float64
	for _, outcome := range v.grid.Transitions(m) {
		reward += outcome.Prob * v.backup(x, y, outcome.Action)
	}
	return reward
}

// backup returns the value of moving from (x, y) in direction a
func (v *ValueIter) backup(x, y int, a gridworld.Action) float64 {
	nextX, nextY := v.grid.Move(x, y, a)
	if !v.grid.InBounds(nextX, nextY) {
		return 0
	}

	next := v.grid.Reward + v.grid.Discount*v.qTable.Max(nextX, nextY)
	return next / v.scale
}

// QTable returns the current state-action value table
func (v *ValueIter) QTable() *QTable {
	return v.qTable
}

// Grid returns the grid the solver works on
func (v *ValueIter) Grid() *gridworld.Grid {
	return v.grid
}

// Values returns the state values of the current table
func (v *ValueIter) Values() (*mat.Dense, error) {
	return v.qTable.Values()
}

// Policy returns the greedy action of each cell
func (v *ValueIter) Policy() [][]gridworld.Action {
	return v.qTable.Policy()
}

// ActionValues returns the action values of cell (x, y)
func (v *ValueIter) ActionValues(x, y int) ([]float64, error) {
	if !v.grid.InBounds(x, y) {
		return nil, fmt.Errorf("actionValues: (%d, %d) is outside the grid",
			x, y)
	}

	values := make([]float64, gridworld.NumActions)
	copy(values, v.qTable.Row(x, y))
	return values, nil
}

// SelectAction returns the greedy action in the cell observed at t
func (v *ValueIter) SelectAction(t timestep.TimeStep) *mat.VecDense {
	x, y := t.Cell()
	a := v.qTable.Argmax(x, y)
	return mat.NewVecDense(1, []float64{float64(a)})
}

package gridworld

import (
	"fmt"

	"github.com/samuelfneumann/gridq/timestep"
	"gonum.org/v1/gonum/mat"
)

// Corners represents the task of reaching either terminal corner of a
// Grid. Every move, including the one into a corner, is rewarded with
// the grid's step reward.
type Corners struct {
	grid *Grid
}

// NewCorners returns the corner-reaching task on grid g
func NewCorners(g *Grid) *Corners {
	return &Corners{g}
}

// GetReward returns the reward for taking action a from timestep t
func (c *Corners) GetReward(t timestep.TimeStep, a mat.Vector) float64 {
	return c.grid.Reward
}

// AtGoal returns whether state is a terminal corner
func (c *Corners) AtGoal(state mat.Vector) bool {
	x, y := int(state.AtVec(0)), int(state.AtVec(1))
	return c.grid.Terminal(x, y)
}

// Min returns the minimum reward attainable in the Task
func (c *Corners) Min() float64 {
	return c.grid.Reward
}

// Max returns the maximum reward attainable in the Task
func (c *Corners) Max() float64 {
	return c.grid.Reward
}

// String returns the Task as a string
func (c *Corners) String() string {
	last := c.grid.Space - 1
	return fmt.Sprintf("Corners | Goals: (0, 0), (%d, %d)", last, last)
}

// Package agent defines the interfaces shared by the grid world agents
package agent

import (
	"github.com/samuelfneumann/gridq/timestep"
	"gonum.org/v1/gonum/mat"
)

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. Both the value
// iteration solver and the deep Q-network act greedily with respect to
// their action values, so any of them can be rolled out in a grid
// world.
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
}

// ActionValuer is an agent that can report its estimate of the value of
// each action in a grid cell (x, y)
type ActionValuer interface {
	ActionValues(x, y int) ([]float64, error)
}

// Agent is a Policy whose action values can be inspected
type Agent interface {
	Policy
	ActionValuer
}

// Package gridworld implements the square grid world shared by the value
// iteration and deep Q-network agents
package gridworld

import (
	"fmt"

	"github.com/samuelfneumann/gridq/environment"
	"github.com/samuelfneumann/gridq/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GridWorld represents a gridworld environment
//
// The agent observes its own cell as the 2-vector (x, y). Moves that
// would leave the grid keep the agent in place, and entering either
// terminal corner ends the episode.
type GridWorld struct {
	environment.Task
	environment.Starter
	ender environment.Ender

	grid        *Grid
	x, y        int
	rng         *rand.Rand
	currentStep timestep.TimeStep
}

var _ environment.Environment = (*GridWorld)(nil)

// New creates a new GridWorld on grid g. Episodes start at cells
// sampled from s and are cut short by e, which may be nil.
func New(g *Grid, s environment.Starter, e environment.Ender,
	seed uint64) (*GridWorld, timestep.TimeStep, error) {
	if g == nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: nil grid")
	}

	w := &GridWorld{
		Task:    NewCorners(g),
		Starter: s,
		ender:   e,
		grid:    g,
		rng:     rand.New(rand.NewSource(seed)),
	}

	return w, w.Reset(), nil
}

// Grid returns the rules of the GridWorld
func (w *GridWorld) Grid() *Grid {
	return w.grid
}

// Reset resets the environment between episodes. If the Starter
// yields a terminal cell, the returned TimeStep is already the last.
func (w *GridWorld) Reset() timestep.TimeStep {
	start := w.Start()
	w.x, w.y = int(start.AtVec(0)), int(start.AtVec(1))

	startStep := timestep.New(timestep.First, 0, w.grid.Discount,
		cell(w.x, w.y), 0)

	// Starting in a terminal corner ends the episode immediately
	if w.grid.Terminal(w.x, w.y) {
		startStep.StepType = timestep.Last
		startStep.SetEnd(timestep.TerminalStateReached)
	}

	w.currentStep = startStep
	return startStep
}

// Step takes one environmental step given the index of an action
func (w *GridWorld) Step(action mat.Vector) (timestep.TimeStep, bool,
	error) {
	if err := w.ActionSpec().Contains(action); err != nil {
		return timestep.TimeStep{}, true, fmt.Errorf("step: %v", err)
	}
	a := Action(int(action.AtVec(0)))

	if w.currentStep.Last() {
		return w.currentStep, true, fmt.Errorf("step: episode has ended, " +
			"call Reset() first")
	}

	// Move the current position, staying in place at the walls
	taken := w.sample(a)
	x, y := w.grid.Move(w.x, w.y, taken)
	if w.grid.InBounds(x, y) {
		w.x, w.y = x, y
	}
	newPosition := cell(w.x, w.y)

	reward := w.GetReward(w.currentStep, action)
	number := w.currentStep.Number + 1
	step := timestep.New(timestep.Mid, reward, w.grid.Discount,
		newPosition, number)

	if w.AtGoal(newPosition) {
		step.StepType = timestep.Last
		step.SetEnd(timestep.TerminalStateReached)
	} else if w.ender != nil {
		w.ender.End(&step)
	}

	w.currentStep = step
	return step, step.Last(), nil
}

// sample returns the direction actually taken when a is chosen
func (w *GridWorld) sample(a Action) Action {
	outcomes := w.grid.Transitions(a)
	if len(outcomes) == 1 {
		return outcomes[0].Action
	}

	weights := make([]float64, len(outcomes))
	for i := range outcomes {
		weights[i] = outcomes[i].Prob
	}
	ind := distuv.NewCategorical(weights, w.rng).Rand()
	return outcomes[int(ind)].Action
}

// Coordinates returns the current cell of the agent
func (w *GridWorld) Coordinates() (int, int) {
	return w.x, w.y
}

// ObservationSpec returns the observation specification of the
// environment
func (w *GridWorld) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(2, nil)
	lowerBound := mat.NewVecDense(2, nil)
	max := float64(w.grid.Space - 1)
	upperBound := mat.NewVecDense(2, []float64{max, max})

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Discrete)
}

// ActionSpec returns the action specification of the environment
func (w *GridWorld) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, nil)
	upperBound := mat.NewVecDense(1, []float64{NumActions - 1})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Discrete)
}

// DiscountSpec returns the discount specification of the environment
func (w *GridWorld) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{w.grid.Discount})

	return environment.NewSpec(shape, environment.Discount, bound, bound,
		environment.Continuous)
}

// String implements the fmt.Stringer interface
func (w *GridWorld) String() string {
	str := "GridWorld | At: (%d, %d)  |  %v  |  Bounds: (%d, %d)"
	return fmt.Sprintf(str, w.x, w.y, w.Task, w.grid.Space, w.grid.Space)
}

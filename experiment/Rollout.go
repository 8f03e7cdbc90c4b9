package experiment

import (
	"fmt"

	"github.com/samuelfneumann/gridq/agent"
	"github.com/samuelfneumann/gridq/environment"
	"github.com/samuelfneumann/gridq/experiment/tracker"
	ts "github.com/samuelfneumann/gridq/timestep"
)

// Episode describes a single episode run by Rollout
type Episode struct {
	Return float64
	Length int
	End    ts.EndType
	Cells  [][2]int // Cells visited, starting with the start cell
}

// Rollout runs a single episode in env, selecting actions with p. The
// episode is cut short after maxSteps steps if maxSteps > 0. Each
// TimeStep of the episode, including the first, is sent to every
// tracker.
func Rollout(env environment.Environment, p agent.Policy, maxSteps int,
	trackers ...tracker.Tracker) (Episode, error) {
	step := env.Reset()
	track(trackers, step)

	var ep Episode
	x, y := step.Cell()
	ep.Cells = append(ep.Cells, [2]int{x, y})

	for !step.Last() {
		if maxSteps > 0 && ep.Length >= maxSteps {
			ep.End = ts.Timeout
			return ep, nil
		}

		action := p.SelectAction(step)

		var err error
		step, _, err = env.Step(action)
		if err != nil {
			return ep, fmt.Errorf("rollout: could not step environment: %v",
				err)
		}
		track(trackers, step)

		ep.Length++
		ep.Return += step.Reward
		x, y := step.Cell()
		ep.Cells = append(ep.Cells, [2]int{x, y})
	}

	ep.End = step.EndType()
	return ep, nil
}

// track sends t to each tracker
func track(trackers []tracker.Tracker, t ts.TimeStep) {
	for _, tr := range trackers {
		tr.Track(t)
	}
}

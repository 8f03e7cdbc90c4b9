package experiment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/gridq/agent"
	"github.com/samuelfneumann/gridq/agent/nonlinear/discrete/deepq"
	"github.com/samuelfneumann/gridq/agent/tabular/valueiter"
	"github.com/samuelfneumann/gridq/environment"
	"github.com/samuelfneumann/gridq/environment/gridworld"
	"github.com/samuelfneumann/gridq/experiment/tracker"
	"github.com/samuelfneumann/gridq/render"
	"github.com/samuelfneumann/gridq/utils/floatutils"
	"github.com/samuelfneumann/gridq/utils/matutils"
	"github.com/samuelfneumann/gridq/utils/progressbar"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// progressWidth is the width of progress bars in characters
const progressWidth = 40

// ValueIterResult describes a finished value iteration experiment
type ValueIterResult struct {
	Agent   *valueiter.ValueIter
	Result  valueiter.Result
	Deltas  *tracker.Series
	Episode Episode
}

// DeepQResult describes a finished deep Q-network experiment
type DeepQResult struct {
	Agent   *deepq.DeepQ
	Losses  *tracker.Series
	Episode Episode
}

// RunValueIteration runs value iteration as described by c, one sweep
// at a time, then rolls out the greedy policy. Progress and the final
// value table are written to out. A nil logger discards all log
// output.
func RunValueIteration(c Config, logger *zap.Logger,
	out io.Writer) (*ValueIterResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	v, err := valueiter.New(c.ValueIterConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("runValueIteration: %w", err)
	}
	if err := makeOutputDir(c); err != nil {
		return nil, fmt.Errorf("runValueIteration: %v", err)
	}

	const prefix = "valueiter"
	deltas := tracker.NewSeries("sweep delta",
		outputPath(c, prefix, "deltas.bin"))
	var result valueiter.Result

	bar := progressbar.NewManualProgressBar(out, progressWidth,
		c.ValueIter.Iterations)
	for i := 0; i < c.ValueIter.Iterations; i++ {
		r := v.Forward(1, c.ValueIter.Delta)
		deltas.Add(r.Deltas...)
		result.Iterations++
		result.Deltas = append(result.Deltas, r.Deltas...)

		bar.Increment()
		bar.Display()
		if r.Converged {
			result.Converged = true
			break
		}
	}
	bar.Finish()
	bar.Display()
	bar.Close()

	logger.Info("value iteration finished",
		zap.Int("iterations", result.Iterations),
		zap.Bool("converged", result.Converged),
	)

	values, err := v.Values()
	if err != nil {
		return nil, fmt.Errorf("runValueIteration: %v", err)
	}
	logger.Debug("state values", zap.String("values", matutils.Format(values)))
	if err := render.Terminal(out, v.Grid(), values, v.Policy(),
		isTerminal(out)); err != nil {
		return nil, fmt.Errorf("runValueIteration: %v", err)
	}

	ep, err := rollout(c, prefix, v.Grid(), v, logger)
	if err != nil {
		return nil, fmt.Errorf("runValueIteration: %v", err)
	}

	if err := save(c, prefix, v.Grid(), values, v.Policy(),
		"value iteration", deltas); err != nil {
		return nil, fmt.Errorf("runValueIteration: %v", err)
	}

	return &ValueIterResult{
		Agent:   v,
		Result:  result,
		Deltas:  deltas,
		Episode: ep,
	}, nil
}

// RunDeepQ trains the deep Q-network described by c for c.DeepQ.Steps
// single-cell updates, then rolls out its greedy policy. Progress and
// the final action values are written to out. A nil logger discards
// all log output. The returned agent must be closed by the caller.
func RunDeepQ(c Config, logger *zap.Logger, out io.Writer) (
	result *DeepQResult, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	d, err := deepq.New(c.DeepQConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("runDeepQ: %w", err)
	}
	defer func() {
		if err != nil {
			d.Close()
		}
	}()
	if err := makeOutputDir(c); err != nil {
		return nil, fmt.Errorf("runDeepQ: %v", err)
	}

	const prefix = "deepq"
	losses := tracker.NewSeries("loss", outputPath(c, prefix, "losses.bin"))
	starter := gridworld.NewUniformStart(d.Grid(), c.Seed)

	bar := progressbar.NewManualProgressBar(out, progressWidth,
		c.DeepQ.Steps)
	for i := 0; i < c.DeepQ.Steps; i++ {
		cell := starter.Start()
		loss, err := d.Learn([]float64{cell.AtVec(0), cell.AtVec(1)})
		if err != nil {
			return nil, fmt.Errorf("runDeepQ: update %d: %w", i, err)
		}
		losses.Add(loss.Value)

		bar.Increment()
		bar.Display()
	}
	bar.Close()

	if n := losses.Len(); n > 0 {
		logger.Info("deep q training finished",
			zap.Int("steps", n),
			zap.Float64("final loss", losses.Data()[n-1]),
		)
	}

	values, policy, err := Greedy(d, d.Grid())
	if err != nil {
		return nil, fmt.Errorf("runDeepQ: %v", err)
	}
	logger.Debug("state values", zap.String("values", matutils.Format(values)))
	if err := render.Terminal(out, d.Grid(), values, policy,
		isTerminal(out)); err != nil {
		return nil, fmt.Errorf("runDeepQ: %v", err)
	}

	ep, err := rollout(c, prefix, d.Grid(), d, logger)
	if err != nil {
		return nil, fmt.Errorf("runDeepQ: %v", err)
	}

	if err := save(c, prefix, d.Grid(), values, policy, "deep q-network",
		losses); err != nil {
		return nil, fmt.Errorf("runDeepQ: %v", err)
	}

	return &DeepQResult{
		Agent:   d,
		Losses:  losses,
		Episode: ep,
	}, nil
}

// Greedy returns the state value and greedy action of each cell of g
// as estimated by a
func Greedy(a agent.ActionValuer, g *gridworld.Grid) (*mat.Dense,
	[][]gridworld.Action, error) {
	values := mat.NewDense(g.Space, g.Space, nil)
	policy := make([][]gridworld.Action, g.Space)

	for x := 0; x < g.Space; x++ {
		policy[x] = make([]gridworld.Action, g.Space)
		for y := 0; y < g.Space; y++ {
			actionValues, err := a.ActionValues(x, y)
			if err != nil {
				return nil, nil, fmt.Errorf("greedy: %v", err)
			}
			max, inds := floatutils.MaxSlice(actionValues)
			values.Set(x, y, max)
			policy[x][y] = gridworld.Action(inds[0])
		}
	}

	return values, policy, nil
}

// rollout runs one greedy episode of p on a new GridWorld
func rollout(c Config, prefix string, g *gridworld.Grid, p agent.Policy,
	logger *zap.Logger) (Episode, error) {
	var starter environment.Starter
	if len(c.Rollout.Start) == 2 {
		s, err := gridworld.NewSingleStart(c.Rollout.Start[0],
			c.Rollout.Start[1], g)
		if err != nil {
			return Episode{}, err
		}
		starter = s
	} else {
		starter = gridworld.NewUniformStart(g, c.Seed)
	}

	ender := environment.NewStepLimit(c.Rollout.MaxSteps)
	env, _, err := gridworld.New(g, starter, ender, c.Seed)
	if err != nil {
		return Episode{}, err
	}

	var trackers []tracker.Tracker
	if c.Output.Dir != "" {
		trackers = append(trackers,
			tracker.NewReturn(outputPath(c, prefix, "return.bin")),
			tracker.NewEpisodeLength(outputPath(c, prefix, "length.bin")),
		)
	}

	ep, err := Rollout(env, p, c.Rollout.MaxSteps, trackers...)
	if err != nil {
		return Episode{}, err
	}
	for _, tr := range trackers {
		if err := tr.Save(); err != nil {
			return Episode{}, err
		}
	}

	logger.Info("greedy rollout finished",
		zap.Float64("return", ep.Return),
		zap.Int("length", ep.Length),
		zap.Stringer("end", ep.End),
	)
	return ep, nil
}

// save writes the series, its chart, and a heat map of values to the
// output directory, if one is configured
func save(c Config, prefix string, g *gridworld.Grid, values mat.Matrix,
	policy [][]gridworld.Action, title string, series *tracker.Series) error {
	if c.Output.Dir == "" {
		return nil
	}

	if err := series.Save(); err != nil {
		return err
	}
	if err := tracker.SaveChart(outputPath(c, prefix, "chart.html"), title,
		series); err != nil {
		return err
	}
	return render.SavePNG(outputPath(c, prefix, "values.png"), g, values,
		policy)
}

// makeOutputDir creates the output directory, if one is configured
func makeOutputDir(c Config) error {
	if c.Output.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("makeOutputDir: %v", err)
	}
	return nil
}

// outputPath returns the path of prefix-name in the output directory
func outputPath(c Config, prefix, name string) string {
	return filepath.Join(c.Output.Dir, prefix+"-"+name)
}

// isTerminal returns whether w is a character device, in which case
// output is coloured
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

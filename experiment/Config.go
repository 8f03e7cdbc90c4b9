// Package experiment wires configurations, agents, the grid world, and
// trackers together to run value iteration and deep Q-network
// experiments
package experiment

import (
	"fmt"
	"io"
	"os"

	"github.com/samuelfneumann/gridq/agent/nonlinear/discrete/deepq"
	"github.com/samuelfneumann/gridq/agent/tabular/valueiter"
	"github.com/samuelfneumann/gridq/environment/gridworld"
	"github.com/samuelfneumann/gridq/initwfn"
	"github.com/samuelfneumann/gridq/network"
	"github.com/samuelfneumann/gridq/solver"
	"gopkg.in/yaml.v3"
)

// ValueIterConfig configures a value iteration run
type ValueIterConfig struct {
	Iterations int     `yaml:"iterations"` // Maximum number of sweeps
	Delta      float64 `yaml:"delta"`      // Convergence threshold
	Scale      float64 `yaml:"scale"`      // Normaliser of each backup
}

// DeepQConfig configures a deep Q-network run
type DeepQConfig struct {
	Layers      []int                 `yaml:"layers"`
	Biases      []bool                `yaml:"biases"`
	Activations []*network.Activation `yaml:"activations"`
	Solver      *solver.Solver        `yaml:"solver"`
	InitWFn     *initwfn.InitWFn      `yaml:"init"`
	Loss        network.Loss          `yaml:"loss"`

	// Steps is the number of updates, each on a cell sampled uniformly
	// from the non-terminal cells
	Steps int `yaml:"steps"`
}

// RolloutConfig configures the greedy episode run after training
type RolloutConfig struct {
	MaxSteps int `yaml:"max_steps"`

	// Start is the (x, y) cell the episode starts in. If empty, the
	// start cell is sampled uniformly from the non-terminal cells.
	Start []int `yaml:"start"`
}

// OutputConfig configures where results are saved. Nothing is saved
// when Dir is empty.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Config describes an experiment
type Config struct {
	Seed      uint64           `yaml:"seed"`
	Grid      gridworld.Config `yaml:"grid"`
	ValueIter ValueIterConfig  `yaml:"valueiter"`
	DeepQ     DeepQConfig      `yaml:"deepq"`
	Rollout   RolloutConfig    `yaml:"rollout"`
	Output    OutputConfig     `yaml:"output"`
}

// DefaultConfig returns the default experiment configuration
func DefaultConfig() Config {
	dq := deepq.DefaultConfig()

	return Config{
		Seed: 1,
		Grid: gridworld.DefaultConfig(),
		ValueIter: ValueIterConfig{
			Iterations: 100,
			Delta:      0.1,
			Scale:      valueiter.DefaultScale,
		},
		DeepQ: DeepQConfig{
			Layers:      dq.PolicyLayers,
			Biases:      dq.Biases,
			Activations: dq.Activations,
			Solver:      dq.Solver,
			InitWFn:     dq.InitWFn,
			Loss:        dq.Loss,
			Steps:       1000,
		},
		Rollout: RolloutConfig{
			MaxSteps: 50,
		},
	}
}

// LoadConfig reads a YAML configuration from filename. Keys missing
// from the file keep their default values.
func LoadConfig(filename string) (Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not open config: %v",
			err)
	}
	defer file.Close()

	c, err := ParseConfig(file)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}
	return c, nil
}

// ParseConfig reads a YAML configuration from r. Keys missing from the
// configuration keep their default values.
func ParseConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("parseConfig: could not decode: %v", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("parseConfig: %w", err)
	}
	return c, nil
}

// Validate returns an error describing whether or not the configuration
// is valid.
func (c Config) Validate() error {
	if err := c.ValueIterConfig().Validate(); err != nil {
		return err
	}
	if err := c.DeepQConfig().Validate(); err != nil {
		return err
	}

	if c.ValueIter.Iterations < 0 {
		return fmt.Errorf("validate: %w: iterations must be non-negative"+
			"\n\thave(%v)", gridworld.ErrInvalidConfig, c.ValueIter.Iterations)
	}
	if c.DeepQ.Steps < 0 {
		return fmt.Errorf("validate: %w: steps must be non-negative"+
			"\n\thave(%v)", gridworld.ErrInvalidConfig, c.DeepQ.Steps)
	}
	if c.Rollout.MaxSteps < 1 {
		return fmt.Errorf("validate: %w: rollouts need at least one step"+
			"\n\thave(%v)", gridworld.ErrInvalidConfig, c.Rollout.MaxSteps)
	}

	switch len(c.Rollout.Start) {
	case 0:
	case 2:
		x, y := c.Rollout.Start[0], c.Rollout.Start[1]
		g, _ := c.Grid.Grid()
		if !g.InBounds(x, y) {
			return fmt.Errorf("validate: %w: start (%d, %d) is outside "+
				"the grid", gridworld.ErrInvalidConfig, x, y)
		}
	default:
		return fmt.Errorf("validate: %w: start must be a cell (x, y)"+
			"\n\thave(%v)", gridworld.ErrInvalidConfig, c.Rollout.Start)
	}

	return nil
}

// ValueIterConfig returns the configuration of the value iteration
// solver
func (c Config) ValueIterConfig() valueiter.Config {
	return valueiter.Config{
		Grid:  c.Grid,
		Scale: c.ValueIter.Scale,
	}
}

// DeepQConfig returns the configuration of the deep Q-network
func (c Config) DeepQConfig() deepq.Config {
	return deepq.Config{
		Grid:         c.Grid,
		PolicyLayers: c.DeepQ.Layers,
		Biases:       c.DeepQ.Biases,
		Activations:  c.DeepQ.Activations,
		Solver:       c.DeepQ.Solver,
		InitWFn:      c.DeepQ.InitWFn,
		Loss:         c.DeepQ.Loss,
	}
}

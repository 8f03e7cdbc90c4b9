package deepq

import (
	"fmt"

	"github.com/samuelfneumann/gridq/agent"
	"github.com/samuelfneumann/gridq/environment/gridworld"
	"github.com/samuelfneumann/gridq/initwfn"
	"github.com/samuelfneumann/gridq/network"
	"github.com/samuelfneumann/gridq/solver"
)

var _ agent.Config = Config{}

// Config implements a configuration for a DeepQ agent
type Config struct {
	Grid gridworld.Config `yaml:"grid"`

	PolicyLayers []int                 `yaml:"layers"`      // Hidden layer sizes
	Biases       []bool                `yaml:"biases"`      // Whether each layer has a bias
	Activations  []*network.Activation `yaml:"activations"` // Activation of each layer
	Solver       *solver.Solver        `yaml:"solver"`      // Solver for learning weights

	// Initialization algorithm for weights
	InitWFn *initwfn.InitWFn `yaml:"init"`

	// Loss between the predicted action values and the label
	Loss network.Loss `yaml:"loss"`
}

// DefaultConfig returns the configuration of the 2-32-8-16-4 ReLU
// network on the default grid, trained with the mean squared error
// and vanilla gradient descent
func DefaultConfig() Config {
	s, err := solver.NewVanilla(0.01, 1, -1)
	if err != nil {
		panic(fmt.Sprintf("defaultConfig: %v", err))
	}
	init, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		panic(fmt.Sprintf("defaultConfig: %v", err))
	}

	return Config{
		Grid:         gridworld.DefaultConfig(),
		PolicyLayers: []int{32, 8, 16},
		Biases:       []bool{true, true, true},
		Activations: []*network.Activation{
			network.ReLU(),
			network.ReLU(),
			network.ReLU(),
		},
		Solver:  s,
		InitWFn: init,
		Loss:    network.MSE,
	}
}

// Type returns the type of the configuration
func (c Config) Type() agent.Type {
	return agent.DeepQ
}

// Validate checks a Config to ensure it is a valid configuration of a
// DeepQ agent.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}

	if len(c.PolicyLayers) != len(c.Biases) {
		return fmt.Errorf("validate: %w: invalid number of biases"+
			"\n\twant(%v)\n\thave(%v)", gridworld.ErrInvalidConfig,
			len(c.PolicyLayers), len(c.Biases))
	}

	if len(c.PolicyLayers) != len(c.Activations) {
		return fmt.Errorf("validate: %w: invalid number of activations"+
			"\n\twant(%v)\n\thave(%v)", gridworld.ErrInvalidConfig,
			len(c.PolicyLayers), len(c.Activations))
	}

	for i, act := range c.Activations {
		if act == nil {
			return fmt.Errorf("validate: %w: nil activation for layer %d",
				gridworld.ErrInvalidConfig, i)
		}
	}

	if c.Solver == nil {
		return fmt.Errorf("validate: %w: no solver", gridworld.ErrInvalidConfig)
	}

	if c.InitWFn == nil {
		return fmt.Errorf("validate: %w: no weight initializer",
			gridworld.ErrInvalidConfig)
	}

	if !c.Loss.Valid() {
		return fmt.Errorf("validate: %w: unknown loss %q",
			gridworld.ErrInvalidConfig, string(c.Loss))
	}

	return nil
}

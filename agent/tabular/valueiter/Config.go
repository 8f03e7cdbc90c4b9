package valueiter

import (
	"fmt"

	"github.com/samuelfneumann/gridq/agent"
	"github.com/samuelfneumann/gridq/environment/gridworld"
)

// DefaultScale is the normaliser that every backup is divided by
const DefaultScale = 25.0

var _ agent.Config = Config{}

// Config implements a configuration for a ValueIter solver
type Config struct {
	Grid gridworld.Config `yaml:"grid"`

	// Scale divides every backed-up value
	Scale float64 `yaml:"scale"`
}

// DefaultConfig returns the configuration of the 5x5 grid with the
// default normaliser
func DefaultConfig() Config {
	return Config{
		Grid:  gridworld.DefaultConfig(),
		Scale: DefaultScale,
	}
}

// Type returns the type of the configuration
func (c Config) Type() agent.Type {
	return agent.ValueIteration
}

// Validate checks a Config to ensure it is a valid configuration of a
// ValueIter solver.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}

	if c.Scale <= 0 {
		return fmt.Errorf("validate: %w: scale must be positive"+
			"\n\twant(>0)\n\thave(%v)", gridworld.ErrInvalidConfig, c.Scale)
	}

	return nil
}

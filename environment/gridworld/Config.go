package gridworld

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a grid Config cannot describe a grid
var ErrInvalidConfig = errors.New("invalid grid configuration")

// Config describes the conventions shared by every algorithm that works
// on the square grid: its side length, the reward received on each
// move, the discount, and the probability that a move goes in the
// intended direction.
type Config struct {
	Space    int     `yaml:"space"`
	Reward   float64 `yaml:"reward"`
	Discount float64 `yaml:"discount"`

	// Prob is the probability that the intended move is taken. The
	// remaining probability is split evenly between the other three
	// directions.
	Prob float64 `yaml:"prob"`
}

// DefaultConfig returns the 5x5 grid with a step reward of -1, a
// discount of 0.9, and deterministic moves
func DefaultConfig() Config {
	return Config{
		Space:    5,
		Reward:   -1.0,
		Discount: 0.9,
		Prob:     1.0,
	}
}

// Validate returns an error describing whether or not the configuration
// is valid.
func (c Config) Validate() error {
	if c.Space < 2 {
		return fmt.Errorf("validate: %w: space must be at least 2"+
			"\n\twant(>=2)\n\thave(%v)", ErrInvalidConfig, c.Space)
	}

	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: %w: discount must be in [0, 1]"+
			"\n\thave(%v)", ErrInvalidConfig, c.Discount)
	}

	if c.Prob <= 0 || c.Prob > 1 {
		return fmt.Errorf("validate: %w: prob must be in (0, 1]"+
			"\n\thave(%v)", ErrInvalidConfig, c.Prob)
	}

	return nil
}

// Grid returns the Grid described by the Config
func (c Config) Grid() (*Grid, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Grid{c}, nil
}

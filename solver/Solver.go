// Package solver implements functionality to wrap Gorgonia Solvers
// so that they can be described in configuration files.
package solver

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
	RMSProp Type = "RMSProp"
)

// defaults holds the default configuration of each solver type. Fields
// missing from a configuration file keep these values.
var defaults = map[Type]Config{
	Adam:    AdamConfig{StepSize: 0.001, Epsilon: 1e-8, Beta1: 0.9, Beta2: 0.999, Batch: 1},
	Vanilla: VanillaConfig{StepSize: 0.01, Batch: 1},
	RMSProp: RMSPropConfig{StepSize: 0.001, Epsilon: 1e-8, Rho: 0.999, Batch: 1},
}

// Solver wraps Gorgonia Solvers so that they can be decoded from
// configuration files.
type Solver struct {
	G.Solver `yaml:"-"`
	Type     `yaml:"type"`
	Config   `yaml:"config"`
}

// newSolver returns a new solver with the given type and configuration.
func newSolver(t Type, c Config) (*Solver, error) {
	if !c.ValidType(t) {
		return nil, fmt.Errorf("newSolver: invalid solver type %v for "+
			"configuration %T", t, c)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newSolver: %v", err)
	}
	solver := Solver{Type: t, Config: c}
	solver.Solver = solver.Config.Create()

	return &solver, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface. A Solver is
// described by its type and an optional configuration, for example:
//
//	type: Adam
//	config:
//	  step_size: 0.0001
func (s *Solver) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Type   Type      `yaml:"type"`
		Config yaml.Node `yaml:"config"`
	}
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("unmarshalYAML: %v", err)
	}

	config, err := decodeConfig(raw.Type, &raw.Config)
	if err != nil {
		return err
	}

	solver, err := newSolver(raw.Type, config)
	if err != nil {
		return err
	}
	*s = *solver

	return nil
}

// decodeConfig uses reflection to decode a Config node into the
// concrete Config type registered for t, starting from its defaults.
func decodeConfig(t Type, node *yaml.Node) (Config, error) {
	def, ok := defaults[t]
	if !ok {
		return nil, fmt.Errorf("decodeConfig: unknown solver type %q", t)
	}

	value := reflect.New(reflect.TypeOf(def))
	value.Elem().Set(reflect.ValueOf(def))

	// An absent config node leaves the defaults in place
	if node.Kind != 0 {
		if err := node.Decode(value.Interface()); err != nil {
			return nil, fmt.Errorf("decodeConfig: could not decode %v "+
				"config: %v", t, err)
		}
	}

	return value.Elem().Interface().(Config), nil
}

// New returns the default Solver of type t
func New(t Type) (*Solver, error) {
	def, ok := defaults[t]
	if !ok {
		return nil, fmt.Errorf("new: unknown solver type %q", t)
	}
	return newSolver(t, def)
}

// String implements the fmt.Stringer interface
func (s *Solver) String() string {
	return fmt.Sprintf("{%v Solver: %+v}", s.Type, s.Config)
}

// Config implements a Gorgonia Solver configuration and can be used to
// create Gorgonia Solvers they describe.
type Config interface {
	Create() G.Solver

	// ValidType returns whether a specific Solver type can be created
	// with the Config
	ValidType(Type) bool

	// Validate returns an error if the hyperparameters are out of range
	Validate() error
}

// validateStep checks the hyperparameters common to all solvers
func validateStep(stepSize float64, batch int) error {
	if stepSize <= 0 {
		return fmt.Errorf("validate: step size must be positive"+
			"\n\twant(>0)\n\thave(%v)", stepSize)
	}
	if batch < 1 {
		return fmt.Errorf("validate: batch size must be positive"+
			"\n\twant(>=1)\n\thave(%v)", batch)
	}
	return nil
}

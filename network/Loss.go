package network

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	G "gorgonia.org/gorgonia"
)

// Loss describes a regression loss between predictions and targets of
// the same shape
type Loss string

// Available losses
const (
	MSE Loss = "mse"
	MAE Loss = "mae"
)

// Valid returns whether l is a known loss
func (l Loss) Valid() bool {
	return l == MSE || l == MAE
}

// Fwd adds the loss between pred and target to their graph and returns
// the scalar loss node
func (l Loss) Fwd(pred, target *G.Node) (*G.Node, error) {
	diff, err := G.Sub(pred, target)
	if err != nil {
		return nil, fmt.Errorf("fwd: could not compute residual: %v", err)
	}

	switch l {
	case MSE:
		diff, err = G.Square(diff)
	case MAE:
		diff, err = G.Abs(diff)
	default:
		return nil, fmt.Errorf("fwd: unknown loss %q", string(l))
	}
	if err != nil {
		return nil, fmt.Errorf("fwd: %v", err)
	}

	return G.Mean(diff)
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (l *Loss) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return fmt.Errorf("unmarshalYAML: %v", err)
	}

	loss := Loss(strings.ToLower(name))
	if !loss.Valid() {
		return fmt.Errorf("unmarshalYAML: unknown loss %q", name)
	}
	*l = loss
	return nil
}

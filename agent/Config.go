package agent

// Config represents a configuration for creating an agent
type Config interface {
	// Type returns the type of agent that the Config describes
	Type() Type

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error
}

// Type represents a specific type of agent
type Type string

const (
	ValueIteration Type = "ValueIteration-Tabular"
	DeepQ          Type = "DeepQ-MLP"
)

// Package network implements feed forward neural networks built on
// Gorgonia computational graphs
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet implements a neural network that predicts one value per
// output node for each sample in a batch of inputs.
type NeuralNet interface {
	Graph() *G.ExprGraph
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int
	Outputs() int

	// SetInput sets the value of the input node. The input must hold
	// BatchSize() * Features() values in row-major order.
	SetInput([]float64) error

	// Set sets the weights of the network to those of another network
	// of the same architecture
	Set(NeuralNet) error

	Learnables() G.Nodes
	Model() []G.ValueGrad
	Output() G.Value
	Prediction() *G.Node
}

// Package deepq implements a deep Q-network over the square grid world.
//
// The network maps a cell (x, y) to one value per action. A single
// update predicts the action values of a cell, acts greedily, and
// regresses every predicted action value towards the one-step label
// r + γ max Q(s', ·), where the bootstrap term is dropped when s' is
// off the grid or terminal.
package deepq

import (
	"errors"
	"fmt"
	"math"

	"github.com/samuelfneumann/gridq/agent"
	"github.com/samuelfneumann/gridq/environment/gridworld"
	"github.com/samuelfneumann/gridq/network"
	"github.com/samuelfneumann/gridq/timestep"
	"github.com/samuelfneumann/gridq/utils/floatutils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// ErrInvalidInput is returned when an input is not a 2-vector (x, y)
var ErrInvalidInput = errors.New("input must be the 2-vector (x, y)")

// features is the number of inputs to the network, the coordinates of
// a cell
const features = 2

// Loss describes a single forward pass of the DeepQ network
type Loss struct {
	Value        float64          // Loss between action values and label
	Action       gridworld.Action // Greedy action in the input cell
	Label        float64          // One-step label
	ActionValues []float64        // Predicted action values of the input
}

// DeepQ implements a deep Q-network on the grid world
type DeepQ struct {
	grid *gridworld.Grid

	// Network for predicting action values of single cells
	net   network.NeuralNet
	netVM G.VM

	// Network whose weights are adapted. Its graph holds the loss
	// and gradients.
	trainNet   network.NeuralNet
	trainNetVM G.VM
	solver     G.Solver

	labels  *G.Node // Label broadcast to each action
	lossVal G.Value

	logger *zap.Logger
}

var _ agent.Agent = (*DeepQ)(nil)

// New creates and returns a new DeepQ agent. A nil logger discards all
// log output.
func New(c Config, logger *zap.Logger) (*DeepQ, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	grid, err := c.Grid.Grid()
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	g := G.NewGraph()
	net, err := network.NewMLP(features, 1, gridworld.NumActions, g,
		c.PolicyLayers, c.Biases, c.InitWFn.InitWFn(), c.Activations)
	if err != nil {
		return nil, fmt.Errorf("new: could not create network: %v", err)
	}

	// The training network starts with the same weights
	trainNet, err := net.Clone()
	if err != nil {
		return nil, fmt.Errorf("new: could not create training network: %v",
			err)
	}
	gTrain := trainNet.Graph()

	labels := G.NewMatrix(
		gTrain,
		tensor.Float64,
		G.WithShape(1, gridworld.NumActions),
		G.WithName("labels"),
		G.WithInit(G.Zeroes()),
	)

	cost, err := c.Loss.Fwd(trainNet.Prediction(), labels)
	if err != nil {
		return nil, fmt.Errorf("new: could not compute loss: %v", err)
	}

	if _, err = G.Grad(cost, trainNet.Learnables()...); err != nil {
		return nil, fmt.Errorf("new: could not compute gradient: %v", err)
	}

	d := &DeepQ{
		grid:     grid,
		net:      net,
		trainNet: trainNet,
		solver:   c.Solver,
		labels:   labels,
		logger:   logger,
	}
	G.Read(cost, &d.lossVal)

	d.netVM = G.NewTapeMachine(g)
	d.trainNetVM = G.NewTapeMachine(
		gTrain,
		G.BindDualValues(trainNet.Learnables()...),
	)

	return d, nil
}

// Evaluate returns the action values predicted for inputs (x, y)
func (d *DeepQ) Evaluate(inputs []float64) ([]float64, error) {
	if len(inputs) != features {
		return nil, fmt.Errorf("evaluate: %w\n\twant(%d)\n\thave(%d)",
			ErrInvalidInput, features, len(inputs))
	}

	if err := d.net.SetInput(inputs); err != nil {
		return nil, fmt.Errorf("evaluate: %v", err)
	}
	defer d.netVM.Reset()
	if err := d.netVM.RunAll(); err != nil {
		return nil, fmt.Errorf("evaluate: could not run network: %v", err)
	}

	out := d.net.Output().Data().([]float64)
	values := make([]float64, len(out))
	copy(values, out)
	return values, nil
}

// Forward predicts the action values of inputs, acts greedily, and
// returns the loss between the predicted action values and the
// one-step label. The weights are left unchanged.
func (d *DeepQ) Forward(inputs []float64) (Loss, error) {
	loss, err := d.forward(inputs, false)
	if err != nil {
		return Loss{}, fmt.Errorf("forward: %w", err)
	}
	return loss, nil
}

// Learn performs the same computation as Forward and then takes a
// single solver step on the loss.
func (d *DeepQ) Learn(inputs []float64) (Loss, error) {
	loss, err := d.forward(inputs, true)
	if err != nil {
		return Loss{}, fmt.Errorf("learn: %w", err)
	}
	return loss, nil
}

func (d *DeepQ) forward(inputs []float64, learn bool) (Loss, error) {
	values, err := d.Evaluate(inputs)
	if err != nil {
		return Loss{}, err
	}
	action := gridworld.Action(floatutils.Argmax(values))

	label, err := d.label(inputs, action)
	if err != nil {
		return Loss{}, err
	}

	if err := d.trainNet.SetInput(inputs); err != nil {
		return Loss{}, err
	}
	labels := make([]float64, gridworld.NumActions)
	for i := range labels {
		labels[i] = label
	}
	labelTensor := tensor.New(
		tensor.WithShape(1, gridworld.NumActions),
		tensor.WithBacking(labels),
	)
	if err := G.Let(d.labels, labelTensor); err != nil {
		return Loss{}, fmt.Errorf("could not set labels: %v", err)
	}

	defer d.trainNetVM.Reset()
	if err := d.trainNetVM.RunAll(); err != nil {
		return Loss{}, fmt.Errorf("could not run training network: %v", err)
	}
	lossValue := d.lossVal.Data().(float64)

	if learn {
		if err := d.solver.Step(d.trainNet.Model()); err != nil {
			return Loss{}, fmt.Errorf("could not step solver: %v", err)
		}
		if err := d.net.Set(d.trainNet); err != nil {
			return Loss{}, fmt.Errorf("could not sync weights: %v", err)
		}
	}

	d.logger.Debug("deep q forward",
		zap.Float64s("inputs", inputs),
		zap.Stringer("action", action),
		zap.Float64("label", label),
		zap.Float64("loss", lossValue),
		zap.Bool("learn", learn),
	)

	return Loss{
		Value:        lossValue,
		Action:       action,
		Label:        label,
		ActionValues: values,
	}, nil
}

// label returns the one-step label of taking action in the cell at
// inputs
func (d *DeepQ) label(inputs []float64, action gridworld.Action) (float64,
	error) {
	x, y := int(math.Round(inputs[0])), int(math.Round(inputs[1]))
	nextX, nextY := d.grid.Move(x, y, action)

	label := d.grid.Reward
	if d.grid.InBounds(nextX, nextY) && !d.grid.Terminal(nextX, nextY) {
		next, err := d.Evaluate([]float64{float64(nextX), float64(nextY)})
		if err != nil {
			return 0, err
		}
		label += d.grid.Discount * floats.Max(next)
	}
	return label, nil
}

// Grid returns the grid the network works on
func (d *DeepQ) Grid() *gridworld.Grid {
	return d.grid
}

// ActionValues returns the predicted action values of cell (x, y)
func (d *DeepQ) ActionValues(x, y int) ([]float64, error) {
	if !d.grid.InBounds(x, y) {
		return nil, fmt.Errorf("actionValues: (%d, %d) is outside the grid",
			x, y)
	}
	return d.Evaluate([]float64{float64(x), float64(y)})
}

// SelectAction returns the greedy action in the cell observed at t
func (d *DeepQ) SelectAction(t timestep.TimeStep) *mat.VecDense {
	x, y := t.Cell()
	values, err := d.Evaluate([]float64{float64(x), float64(y)})
	if err != nil {
		panic(fmt.Sprintf("selectAction: %v", err))
	}

	action := floatutils.Argmax(values)
	return mat.NewVecDense(1, []float64{float64(action)})
}

// Close releases the resources held by the network VMs
func (d *DeepQ) Close() error {
	if err := d.netVM.Close(); err != nil {
		return err
	}
	return d.trainNetVM.Close()
}

package environment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SpecType is the kind of value a Spec describes
type SpecType int

const (
	Action SpecType = iota
	Observation
	Discount
)

// String implements the fmt.Stringer interface
func (s SpecType) String() string {
	switch s {
	case Action:
		return "Action"
	case Observation:
		return "Observation"
	case Discount:
		return "Discount"
	}
	return fmt.Sprintf("SpecType(%d)", int(s))
}

// Cardinality determines whether the values of a Spec are discrete or
// continuous
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec describes the shape and bounds of the actions, observations, or
// discounts of an environment
type Spec struct {
	Shape      mat.Vector
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec returns a new Spec. The lower and upper bounds must have the
// same length as shape.
func NewSpec(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Spec {
	if shape.Len() != lowerBound.Len() {
		panic(fmt.Sprintf("newSpec: lower bound length must match shape"+
			"\n\twant(%d)\n\thave(%d)", shape.Len(), lowerBound.Len()))
	}
	if shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("newSpec: upper bound length must match shape"+
			"\n\twant(%d)\n\thave(%d)", shape.Len(), upperBound.Len()))
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}
}

// Len returns the number of elements described by the Spec
func (s Spec) Len() int {
	return s.Shape.Len()
}

// Contains returns an error if v does not fit the Spec. Values of a
// Discrete Spec must also be whole numbers.
func (s Spec) Contains(v mat.Vector) error {
	if v.Len() != s.Len() {
		return fmt.Errorf("contains: %v dimension mismatch"+
			"\n\twant(%d)\n\thave(%d)", s.Type, s.Len(), v.Len())
	}

	for i := 0; i < v.Len(); i++ {
		value := v.AtVec(i)
		if value < s.LowerBound.AtVec(i) || value > s.UpperBound.AtVec(i) {
			return fmt.Errorf("contains: %v %v out of bounds [%v, %v]",
				s.Type, value, s.LowerBound.AtVec(i), s.UpperBound.AtVec(i))
		}
		if s.Cardinality == Discrete && value != math.Trunc(value) {
			return fmt.Errorf("contains: %v %v is not discrete", s.Type,
				value)
		}
	}
	return nil
}

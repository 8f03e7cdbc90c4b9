package matutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestFormat(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, -0.5, 0, 2})
	s := Format(m)
	assert.Contains(t, s, "-0.5")
}

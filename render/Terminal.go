// Package render draws state values and greedy policies of the grid
// world, either as coloured text or as a PNG heat map
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/samuelfneumann/gridq/environment/gridworld"
	"gonum.org/v1/gonum/mat"
)

var arrows = [gridworld.NumActions]string{"↑", "→", "↓", "←"}

// Arrow returns the arrow drawn for action a
func Arrow(a gridworld.Action) string {
	if !a.Valid() {
		return "?"
	}
	return arrows[a]
}

// Terminal writes values to w as a table, one row of the grid per line.
// Terminal cells are printed in green and every other cell in blue.
// When policy is not nil, the greedy action of each non-terminal cell
// is printed after its value. Colours are only used when colour is
// true.
func Terminal(w io.Writer, g *gridworld.Grid, values mat.Matrix,
	policy [][]gridworld.Action, colour bool) error {
	r, c := values.Dims()
	if r != g.Space || c != g.Space {
		return fmt.Errorf("terminal: values do not match the grid\n\t"+
			"want(%d x %d)\n\thave(%d x %d)", g.Space, g.Space, r, c)
	}
	if policy != nil && len(policy) != g.Space {
		return fmt.Errorf("terminal: policy does not match the grid\n\t"+
			"want(%d rows)\n\thave(%d rows)", g.Space, len(policy))
	}

	au := aurora.NewAurora(colour)
	sep := au.White("|")

	var b strings.Builder
	for x := 0; x < g.Space; x++ {
		fmt.Fprint(&b, sep)
		for y := 0; y < g.Space; y++ {
			cell := format(values.At(x, y))
			if policy != nil && !g.Terminal(x, y) {
				cell += " " + Arrow(policy[x][y])
			} else if policy != nil {
				cell += "  "
			}

			if g.Terminal(x, y) {
				fmt.Fprint(&b, au.Green(cell))
			} else {
				fmt.Fprint(&b, au.Blue(cell))
			}
			fmt.Fprint(&b, sep)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// format prints x with a fixed width so that columns line up
func format(x float64) string {
	if x < 0 {
		return fmt.Sprintf(" -%06.3f", -x)
	}
	return fmt.Sprintf("  %06.3f", x)
}

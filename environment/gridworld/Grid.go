package gridworld

import "fmt"

// Action is a move on the grid
type Action int

// Available actions. The integer values are the action indices used by
// every table and network in this module.
const (
	Up Action = iota
	Right
	Down
	Left
)

// NumActions is the number of moves available in every cell
const NumActions = 4

// Directions maps each Action to its (row, column) offset
var Directions = [NumActions][2]int{
	Up:    {-1, 0},
	Right: {0, 1},
	Down:  {1, 0},
	Left:  {0, -1},
}

// String implements the fmt.Stringer interface
func (a Action) String() string {
	switch a {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Valid returns whether a is one of the four moves
func (a Action) Valid() bool {
	return a >= Up && a <= Left
}

// Outcome is a direction actually taken together with its probability
type Outcome struct {
	Action
	Prob float64
}

// Grid implements the rules of the square grid: how moves change the
// cell, which cells exist, and which cells are terminal. A cell is
// addressed by (x, y) where x is the row and y is the column.
//
// The two terminal cells are the corners (0, 0) and (space-1, space-1).
type Grid struct {
	Config
}

// NewGrid returns a new Grid with the given configuration
func NewGrid(c Config) (*Grid, error) {
	return c.Grid()
}

// Move returns the cell reached by moving from (x, y) with action a.
// The returned cell may be outside of the grid.
func (g *Grid) Move(x, y int, a Action) (int, int) {
	d := Directions[a]
	return x + d[0], y + d[1]
}

// InBounds returns whether (x, y) is a cell of the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Space && y >= 0 && y < g.Space
}

// Terminal returns whether (x, y) is one of the two terminal corners
func (g *Grid) Terminal(x, y int) bool {
	last := g.Space - 1
	return (x == 0 && y == 0) || (x == last && y == last)
}

// Cells returns the number of cells in the grid
func (g *Grid) Cells() int {
	return g.Space * g.Space
}

// Transitions returns the directions actually taken when a is chosen,
// along with their probabilities. With Prob == 1 only a itself is
// returned.
func (g *Grid) Transitions(a Action) []Outcome {
	if g.Prob >= 1.0 {
		return []Outcome{{a, 1.0}}
	}

	slip := (1.0 - g.Prob) / float64(NumActions-1)
	outcomes := make([]Outcome, 0, NumActions)
	for i := 0; i < NumActions; i++ {
		p := slip
		if Action(i) == a {
			p = g.Prob
		}
		outcomes = append(outcomes, Outcome{Action(i), p})
	}
	return outcomes
}

// String implements the fmt.Stringer interface
func (g *Grid) String() string {
	return fmt.Sprintf("Grid | Space: %d  |  Reward: %.2f  |  Discount: "+
		"%.2f  |  Prob: %.2f", g.Space, g.Reward, g.Discount, g.Prob)
}

package page

import (
	"github.com/arthur-debert/autopage/pkg/errors"
)

// grid tracks occupied cells. Free cells are handed out row by row, left
// to right.
type grid struct {
	rows, cols int
	occupied   map[string]bool
}

func newGrid(rows, cols int) *grid {
	return &grid{rows: rows, cols: cols, occupied: make(map[string]bool)}
}

func (g *grid) reserve(loc string) {
	g.occupied[loc] = true
}

// locate returns the button's explicit location, or claims the next free cell.
func (g *grid) locate(explicit *string) (string, *errors.AutopageError) {
	if explicit != nil && *explicit != "" {
		return *explicit, nil
	}
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			loc := Location(col, row)
			if !g.occupied[loc] {
				g.occupied[loc] = true
				return loc, nil
			}
		}
	}
	return "", errors.Newf(errors.ErrCapacity, "no free cell left in %dx%d grid", g.cols, g.rows).
		WithDetail("rows", g.rows).
		WithDetail("cols", g.cols)
}

package layout

import (
	"errors"
	"fmt"
)

// Unicorn pHAT geometry.
const (
	Width  = 4
	Height = 16
)

var ErrOutOfBounds = errors.New("layout: position out of bounds")

// Serpentine describes how the strip folds back through the matrix.
type Serpentine struct {
	// FlipOddColumns runs every odd column bottom-to-top.
	FlipOddColumns bool
}

type Layout struct {
	Width  int
	Height int
	Order  Serpentine
}

// Position is a logical (column, row) coordinate as seen by a client.
type Position struct {
	X uint8
	Y uint8
}

func Default() Layout {
	return Layout{
		Width:  Width,
		Height: Height,
		Order:  Serpentine{FlipOddColumns: true},
	}
}

// Index maps x,y -> physical LED index (0..N-1) in strip wiring order.
func (l Layout) Index(x, y int) (int, error) {
	if !l.Contains(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) not in %dx%d", ErrOutOfBounds, x, y, l.Width, l.Height)
	}
	yy := y
	if l.Order.FlipOddColumns && x%2 == 1 {
		yy = l.Height - 1 - y
	}
	return x*l.Height + yy, nil
}

// IndexOf is Index for a wire Position.
func (l Layout) IndexOf(p Position) (int, error) {
	return l.Index(int(p.X), int(p.Y))
}

// LogicalIndex is the scan order used on the wire for bulk updates: x*Height+y.
func (l Layout) LogicalIndex(x, y int) int {
	return x*l.Height + y
}

func (l Layout) Contains(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

func (l Layout) Count() int {
	return l.Width * l.Height
}

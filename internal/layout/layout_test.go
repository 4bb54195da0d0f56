package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wiring is the physical table soldered into the Unicorn pHAT.
var wiring = [Width][Height]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{31, 30, 29, 28, 27, 26, 25, 24, 23, 22, 21, 20, 19, 18, 17, 16},
	{32, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47},
	{63, 62, 61, 60, 59, 58, 57, 56, 55, 54, 53, 52, 51, 50, 49, 48},
}

func TestDefaultMatchesWiringTable(t *testing.T) {
	l := Default()
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			got, err := l.Index(x, y)
			require.NoError(t, err)
			assert.Equal(t, wiring[x][y], got, "x=%d y=%d", x, y)
		}
	}
}

func TestIndexIsInjectiveAndInRange(t *testing.T) {
	l := Default()
	seen := make(map[int]Position, l.Count())
	for x := 0; x < l.Width; x++ {
		for y := 0; y < l.Height; y++ {
			i, err := l.Index(x, y)
			require.NoError(t, err)
			require.GreaterOrEqual(t, i, 0)
			require.Less(t, i, l.Count())
			if prev, ok := seen[i]; ok {
				t.Fatalf("index %d aliased by %+v and (%d,%d)", i, prev, x, y)
			}
			seen[i] = Position{X: uint8(x), Y: uint8(y)}
		}
	}
	assert.Len(t, seen, l.Count())
}

func TestIndexOutOfBounds(t *testing.T) {
	l := Default()
	for _, tc := range []struct{ x, y int }{
		{-1, 0}, {0, -1}, {Width, 0}, {0, Height}, {255, 255},
	} {
		_, err := l.Index(tc.x, tc.y)
		assert.ErrorIs(t, err, ErrOutOfBounds, "x=%d y=%d", tc.x, tc.y)
	}
	_, err := l.IndexOf(Position{X: 4, Y: 0})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestRasterOrderWithoutFlip(t *testing.T) {
	l := Layout{Width: 2, Height: 3}
	i, err := l.Index(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, i)
	assert.Equal(t, 3, l.LogicalIndex(1, 0))
}

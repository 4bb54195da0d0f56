package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/unicornd/internal/layout"
	. "github.com/coreman2200/unicornd/internal/model"
)

func TestFrameBufferClear(t *testing.T) {
	f := NewFrameBuffer(layout.Default().Count())
	for i := 0; i < f.Len(); i++ {
		require.NoError(t, f.Set(i, Pixel{W: 9, R: 8, G: 7, B: 6}))
	}
	f.Clear()
	for i := 0; i < f.Len(); i++ {
		p, err := f.At(i)
		require.NoError(t, err)
		assert.True(t, p.IsZero(), "index %d", i)
	}
}

func TestFrameBufferSetOnlyTouchesOneIndex(t *testing.T) {
	f := NewFrameBuffer(64)
	p := Pixel{W: 1, R: 255, G: 3, B: 4}
	require.NoError(t, f.Set(17, p))

	for i, got := range f.Pixels() {
		if i == 17 {
			assert.Equal(t, p, got)
			continue
		}
		assert.True(t, got.IsZero(), "index %d changed", i)
	}
}

func TestFrameBufferBounds(t *testing.T) {
	f := NewFrameBuffer(64)
	assert.ErrorIs(t, f.Set(-1, Pixel{}), ErrIndexOutOfRange)
	assert.ErrorIs(t, f.Set(64, Pixel{}), ErrIndexOutOfRange)
	_, err := f.At(64)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestFrameBufferBulkSetRemaps(t *testing.T) {
	l := layout.Default()
	f := NewFrameBuffer(l.Count())

	logical := make([]Pixel, l.Count())
	for i := range logical {
		logical[i] = Pixel{W: uint8(i), R: uint8(255 - i), G: uint8(i * 2), B: 7}
	}
	require.NoError(t, f.BulkSet(l, logical))

	for x := 0; x < l.Width; x++ {
		for y := 0; y < l.Height; y++ {
			i, err := l.Index(x, y)
			require.NoError(t, err)
			got, err := f.At(i)
			require.NoError(t, err)
			assert.Equal(t, logical[x*l.Height+y], got, "x=%d y=%d", x, y)
		}
	}
}

func TestFrameBufferBulkSetSizeMismatchLeavesBuffer(t *testing.T) {
	l := layout.Default()
	f := NewFrameBuffer(l.Count())
	require.NoError(t, f.Set(0, Pixel{R: 1}))

	err := f.BulkSet(l, make([]Pixel, 3))
	assert.ErrorIs(t, err, ErrSizeMismatch)

	p, _ := f.At(0)
	assert.Equal(t, Pixel{R: 1}, p)
}

func TestFrameBufferWordsIsCopy(t *testing.T) {
	f := NewFrameBuffer(4)
	w := f.Words()
	w[0] = 0xFFFFFFFF
	p, _ := f.At(0)
	assert.True(t, p.IsZero())
}

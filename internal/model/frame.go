package model

import (
	"errors"
	"fmt"

	"github.com/coreman2200/unicornd/internal/layout"
)

var (
	ErrIndexOutOfRange = errors.New("model: index out of range")
	ErrSizeMismatch    = errors.New("model: pixel count does not match buffer")
)

// FrameBuffer holds one packed word per LED in physical strip order.
// It is not safe for concurrent use; render.Engine serialises access.
type FrameBuffer struct {
	leds []uint32
}

func NewFrameBuffer(n int) *FrameBuffer {
	return &FrameBuffer{leds: make([]uint32, n)}
}

func (f *FrameBuffer) Len() int {
	return len(f.leds)
}

func (f *FrameBuffer) Clear() {
	for i := range f.leds {
		f.leds[i] = 0
	}
}

func (f *FrameBuffer) Set(i int, p Pixel) error {
	if i < 0 || i >= len(f.leds) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(f.leds))
	}
	f.leds[i] = p.Pack()
	return nil
}

func (f *FrameBuffer) At(i int) (Pixel, error) {
	if i < 0 || i >= len(f.leds) {
		return Pixel{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(f.leds))
	}
	return Unpack(f.leds[i]), nil
}

// BulkSet replaces every LED from pixels given in logical scan order
// (x*Height+y), remapping each entry through l. On error nothing is written.
func (f *FrameBuffer) BulkSet(l layout.Layout, logical []Pixel) error {
	if len(logical) != l.Count() || l.Count() != len(f.leds) {
		return fmt.Errorf("%w: got %d, layout %d, buffer %d", ErrSizeMismatch, len(logical), l.Count(), len(f.leds))
	}
	next := make([]uint32, len(f.leds))
	for x := 0; x < l.Width; x++ {
		for y := 0; y < l.Height; y++ {
			i, err := l.Index(x, y)
			if err != nil {
				return err
			}
			next[i] = logical[l.LogicalIndex(x, y)].Pack()
		}
	}
	copy(f.leds, next)
	return nil
}

// Words returns a copy of the packed buffer.
func (f *FrameBuffer) Words() []uint32 {
	out := make([]uint32, len(f.leds))
	copy(out, f.leds)
	return out
}

func (f *FrameBuffer) Pixels() []Pixel {
	out := make([]Pixel, len(f.leds))
	for i, c := range f.leds {
		out[i] = Unpack(c)
	}
	return out
}

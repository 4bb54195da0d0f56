package protocol

import (
	"io"

	"github.com/coreman2200/unicornd/internal/layout"
	"github.com/coreman2200/unicornd/internal/model"
)

// Writer encodes commands. Each command goes out in a single Write.
type Writer struct {
	w   io.Writer
	buf []byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, buf: make([]byte, 0, 1+LEDCount*model.PixelSize)}
}

func (w *Writer) SetBrightness(b uint8) error {
	return w.flush(append(w.buf[:0], byte(OpSetBrightness), b))
}

func (w *Writer) SetPixel(pos layout.Position, p model.Pixel) error {
	b := append(w.buf[:0], byte(OpSetPixel), pos.X, pos.Y)
	return w.flush(model.AppendPixel(b, p))
}

// SetAllPixels sends pixels in logical order x*Height+y.
func (w *Writer) SetAllPixels(pixels []model.Pixel) error {
	if len(pixels) != LEDCount {
		return ErrPixelCount
	}
	b := append(w.buf[:0], byte(OpSetAllPixels))
	for _, p := range pixels {
		b = model.AppendPixel(b, p)
	}
	return w.flush(b)
}

func (w *Writer) Show() error {
	return w.flush(append(w.buf[:0], byte(OpShow)))
}

// Write sends c as-is.
func (w *Writer) Write(c Command) error {
	switch c.Op {
	case OpSetBrightness:
		return w.SetBrightness(c.Brightness)
	case OpSetPixel:
		return w.SetPixel(c.Pos, c.Pixel)
	case OpSetAllPixels:
		return w.SetAllPixels(c.Pixels)
	case OpShow:
		return w.Show()
	}
	return ErrUnknownOpcode
}

func (w *Writer) flush(b []byte) error {
	w.buf = b[:0]
	_, err := w.w.Write(b)
	return err
}

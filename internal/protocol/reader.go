package protocol

import (
	"errors"
	"fmt"
	"io"

	"github.com/coreman2200/unicornd/internal/layout"
	"github.com/coreman2200/unicornd/internal/model"
)

// Reader decodes commands from a byte stream, one at a time.
type Reader struct {
	r   io.Reader
	op  [1]byte
	buf [LEDCount * model.PixelSize]byte

	// scratch for SET_ALL_PIXELS, reused across commands
	pixels []model.Pixel
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next blocks until a whole command has arrived.
// EOF before an opcode is io.EOF. EOF inside a payload is ErrTruncated.
// Command.Pixels is only valid until the following call.
func (r *Reader) Next() (Command, error) {
	if _, err := io.ReadFull(r.r, r.op[:]); err != nil {
		return Command{}, err
	}
	op := Opcode(r.op[0])
	n, ok := PayloadSize(op)
	if !ok {
		return Command{Op: op}, fmt.Errorf("%w: %d", ErrUnknownOpcode, r.op[0])
	}

	payload := r.buf[:n]
	if n > 0 {
		if _, err := io.ReadFull(r.r, payload); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return Command{Op: op}, fmt.Errorf("%w: %s", ErrTruncated, op)
			}
			return Command{Op: op}, err
		}
	}
	return r.decode(op, payload), nil
}

func (r *Reader) decode(op Opcode, p []byte) Command {
	c := Command{Op: op}
	switch op {
	case OpSetBrightness:
		c.Brightness = p[0]
	case OpSetPixel:
		c.Pos = layout.Position{X: p[0], Y: p[1]}
		c.Pixel = model.DecodePixel(p[2:])
	case OpSetAllPixels:
		if r.pixels == nil {
			r.pixels = make([]model.Pixel, LEDCount)
		}
		c.Pixels = r.pixels
		for i := range c.Pixels {
			c.Pixels[i] = model.DecodePixel(p[i*model.PixelSize:])
		}
	}
	return c
}

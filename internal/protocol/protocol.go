package protocol

import (
	"errors"
	"fmt"

	"github.com/coreman2200/unicornd/internal/layout"
	"github.com/coreman2200/unicornd/internal/model"
)

type Opcode uint8

const (
	OpSetBrightness Opcode = 0
	OpSetPixel      Opcode = 1
	OpSetAllPixels  Opcode = 2
	OpShow          Opcode = 3
)

// LEDCount is the number of pixels carried by SET_ALL_PIXELS.
const LEDCount = layout.Width * layout.Height

var (
	ErrTruncated     = errors.New("protocol: truncated command")
	ErrUnknownOpcode = errors.New("protocol: unknown opcode")
	ErrPixelCount    = errors.New("protocol: wrong pixel count")
)

var payloadSize = map[Opcode]int{
	OpSetBrightness: 1,
	OpSetPixel:      2 + model.PixelSize,
	OpSetAllPixels:  LEDCount * model.PixelSize,
	OpShow:          0,
}

// PayloadSize returns the fixed payload length that follows op.
func PayloadSize(op Opcode) (int, bool) {
	n, ok := payloadSize[op]
	return n, ok
}

func (op Opcode) String() string {
	switch op {
	case OpSetBrightness:
		return "SET_BRIGHTNESS"
	case OpSetPixel:
		return "SET_PIXEL"
	case OpSetAllPixels:
		return "SET_ALL_PIXELS"
	case OpShow:
		return "SHOW"
	}
	return fmt.Sprintf("OP(%d)", uint8(op))
}

// Command is one fully decoded request. Only the fields for Op are set.
type Command struct {
	Op         Opcode
	Brightness uint8
	Pos        layout.Position
	Pixel      model.Pixel
	// Pixels is in logical order x*Height+y.
	Pixels []model.Pixel
}

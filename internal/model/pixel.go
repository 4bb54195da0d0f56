package model

import "image/color"

// Bit offsets of each channel inside a packed 0xWWRRGGBB word.
const (
	WhiteOffset uint8 = 0x18
	RedOffset   uint8 = 0x10
	GreenOffset uint8 = 0x08
	BlueOffset  uint8 = 0x0
)

// PixelSize is the wire width of one pixel.
const PixelSize = 4

// Pixel is one RGBW LED.
type Pixel struct {
	W uint8
	R uint8
	G uint8
	B uint8
}

func setchannel(c uint32, n uint8, off uint8) uint32 {
	var val uint32 = uint32(n) << off
	var mask uint32 = 0xFF << off
	return (c & (^mask)) | val
}

func getchannel(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & mask) >> off)
}

// Pack returns the driver word for p.
func (p Pixel) Pack() uint32 {
	var c uint32
	c = setchannel(c, p.W, WhiteOffset)
	c = setchannel(c, p.R, RedOffset)
	c = setchannel(c, p.G, GreenOffset)
	c = setchannel(c, p.B, BlueOffset)
	return c
}

func Unpack(c uint32) Pixel {
	return Pixel{
		W: getchannel(c, WhiteOffset),
		R: getchannel(c, RedOffset),
		G: getchannel(c, GreenOffset),
		B: getchannel(c, BlueOffset),
	}
}

func (p Pixel) IsZero() bool {
	return p == Pixel{}
}

// NRGBA approximates the pixel for on-screen previews; white is added to every channel.
func (p Pixel) NRGBA() color.NRGBA {
	add := func(c uint8) uint8 {
		v := int(c) + int(p.W)
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	return color.NRGBA{R: add(p.R), G: add(p.G), B: add(p.B), A: 255}
}

// DecodePixel reads w,r,g,b from b. len(b) must be at least PixelSize.
func DecodePixel(b []byte) Pixel {
	return Pixel{W: b[0], R: b[1], G: b[2], B: b[3]}
}

// AppendPixel appends the wire form of p.
func AppendPixel(dst []byte, p Pixel) []byte {
	return append(dst, p.W, p.R, p.G, p.B)
}

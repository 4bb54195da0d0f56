package led

import "errors"

var (
	ErrUnsupported = errors.New("led: driver not supported in this build")
	ErrClosed      = errors.New("led: driver closed")
)

// Driver abstracts the physical strip.
type Driver interface {
	// Render pushes one packed 0xWWRRGGBB word per LED, in strip order, at the given brightness.
	Render(words []uint32, brightness uint8) error
	// Close releases the hardware. The strip is left dark where the driver can do so.
	Close() error
	String() string
}

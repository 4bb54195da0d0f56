//go:build !ws2811

package led

type WS2811 struct{}

// NewWS2811 needs the ws2811 build tag and libws2811 installed.
func NewWS2811(gpio, dma, count int) (*WS2811, error) {
	return nil, ErrUnsupported
}

func (w *WS2811) Render(words []uint32, brightness uint8) error { return ErrUnsupported }
func (w *WS2811) Close() error                                  { return nil }
func (w *WS2811) String() string                                { return "ws2811" }

//go:build ws2811

package led

/*
#cgo LDFLAGS: -lws2811
#include <stdlib.h>
#include <stdint.h>
#include <ws2811/ws2811.h>
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

// WS2811 drives the strip with libws2811 (PWM + DMA), the Unicorn pHAT's native path.
type WS2811 struct {
	mu    sync.Mutex
	count int
	dev   *C.ws2811_t
	buf   unsafe.Pointer
}

func NewWS2811(gpio, dma, count int) (*WS2811, error) {
	w := &WS2811{count: count}

	w.dev = (*C.ws2811_t)(C.calloc(1, C.size_t(unsafe.Sizeof(*w.dev))))
	if w.dev == nil {
		return nil, fmt.Errorf("ws2811: calloc failed")
	}

	w.dev.freq = C.WS2811_TARGET_FREQ
	w.dev.dmanum = C.int(dma)
	ch := &w.dev.channel[0]
	ch.gpionum = C.int(gpio)
	ch.count = C.int(count)
	ch.invert = 0
	ch.brightness = 255
	ch.strip_type = C.SK6812_STRIP_RGBW

	if st := C.ws2811_init(w.dev); st != C.WS2811_SUCCESS {
		C.free(unsafe.Pointer(w.dev))
		w.dev = nil
		return nil, fmt.Errorf("ws2811: init failed: %d", int(st))
	}

	w.buf = unsafe.Pointer(ch.leds)
	return w, nil
}

func (w *WS2811) Render(words []uint32, brightness uint8) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dev == nil {
		return ErrClosed
	}
	if len(words) != w.count {
		return fmt.Errorf("ws2811: %d words for %d leds", len(words), w.count)
	}
	leds := (*[1 << 26]C.ws2811_led_t)(w.buf)[:w.count:w.count]
	for i, c := range words {
		leds[i] = C.ws2811_led_t(c)
	}
	w.dev.channel[0].brightness = C.uint8_t(brightness)
	if st := C.ws2811_render(w.dev); st != C.WS2811_SUCCESS {
		return fmt.Errorf("ws2811: render failed: %d", int(st))
	}
	return nil
}

func (w *WS2811) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dev != nil {
		C.ws2811_fini(w.dev)
		C.free(unsafe.Pointer(w.dev))
		w.dev = nil
	}
	return nil
}

func (w *WS2811) String() string {
	return "ws2811"
}

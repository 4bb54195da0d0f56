package led

import (
	"fmt"
	"image"
	"sync"

	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/unicornd/internal/model"
)

type drawer interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// Console prints each frame as a row of coloured blocks on the terminal.
type Console struct {
	mu     sync.Mutex
	count  int
	screen drawer
}

func NewConsole(count int) *Console {
	return &Console{count: count, screen: screen.New(count)}
}

func (c *Console) Render(words []uint32, brightness uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screen == nil {
		return ErrClosed
	}
	if len(words) != c.count {
		return fmt.Errorf("console: %d words for %d leds", len(words), c.count)
	}
	im := image.NewNRGBA(image.Rect(0, 0, c.count, 1))
	for x, w := range Scale(words, brightness) {
		im.SetNRGBA(x, 0, model.Unpack(w).NRGBA())
	}
	if err := c.screen.Draw(im.Bounds(), im, image.Point{}); err != nil {
		return err
	}
	fmt.Printf("\n")
	return nil
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screen == nil {
		return nil
	}
	err := c.screen.Halt()
	c.screen = nil
	return err
}

func (c *Console) String() string {
	return "console"
}

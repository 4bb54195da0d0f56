//go:build linux

package led

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// PowerLine holds a GPIO output high while the strip is in use
// (level shifter enable or PSU relay) and drops it on Close.
type PowerLine struct {
	mu   sync.Mutex
	line *gpiocdev.Line
	name string
}

func NewPowerLine(chip string, offset int) (*PowerLine, error) {
	l, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(1),
		gpiocdev.WithConsumer("unicornd"))
	if err != nil {
		return nil, fmt.Errorf("power: request %s:%d: %w", chip, offset, err)
	}
	return &PowerLine{line: l, name: fmt.Sprintf("%s:%d", chip, offset)}, nil
}

func (p *PowerLine) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.line == nil {
		return nil
	}
	serr := p.line.SetValue(0)
	cerr := p.line.Close()
	p.line = nil
	if serr != nil {
		return fmt.Errorf("power: drop %s: %w", p.name, serr)
	}
	return cerr
}

func (p *PowerLine) String() string {
	return p.name
}

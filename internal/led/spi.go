package led

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// SPI drives an SK6812 RGBW strip through periph's NRZ encoder on a SPI port.
type SPI struct {
	mu    sync.Mutex
	port  spi.PortCloser
	dev   *nrzled.Dev
	count int
}

// NewSPI initialises the host drivers and opens the named SPI port ("" picks the first one).
func NewSPI(name string, count int, freq physic.Frequency) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("spi: host init: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("spi: open %q: %w", name, err)
	}
	s, err := newSPI(p, count, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return s, nil
}

func newSPI(p spi.PortCloser, count int, freq physic.Frequency) (*SPI, error) {
	if count <= 0 {
		return nil, fmt.Errorf("spi: invalid LED count: %d", count)
	}
	if freq == 0 {
		freq = 800 * physic.KiloHertz
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: count,
		Channels:  4,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("spi: nrzled: %w", err)
	}
	if err := d.Halt(); err != nil {
		return nil, fmt.Errorf("spi: halt: %w", err)
	}
	return &SPI{port: p, dev: d, count: count}, nil
}

func (s *SPI) Render(words []uint32, brightness uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return ErrClosed
	}
	if len(words) != s.count {
		return fmt.Errorf("spi: %d words for %d leds", len(words), s.count)
	}
	if _, err := s.dev.Write(rgbw(Scale(words, brightness))); err != nil {
		return fmt.Errorf("spi: write: %w", err)
	}
	return nil
}

// Close turns every LED off, then releases the port.
func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return nil
	}
	herr := s.dev.Halt()
	cerr := s.port.Close()
	s.dev = nil
	if herr != nil {
		return fmt.Errorf("spi: halt: %w", herr)
	}
	return cerr
}

func (s *SPI) String() string {
	return "spi"
}

//go:build !linux

package led

type PowerLine struct{}

func NewPowerLine(chip string, offset int) (*PowerLine, error) {
	return nil, ErrUnsupported
}

func (p *PowerLine) Close() error   { return nil }
func (p *PowerLine) String() string { return "" }

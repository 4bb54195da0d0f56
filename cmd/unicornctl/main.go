package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/coreman2200/unicornd/internal/layout"
	"github.com/coreman2200/unicornd/internal/model"
	"github.com/coreman2200/unicornd/internal/testpattern"
	"github.com/coreman2200/unicornd/pkg/client"
)

const usage = `usage: unicornctl [flags] <command> [args]

commands:
  brightness <0-255>        set brightness
  pixel <x> <y> <color>     set one pixel
  fill <color>              set every pixel
  clear                     turn every pixel off
  show                      render the current buffer
  test <pattern>            run a wiring test pattern (%s)

colors are hex RRGGBB or WWRRGGBB, with or without a leading #.

flags:
`

var errUsage = errors.New("usage")

type sender interface {
	SetBrightness(uint8) error
	SetPixel(x, y uint8, p client.Pixel) error
	SetAllPixels([]client.Pixel) error
	Fill(client.Pixel) error
	Clear() error
	Show() error
}

type options struct {
	socket   string
	noShow   bool
	interval time.Duration
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	o := options{}
	fs := flag.NewFlagSet("unicornctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.socket, "socket", "s", client.DefaultSocketPath, "daemon socket")
	fs.BoolVar(&o.noShow, "no-show", false, "do not render after changing pixels")
	fs.DurationVar(&o.interval, "interval", 250*time.Millisecond, "time between test pattern frames")
	fs.Usage = func() {
		fmt.Fprintf(stderr, usage, patternNames())
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	c, err := client.Dial(o.socket)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer c.Close()

	if err := execute(c, o, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
			fs.Usage()
			return 2
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func execute(c sender, o options, args []string) error {
	cmd, rest := args[0], args[1:]
	need := func(n int) error {
		if len(rest) != n {
			return fmt.Errorf("%w: %s takes %d argument(s)", errUsage, cmd, n)
		}
		return nil
	}

	switch cmd {
	case "brightness":
		if err := need(1); err != nil {
			return err
		}
		b, err := strconv.ParseUint(rest[0], 10, 8)
		if err != nil {
			return fmt.Errorf("%w: brightness %q", errUsage, rest[0])
		}
		if err := c.SetBrightness(uint8(b)); err != nil {
			return err
		}
	case "pixel":
		if err := need(3); err != nil {
			return err
		}
		x, err1 := strconv.ParseUint(rest[0], 10, 8)
		y, err2 := strconv.ParseUint(rest[1], 10, 8)
		if err := errors.Join(err1, err2); err != nil {
			return fmt.Errorf("%w: position %s %s", errUsage, rest[0], rest[1])
		}
		p, err := ParseColor(rest[2])
		if err != nil {
			return err
		}
		if err := c.SetPixel(uint8(x), uint8(y), p); err != nil {
			return err
		}
	case "fill":
		if err := need(1); err != nil {
			return err
		}
		p, err := ParseColor(rest[0])
		if err != nil {
			return err
		}
		if err := c.Fill(p); err != nil {
			return err
		}
	case "clear":
		if err := need(0); err != nil {
			return err
		}
		if err := c.Clear(); err != nil {
			return err
		}
	case "show":
		return c.Show()
	case "test":
		if err := need(1); err != nil {
			return err
		}
		k, err := testpattern.Parse(rest[0])
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return runPattern(c, k, o.interval)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	if o.noShow {
		return nil
	}
	return c.Show()
}

func runPattern(c sender, k testpattern.Kind, interval time.Duration) error {
	l := layout.Default()
	r := testpattern.NewRunner(k, l)
	frame := make([]model.Pixel, l.Count())
	for r.Step(frame) {
		if err := c.SetAllPixels(frame); err != nil {
			return err
		}
		if err := c.Show(); err != nil {
			return err
		}
		time.Sleep(interval)
	}
	if err := c.Clear(); err != nil {
		return err
	}
	return c.Show()
}

// ParseColor reads RRGGBB or WWRRGGBB hex.
func ParseColor(s string) (client.Pixel, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return client.Pixel{}, fmt.Errorf("%w: color %q", errUsage, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return client.Pixel{}, fmt.Errorf("%w: color %q", errUsage, s)
	}
	return model.Unpack(uint32(v)), nil
}

func patternNames() string {
	names := make([]string, len(testpattern.Kinds))
	for i, k := range testpattern.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

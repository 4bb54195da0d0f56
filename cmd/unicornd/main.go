package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/unicornd/internal/config"
	"github.com/coreman2200/unicornd/internal/diag"
	"github.com/coreman2200/unicornd/internal/layout"
	"github.com/coreman2200/unicornd/internal/led"
	"github.com/coreman2200/unicornd/internal/lifecycle"
	"github.com/coreman2200/unicornd/internal/logging"
	"github.com/coreman2200/unicornd/internal/render"
	"github.com/coreman2200/unicornd/internal/server"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

type options struct {
	configPath  string
	printConfig bool

	socket      string
	backlog     int
	readTimeout time.Duration
	driver      string
	brightness  uint8
	gpio        int
	dma         int
	spiDev      string
	spiHz       int
	diagAddr    string
	logLevel    string
}

func parseFlags(args []string) (*flag.FlagSet, *options, error) {
	o := &options{}
	d := config.Default()
	fs := flag.NewFlagSet("unicornd", flag.ContinueOnError)
	fs.StringVarP(&o.configPath, "config", "c", "", "path to a .yaml or .toml config file")
	fs.BoolVar(&o.printConfig, "print-config", false, "print the effective config as YAML and exit")
	fs.StringVar(&o.socket, "socket", d.Socket.Path, "unix socket path")
	fs.IntVar(&o.backlog, "backlog", d.Socket.Backlog, "listen backlog")
	fs.DurationVar(&o.readTimeout, "read-timeout", 0, "drop clients idle this long (0 waits forever)")
	fs.StringVarP(&o.driver, "driver", "d", d.Driver, "driver: ws2811 | spi | console | sim")
	fs.Uint8VarP(&o.brightness, "brightness", "b", d.Brightness, "initial brightness 0..255")
	fs.IntVar(&o.gpio, "gpio", d.WS2811.GPIO, "ws2811 data pin (BCM number)")
	fs.IntVar(&o.dma, "dma", d.WS2811.DMA, "ws2811 DMA channel")
	fs.StringVar(&o.spiDev, "spi-dev", d.SPI.Dev, "SPI port name, empty for the first one")
	fs.IntVar(&o.spiHz, "spi-hz", d.SPI.SpeedHz, "strip bit rate for the spi driver")
	fs.StringVar(&o.diagAddr, "diag", "", "serve read-only diagnostics on this loopback address")
	fs.StringVar(&o.logLevel, "log-level", d.LogLevel, "trace | debug | info | warn | error | off")
	return fs, o, fs.Parse(args)
}

// effective layers explicit flags over the config file over defaults.
func effective(fs *flag.FlagSet, o *options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = *c
	}
	if fs.Changed("socket") {
		cfg.Socket.Path = o.socket
	}
	if fs.Changed("backlog") {
		cfg.Socket.Backlog = o.backlog
	}
	if fs.Changed("read-timeout") {
		cfg.Socket.ReadTimeout = config.Duration(o.readTimeout)
	}
	if fs.Changed("driver") {
		cfg.Driver = o.driver
	}
	if fs.Changed("brightness") {
		cfg.Brightness = o.brightness
	}
	if fs.Changed("gpio") {
		cfg.WS2811.GPIO = o.gpio
	}
	if fs.Changed("dma") {
		cfg.WS2811.DMA = o.dma
	}
	if fs.Changed("spi-dev") {
		cfg.SPI.Dev = o.spiDev
	}
	if fs.Changed("spi-hz") {
		cfg.SPI.SpeedHz = o.spiHz
	}
	if fs.Changed("diag") {
		cfg.Diag = config.Diag{Enabled: o.diagAddr != "", Addr: o.diagAddr}
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var simDriver = func() led.Driver {
	return &led.Recorder{Keep: 1}
}

func openDriver(cfg *config.Config, count int) (led.Driver, error) {
	switch cfg.Driver {
	case config.DriverWS2811:
		return led.NewWS2811(cfg.WS2811.GPIO, cfg.WS2811.DMA, count)
	case config.DriverSPI:
		return led.NewSPI(cfg.SPI.Dev, count, physic.Frequency(cfg.SPI.SpeedHz)*physic.Hertz)
	case config.DriverConsole:
		return led.NewConsole(count), nil
	case config.DriverSim:
		return simDriver(), nil
	}
	return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
}

func run(args []string, stdout io.Writer) int {
	fs, o, err := parseFlags(args)
	if err != nil {
		if err == flag.ErrHelp {
			return lifecycle.ExitOK
		}
		return lifecycle.ExitSetupError
	}
	logging.Setup(o.logLevel)

	cfg, err := effective(fs, o)
	if err != nil {
		log.Error().Err(err).Str("config", o.configPath).Msg("bad configuration")
		return lifecycle.ExitSetupError
	}
	logging.Setup(cfg.LogLevel)
	if o.printConfig {
		if err := config.Encode(stdout, cfg); err != nil {
			return lifecycle.ExitSetupError
		}
		return lifecycle.ExitOK
	}

	// signals are captured before the hardware is touched
	ctl := lifecycle.New()
	defer ctl.Shutdown()
	ctx, stop := ctl.Watch(context.Background())
	defer stop()

	l := layout.Default()
	drv, err := openDriver(cfg, l.Count())
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Driver).Msg("driver init failed")
		return lifecycle.ExitSetupError
	}
	engine, err := render.NewEngine(l, drv)
	if err != nil {
		_ = drv.Close()
		log.Error().Err(err).Msg("render engine")
		return lifecycle.ExitSetupError
	}
	engine.SetBrightness(cfg.Brightness)
	ctl.Manage(engine)

	if cfg.Power.Enabled {
		pl, err := led.NewPowerLine(cfg.Power.Chip, cfg.Power.Line)
		if err != nil {
			log.Error().Err(err).Str("chip", cfg.Power.Chip).Int("line", cfg.Power.Line).Msg("power line")
			return lifecycle.ExitSetupError
		}
		ctl.Release(pl)
	}

	if ctx.Err() != nil {
		return ctl.ExitCode()
	}

	ln, err := server.Listen(cfg.Socket.Path, os.FileMode(cfg.Socket.Mode), cfg.Socket.Backlog)
	if err != nil {
		log.Error().Err(err).Str("socket", cfg.Socket.Path).Msg("listen failed")
		return lifecycle.ExitSetupError
	}
	srv := server.New(engine, time.Duration(cfg.Socket.ReadTimeout))

	if cfg.Diag.Enabled {
		d := diag.New(engine, srv)
		go func() {
			if err := d.ListenAndServe(ctx, cfg.Diag.Addr); err != nil {
				log.Warn().Err(err).Str("addr", cfg.Diag.Addr).Msg("diagnostics stopped")
			}
		}()
	}

	log.Info().
		Str("socket", cfg.Socket.Path).
		Str("driver", engine.Driver()).
		Uint8("brightness", cfg.Brightness).
		Msg("unicornd ready")

	if err := srv.Serve(ctx, ln); err != nil {
		log.Error().Err(err).Msg("serve")
	}
	if err := ctl.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
	return ctl.ExitCode()
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Drivers understood by the daemon.
const (
	DriverWS2811  = "ws2811"
	DriverSPI     = "spi"
	DriverConsole = "console"
	DriverSim     = "sim"
)

var ErrInvalid = errors.New("config: invalid")

type Socket struct {
	Path        string   `yaml:"path" toml:"path"`
	Mode        Mode     `yaml:"mode" toml:"mode"`
	Backlog     int      `yaml:"backlog" toml:"backlog"`
	ReadTimeout Duration `yaml:"read_timeout" toml:"read_timeout"` // 0 waits forever
}

type WS2811 struct {
	GPIO int `yaml:"gpio" toml:"gpio"`
	DMA  int `yaml:"dma" toml:"dma"`
}

type SPI struct {
	Dev     string `yaml:"dev" toml:"dev"`           // e.g. /dev/spidev0.0, empty = first port
	SpeedHz int    `yaml:"speed_hz" toml:"speed_hz"` // strip bit rate, 800000 for SK6812
}

// Power is an optional GPIO line held high while the strip is in use.
type Power struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Chip    string `yaml:"chip" toml:"chip"`
	Line    int    `yaml:"line" toml:"line"`
}

type Diag struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Addr    string `yaml:"addr" toml:"addr"`
}

type Config struct {
	Driver     string `yaml:"driver" toml:"driver"` // "ws2811" | "spi" | "console" | "sim"
	Brightness uint8  `yaml:"brightness" toml:"brightness"`
	LogLevel   string `yaml:"log_level" toml:"log_level"`

	Socket Socket `yaml:"socket" toml:"socket"`
	WS2811 WS2811 `yaml:"ws2811" toml:"ws2811"`
	SPI    SPI    `yaml:"spi" toml:"spi"`
	Power  Power  `yaml:"power" toml:"power"`
	Diag   Diag   `yaml:"diag" toml:"diag"`
}

func Default() Config {
	return Config{
		Driver:     DriverWS2811,
		Brightness: 20,
		LogLevel:   "info",
		Socket: Socket{
			Path:    "/var/run/unicornd.socket",
			Mode:    0o777,
			Backlog: 4,
		},
		WS2811: WS2811{GPIO: 18, DMA: 10},
		SPI:    SPI{SpeedHz: 800000},
		Power:  Power{Chip: "gpiochip0"},
		Diag:   Diag{Addr: "127.0.0.1:8087"},
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		meta, err := toml.DecodeFile(path, &c)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		if keys := meta.Undecoded(); len(keys) > 0 {
			return nil, fmt.Errorf("%w: unknown key %q in %s", ErrInvalid, keys[0].String(), path)
		}
		// an explicit power chip implies the line is wanted
		if meta.IsDefined("power", "chip") && !meta.IsDefined("power", "enabled") {
			c.Power.Enabled = true
		}
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Encode writes c as YAML.
func Encode(w io.Writer, c *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Config) Validate() error {
	switch c.Driver {
	case DriverWS2811, DriverSPI, DriverConsole, DriverSim:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalid, c.Driver)
	}
	if strings.TrimSpace(c.Socket.Path) == "" {
		return fmt.Errorf("%w: socket.path is empty", ErrInvalid)
	}
	if c.Socket.Backlog <= 0 {
		return fmt.Errorf("%w: socket.backlog must be positive", ErrInvalid)
	}
	if c.Socket.ReadTimeout < 0 {
		return fmt.Errorf("%w: socket.read_timeout is negative", ErrInvalid)
	}
	if c.SPI.SpeedHz < 0 {
		return fmt.Errorf("%w: spi.speed_hz is negative", ErrInvalid)
	}
	if c.Power.Enabled && (c.Power.Chip == "" || c.Power.Line < 0) {
		return fmt.Errorf("%w: power needs chip and line", ErrInvalid)
	}
	if c.Diag.Enabled {
		if err := loopbackOnly(c.Diag.Addr); err != nil {
			return err
		}
	}
	return nil
}

// Diagnostics are read-only but unauthenticated, so they never leave the host.
func loopbackOnly(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w: diag.addr: %v", ErrInvalid, err)
	}
	if host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("%w: diag.addr %q is not a loopback address", ErrInvalid, addr)
}

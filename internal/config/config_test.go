package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultMatchesDaemon(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "/var/run/unicornd.socket", c.Socket.Path)
	assert.Equal(t, Mode(0o777), c.Socket.Mode)
	assert.Equal(t, 4, c.Socket.Backlog)
	assert.Equal(t, uint8(20), c.Brightness)
	assert.Equal(t, DriverWS2811, c.Driver)
	assert.Equal(t, 18, c.WS2811.GPIO)
	assert.Equal(t, 10, c.WS2811.DMA)
	assert.Zero(t, c.Socket.ReadTimeout)
	assert.False(t, c.Diag.Enabled)
}

func TestLoadYAMLOverridesOnlyGivenFields(t *testing.T) {
	path := write(t, "unicornd.yaml", `
driver: spi
socket:
  path: /tmp/u.sock
  mode: "0660"
  read_timeout: 30s
spi:
  dev: /dev/spidev0.0
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverSPI, c.Driver)
	assert.Equal(t, "/tmp/u.sock", c.Socket.Path)
	assert.Equal(t, Mode(0o660), c.Socket.Mode)
	assert.Equal(t, Duration(30*time.Second), c.Socket.ReadTimeout)
	assert.Equal(t, 4, c.Socket.Backlog)
	assert.Equal(t, "/dev/spidev0.0", c.SPI.Dev)
	assert.Equal(t, 800000, c.SPI.SpeedHz)
	assert.Equal(t, uint8(20), c.Brightness)
}

func TestLoadYAMLEmptyFileIsDefaults(t *testing.T) {
	c, err := Load(write(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), *c)
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	_, err := Load(write(t, "bad.yaml", "colour_order: grb\n"))
	assert.Error(t, err)
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "unicornd.toml", `
driver = "console"
brightness = 64

[socket]
backlog = 8
mode = "0o700"

[power]
chip = "gpiochip4"
line = 17
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverConsole, c.Driver)
	assert.Equal(t, uint8(64), c.Brightness)
	assert.Equal(t, 8, c.Socket.Backlog)
	assert.Equal(t, Mode(0o700), c.Socket.Mode)
	assert.True(t, c.Power.Enabled)
	assert.Equal(t, "gpiochip4", c.Power.Chip)
	assert.Equal(t, 17, c.Power.Line)
}

func TestLoadTOMLUnknownKey(t *testing.T) {
	_, err := Load(write(t, "bad.toml", "fps = 30\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	for name, mut := range map[string]func(*Config){
		"driver":      func(c *Config) { c.Driver = "pwm" },
		"path":        func(c *Config) { c.Socket.Path = " " },
		"backlog":     func(c *Config) { c.Socket.Backlog = 0 },
		"timeout":     func(c *Config) { c.Socket.ReadTimeout = -1 },
		"power":       func(c *Config) { c.Power = Power{Enabled: true} },
		"diag-public": func(c *Config) { c.Diag = Diag{Enabled: true, Addr: "0.0.0.0:8087"} },
		"diag-addr":   func(c *Config) { c.Diag = Diag{Enabled: true, Addr: "nope"} },
	} {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mut(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}

	c := Default()
	c.Diag = Diag{Enabled: true, Addr: "[::1]:9000"}
	assert.NoError(t, c.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	in := Default()
	in.Socket.ReadTimeout = Duration(5 * time.Second)
	require.NoError(t, Save(path, &in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestModeRejectsNonOctal(t *testing.T) {
	var m Mode
	assert.Error(t, m.UnmarshalText([]byte("0999")))
	assert.Error(t, m.UnmarshalText([]byte("1777")))
}

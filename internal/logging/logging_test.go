package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	for raw, want := range map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
	} {
		lvl, ok := ParseLevel(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, lvl, raw)
	}
	_, ok := ParseLevel("loud")
	assert.False(t, ok)
	_, ok = ParseLevel("")
	assert.False(t, ok)
}

func TestEnvOverridesConfiguredLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogNoColor, "true")
	cfg := DefaultConfig()
	cfg.Level = zerolog.DebugLevel
	applyEnvOverrides(&cfg)
	assert.Equal(t, zerolog.ErrorLevel, cfg.Level)
	assert.True(t, cfg.NoColor)
}

func TestEnvIgnoresGarbage(t *testing.T) {
	t.Setenv(EnvLogLevel, "chatty")
	t.Setenv(EnvLogNoColor, "maybe")
	cfg := DefaultConfig()
	applyEnvOverrides(&cfg)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level)
	assert.False(t, cfg.NoColor)
}

func TestConfigureWritesPlainConsole(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	l := Configure(Config{Level: zerolog.InfoLevel, NoColor: true, Out: &buf})
	l.Debug().Msg("hidden")
	l.Info().Str("driver", "sim").Msg("ready")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "ready")
	assert.Contains(t, buf.String(), "driver=sim")
	assert.NotContains(t, buf.String(), "\x1b[")
}

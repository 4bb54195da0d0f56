package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/unicornd/internal/model"
	"github.com/coreman2200/unicornd/pkg/client"
)

type fakeSender struct {
	calls []string
	last  []client.Pixel
}

func (f *fakeSender) SetBrightness(b uint8) error {
	f.calls = append(f.calls, "brightness")
	return nil
}

func (f *fakeSender) SetPixel(x, y uint8, p client.Pixel) error {
	f.calls = append(f.calls, "pixel")
	return nil
}

func (f *fakeSender) SetAllPixels(px []client.Pixel) error {
	f.calls = append(f.calls, "all")
	f.last = append(f.last[:0], px...)
	return nil
}

func (f *fakeSender) Fill(p client.Pixel) error {
	f.calls = append(f.calls, "fill")
	return nil
}

func (f *fakeSender) Clear() error {
	f.calls = append(f.calls, "clear")
	return nil
}

func (f *fakeSender) Show() error {
	f.calls = append(f.calls, "show")
	return nil
}

func TestParseColor(t *testing.T) {
	p, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, model.Pixel{R: 0xff, G: 0x80}, p)

	p, err = ParseColor("10203040")
	require.NoError(t, err)
	assert.Equal(t, model.Pixel{W: 0x10, R: 0x20, G: 0x30, B: 0x40}, p)

	for _, bad := range []string{"", "fff", "zzzzzz", "123456789"} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, errUsage, bad)
	}
}

func TestExecuteShowsAfterChange(t *testing.T) {
	f := &fakeSender{}
	require.NoError(t, execute(f, options{}, []string{"pixel", "1", "2", "ff0000"}))
	assert.Equal(t, []string{"pixel", "show"}, f.calls)

	f = &fakeSender{}
	require.NoError(t, execute(f, options{noShow: true}, []string{"brightness", "42"}))
	assert.Equal(t, []string{"brightness"}, f.calls)
}

func TestExecuteUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"brightness"},
		{"brightness", "256"},
		{"pixel", "1", "2"},
		{"pixel", "a", "2", "ff0000"},
		{"fill", "red"},
		{"test", "plane_z"},
		{"dance"},
	} {
		err := execute(&fakeSender{}, options{}, args)
		assert.ErrorIs(t, err, errUsage, args)
	}
}

func TestRunPatternEndsBlank(t *testing.T) {
	f := &fakeSender{}
	require.NoError(t, execute(f, options{}, []string{"test", "rgbw_channels"}))
	assert.Equal(t, []string{"all", "show", "all", "show", "all", "show", "all", "show", "clear", "show"}, f.calls)
	assert.Equal(t, model.Pixel{W: 255}, f.last[0])
}

func TestRunWithoutCommand(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 2, run(nil, &stderr))
	assert.Contains(t, stderr.String(), "usage: unicornctl")
}

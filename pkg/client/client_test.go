package client

import (
	"io"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/unicornd/internal/layout"
	"github.com/coreman2200/unicornd/internal/protocol"
)

func pipeClient(t *testing.T) (*Client, *protocol.Reader) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { a.Close(); b.Close() })
	return New(a), protocol.NewReader(b)
}

func TestClientSendsCommands(t *testing.T) {
	c, r := pipeClient(t)
	go func() {
		_ = c.SetBrightness(42)
		_ = c.SetPixel(3, 15, Pixel{W: 1, R: 2, G: 3, B: 4})
		_ = c.Show()
		_ = c.Close()
	}()

	cmd, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, protocol.Command{Op: protocol.OpSetBrightness, Brightness: 42}, cmd)

	cmd, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, layout.Position{X: 3, Y: 15}, cmd.Pos)
	assert.Equal(t, Pixel{W: 1, R: 2, G: 3, B: 4}, cmd.Pixel)

	cmd, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, protocol.OpShow, cmd.Op)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestClientClearSendsZeroFrame(t *testing.T) {
	c, r := pipeClient(t)
	go func() { _ = c.Clear() }()

	cmd, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, protocol.OpSetAllPixels, cmd.Op)
	for _, p := range cmd.Pixels {
		assert.True(t, p.IsZero())
	}
}

func TestClientRejectsOutOfRange(t *testing.T) {
	c, _ := pipeClient(t)
	assert.ErrorIs(t, c.SetPixel(4, 0, Pixel{R: 1}), layout.ErrOutOfBounds)
	assert.ErrorIs(t, c.SetPixel(0, 16, Pixel{R: 1}), layout.ErrOutOfBounds)
	assert.ErrorIs(t, c.SetAllPixels(make([]Pixel, 10)), protocol.ErrPixelCount)
}

func TestDialMissingSocket(t *testing.T) {
	_, err := Dial(filepath.Join(t.TempDir(), "nope.sock"))
	assert.Error(t, err)
}

// Package client speaks the unicornd socket protocol.
package client

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/coreman2200/unicornd/internal/layout"
	"github.com/coreman2200/unicornd/internal/model"
	"github.com/coreman2200/unicornd/internal/protocol"
)

const DefaultSocketPath = "/var/run/unicornd.socket"

// Pixel and Position are re-exported for callers outside this module.
type (
	Pixel    = model.Pixel
	Position = layout.Position
)

// Client is safe for concurrent use; commands from different goroutines never interleave.
type Client struct {
	mu   sync.Mutex
	conn net.Conn
	w    *protocol.Writer
}

// Dial connects to the daemon socket at path. An empty path means DefaultSocketPath.
func Dial(path string) (*Client, error) {
	return DialTimeout(path, 0)
}

func DialTimeout(path string, timeout time.Duration) (*Client, error) {
	if path == "" {
		path = DefaultSocketPath
	}
	conn, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", path, err)
	}
	return New(conn), nil
}

// New wraps an existing connection.
func New(conn net.Conn) *Client {
	return &Client{conn: conn, w: protocol.NewWriter(conn)}
}

func (c *Client) SetBrightness(b uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.SetBrightness(b)
}

// SetPixel fails locally for positions the daemon would reject.
func (c *Client) SetPixel(x, y uint8, p Pixel) error {
	if !layout.Default().Contains(int(x), int(y)) {
		return fmt.Errorf("client: %w: (%d,%d)", layout.ErrOutOfBounds, x, y)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.SetPixel(Position{X: x, Y: y}, p)
}

// SetAllPixels replaces the whole buffer. pixels are indexed x*16+y.
func (c *Client) SetAllPixels(pixels []Pixel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.SetAllPixels(pixels)
}

// Fill sets every pixel to p.
func (c *Client) Fill(p Pixel) error {
	px := make([]Pixel, protocol.LEDCount)
	for i := range px {
		px[i] = p
	}
	return c.SetAllPixels(px)
}

// Clear zeroes the buffer. Call Show to make it visible.
func (c *Client) Clear() error {
	return c.Fill(Pixel{})
}

func (c *Client) Show() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Show()
}

func (c *Client) Close() error {
	return c.conn.Close()
}

package render

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coreman2200/unicornd/internal/layout"
	"github.com/coreman2200/unicornd/internal/led"
	"github.com/coreman2200/unicornd/internal/model"
)

const DefaultBrightness uint8 = 20

var ErrNoDriver = errors.New("render: no driver")

// Frame is what the engine handed to the driver on one Show.
type Frame struct {
	ID         uint64
	Words      []uint32
	Brightness uint8
	At         time.Time
}

// Observer is called after every successful render, outside the engine lock.
type Observer func(Frame)

// Stats is a point-in-time view of render activity.
type Stats struct {
	Renders      uint64
	RenderErrors uint64
	LastRenderMS float64
	LastError    string
}

// Engine owns the one frame buffer and brightness of the process and the driver that shows them.
// Every mutation and every render happens under mu, so a render never sees half of a bulk update.
type Engine struct {
	mu         sync.Mutex
	layout     layout.Layout
	buf        *model.FrameBuffer
	brightness uint8
	drv        led.Driver
	closed     bool

	stats     Stats
	frameID   uint64
	observers []Observer
}

func NewEngine(l layout.Layout, drv led.Driver) (*Engine, error) {
	if l.Count() == 0 {
		return nil, errors.New("render: invalid dimensions")
	}
	if drv == nil {
		return nil, ErrNoDriver
	}
	return &Engine{
		layout:     l,
		buf:        model.NewFrameBuffer(l.Count()),
		brightness: DefaultBrightness,
		drv:        drv,
	}, nil
}

func (e *Engine) Layout() layout.Layout {
	return e.layout
}

// Observe registers fn for every rendered frame.
func (e *Engine) Observe(fn Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

func (e *Engine) SetBrightness(b uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.brightness = b
}

func (e *Engine) Brightness() uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.brightness
}

// SetPixel maps pos through the layout and stores p. Out-of-range positions leave the buffer alone.
func (e *Engine) SetPixel(pos layout.Position, p model.Pixel) error {
	i, err := e.layout.IndexOf(pos)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Set(i, p)
}

// SetAll replaces the buffer from pixels in logical scan order.
func (e *Engine) SetAll(logical []model.Pixel) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.BulkSet(e.layout, logical)
}

// Show pushes the current buffer and brightness to the driver.
func (e *Engine) Show() error {
	e.mu.Lock()
	f, err := e.renderLocked()
	obs := e.observers
	e.mu.Unlock()

	if err != nil {
		return err
	}
	for _, fn := range obs {
		fn(f)
	}
	return nil
}

// Blank clears the buffer and renders it.
func (e *Engine) Blank() error {
	e.mu.Lock()
	e.buf.Clear()
	f, err := e.renderLocked()
	obs := e.observers
	e.mu.Unlock()

	if err != nil {
		return err
	}
	for _, fn := range obs {
		fn(f)
	}
	return nil
}

func (e *Engine) renderLocked() (Frame, error) {
	if e.closed {
		return Frame{}, led.ErrClosed
	}
	start := time.Now()
	words := e.buf.Words()
	err := e.drv.Render(words, e.brightness)
	e.stats.LastRenderMS = float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		e.stats.RenderErrors++
		e.stats.LastError = err.Error()
		return Frame{}, fmt.Errorf("render: %s: %w", e.drv, err)
	}
	e.stats.Renders++
	e.frameID++
	return Frame{ID: e.frameID, Words: words, Brightness: e.brightness, At: start}, nil
}

// Snapshot returns the buffer in physical order and the current brightness.
func (e *Engine) Snapshot() ([]model.Pixel, uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Pixels(), e.brightness
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) Driver() string {
	return e.drv.String()
}

// Close releases the driver once. Later calls are no-ops.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return e.drv.Close()
}

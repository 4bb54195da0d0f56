package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/unicornd/internal/render"
)

// Exit statuses other than the signal number.
const (
	ExitOK         = 0
	ExitSetupError = 1
)

// Controller turns a termination signal into a context cancel and runs the
// blank, render, release sequence exactly once.
type Controller struct {
	mu      sync.Mutex
	sig     os.Signal
	engine  *render.Engine
	closers []io.Closer

	once sync.Once
	err  error
}

// New returns a controller with nothing to release yet. Hand it the engine
// with Manage once the driver is up.
func New() *Controller {
	return &Controller{}
}

// Manage sets the engine blanked and released by Shutdown.
func (c *Controller) Manage(engine *render.Engine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = engine
}

// Release adds cl to what Shutdown closes after the driver, such as the power line.
func (c *Controller) Release(cl io.Closer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, cl)
}

// Watch subscribes to Signals. The returned context ends on the first one or when parent ends.
// Call it before touching hardware.
func (c *Controller) Watch(parent context.Context) (context.Context, context.CancelFunc) {
	ignoreSignals()
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, Signals...)
	ctx, cancel := c.watch(parent, ch)
	return ctx, func() {
		signal.Stop(ch)
		cancel()
	}
}

func (c *Controller) watch(parent context.Context, ch <-chan os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case s := <-ch:
			c.mu.Lock()
			c.sig = s
			c.mu.Unlock()
			log.Info().Str("signal", s.String()).Msg("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Signal is the signal that ended the run, or nil.
func (c *Controller) Signal() os.Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sig
}

// ExitCode is the signal number when a signal ended the run, otherwise ExitOK.
func (c *Controller) ExitCode() int {
	if s, ok := c.Signal().(syscall.Signal); ok {
		return int(s)
	}
	return ExitOK
}

// Shutdown blanks the strip, renders it, then releases the driver and closers.
// Every step runs even if an earlier one fails. Later calls return the first result.
func (c *Controller) Shutdown() error {
	c.once.Do(func() {
		c.mu.Lock()
		engine, closers := c.engine, c.closers
		c.mu.Unlock()

		var errs []error
		if engine != nil {
			if err := engine.Blank(); err != nil {
				errs = append(errs, fmt.Errorf("blank: %w", err))
			}
			if err := engine.Close(); err != nil {
				errs = append(errs, fmt.Errorf("release driver: %w", err))
			}
		}
		for _, cl := range closers {
			if err := cl.Close(); err != nil {
				errs = append(errs, fmt.Errorf("release %v: %w", cl, err))
			}
		}
		c.err = errors.Join(errs...)
		if c.err != nil {
			log.Warn().Err(c.err).Msg("shutdown incomplete")
		} else {
			log.Debug().Msg("strip blanked and released")
		}
	})
	return c.err
}

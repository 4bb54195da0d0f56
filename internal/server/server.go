package server

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/unicornd/internal/layout"
	"github.com/coreman2200/unicornd/internal/protocol"
	"github.com/coreman2200/unicornd/internal/render"
)

const (
	DefaultSocketPath = "/var/run/unicornd.socket"
	DefaultMode       = os.FileMode(0o777)
	DefaultBacklog    = 4

	initialAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff     = time.Second
)

// Server accepts clients on a local socket and runs a Session for each.
type Server struct {
	engine      *render.Engine
	readTimeout time.Duration

	active   atomic.Int64
	accepted atomic.Uint64

	mu      sync.Mutex
	conns   map[net.Conn]struct{}
	closing bool
	wg      sync.WaitGroup
}

func New(engine *render.Engine, readTimeout time.Duration) *Server {
	return &Server{
		engine:      engine,
		readTimeout: readTimeout,
		conns:       make(map[net.Conn]struct{}),
	}
}

// Active is the number of connected clients.
func (s *Server) Active() int64 {
	return s.active.Load()
}

// Accepted is the number of clients accepted since start.
func (s *Server) Accepted() uint64 {
	return s.accepted.Load()
}

// Serve accepts on ln until ctx is done or ln is closed, then closes every
// open connection and waits for their sessions to return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = ln.Close()
		s.closeAll()
	}()
	defer func() {
		close(done)
		s.closeAll()
		s.wg.Wait()
	}()

	backoff := time.Duration(0)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			if backoff == 0 {
				backoff = initialAcceptBackoff
			} else if backoff *= 2; backoff > maxAcceptBackoff {
				backoff = maxAcceptBackoff
			}
			log.Warn().Err(err).Dur("retry", backoff).Msg("accept failed")
			select {
			case <-time.After(backoff):
				continue
			case <-ctx.Done():
				return nil
			}
		}
		backoff = 0
		id := s.accepted.Add(1)
		s.track(conn)
		s.wg.Add(1)
		go s.handle(conn, id)
	}
}

func (s *Server) handle(conn net.Conn, id uint64) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer conn.Close()

	logger := log.With().Uint64("conn", id).Logger()
	logger.Debug().Int64("active", s.active.Add(1)).Msg("client connected")
	defer func() {
		logger.Debug().Int64("active", s.active.Add(-1)).Msg("client disconnected")
	}()

	err := NewSession(conn, s.engine, s.readTimeout, logger).Run()
	switch {
	case err == nil, errors.Is(err, net.ErrClosed):
	case errors.Is(err, protocol.ErrUnknownOpcode), errors.Is(err, layout.ErrOutOfBounds):
		logger.Warn().Err(err).Msg("protocol violation, closing")
	case errors.Is(err, protocol.ErrTruncated), errors.Is(err, io.ErrUnexpectedEOF):
		logger.Debug().Err(err).Msg("client went away mid-command")
	default:
		logger.Debug().Err(err).Msg("connection closed")
	}
}

func (s *Server) track(c net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		_ = c.Close()
		return
	}
	s.conns[c] = struct{}{}
}

func (s *Server) untrack(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closing = true
	for c := range s.conns {
		_ = c.Close()
	}
}

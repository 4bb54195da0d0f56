package server

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/unicornd/internal/protocol"
	"github.com/coreman2200/unicornd/internal/render"
)

// Session is the command loop for one client connection.
type Session struct {
	conn        net.Conn
	engine      *render.Engine
	readTimeout time.Duration
	log         zerolog.Logger
}

func NewSession(conn net.Conn, engine *render.Engine, readTimeout time.Duration, log zerolog.Logger) *Session {
	return &Session{conn: conn, engine: engine, readTimeout: readTimeout, log: log}
}

// Run reads and applies commands until the peer goes away or breaks the protocol.
// A clean close between commands returns nil.
func (s *Session) Run() error {
	r := protocol.NewReader(s.conn)
	for {
		if s.readTimeout > 0 {
			_ = s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		cmd, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := s.apply(cmd); err != nil {
			return err
		}
	}
}

func (s *Session) apply(c protocol.Command) error {
	switch c.Op {
	case protocol.OpSetBrightness:
		s.engine.SetBrightness(c.Brightness)
	case protocol.OpSetPixel:
		return s.engine.SetPixel(c.Pos, c.Pixel)
	case protocol.OpSetAllPixels:
		return s.engine.SetAll(c.Pixels)
	case protocol.OpShow:
		// render failures are not the client's fault
		if err := s.engine.Show(); err != nil {
			s.log.Warn().Err(err).Msg("render failed")
		}
	}
	return nil
}

package diag

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"

	"github.com/coreman2200/unicornd/internal/render"
)

const (
	defaultScale = 16
	maxScale     = 64
)

// Conns reports socket client counts.
type Conns interface {
	Active() int64
	Accepted() uint64
}

// Server is a read-only HTTP view of the daemon. It never changes the frame buffer.
type Server struct {
	engine *render.Engine
	conns  Conns
	feed   *Feed
	start  time.Time
	mux    *http.ServeMux
}

// New registers the frame feed on engine.
func New(engine *render.Engine, conns Conns) *Server {
	s := &Server{
		engine: engine,
		conns:  conns,
		feed:   NewFeed(),
		start:  time.Now(),
		mux:    http.NewServeMux(),
	}
	engine.Observe(s.feed.OnFrame)
	s.mux.HandleFunc("/health", s.HandleHealth)
	s.mux.HandleFunc("/frame.png", s.HandleFramePNG)
	s.mux.HandleFunc("/ws", s.feed.HandleWS)
	return s
}

func (s *Server) Handler() http.Handler {
	return readOnly(s.mux)
}

// ListenAndServe runs until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		s.feed.Close()
		_ = srv.Close()
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("diagnostics listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type health struct {
	Driver       string       `json:"driver"`
	Brightness   uint8        `json:"brightness"`
	Count        int          `json:"count"`
	Renders      uint64       `json:"renders"`
	RenderErrors uint64       `json:"render_errors"`
	LastRenderMS float64      `json:"last_render_ms"`
	UptimeS      float64      `json:"uptime_s"`
	Clients      int64        `json:"clients"`
	Accepted     uint64       `json:"accepted"`
	FeedClients  int          `json:"feed_clients"`
	Diagnostics  []Diagnostic `json:"diagnostics,omitempty"`
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.engine.Stats()
	resp := health{
		Driver:       s.engine.Driver(),
		Brightness:   s.engine.Brightness(),
		Count:        s.engine.Layout().Count(),
		Renders:      st.Renders,
		RenderErrors: st.RenderErrors,
		LastRenderMS: st.LastRenderMS,
		UptimeS:      time.Since(s.start).Seconds(),
		FeedClients:  s.feed.Clients(),
	}
	if s.conns != nil {
		resp.Clients = s.conns.Active()
		resp.Accepted = s.conns.Accepted()
	}
	if st.RenderErrors > 0 {
		resp.Diagnostics = append(resp.Diagnostics, Diagnostic{
			Severity: Warn,
			Code:     "RENDER.FAILED",
			Summary:  "The driver rejected at least one frame",
			Detail:   st.LastError,
			Evidence: map[string]any{"render_errors": st.RenderErrors},
		})
	}
	if resp.Brightness == 0 {
		resp.Diagnostics = append(resp.Diagnostics, Diagnostic{
			Severity: Info,
			Code:     "BRIGHTNESS.ZERO",
			Summary:  "Brightness is 0, the strip shows nothing",
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// HandleFramePNG renders the buffer as the matrix is seen: x across, y down.
// ?scale=N sets the pixel size.
func (s *Server) HandleFramePNG(w http.ResponseWriter, r *http.Request) {
	scale := defaultScale
	if v := r.URL.Query().Get("scale"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxScale {
			http.Error(w, "bad scale", http.StatusBadRequest)
			return
		}
		scale = n
	}

	src := s.Snapshot()
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, dst); err != nil {
		log.Debug().Err(err).Msg("encode frame.png")
	}
}

// Snapshot is the current buffer as a Width x Height image.
func (s *Server) Snapshot() *image.NRGBA {
	l := s.engine.Layout()
	px, _ := s.engine.Snapshot()
	img := image.NewNRGBA(image.Rect(0, 0, l.Width, l.Height))
	for x := 0; x < l.Width; x++ {
		for y := 0; y < l.Height; y++ {
			i, err := l.Index(x, y)
			if err != nil {
				continue
			}
			img.SetNRGBA(x, y, px[i].NRGBA())
		}
	}
	return img
}

func readOnly(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "read-only", http.StatusMethodNotAllowed)
			return
		}
		h.ServeHTTP(w, r)
	})
}

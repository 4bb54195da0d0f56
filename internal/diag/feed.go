package diag

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/unicornd/internal/render"
)

const (
	writeWait  = 200 * time.Millisecond
	clientSlot = 4
)

type feedMessage struct {
	Type       string   `json:"type"`
	T          int64    `json:"t"`
	FrameID    uint64   `json:"frame_id"`
	Brightness uint8    `json:"brightness"`
	Words      []uint32 `json:"words"`
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed pushes every rendered frame to connected websocket clients.
// Slow clients drop frames instead of holding up the renderer.
type Feed struct {
	mu      sync.Mutex
	clients map[*feedClient]bool
	up      websocket.Upgrader
}

func NewFeed() *Feed {
	return &Feed{clients: map[*feedClient]bool{}}
}

// OnFrame is a render.Observer.
func (f *Feed) OnFrame(fr render.Frame) {
	b, err := json.Marshal(feedMessage{
		Type:       "frame",
		T:          fr.At.UnixNano(),
		FrameID:    fr.ID,
		Brightness: fr.Brightness,
		Words:      fr.Words,
	})
	if err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.send <- b:
		default:
		}
	}
}

func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

func (f *Feed) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := f.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &feedClient{conn: conn, send: make(chan []byte, clientSlot)}
	f.mu.Lock()
	f.clients[c] = true
	f.mu.Unlock()

	go f.writeLoop(c)
	// read only to notice the peer closing
	go func() {
		defer f.drop(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (f *Feed) writeLoop(c *feedClient) {
	for b := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
			f.drop(c)
			return
		}
	}
}

func (f *Feed) drop(c *feedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.clients[c] {
		return
	}
	delete(f.clients, c)
	close(c.send)
	c.conn.Close()
}

// Close disconnects every client.
func (f *Feed) Close() {
	f.mu.Lock()
	cs := make([]*feedClient, 0, len(f.clients))
	for c := range f.clients {
		cs = append(cs, c)
	}
	f.mu.Unlock()
	for _, c := range cs {
		f.drop(c)
	}
}

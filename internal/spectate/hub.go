// Package spectate exposes a live, read-only feed of worker observations
// over websockets. It is a raw data feed for an external renderer or
// analysis tool to consume, not a renderer itself, and it never slows down
// collection: a slow or absent client only ever drops frames.
//
// Grounded on the teacher's scraper/downloader worker/stats shape (one
// goroutine per feed, bounded channel, drop-on-full) adapted from a
// download queue to a broadcast fan-out.
package spectate

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tetris-rl/batched-tetris/internal/obs"
)

// frameBuffer bounds how many unconsumed frames a single client tolerates
// before Hub starts dropping rather than blocking the worker that produced
// them.
const frameBuffer = 8

// Frame is the JSON shape written to every attached client.
type Frame struct {
	Worker int    `json:"worker"`
	Board  []byte `json:"board"`
	Active []byte `json:"active_tetromino"`
}

// Hub fans every ObserveStep call out to all currently attached websocket
// clients. It implements collector.Spectator.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	out  chan Frame
}

// NewHub constructs an empty Hub. Call ServeHTTP to handle upgrade requests.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Spectating is same-origin tooling, not a public endpoint; the
			// teacher's viewer made the same tradeoff for its debug UI.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the connection and registers it as a spectator until
// the client disconnects or a write to it fails. A client whose write queue
// is full stays registered and misses frames.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("spectate: upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, out: make(chan Frame, frameBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for frame := range c.out {
		if err := c.conn.WriteJSON(frame); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.out)
	}
}

// ObserveStep implements collector.Spectator. It never blocks: a client
// whose out channel is full simply misses this frame.
func (h *Hub) ObserveStep(workerIdx int, o *obs.Observation) {
	h.mu.Lock()
	if len(h.clients) == 0 {
		h.mu.Unlock()
		return
	}
	frame := Frame{
		Worker: workerIdx,
		Board:  encodeMask(&o.Board),
		Active: encodeMask(&o.ActiveTetromino),
	}
	for c := range h.clients {
		select {
		case c.out <- frame:
		default:
		}
	}
	h.mu.Unlock()
}

// encodeMask flattens a board-shaped matrix row-major. The []byte result is
// base64-encoded by Frame's own json.Marshal, same as any other []byte
// field; callers never need to encode it themselves.
func encodeMask(m *[obs.BoardH][obs.BoardW]uint8) []byte {
	flat := make([]byte, obs.BoardH*obs.BoardW)
	n := 0
	for r := 0; r < obs.BoardH; r++ {
		for c := 0; c < obs.BoardW; c++ {
			flat[n] = m[r][c]
			n++
		}
	}
	return flat
}

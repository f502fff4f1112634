// Package events streams assistant activity to WebSocket observers, so a
// dashboard or a test harness can watch what is heard and spoken.
package events

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one loop notification: kind is "state", "heard", "response"
// or "error".
type Event struct {
	Kind string    `json:"kind"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type Hub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log: log.With("component", "events"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Publish broadcasts an event to every connected observer. Safe on a nil
// hub, so callers need no guard when the feed is disabled.
func (h *Hub) Publish(kind, text string) {
	if h == nil {
		return
	}
	ev := Event{Kind: kind, Text: text, At: time.Now()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(ev); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// Handler upgrades incoming requests and registers the observer.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn("upgrade failed", "err", err)
			return
		}
		h.mu.Lock()
		h.conns[conn] = struct{}{}
		h.mu.Unlock()
		h.log.Info("observer connected", "remote", conn.RemoteAddr())

		// Drain reads so pings and close frames are processed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					h.mu.Lock()
					delete(h.conns, conn)
					h.mu.Unlock()
					conn.Close()
					return
				}
			}
		}()
	})
}

// ListenAndServe exposes the feed at /events on addr. Blocks.
func (h *Hub) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/events", h.Handler())
	h.log.Info("event feed listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

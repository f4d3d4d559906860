// Package server streams read-only world frames to websocket observers.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hello is the first message a new observer receives.
type Hello struct {
	Type   string `json:"type"` // always "config"
	RunID  string `json:"run_id"`
	Width  int    `json:"w"`
	Height int    `json:"h"`
}

const writeWait = 5 * time.Second

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// Hub tracks connected observers and fans frames out to them.
// Observers cannot send commands; anything they write is discarded.
type Hub struct {
	hello    Hello
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub returns a hub that greets observers with hello.
func NewHub(hello Hello) *Hub {
	hello.Type = "config"
	return &Hub{
		hello:    hello,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the observer until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	if err := c.send(h.hello); err != nil {
		h.drop(c)
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

// Broadcast sends v to every observer. Observers that fail are dropped.
func (h *Hub) Broadcast(v any) {
	h.mu.Lock()
	list := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()

	for _, c := range list {
		if err := c.send(v); err != nil {
			slog.Debug("dropping observer", "error", err)
			h.drop(c)
		}
	}
}

// Clients returns the number of connected observers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every observer.
func (h *Hub) Close() {
	h.mu.Lock()
	list := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()
	for _, c := range list {
		h.drop(c)
	}
}

// Handler mounts the hub at /ws.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	return mux
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h *Hub) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler()}

	errc := make(chan error, 1)
	go func() {
		slog.Info("observer listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	h.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

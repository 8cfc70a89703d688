// Package feed broadcasts radio state to websocket clients and serves a
// small status page.
package feed

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	queueSize = 100
	writeWait = time.Second
)

// Hub fans messages out to websocket clients. Broadcast never blocks; a
// worker goroutine does the writes and drops clients that fail.
type Hub struct {
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
	queue    chan []byte

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	last    []byte
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		queue:   make(chan []byte, queueSize),
		clients: map[*websocket.Conn]bool{},
	}
}

// Broadcast queues msg for every client. When the queue is full the
// message is dropped and false is returned.
func (h *Hub) Broadcast(msg []byte) bool {
	select {
	case h.queue <- msg:
		return true
	default:
		return false
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Run delivers queued messages until ctx is cancelled, then closes every
// client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case msg := <-h.queue:
			h.deliver(msg)
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				c.Close()
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) deliver(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = msg
	for c := range h.clients {
		if err := write(c, msg); err != nil {
			h.log.Debugf("dropping client %s: %v", c.RemoteAddr(), err)
			delete(h.clients, c)
			c.Close()
		}
	}
}

func write(c *websocket.Conn, msg []byte) error {
	c.SetWriteDeadline(time.Now().Add(writeWait))
	return c.WriteMessage(websocket.TextMessage, msg)
}

// ServeHTTP upgrades the request and registers the client. A new client
// first receives the last delivered message.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debugf("websocket upgrade from %s: %v", r.RemoteAddr, err)
		return
	}
	h.mu.Lock()
	if h.last != nil {
		if err := write(c, h.last); err != nil {
			h.mu.Unlock()
			c.Close()
			return
		}
	}
	h.clients[c] = true
	h.mu.Unlock()
	h.log.Debugf("websocket client %s connected", c.RemoteAddr())

	go h.watch(c)
}

// watch reads until the client goes away so close frames are handled.
func (h *Hub) watch(c *websocket.Conn) {
	for {
		if _, _, err := c.NextReader(); err != nil {
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				c.Close()
			}
			h.mu.Unlock()
			h.log.Debugf("websocket client %s gone", c.RemoteAddr())
			return
		}
	}
}

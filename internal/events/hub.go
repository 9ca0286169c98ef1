package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

// Hub manages dashboard WebSocket connections, keyed by scope, and
// broadcasts group events to them.
type Hub struct {
	clients   map[string]map[*websocket.Conn]bool
	writeMu   map[*websocket.Conn]*sync.Mutex
	broadcast chan GroupEvent
	mu        sync.Mutex
	done      chan struct{}

	// closeMu guards closed and the broadcast channel's lifetime.
	closeMu sync.RWMutex
	closed  bool
}

// NewHub creates a hub with a broadcast buffer of the given size and
// starts its delivery loop.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 100
	}
	h := &Hub{
		clients:   make(map[string]map[*websocket.Conn]bool),
		writeMu:   make(map[*websocket.Conn]*sync.Mutex),
		broadcast: make(chan GroupEvent, buffer),
		done:      make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.done)
	for ev := range h.broadcast {
		for _, scope := range ev.Scopes() {
			for _, conn := range h.connections(scope) {
				h.send(scope, conn, ev)
			}
		}
	}
}

func (h *Hub) connections(scope string) []*websocket.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*websocket.Conn, 0, len(h.clients[scope]))
	for c := range h.clients[scope] {
		out = append(out, c)
	}
	return out
}

func (h *Hub) send(scope string, c *websocket.Conn, ev GroupEvent) {
	h.mu.Lock()
	wmu, ok := h.writeMu[c]
	h.mu.Unlock()
	if !ok {
		return
	}
	wmu.Lock()
	_ = c.SetWriteDeadline(time.Now().Add(writeWait))
	err := c.WriteJSON(ev)
	wmu.Unlock()
	if err == nil {
		return
	}
	fields := logrus.Fields{"scope": scope, "conn_ptr": fmt.Sprintf("%p", c)}
	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
		logrus.WithFields(fields).Info("Client connection closed during broadcast, unregistering.")
	} else {
		logrus.WithError(err).WithFields(fields).Warn("Failed to send group event to client, unregistering.")
	}
	h.Unregister(scope, c)
}

// Register subscribes a connection to a scope.
func (h *Hub) Register(scope string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[scope]; !ok {
		h.clients[scope] = make(map[*websocket.Conn]bool)
	}
	h.clients[scope][conn] = true
	if _, ok := h.writeMu[conn]; !ok {
		h.writeMu[conn] = &sync.Mutex{}
	}
	logrus.WithFields(logrus.Fields{
		"scope":    scope,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client registered with coordination hub.")
}

// Unregister removes a connection from a scope.
func (h *Hub) Unregister(scope string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[scope]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.clients, scope)
		}
	}
	for _, clients := range h.clients {
		if clients[conn] {
			return
		}
	}
	delete(h.writeMu, conn)
	logrus.WithFields(logrus.Fields{
		"scope":    scope,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Client unregistered from coordination hub.")
}

// Clients returns the number of connections subscribed to scope.
func (h *Hub) Clients(scope string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[scope])
}

// Publish queues an event for broadcast. When the buffer is full or the hub
// is closed the event is dropped.
func (h *Hub) Publish(_ context.Context, ev GroupEvent) {
	h.closeMu.RLock()
	defer h.closeMu.RUnlock()
	if h.closed {
		logrus.WithField("kind", ev.Kind).Debug("Coordination hub closed, dropping event.")
		return
	}
	select {
	case h.broadcast <- ev:
	default:
		logrus.WithField("kind", ev.Kind).Warn("Coordination broadcast channel full, dropping event.")
	}
}

// Close stops the delivery loop after draining queued events. It is safe to
// call more than once.
func (h *Hub) Close() {
	h.closeMu.Lock()
	if !h.closed {
		h.closed = true
		close(h.broadcast)
	}
	h.closeMu.Unlock()
	<-h.done
}

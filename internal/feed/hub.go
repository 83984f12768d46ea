// Package feed relays simulation events to read-only observers over
// websockets. Observers cannot send commands; anything they write is
// discarded.
package feed

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/game/event"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// DefaultBuffer is how many frames an observer may lag behind.
	DefaultBuffer = 256
)

// Frame is the JSON message sent for every event.
type Frame struct {
	Seq     uint64 `json:"seq"`
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

type observer struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every connected observer.
//
// Invariant: each observer receives frames in bus order; an observer whose
// buffer fills is disconnected rather than allowed to stall the simulation.
type Hub struct {
	mu        sync.Mutex
	observers map[*observer]struct{}
	closed    bool
	buffer    int
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

// NewHub returns a Hub whose observers may lag by up to buffer frames.
// A buffer below 1 selects DefaultBuffer.
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		observers: make(map[*observer]struct{}),
		buffer:    buffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Attach relays every event published on bus. The returned func detaches
// the hub again.
func (h *Hub) Attach(bus *event.Bus) func() {
	sub := bus.SubscribeAll(h.Broadcast)
	return func() { bus.Unsubscribe(sub) }
}

// Broadcast encodes e and queues it for every observer.
func (h *Hub) Broadcast(e event.Event) {
	msg, err := json.Marshal(Frame{Seq: e.Seq, Kind: e.Kind.String(), Payload: e.Payload})
	if err != nil {
		h.logger.Warn("encoding feed frame", zap.Stringer("kind", e.Kind), zap.Error(err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for o := range h.observers {
		select {
		case o.send <- msg:
		default:
			h.logger.Warn("feed observer lagging, disconnecting", zap.String("remote", o.conn.RemoteAddr().String()))
			h.drop(o)
		}
	}
}

// Observers reports how many observers are connected.
func (h *Hub) Observers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}

// ServeHTTP upgrades the request to a websocket and registers the observer.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("feed upgrade failed", zap.Error(err))
		return
	}
	o := &observer{conn: conn, send: make(chan []byte, h.buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"), time.Now().Add(writeWait))
		conn.Close()
		return
	}
	h.observers[o] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("feed observer connected", zap.String("remote", conn.RemoteAddr().String()))

	go h.writePump(o)
	go h.readPump(o)
}

// Close disconnects every observer and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for o := range h.observers {
		h.drop(o)
	}
}

// drop must be called with mu held.
func (h *Hub) drop(o *observer) {
	if _, ok := h.observers[o]; !ok {
		return
	}
	delete(h.observers, o)
	close(o.send)
}

func (h *Hub) remove(o *observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(o)
}

func (h *Hub) readPump(o *observer) {
	defer func() {
		h.remove(o)
		o.conn.Close()
	}()
	o.conn.SetReadLimit(512)
	_ = o.conn.SetReadDeadline(time.Now().Add(pongWait))
	o.conn.SetPongHandler(func(string) error {
		return o.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := o.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("feed observer read", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(o *observer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		o.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-o.send:
			_ = o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = o.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := o.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(o)
				return
			}
		case <-ticker.C:
			_ = o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := o.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(o)
				return
			}
		}
	}
}

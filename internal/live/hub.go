// Package live pushes storefront updates to open browser pages over websockets.
package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"etalase/internal/metrics"
	"etalase/internal/services"
	"etalase/pkg/logx"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event types sent to clients.
const (
	EventReload    = "reload"
	EventCountdown = "countdown"
	EventClock     = "clock"
)

const (
	sendBuffer = 16
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
)

// Event is one message on the socket.
type Event struct {
	Type       string               `json:"type"`
	Countdowns []services.Countdown `json:"countdowns,omitempty"`
	Clock      *services.ClockView  `json:"clock,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans events out to every connected page. A client whose buffer is full
// is dropped instead of blocking the publisher.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*client]struct{}),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		log:      logx.Component("live"),
	}
}

// Reload tells every page to rebuild the product grid.
func (h *Hub) Reload() {
	h.broadcast(Event{Type: EventReload})
}

// Countdowns refreshes the countdown badges in place.
func (h *Hub) Countdowns(items []services.Countdown) {
	h.broadcast(Event{Type: EventCountdown, Countdowns: items})
}

// Clock refreshes the wall clock.
func (h *Hub) Clock(view services.ClockView) {
	h.broadcast(Event{Type: EventClock, Clock: &view})
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and keeps the connection until the peer leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	metrics.LiveClients.Set(0)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.LiveClients.Set(float64(n))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.LiveClients.Set(float64(n))
}

func (h *Hub) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Str("type", ev.Type).Msg("event encode failed")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			c.close()
			h.log.Debug().Msg("dropping slow live client")
		}
	}
	metrics.LiveClients.Set(float64(len(h.clients)))
}

// readPump drains the socket; pages never send anything we act on.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

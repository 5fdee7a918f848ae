package eventstream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Envelope wraps one engine event for the wire.
type Envelope struct {
	Type  engine.EventType `json:"type"`
	Event engine.Event     `json:"event"`
}

// Broadcaster fans engine events out to websocket clients as JSON. It
// implements engine.Subscriber; clients are read-only observers and
// anything they send is discarded.
type Broadcaster struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewBroadcaster creates a broadcaster with no connected clients.
func NewBroadcaster(logger *log.Logger) *Broadcaster {
	return &Broadcaster{
		logger: logger.WithPrefix("eventstream"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and streams events until the client
// disconnects.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 256)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = conn.Close()
		return
	}
	b.clients[c] = struct{}{}
	count := len(b.clients)
	b.mu.Unlock()

	b.logger.Info("client connected", "remote", conn.RemoteAddr(), "clients", count)
	go b.writePump(c)
	go b.readPump(c)
}

// OnEvent implements engine.Subscriber.
func (b *Broadcaster) OnEvent(event engine.Event) {
	data, err := json.Marshal(Envelope{Type: event.EventType(), Event: event})
	if err != nil {
		b.logger.Error("failed to encode event", "type", event.EventType(), "error", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		select {
		case c.send <- data:
		default:
			// Slow consumer: drop the connection, never block the hand.
			delete(b.clients, c)
			close(c.send)
		}
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Close disconnects all clients.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for c := range b.clients {
		close(c.send)
		delete(b.clients, c)
	}
}

func (b *Broadcaster) drop(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.send)
	}
}

// readPump discards inbound messages; the stream is one-way.
func (b *Broadcaster) readPump(c *client) {
	defer func() {
		b.drop(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

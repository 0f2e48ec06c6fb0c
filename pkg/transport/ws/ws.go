// Package ws implements transport.Connection over a gorilla/websocket
// connection, the concrete adapter cmd/chessroomd wires into pkg/session.
// gorilla/websocket reaches this module transitively through the teacher's
// own github.com/herohde/livechess-go dependency; here it becomes a direct
// import.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = (pongTimeout * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Accept upgrades an incoming HTTP request to a WebSocket connection and
// wraps it as a *Conn. Origin checking is permissive: this is a game
// server with no cookie-based session to protect cross-origin.
func Accept(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return New(ws), nil
}

// Conn adapts *websocket.Conn to transport.Connection, serializing writes
// (including control-frame pings) behind a single mutex per spec.md §5.
type Conn struct {
	ws *websocket.Conn

	writeMu sync.Mutex

	pingStop chan struct{}
	pingDone chan struct{}
}

// New wraps ws, starting a background ping loop that keeps the connection
// alive and detects a dead peer via the pong deadline.
func New(ws *websocket.Conn) *Conn {
	c := &Conn{
		ws:       ws,
		pingStop: make(chan struct{}),
		pingDone: make(chan struct{}),
	}

	_ = c.ws.SetReadDeadline(time.Now().Add(pongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	go c.pingLoop()

	return c
}

func (c *Conn) pingLoop() {
	defer close(c.pingDone)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := c.ws.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-c.pingStop:
			return
		}
	}
}

// ReadMessage blocks for the next text/binary frame. ctx is observed only
// for cancellation bookkeeping -- gorilla/websocket has no native
// context-aware read, so cancellation closes the underlying connection.
func (c *Conn) ReadMessage(ctx context.Context) ([]byte, error) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = c.ws.Close()
		case <-done:
		}
	}()
	defer close(done)

	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WriteMessage sends data as a single text frame.
func (c *Conn) WriteMessage(ctx context.Context, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.ws.SetWriteDeadline(deadline)
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Close stops the ping loop and closes the underlying connection.
func (c *Conn) Close() error {
	select {
	case <-c.pingStop:
	default:
		close(c.pingStop)
	}
	return c.ws.Close()
}

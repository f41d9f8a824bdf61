package connection

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrAlreadyExists = errors.New("connection already exists")
	ErrNotFound      = errors.New("connection not found")
)

// Session identifies which room a connection belongs to and the display
// name it was registered under.
type Session struct {
	RoomId      string
	Participant string
}

// Conn wraps a websocket connection with a write lock. Gorilla allows at
// most one concurrent writer, and broadcasts, heartbeat pings and direct
// replies all race for the same connection.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) WriteMessage(data []byte, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *Conn) WriteJSON(v any, timeout time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return c.WriteMessage(data, timeout)
}

func (c *Conn) Close() error {
	return c.ws.Close()
}

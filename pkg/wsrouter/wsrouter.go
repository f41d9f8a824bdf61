// Package wsrouter dispatches structured websocket messages by their
// "type" tag, one handler per tag, over a single connection.
package wsrouter

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Type string `json:"type"`
}

// HandlerFunc receives the full raw message so handlers can unmarshal
// their own type-specific fields.
type HandlerFunc func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error

type Middleware func(next HandlerFunc) HandlerFunc

type WSRouter struct {
	routes      map[string]HandlerFunc
	middlewares []Middleware
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Use(mw ...Middleware) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

func (r *WSRouter) wrap(handler HandlerFunc) HandlerFunc {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}

	return handler
}

// ServeConn reads messages until the connection fails or a handler returns
// an error. Messages that are not valid JSON or carry an unregistered type
// are dropped without closing the connection.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}

		handler, exists := r.routes[env.Type]
		if !exists {
			continue
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, env.Type)
		if err := r.wrap(handler)(msgCtx, conn, data); err != nil {
			return err
		}
	}
}

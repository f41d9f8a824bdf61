package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveRouter upgrades incoming requests and runs the router on them,
// reporting ServeConn's result on done.
func serveRouter(t *testing.T, router *WSRouter) (client *websocket.Conn, done <-chan error) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	errCh := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		errCh <- router.ServeConn(context.Background(), conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, errCh
}

func TestDispatchByType(t *testing.T) {
	received := make(chan string, 2)

	router := New()
	router.Handle("greet", func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
		var msg struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		received <- "greet:" + msg.Name
		return nil
	})
	router.Handle("bye", func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
		received <- "bye"
		return nil
	})

	client, _ := serveRouter(t, router)

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"greet","name":"alice"}`)))
	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"bye"}`)))

	assert.Equal(t, "greet:alice", <-received)
	assert.Equal(t, "bye", <-received)
}

func TestUnknownTypeAndMalformedJSONAreDropped(t *testing.T) {
	received := make(chan string, 1)

	router := New()
	router.Handle("known", func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
		received <- "known"
		return nil
	})

	client, done := serveRouter(t, router)

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`not json at all`)))
	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"mystery"}`)))
	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"known"}`)))

	assert.Equal(t, "known", <-received)

	select {
	case err := <-done:
		t.Fatalf("ServeConn returned early: %v", err)
	default:
	}
}

func TestHandlerErrorStopsServing(t *testing.T) {
	handlerErr := errors.New("boom")

	router := New()
	router.Handle("fail", func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
		return handlerErr
	})

	client, done := serveRouter(t, router)

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"fail"}`)))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, handlerErr)
	case <-time.After(time.Second):
		t.Fatal("ServeConn did not return after handler error")
	}
}

func TestMiddlewareWrapsHandlers(t *testing.T) {
	var order []string
	received := make(chan struct{}, 1)

	router := New()
	router.Use(func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
			order = append(order, "first")
			return next(ctx, conn, raw)
		}
	})
	router.Use(func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
			order = append(order, "second")
			return next(ctx, conn, raw)
		}
	})
	router.Handle("msg", func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
		order = append(order, "handler")
		received <- struct{}{}
		return nil
	})

	client, _ := serveRouter(t, router)

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"msg"}`)))
	<-received

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestMessageTypeInContext(t *testing.T) {
	types := make(chan string, 1)

	router := New()
	router.Handle("ping", func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
		types <- GetMessageTypeFromCtx(ctx)
		return nil
	})

	client, _ := serveRouter(t, router)

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))

	assert.Equal(t, "ping", <-types)

	assert.Empty(t, GetMessageTypeFromCtx(context.Background()))
}

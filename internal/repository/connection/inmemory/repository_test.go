package inmemory

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamhive/server/internal/repository/connection"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConn(t *testing.T) *connection.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })

	return connection.NewConn(ws)
}

func TestWriteToClosedConnFails(t *testing.T) {
	conn := newTestConn(t)

	require.NoError(t, conn.WriteMessage([]byte(`{"type":"ping"}`), time.Second))

	require.NoError(t, conn.Close())
	assert.Error(t, conn.WriteMessage([]byte(`{"type":"ping"}`), time.Second))
}

func TestAddAndGetByRoom(t *testing.T) {
	repo := NewRepo(testLogger())
	ctx := context.Background()

	conn1 := newTestConn(t)
	conn2 := newTestConn(t)
	other := newTestConn(t)

	require.NoError(t, repo.Add(ctx, conn1, "r1", "Alice"))
	require.NoError(t, repo.Add(ctx, conn2, "r1", "Bob"))
	require.NoError(t, repo.Add(ctx, other, "r2", "Carol"))

	conns := repo.GetByRoom(ctx, "r1")
	assert.Len(t, conns, 2)
	assert.Contains(t, conns, conn1)
	assert.Contains(t, conns, conn2)
	assert.NotContains(t, conns, other)

	assert.Empty(t, repo.GetByRoom(ctx, "unknown"))
}

func TestAddTwiceFails(t *testing.T) {
	repo := NewRepo(testLogger())
	ctx := context.Background()

	conn := newTestConn(t)
	require.NoError(t, repo.Add(ctx, conn, "r1", "Alice"))

	err := repo.Add(ctx, conn, "r1", "Alice")
	assert.ErrorIs(t, err, connection.ErrAlreadyExists)
}

func TestRemoveByConn(t *testing.T) {
	repo := NewRepo(testLogger())
	ctx := context.Background()

	conn1 := newTestConn(t)
	conn2 := newTestConn(t)
	require.NoError(t, repo.Add(ctx, conn1, "r1", "Alice"))
	require.NoError(t, repo.Add(ctx, conn2, "r1", "Bob"))

	session, err := repo.RemoveByConn(ctx, conn1)
	require.NoError(t, err)
	assert.Equal(t, connection.Session{RoomId: "r1", Participant: "Alice"}, session)

	conns := repo.GetByRoom(ctx, "r1")
	assert.Len(t, conns, 1)
	assert.Contains(t, conns, conn2)

	_, err = repo.RemoveByConn(ctx, conn1)
	assert.ErrorIs(t, err, connection.ErrNotFound)
}

func TestRemoveLastConnDropsRoom(t *testing.T) {
	repo := NewRepo(testLogger())
	ctx := context.Background()

	conn := newTestConn(t)
	require.NoError(t, repo.Add(ctx, conn, "r1", "Alice"))

	_, err := repo.RemoveByConn(ctx, conn)
	require.NoError(t, err)

	assert.Empty(t, repo.GetByRoom(ctx, "r1"))
	assert.Empty(t, repo.rooms)
}

// A snapshot taken before membership changes keeps serving the membership
// as it was at the time of iteration.
func TestSnapshotUnaffectedByLaterLeave(t *testing.T) {
	repo := NewRepo(testLogger())
	ctx := context.Background()

	conn1 := newTestConn(t)
	conn2 := newTestConn(t)
	require.NoError(t, repo.Add(ctx, conn1, "r1", "Alice"))
	require.NoError(t, repo.Add(ctx, conn2, "r1", "Bob"))

	snapshot := repo.GetByRoom(ctx, "r1")
	require.Len(t, snapshot, 2)

	_, err := repo.RemoveByConn(ctx, conn2)
	require.NoError(t, err)

	assert.Len(t, snapshot, 2)
	assert.Len(t, repo.GetByRoom(ctx, "r1"), 1)
}

func TestGetSession(t *testing.T) {
	repo := NewRepo(testLogger())
	ctx := context.Background()

	conn := newTestConn(t)
	require.NoError(t, repo.Add(ctx, conn, "r1", "Alice"))

	session, err := repo.GetSession(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, "r1", session.RoomId)
	assert.Equal(t, "Alice", session.Participant)

	_, err = repo.GetSession(ctx, newTestConn(t))
	assert.ErrorIs(t, err, connection.ErrNotFound)
}

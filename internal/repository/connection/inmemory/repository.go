package inmemory

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/streamhive/server/internal/repository/connection"
)

type repo struct {
	logger *slog.Logger
	mu     sync.RWMutex
	rooms  map[string]map[*connection.Conn]struct{}
	conns  map[*connection.Conn]connection.Session
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		logger: logger,
		rooms:  make(map[string]map[*connection.Conn]struct{}),
		conns:  make(map[*connection.Conn]connection.Session),
	}
}

func (r *repo) Add(ctx context.Context, conn *connection.Conn, roomId, participant string) error {
	r.logger.DebugContext(ctx, "called", "method", "connection.inmemory.Add", "room_id", roomId, "participant", participant)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[conn]; ok {
		return connection.ErrAlreadyExists
	}

	room, ok := r.rooms[roomId]
	if !ok {
		room = make(map[*connection.Conn]struct{})
		r.rooms[roomId] = room
	}

	room[conn] = struct{}{}
	r.conns[conn] = connection.Session{RoomId: roomId, Participant: participant}

	return nil
}

// RemoveByConn closes the connection and drops it from its room set. The
// room entry itself is removed once the last connection leaves.
func (r *repo) RemoveByConn(ctx context.Context, conn *connection.Conn) (connection.Session, error) {
	r.logger.DebugContext(ctx, "called", "method", "connection.inmemory.RemoveByConn")
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.conns[conn]
	if !ok {
		return connection.Session{}, connection.ErrNotFound
	}
	conn.Close()

	delete(r.conns, conn)
	if room, ok := r.rooms[session.RoomId]; ok {
		delete(room, conn)
		if len(room) == 0 {
			delete(r.rooms, session.RoomId)
		}
	}

	return session, nil
}

// GetByRoom returns a snapshot of the room's connections. Joins and leaves
// after the snapshot is taken do not affect a broadcast iterating it.
func (r *repo) GetByRoom(ctx context.Context, roomId string) []*connection.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomId]
	if !ok {
		return nil
	}

	return maps.Keys(room)
}

func (r *repo) GetSession(ctx context.Context, conn *connection.Conn) (connection.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.conns[conn]
	if !ok {
		return connection.Session{}, connection.ErrNotFound
	}

	return session, nil
}

// Package inmemory holds the single most recent frame per (room,
// participant) pair. Writes overwrite, reads never consume, and no
// history is kept.
package inmemory

import (
	"log/slog"
	"sync"
)

type frameKey struct {
	roomId      string
	participant string
}

type repo struct {
	logger *slog.Logger
	mu     sync.RWMutex
	frames map[frameKey][]byte
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		logger: logger,
		frames: make(map[frameKey][]byte),
	}
}

func (r *repo) Set(roomId, participant string, frame []byte) {
	r.logger.Debug("called", "method", "frame.inmemory.Set", "room_id", roomId, "participant", participant, "size", len(frame))
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames[frameKey{roomId: roomId, participant: participant}] = frame
}

func (r *repo) Get(roomId, participant string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	frame, ok := r.frames[frameKey{roomId: roomId, participant: participant}]
	return frame, ok
}

func (r *repo) Remove(roomId, participant string) {
	r.logger.Debug("called", "method", "frame.inmemory.Remove", "room_id", roomId, "participant", participant)
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.frames, frameKey{roomId: roomId, participant: participant})
}

func (r *repo) RemoveByRoom(roomId string) {
	r.logger.Debug("called", "method", "frame.inmemory.RemoveByRoom", "room_id", roomId)
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.frames {
		if key.roomId == roomId {
			delete(r.frames, key)
		}
	}
}

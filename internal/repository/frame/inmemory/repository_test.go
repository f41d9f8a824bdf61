package inmemory

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetAndGet(t *testing.T) {
	repo := NewRepo(testLogger())

	_, ok := repo.Get("r1", "Alice")
	assert.False(t, ok)

	frame := []byte{0xff, 0xd8, 0x01, 0x02, 0xff, 0xd9}
	repo.Set("r1", "Alice", frame)

	got, ok := repo.Get("r1", "Alice")
	require.True(t, ok)
	assert.Equal(t, frame, got)
}

func TestSetOverwrites(t *testing.T) {
	repo := NewRepo(testLogger())

	repo.Set("r1", "Alice", []byte("first"))
	repo.Set("r1", "Alice", []byte("second"))

	got, ok := repo.Get("r1", "Alice")
	require.True(t, ok)
	assert.Equal(t, []byte("second"), got)
}

func TestSlotsAreIndependent(t *testing.T) {
	repo := NewRepo(testLogger())

	repo.Set("r1", "Alice", []byte("alice"))
	repo.Set("r1", "Bob", []byte("bob"))
	repo.Set("r2", "Alice", []byte("other room"))

	got, ok := repo.Get("r1", "Alice")
	require.True(t, ok)
	assert.Equal(t, []byte("alice"), got)

	got, ok = repo.Get("r2", "Alice")
	require.True(t, ok)
	assert.Equal(t, []byte("other room"), got)
}

func TestRemove(t *testing.T) {
	repo := NewRepo(testLogger())

	repo.Set("r1", "Alice", []byte("alice"))
	repo.Remove("r1", "Alice")

	_, ok := repo.Get("r1", "Alice")
	assert.False(t, ok)

	// removing a missing slot is a no-op
	repo.Remove("r1", "Alice")
}

func TestRemoveByRoom(t *testing.T) {
	repo := NewRepo(testLogger())

	repo.Set("r1", "Alice", []byte("alice"))
	repo.Set("r1", "Bob", []byte("bob"))
	repo.Set("r2", "Carol", []byte("carol"))

	repo.RemoveByRoom("r1")

	_, ok := repo.Get("r1", "Alice")
	assert.False(t, ok)
	_, ok = repo.Get("r1", "Bob")
	assert.False(t, ok)

	got, ok := repo.Get("r2", "Carol")
	require.True(t, ok)
	assert.Equal(t, []byte("carol"), got)
}

func TestWritesAreLogged(t *testing.T) {
	var buf bytes.Buffer
	repo := NewRepo(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	repo.Set("r1", "Alice", []byte("alice"))
	repo.Remove("r1", "Alice")
	repo.RemoveByRoom("r1")

	logged := buf.String()
	assert.Contains(t, logged, "frame.inmemory.Set")
	assert.Contains(t, logged, "frame.inmemory.Remove")
	assert.Contains(t, logged, "frame.inmemory.RemoveByRoom")
}

package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/streamhive/server/internal/service/room"
)

// placeholderFrame is a 1x1 black JPEG emitted while a participant's slot
// is empty, so viewers always observe a continuous stream.
var placeholderFrame = []byte{
	0xff, 0xd8, 0xff, 0xdb, 0x00, 0x43, 0x00, 0x08, 0x06, 0x06, 0x07, 0x06,
	0x05, 0x08, 0x07, 0x07, 0x07, 0x09, 0x09, 0x08, 0x0a, 0x0c, 0x14, 0x0d,
	0x0c, 0x0b, 0x0b, 0x0c, 0x19, 0x12, 0x13, 0x0f, 0x14, 0x1d, 0x1a, 0x1f,
	0x1e, 0x1d, 0x1a, 0x1c, 0x1c, 0x20, 0x24, 0x2e, 0x27, 0x20, 0x22, 0x2c,
	0x23, 0x1c, 0x1c, 0x28, 0x37, 0x29, 0x2c, 0x30, 0x31, 0x34, 0x34, 0x34,
	0x1f, 0x27, 0x39, 0x3d, 0x38, 0x32, 0x3c, 0x2e, 0x33, 0x34, 0x32, 0xff,
	0xc0, 0x00, 0x11, 0x08, 0x00, 0x01, 0x00, 0x01, 0x03, 0x01, 0x22, 0x00,
	0x02, 0x11, 0x01, 0x03, 0x11, 0x01, 0xff, 0xc4, 0x00, 0x15, 0x00, 0x01,
	0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x08, 0xff, 0xc4, 0x00, 0x14, 0x10, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0xff, 0xda, 0x00, 0x0c, 0x03, 0x01, 0x00, 0x02, 0x11,
	0x03, 0x11, 0x00, 0x3f, 0x00, 0x10, 0xfc, 0x00, 0xff, 0xd9,
}

func (c controller) videoFeed(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")
	participant := chi.URLParam(r, "participant")

	c.streamFrames(w, r, roomId, participant)
}

// hostVideoFeed serves the room host's stream without the caller having
// to know the host's name.
func (c controller) hostVideoFeed(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	hostName := "host"
	rm, err := c.roomService.GetRoom(r.Context(), roomId)
	if err != nil {
		if !errors.Is(err, room.ErrRoomNotFound) {
			c.logger.ErrorContext(r.Context(), "failed to get room", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	} else {
		hostName = rm.HostName
	}

	c.streamFrames(w, r, roomId, hostName)
}

// streamFrames is the per-viewer relay loop. Each tick it emits the
// participant's latest frame, or the placeholder when none was ever
// received, as one part of a multipart/x-mixed-replace stream. It runs
// until the viewer disconnects.
func (c controller) streamFrames(w http.ResponseWriter, r *http.Request, roomId, participant string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		c.logger.ErrorContext(r.Context(), "response writer does not support streaming")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(c.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			frame, ok := c.roomService.GetFrame(roomId, participant)
			if !ok {
				frame = placeholderFrame
			}

			if _, err := fmt.Fprint(w, "--frame\r\nContent-Type: image/jpeg\r\n\r\n"); err != nil {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			if _, err := io.WriteString(w, "\r\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

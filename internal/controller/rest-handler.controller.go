package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streamhive/server/internal/service/room"
	"github.com/streamhive/server/pkg/rest"
)

type createRoomInput struct {
	Title    string `json:"title" validate:"required,max=128"`
	HostName string `json:"host_name" validate:"required,max=64"`
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomInput

	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.InfoContext(r.Context(), "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.logger.InfoContext(r.Context(), "validation failed", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	createdRoom, err := c.roomService.CreateRoom(r.Context(), &room.CreateRoomParams{
		Title:    req.Title,
		HostName: req.HostName,
	})
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to create room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	rest.WriteJSON(w, http.StatusCreated, createdRoom)
}

func (c controller) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := c.roomService.ListRooms(r.Context())
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to list rooms", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rooms)
}

func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	rm, err := c.roomService.GetRoom(r.Context(), roomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to get room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rm)
}

// closeRoom deactivates the room and tells every connected participant it
// is gone. The sessions themselves keep running until their clients hang
// up.
func (c controller) closeRoom(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	closeRoomResp, err := c.roomService.CloseRoom(r.Context(), roomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to close room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	c.broadcast(r.Context(), closeRoomResp.Conns, roomClosedEvent{
		Type:   "room_closed",
		RoomId: roomId,
	})

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"status": "deactivated"})
}

func (c controller) listMessages(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	messages, err := c.roomService.ListMessages(r.Context(), roomId)
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to list messages", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, messages)
}

type postMessageInput struct {
	UserName string `json:"user_name" validate:"required,max=64"`
	Text     string `json:"text" validate:"required"`
	Color    string `json:"color"`
}

func (c controller) postMessage(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")

	var req postMessageInput

	if err := rest.ReadJSON(r, &req); err != nil {
		c.logger.InfoContext(r.Context(), "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.logger.InfoContext(r.Context(), "validation failed", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	sendChatResp, err := c.roomService.SendChat(r.Context(), &room.SendChatParams{
		RoomId:   roomId,
		UserName: req.UserName,
		Text:     req.Text,
		Color:    req.Color,
	})
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to send chat", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	rest.WriteJSON(w, http.StatusCreated, sendChatResp.Message)
}

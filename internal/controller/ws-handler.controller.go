package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/streamhive/server/internal/repository/connection"
	"github.com/streamhive/server/internal/service/room"
	"github.com/streamhive/server/pkg/wsrouter"
)

type chatEvent struct {
	Type      string `json:"type"`
	Id        int    `json:"id"`
	UserName  string `json:"user_name"`
	Text      string `json:"text"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at"`
}

type mediaStateEvent struct {
	Type       string `json:"type"`
	UserName   string `json:"user_name"`
	IsMuted    *bool  `json:"is_muted"`
	IsVideoOff *bool  `json:"is_video_off"`
}

type audioActivityEvent struct {
	Type       string `json:"type"`
	UserName   string `json:"user_name"`
	IsSpeaking bool   `json:"is_speaking"`
}

type participantListEvent struct {
	Type         string             `json:"type"`
	Participants []room.Participant `json:"participants"`
}

type pingEvent struct {
	Type string `json:"type"`
}

type roomClosedEvent struct {
	Type   string `json:"type"`
	RoomId string `json:"room_id"`
}

// broadcast marshals the event once and delivers it to every connection
// in the snapshot. A connection that cannot be written to is closed; its
// own session handler then runs the full teardown.
func (c controller) broadcast(ctx context.Context, conns []*connection.Conn, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return
	}

	for _, conn := range conns {
		if err := conn.WriteMessage(data, c.writeTimeout); err != nil {
			c.logger.DebugContext(ctx, "failed to write to connection, dropping it", "error", err)
			conn.Close()
		}
	}
}

func (c controller) broadcastParticipantList(ctx context.Context, conns []*connection.Conn, participants []room.Participant) {
	c.broadcast(ctx, conns, participantListEvent{
		Type:         "participant_list",
		Participants: participants,
	})
}

// handleEvent adapts a typed handler to the router. A message whose
// fields do not unmarshal is dropped without ending the session.
func handleEvent[T any](c controller, handler func(ctx context.Context, input T) error) wsrouter.HandlerFunc {
	return func(ctx context.Context, _ *websocket.Conn, raw json.RawMessage) error {
		var input T
		if err := json.Unmarshal(raw, &input); err != nil {
			c.logger.DebugContext(ctx, "dropping malformed message", "error", err)
			return nil
		}

		return handler(ctx, input)
	}
}

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.loggingWSMw())

	mux.Handle("chat", handleEvent(c, c.handleChat))
	mux.Handle("media_toggle", handleEvent(c, c.handleMediaToggle))
	mux.Handle("audio_activity", handleEvent(c, c.handleAudioActivity))
	mux.Handle("video_frame", handleEvent(c, c.handleVideoFrame))
	mux.Handle("pong", handleEvent(c, c.handlePong))

	return mux
}

type chatInput struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

func (c controller) handleChat(ctx context.Context, input chatInput) error {
	if input.Text == "" {
		return nil
	}

	roomId := c.getRoomIdFromCtx(ctx)
	userName := c.getParticipantFromCtx(ctx)

	sendChatResp, err := c.roomService.SendChat(ctx, &room.SendChatParams{
		RoomId:   roomId,
		UserName: userName,
		Text:     input.Text,
		Color:    input.Color,
	})
	if err != nil {
		return fmt.Errorf("failed to send chat: %w", err)
	}

	c.broadcast(ctx, sendChatResp.Conns, chatEvent{
		Type:      "chat",
		Id:        sendChatResp.Message.Id,
		UserName:  sendChatResp.Message.UserName,
		Text:      sendChatResp.Message.Text,
		Color:     sendChatResp.Message.Color,
		CreatedAt: sendChatResp.Message.CreatedAt,
	})

	return nil
}

type mediaToggleInput struct {
	IsMuted    *bool `json:"is_muted"`
	IsVideoOff *bool `json:"is_video_off"`
}

func (c controller) handleMediaToggle(ctx context.Context, input mediaToggleInput) error {
	roomId := c.getRoomIdFromCtx(ctx)
	userName := c.getParticipantFromCtx(ctx)

	updateMediaResp, err := c.roomService.UpdateMediaState(ctx, &room.UpdateMediaStateParams{
		RoomId:     roomId,
		Name:       userName,
		IsMuted:    input.IsMuted,
		IsVideoOff: input.IsVideoOff,
	})
	if err != nil {
		return fmt.Errorf("failed to update media state: %w", err)
	}

	c.broadcast(ctx, updateMediaResp.Conns, mediaStateEvent{
		Type:       "media_state",
		UserName:   userName,
		IsMuted:    input.IsMuted,
		IsVideoOff: input.IsVideoOff,
	})
	c.broadcastParticipantList(ctx, updateMediaResp.Conns, updateMediaResp.Participants)

	return nil
}

type audioActivityInput struct {
	IsSpeaking bool `json:"is_speaking"`
}

func (c controller) handleAudioActivity(ctx context.Context, input audioActivityInput) error {
	roomId := c.getRoomIdFromCtx(ctx)
	userName := c.getParticipantFromCtx(ctx)

	c.broadcast(ctx, c.roomService.GetRoomConns(ctx, roomId), audioActivityEvent{
		Type:       "audio_activity",
		UserName:   userName,
		IsSpeaking: input.IsSpeaking,
	})

	return nil
}

type videoFrameInput struct {
	Data string `json:"data"`
}

func (c controller) handleVideoFrame(ctx context.Context, input videoFrameInput) error {
	if input.Data == "" {
		return nil
	}

	roomId := c.getRoomIdFromCtx(ctx)
	userName := c.getParticipantFromCtx(ctx)

	if err := c.roomService.SaveFrame(ctx, &room.SaveFrameParams{
		RoomId: roomId,
		Name:   userName,
		Data:   input.Data,
	}); err != nil {
		if errors.Is(err, room.ErrInvalidFrameData) {
			c.logger.DebugContext(ctx, "dropping undecodable frame", "error", err)
			return nil
		}
		return fmt.Errorf("failed to save frame: %w", err)
	}

	return nil
}

type emptyInput struct{}

func (c controller) handlePong(ctx context.Context, _ emptyInput) error {
	return nil
}

package room

import (
	"context"
	"fmt"

	"github.com/streamhive/server/internal/repository/connection"
	"github.com/streamhive/server/internal/repository/room"
)

const defaultMessageColor = "#ffffff"

type SendChatParams struct {
	RoomId   string
	UserName string
	Text     string
	Color    string
}

type SendChatResponse struct {
	Message Message
	Conns   []*connection.Conn
}

// SendChat persists the message, which assigns its id and timestamp, and
// returns it with the room's connection snapshot for broadcasting.
func (s service) SendChat(ctx context.Context, params *SendChatParams) (SendChatResponse, error) {
	s.logger.DebugContext(ctx, "called", "method", "room.SendChat", "room_id", params.RoomId, "user_name", params.UserName)
	color := params.Color
	if color == "" {
		color = defaultMessageColor
	}

	message, err := s.roomRepo.AppendMessage(ctx, &room.AppendMessageParams{
		RoomId:   params.RoomId,
		UserName: params.UserName,
		Text:     params.Text,
		Color:    color,
	})
	if err != nil {
		return SendChatResponse{}, fmt.Errorf("failed to append message: %w", err)
	}

	return SendChatResponse{
		Message: Message{
			Id:        message.Id,
			UserName:  message.UserName,
			Text:      message.Text,
			Color:     message.Color,
			CreatedAt: formatCreatedAt(message.CreatedAt),
		},
		Conns: s.connRepo.GetByRoom(ctx, params.RoomId),
	}, nil
}

func (s service) ListMessages(ctx context.Context, roomId string) ([]Message, error) {
	messages, err := s.roomRepo.GetMessages(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	result := make([]Message, 0, len(messages))
	for _, m := range messages {
		result = append(result, Message{
			Id:        m.Id,
			UserName:  m.UserName,
			Text:      m.Text,
			Color:     m.Color,
			CreatedAt: formatCreatedAt(m.CreatedAt),
		})
	}

	return result, nil
}

package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/streamhive/server/internal/repository/room"
)

func (r repo) getMessageKey(roomId string, messageId int) string {
	return "room:" + roomId + ":message:" + strconv.Itoa(messageId)
}

func (r repo) getMessageListKey(roomId string) string {
	return "room:" + roomId + ":messagelist"
}

func (r repo) getMessageIdKey(roomId string) string {
	return "room:" + roomId + ":message-id"
}

// AppendMessage assigns the next message id for the room, so ids are
// strictly increasing per room, and stamps the message with the current
// time.
func (r repo) AppendMessage(ctx context.Context, params *room.AppendMessageParams) (room.Message, error) {
	r.logger.DebugContext(ctx, "called", "method", "room.redis.AppendMessage", "params", params)
	id, err := r.rc.Incr(ctx, r.getMessageIdKey(params.RoomId)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Message{}, err
	}

	message := room.Message{
		Id:        int(id),
		UserName:  params.UserName,
		Text:      params.Text,
		Color:     params.Color,
		CreatedAt: time.Now().Unix(),
	}

	pipe := r.rc.TxPipeline()
	r.hSetStruct(ctx, pipe, r.getMessageKey(params.RoomId, message.Id), message)
	pipe.ZAdd(ctx, r.getMessageListKey(params.RoomId), zMember(float64(id), strconv.FormatInt(id, 10)))

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Message{}, err
	}

	return message, nil
}

// GetMessages returns the room's messages ordered by id ascending, which
// matches creation order.
func (r repo) GetMessages(ctx context.Context, roomId string) ([]room.Message, error) {
	ids, err := r.rc.ZRange(ctx, r.getMessageListKey(roomId), 0, -1).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	messages := make([]room.Message, 0, len(ids))
	for _, rawId := range ids {
		id, err := strconv.Atoi(rawId)
		if err != nil {
			continue
		}

		var message room.Message
		if err := r.rc.HGetAll(ctx, r.getMessageKey(roomId, id)).Scan(&message); err != nil {
			r.logger.DebugContext(ctx, "returned", "error", err)
			return nil, err
		}
		if message.Id == 0 {
			continue
		}

		messages = append(messages, message)
	}

	return messages, nil
}

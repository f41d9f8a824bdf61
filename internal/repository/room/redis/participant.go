package redis

import (
	"context"

	"github.com/streamhive/server/internal/repository/room"
)

func (r repo) getParticipantKey(roomId, name string) string {
	return "room:" + roomId + ":participant:" + name
}

func (r repo) getParticipantListKey(roomId string) string {
	return "room:" + roomId + ":participantlist"
}

func (r repo) getParticipantIdKey(roomId string) string {
	return "room:" + roomId + ":participant-id"
}

// SetParticipant assigns the next participant id for the room and stores
// the record. The roster ZSET is scored by id so listing preserves join
// order.
func (r repo) SetParticipant(ctx context.Context, params *room.SetParticipantParams) (room.Participant, error) {
	r.logger.DebugContext(ctx, "called", "method", "room.redis.SetParticipant", "params", params)
	id, err := r.rc.Incr(ctx, r.getParticipantIdKey(params.RoomId)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Participant{}, err
	}

	participant := room.Participant{
		Id:     int(id),
		Name:   params.Name,
		Role:   params.Role,
		Avatar: params.Avatar,
	}

	pipe := r.rc.TxPipeline()
	r.hSetStruct(ctx, pipe, r.getParticipantKey(params.RoomId, params.Name), participant)
	pipe.ZAdd(ctx, r.getParticipantListKey(params.RoomId), zMember(float64(id), params.Name))

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Participant{}, err
	}

	return participant, nil
}

func (r repo) GetParticipant(ctx context.Context, roomId, name string) (room.Participant, error) {
	r.logger.DebugContext(ctx, "called", "method", "room.redis.GetParticipant", "room_id", roomId, "name", name)
	var participant room.Participant
	if err := r.rc.HGetAll(ctx, r.getParticipantKey(roomId, name)).Scan(&participant); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Participant{}, err
	}

	if participant.Name == "" {
		return room.Participant{}, room.ErrParticipantNotFound
	}

	return participant, nil
}

func (r repo) GetParticipants(ctx context.Context, roomId string) ([]room.Participant, error) {
	names, err := r.rc.ZRange(ctx, r.getParticipantListKey(roomId), 0, -1).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	participants := make([]room.Participant, 0, len(names))
	for _, name := range names {
		participant, err := r.GetParticipant(ctx, roomId, name)
		if err != nil {
			if err == room.ErrParticipantNotFound {
				continue
			}
			return nil, err
		}

		participants = append(participants, participant)
	}

	return participants, nil
}

// UpdateParticipantMedia touches only the flags present in params; nil
// fields are left as stored.
func (r repo) UpdateParticipantMedia(ctx context.Context, params *room.UpdateParticipantMediaParams) error {
	r.logger.DebugContext(ctx, "called", "method", "room.redis.UpdateParticipantMedia", "params", params)
	key := r.getParticipantKey(params.RoomId, params.Name)

	exists, err := r.rc.Exists(ctx, key).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}
	if exists == 0 {
		return room.ErrParticipantNotFound
	}

	fields := make([]interface{}, 0, 4)
	if params.IsMuted != nil {
		fields = append(fields, "is_muted", *params.IsMuted)
	}
	if params.IsVideoOff != nil {
		fields = append(fields, "is_video_off", *params.IsVideoOff)
	}
	if len(fields) == 0 {
		return nil
	}

	if err := r.rc.HSet(ctx, key, fields...).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) RemoveParticipant(ctx context.Context, roomId, name string) error {
	r.logger.DebugContext(ctx, "called", "method", "room.redis.RemoveParticipant", "room_id", roomId, "name", name)
	if err := r.rc.ZRem(ctx, r.getParticipantListKey(roomId), name).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	removed, err := r.rc.Del(ctx, r.getParticipantKey(roomId, name)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if removed == 0 {
		return room.ErrParticipantNotFound
	}

	return nil
}

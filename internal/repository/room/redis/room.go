package redis

import (
	"context"
	"time"

	"github.com/streamhive/server/internal/repository/room"
)

func (r repo) getRoomKey(roomId string) string {
	return "room:" + roomId
}

func (r repo) getRoomListKey() string {
	return "roomlist"
}

func (r repo) SetRoom(ctx context.Context, params *room.SetRoomParams) error {
	r.logger.DebugContext(ctx, "called", "method", "room.redis.SetRoom", "params", params)
	pipe := r.rc.TxPipeline()

	rm := room.Room{
		RoomId:     params.RoomId,
		Title:      params.Title,
		HostName:   params.HostName,
		HostAvatar: params.HostAvatar,
		Thumbnail:  params.Thumbnail,
		IsActive:   true,
		CreatedAt:  time.Now().Unix(),
	}

	r.hSetStruct(ctx, pipe, r.getRoomKey(params.RoomId), rm)
	pipe.SAdd(ctx, r.getRoomListKey(), params.RoomId)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetRoom(ctx context.Context, roomId string) (room.Room, error) {
	r.logger.DebugContext(ctx, "called", "method", "room.redis.GetRoom", "room_id", roomId)
	var rm room.Room
	if err := r.rc.HGetAll(ctx, r.getRoomKey(roomId)).Scan(&rm); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Room{}, err
	}

	if rm.RoomId == "" {
		return room.Room{}, room.ErrRoomNotFound
	}

	return rm, nil
}

func (r repo) GetRoomIds(ctx context.Context) ([]string, error) {
	roomIds, err := r.rc.SMembers(ctx, r.getRoomListKey()).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	return roomIds, nil
}

func (r repo) SetRoomIsActive(ctx context.Context, roomId string, isActive bool) error {
	r.logger.DebugContext(ctx, "called", "method", "room.redis.SetRoomIsActive", "room_id", roomId, "is_active", isActive)
	key := r.getRoomKey(roomId)

	exists, err := r.rc.Exists(ctx, key).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}
	if exists == 0 {
		return room.ErrRoomNotFound
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, key, "is_active", isActive)
	if !isActive {
		pipe.SRem(ctx, r.getRoomListKey(), roomId)
	} else {
		pipe.SAdd(ctx, r.getRoomListKey(), roomId)
	}

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

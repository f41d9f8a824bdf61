package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/streamhive/server/internal/repository/connection"
	"github.com/streamhive/server/internal/repository/room"
)

const (
	avatarURLPrefix  = "https://api.dicebear.com/7.x/avataaars/svg?seed="
	defaultThumbnail = "https://images.unsplash.com/photo-1550751827-4bd374c3f58b?auto=format&fit=crop&w=800&q=80"
)

func avatarURL(name string) string {
	return avatarURLPrefix + name
}

type CreateRoomParams struct {
	Title    string
	HostName string
}

func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (Room, error) {
	s.logger.DebugContext(ctx, "called", "method", "room.CreateRoom", "params", params)
	roomId := uuid.NewString()[:8]
	hostAvatar := avatarURL(params.HostName)

	if err := s.roomRepo.SetRoom(ctx, &room.SetRoomParams{
		RoomId:     roomId,
		Title:      params.Title,
		HostName:   params.HostName,
		HostAvatar: hostAvatar,
		Thumbnail:  defaultThumbnail,
	}); err != nil {
		return Room{}, fmt.Errorf("failed to set room: %w", err)
	}

	if _, err := s.roomRepo.SetParticipant(ctx, &room.SetParticipantParams{
		RoomId: roomId,
		Name:   params.HostName,
		Role:   "host",
		Avatar: hostAvatar,
	}); err != nil {
		return Room{}, fmt.Errorf("failed to set host participant: %w", err)
	}

	return s.GetRoom(ctx, roomId)
}

func (s service) GetRoom(ctx context.Context, roomId string) (Room, error) {
	rm, err := s.roomRepo.GetRoom(ctx, roomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return Room{}, ErrRoomNotFound
		}
		return Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	participants, err := s.roster(ctx, roomId)
	if err != nil {
		return Room{}, err
	}

	return Room{
		RoomId:       rm.RoomId,
		Title:        rm.Title,
		HostName:     rm.HostName,
		HostAvatar:   rm.HostAvatar,
		Thumbnail:    rm.Thumbnail,
		IsActive:     rm.IsActive,
		Participants: participants,
	}, nil
}

func (s service) ListRooms(ctx context.Context) ([]Room, error) {
	roomIds, err := s.roomRepo.GetRoomIds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get room ids: %w", err)
	}

	rooms := make([]Room, 0, len(roomIds))
	for _, roomId := range roomIds {
		rm, err := s.GetRoom(ctx, roomId)
		if err != nil {
			if errors.Is(err, ErrRoomNotFound) {
				continue
			}
			return nil, err
		}
		if !rm.IsActive {
			continue
		}

		rooms = append(rooms, rm)
	}

	return rooms, nil
}

type CloseRoomResponse struct {
	Conns []*connection.Conn
}

// CloseRoom deactivates the room and returns the connections that should
// receive the room_closed notification. Frame slots for the room are
// dropped since no producer will overwrite them again.
func (s service) CloseRoom(ctx context.Context, roomId string) (CloseRoomResponse, error) {
	s.logger.DebugContext(ctx, "called", "method", "room.CloseRoom", "room_id", roomId)
	if err := s.roomRepo.SetRoomIsActive(ctx, roomId, false); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return CloseRoomResponse{}, ErrRoomNotFound
		}
		return CloseRoomResponse{}, fmt.Errorf("failed to deactivate room: %w", err)
	}

	s.frameRepo.RemoveByRoom(roomId)

	return CloseRoomResponse{Conns: s.connRepo.GetByRoom(ctx, roomId)}, nil
}

package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/streamhive/server/internal/repository/connection"
	"github.com/streamhive/server/internal/repository/room"
)

func (s service) roster(ctx context.Context, roomId string) ([]Participant, error) {
	participants, err := s.roomRepo.GetParticipants(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	roster := make([]Participant, 0, len(participants))
	for _, p := range participants {
		roster = append(roster, Participant{
			Id:         p.Id,
			Name:       p.Name,
			Role:       p.Role,
			Avatar:     p.Avatar,
			IsMuted:    p.IsMuted,
			IsVideoOff: p.IsVideoOff,
		})
	}

	return roster, nil
}

type ConnectParticipantParams struct {
	Conn   *connection.Conn
	RoomId string
	Name   string
}

type ConnectParticipantResponse struct {
	Participants []Participant
	Conns        []*connection.Conn
}

// ConnectParticipant registers the connection under the room and makes
// sure a presence record exists, creating a guest one on first join. The
// connection is registered even when the room is unknown to the store; in
// that case no roster is produced and the caller has nothing to broadcast.
// When a later step fails the registration is rolled back, so an errored
// connect never leaves a dead member behind for future broadcasts.
func (s service) ConnectParticipant(ctx context.Context, params *ConnectParticipantParams) (_ ConnectParticipantResponse, err error) {
	s.logger.DebugContext(ctx, "called", "method", "room.ConnectParticipant", "room_id", params.RoomId, "name", params.Name)
	if err := s.connRepo.Add(ctx, params.Conn, params.RoomId, params.Name); err != nil {
		return ConnectParticipantResponse{}, fmt.Errorf("failed to register connection: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}
		if _, removeErr := s.connRepo.RemoveByConn(ctx, params.Conn); removeErr != nil && !errors.Is(removeErr, connection.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to unregister connection", "error", removeErr)
		}
	}()

	if _, err := s.roomRepo.GetRoom(ctx, params.RoomId); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return ConnectParticipantResponse{}, nil
		}
		return ConnectParticipantResponse{}, fmt.Errorf("failed to get room: %w", err)
	}

	if _, err := s.roomRepo.GetParticipant(ctx, params.RoomId, params.Name); err != nil {
		if !errors.Is(err, room.ErrParticipantNotFound) {
			return ConnectParticipantResponse{}, fmt.Errorf("failed to get participant: %w", err)
		}

		if _, err := s.roomRepo.SetParticipant(ctx, &room.SetParticipantParams{
			RoomId: params.RoomId,
			Name:   params.Name,
			Role:   "guest",
			Avatar: avatarURL(params.Name),
		}); err != nil {
			return ConnectParticipantResponse{}, fmt.Errorf("failed to set guest participant: %w", err)
		}
	}

	participants, err := s.roster(ctx, params.RoomId)
	if err != nil {
		return ConnectParticipantResponse{}, err
	}

	return ConnectParticipantResponse{
		Participants: participants,
		Conns:        s.connRepo.GetByRoom(ctx, params.RoomId),
	}, nil
}

type DisconnectParticipantParams struct {
	Conn   *connection.Conn
	RoomId string
	Name   string
}

type DisconnectParticipantResponse struct {
	Participants []Participant
	Conns        []*connection.Conn
}

// DisconnectParticipant tears a session down on every exit path: the
// connection leaves the registry, the presence record and the frame slot
// are dropped, and the remaining roster is returned for republishing.
// Missing records are tolerated so a partially torn down session can be
// cleaned up again.
func (s service) DisconnectParticipant(ctx context.Context, params *DisconnectParticipantParams) (DisconnectParticipantResponse, error) {
	s.logger.DebugContext(ctx, "called", "method", "room.DisconnectParticipant", "room_id", params.RoomId, "name", params.Name)
	if _, err := s.connRepo.RemoveByConn(ctx, params.Conn); err != nil && !errors.Is(err, connection.ErrNotFound) {
		return DisconnectParticipantResponse{}, fmt.Errorf("failed to remove connection: %w", err)
	}

	s.frameRepo.Remove(params.RoomId, params.Name)

	if err := s.roomRepo.RemoveParticipant(ctx, params.RoomId, params.Name); err != nil && !errors.Is(err, room.ErrParticipantNotFound) {
		return DisconnectParticipantResponse{}, fmt.Errorf("failed to remove participant: %w", err)
	}

	participants, err := s.roster(ctx, params.RoomId)
	if err != nil {
		return DisconnectParticipantResponse{}, err
	}

	return DisconnectParticipantResponse{
		Participants: participants,
		Conns:        s.connRepo.GetByRoom(ctx, params.RoomId),
	}, nil
}

type UpdateMediaStateParams struct {
	RoomId     string
	Name       string
	IsMuted    *bool
	IsVideoOff *bool
}

type UpdateMediaStateResponse struct {
	Participants []Participant
	Conns        []*connection.Conn
}

// UpdateMediaState persists the flags present in params and leaves the
// rest untouched. An unknown participant is tolerated: the event is still
// relayed so peers converge on the sender's announced state.
func (s service) UpdateMediaState(ctx context.Context, params *UpdateMediaStateParams) (UpdateMediaStateResponse, error) {
	s.logger.DebugContext(ctx, "called", "method", "room.UpdateMediaState", "room_id", params.RoomId, "name", params.Name)
	if err := s.roomRepo.UpdateParticipantMedia(ctx, &room.UpdateParticipantMediaParams{
		RoomId:     params.RoomId,
		Name:       params.Name,
		IsMuted:    params.IsMuted,
		IsVideoOff: params.IsVideoOff,
	}); err != nil && !errors.Is(err, room.ErrParticipantNotFound) {
		return UpdateMediaStateResponse{}, fmt.Errorf("failed to update participant media: %w", err)
	}

	participants, err := s.roster(ctx, params.RoomId)
	if err != nil {
		return UpdateMediaStateResponse{}, err
	}

	return UpdateMediaStateResponse{
		Participants: participants,
		Conns:        s.connRepo.GetByRoom(ctx, params.RoomId),
	}, nil
}

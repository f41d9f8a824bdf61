package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/streamhive/server/internal/repository/connection"
	"github.com/streamhive/server/internal/repository/room"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrInvalidFrameData    = errors.New("invalid frame data")
)

type iRoomRepo interface {
	// room
	SetRoom(context.Context, *room.SetRoomParams) error
	GetRoom(context.Context, string) (room.Room, error)
	GetRoomIds(context.Context) ([]string, error)
	SetRoomIsActive(ctx context.Context, roomId string, isActive bool) error
	// participant
	SetParticipant(context.Context, *room.SetParticipantParams) (room.Participant, error)
	GetParticipant(ctx context.Context, roomId, name string) (room.Participant, error)
	GetParticipants(ctx context.Context, roomId string) ([]room.Participant, error)
	UpdateParticipantMedia(context.Context, *room.UpdateParticipantMediaParams) error
	RemoveParticipant(ctx context.Context, roomId, name string) error
	// message
	AppendMessage(context.Context, *room.AppendMessageParams) (room.Message, error)
	GetMessages(ctx context.Context, roomId string) ([]room.Message, error)
}

type iConnRepo interface {
	Add(ctx context.Context, conn *connection.Conn, roomId, participant string) error
	RemoveByConn(ctx context.Context, conn *connection.Conn) (connection.Session, error)
	GetByRoom(ctx context.Context, roomId string) []*connection.Conn
}

type iFrameRepo interface {
	Set(roomId, participant string, frame []byte)
	Get(roomId, participant string) ([]byte, bool)
	Remove(roomId, participant string)
	RemoveByRoom(roomId string)
}

type service struct {
	roomRepo  iRoomRepo
	connRepo  iConnRepo
	frameRepo iFrameRepo
	logger    *slog.Logger
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, frameRepo iFrameRepo, logger *slog.Logger) *service {
	return &service{
		roomRepo:  roomRepo,
		connRepo:  connRepo,
		frameRepo: frameRepo,
		logger:    logger,
	}
}

// GetRoomConns exposes the room's current connection snapshot for
// broadcasts that carry no service-side state.
func (s service) GetRoomConns(ctx context.Context, roomId string) []*connection.Conn {
	return s.connRepo.GetByRoom(ctx, roomId)
}

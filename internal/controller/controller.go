package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/streamhive/server/internal/repository/connection"
	"github.com/streamhive/server/internal/service/room"
	"github.com/streamhive/server/pkg/validator"
)

type iRoomService interface {
	CreateRoom(context.Context, *room.CreateRoomParams) (room.Room, error)
	GetRoom(ctx context.Context, roomId string) (room.Room, error)
	ListRooms(context.Context) ([]room.Room, error)
	CloseRoom(ctx context.Context, roomId string) (room.CloseRoomResponse, error)
	SendChat(context.Context, *room.SendChatParams) (room.SendChatResponse, error)
	ListMessages(ctx context.Context, roomId string) ([]room.Message, error)
	ConnectParticipant(context.Context, *room.ConnectParticipantParams) (room.ConnectParticipantResponse, error)
	DisconnectParticipant(context.Context, *room.DisconnectParticipantParams) (room.DisconnectParticipantResponse, error)
	UpdateMediaState(context.Context, *room.UpdateMediaStateParams) (room.UpdateMediaStateResponse, error)
	SaveFrame(context.Context, *room.SaveFrameParams) error
	GetFrame(roomId, participant string) ([]byte, bool)
	GetRoomConns(ctx context.Context, roomId string) []*connection.Conn
}

type Config struct {
	PingInterval  time.Duration
	FrameInterval time.Duration
	WriteTimeout  time.Duration
}

type controller struct {
	roomService   iRoomService
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	logger        *slog.Logger
	pingInterval  time.Duration
	frameInterval time.Duration
	writeTimeout  time.Duration
}

func NewController(roomService iRoomService, cfg *Config, logger *slog.Logger) *controller {
	return &controller{
		roomService: roomService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate:      validator.NewValidator(),
		logger:        logger,
		pingInterval:  cfg.PingInterval,
		frameInterval: cfg.FrameInterval,
		writeTimeout:  cfg.WriteTimeout,
	}
}

package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/streamhive/server/internal/repository/connection"
	"github.com/streamhive/server/internal/service/room"
	"github.com/streamhive/server/pkg/ctxlogger"
)

// connectParticipant runs one websocket session: upgrade, register with
// the room, serve inbound events until the peer goes away, then tear the
// session down. Teardown and heartbeat cancellation are deferred so they
// run exactly once on every exit path.
func (c controller) connectParticipant(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")
	participant := chi.URLParam(r, "participant")

	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	ctx := ctxlogger.AppendCtx(r.Context(),
		slog.String("room_id", roomId),
		slog.String("participant", participant),
	)
	ctx = context.WithValue(ctx, roomIdCtxKey, roomId)
	ctx = context.WithValue(ctx, participantCtxKey, participant)

	conn := connection.NewConn(ws)

	connectResp, err := c.roomService.ConnectParticipant(ctx, &room.ConnectParticipantParams{
		Conn:   conn,
		RoomId: roomId,
		Name:   participant,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to connect participant", "error", err)
		conn.Close()
		return
	}

	defer func() {
		disconnectResp, err := c.roomService.DisconnectParticipant(ctx, &room.DisconnectParticipantParams{
			Conn:   conn,
			RoomId: roomId,
			Name:   participant,
		})
		if err != nil {
			c.logger.WarnContext(ctx, "failed to disconnect participant", "error", err)
			return
		}

		c.broadcastParticipantList(ctx, disconnectResp.Conns, disconnectResp.Participants)
	}()

	if len(connectResp.Conns) > 0 {
		c.broadcastParticipantList(ctx, connectResp.Conns, connectResp.Participants)
	}

	heartbeatCtx, cancelHeartbeat := context.WithCancel(ctx)
	defer cancelHeartbeat()
	go c.heartbeat(heartbeatCtx, conn)

	if err := c.getWSRouter().ServeConn(ctx, ws); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
			c.logger.InfoContext(ctx, "websocket session ended", "error", err)
		} else {
			c.logger.DebugContext(ctx, "websocket session closed", "error", err)
		}
	}
}

// heartbeat emits a ping event on a fixed interval until its context is
// cancelled or the peer stops accepting writes.
func (c controller) heartbeat(ctx context.Context, conn *connection.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteJSON(pingEvent{Type: "ping"}, c.writeTimeout); err != nil {
				return
			}
		}
	}
}

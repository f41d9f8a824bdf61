package controller

import "context"

type contextKey int

const (
	roomIdCtxKey contextKey = iota
	participantCtxKey
)

func (c controller) getRoomIdFromCtx(ctx context.Context) string {
	roomId, ok := ctx.Value(roomIdCtxKey).(string)
	if !ok {
		return ""
	}

	return roomId
}

func (c controller) getParticipantFromCtx(ctx context.Context) string {
	participant, ok := ctx.Value(participantCtxKey).(string)
	if !ok {
		return ""
	}

	return participant
}

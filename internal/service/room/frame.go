package room

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

type SaveFrameParams struct {
	RoomId string
	Name   string
	Data   string
}

// SaveFrame decodes a transport-encoded frame and overwrites the sender's
// slot. Data may carry a data-URL header ("data:image/jpeg;base64,...");
// everything up to and including the separator is stripped.
func (s service) SaveFrame(ctx context.Context, params *SaveFrameParams) error {
	data := params.Data
	if idx := strings.Index(data, ","); idx != -1 {
		data = data[idx+1:]
	}

	frame, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFrameData, err)
	}

	s.frameRepo.Set(params.RoomId, params.Name, frame)

	return nil
}

// GetFrame returns the most recent frame for the pair, however old it is.
func (s service) GetFrame(roomId, participant string) ([]byte, bool) {
	return s.frameRepo.Get(roomId, participant)
}

package room

type SetRoomParams struct {
	RoomId     string
	Title      string
	HostName   string
	HostAvatar string
	Thumbnail  string
}

type SetParticipantParams struct {
	RoomId string
	Name   string
	Role   string
	Avatar string
}

type UpdateParticipantMediaParams struct {
	RoomId     string
	Name       string
	IsMuted    *bool
	IsVideoOff *bool
}

type AppendMessageParams struct {
	RoomId   string
	UserName string
	Text     string
	Color    string
}

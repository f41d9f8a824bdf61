package room

import "time"

type Participant struct {
	Id         int    `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Avatar     string `json:"avatar"`
	IsMuted    bool   `json:"is_muted"`
	IsVideoOff bool   `json:"is_video_off"`
}

type Room struct {
	RoomId       string        `json:"room_id"`
	Title        string        `json:"title"`
	HostName     string        `json:"host_name"`
	HostAvatar   string        `json:"host_avatar"`
	Thumbnail    string        `json:"thumbnail"`
	IsActive     bool          `json:"is_active"`
	Participants []Participant `json:"participants"`
}

type Message struct {
	Id        int    `json:"id"`
	UserName  string `json:"user_name"`
	Text      string `json:"text"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at"`
}

func formatCreatedAt(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

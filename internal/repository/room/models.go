package room

type Room struct {
	RoomId     string `redis:"room_id"`
	Title      string `redis:"title"`
	HostName   string `redis:"host_name"`
	HostAvatar string `redis:"host_avatar"`
	Thumbnail  string `redis:"thumbnail"`
	IsActive   bool   `redis:"is_active"`
	CreatedAt  int64  `redis:"created_at"`
}

type Participant struct {
	Id         int    `redis:"id"`
	Name       string `redis:"name"`
	Role       string `redis:"role"`
	Avatar     string `redis:"avatar"`
	IsMuted    bool   `redis:"is_muted"`
	IsVideoOff bool   `redis:"is_video_off"`
}

type Message struct {
	Id        int    `redis:"id"`
	UserName  string `redis:"user_name"`
	Text      string `redis:"text"`
	Color     string `redis:"color"`
	CreatedAt int64  `redis:"created_at"`
}

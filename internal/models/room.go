package models

// Room is a named chat channel and the users currently in it.
type Room struct {
	ID      string   `json:"room_id"`
	Members []string `json:"members"`
}

// RoomState is returned after every room request so clients can redraw from it.
type RoomState struct {
	RoomID   string    `json:"room_id"`
	Username string    `json:"username,omitempty"`
	Members  []string  `json:"members"`
	Messages []Message `json:"messages"`
}

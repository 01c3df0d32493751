package models

// Message is one immutable entry of a room's log.
type Message struct {
	RoomID    string  `db:"-" json:"room_id"`
	Timestamp float64 `db:"timestamp" json:"timestamp"`
	Text      string  `db:"message" json:"message"`
}

// RoomEvent is broadcast through websockets.
type RoomEvent struct {
	Type    string   `json:"type"`
	RoomID  string   `json:"room_id"`
	Message *Message `json:"message,omitempty"`
	Members []string `json:"members,omitempty"`
}

package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"chatroom-service/internal/models"
	"chatroom-service/internal/observability"
)

const (
	kindRoom     = "room"
	roomEventKey = "ws_events.rooms"
	writeWait    = 10 * time.Second
)

// Hub maintains the websocket subscribers of each room.
type Hub struct {
	rooms   map[string]map[*websocket.Conn]ConnInfo
	mu      sync.RWMutex
	writeMu sync.Mutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*websocket.Conn]ConnInfo)}
}

// AddClient registers a websocket connection to a room.
func (h *Hub) AddClient(roomID string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.rooms[roomID][conn] = info
}

// RemoveClient removes a room websocket connection.
func (h *Hub) RemoveClient(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[roomID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// ClientCount returns the number of subscribers of a room.
func (h *Hub) ClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastMessage sends a newly stored message to the room's subscribers.
func (h *Hub) BroadcastMessage(roomID string, msg models.Message) {
	h.broadcast(roomID, models.RoomEvent{Type: "message", RoomID: roomID, Message: &msg})
}

// BroadcastMembers sends the room's member list after a join or leave.
func (h *Hub) BroadcastMembers(roomID string, members []string) {
	h.broadcast(roomID, models.RoomEvent{Type: "members", RoomID: roomID, Members: members})
}

func (h *Hub) broadcast(roomID string, event models.RoomEvent) {
	h.mu.RLock()
	conns := make(map[*websocket.Conn]ConnInfo, len(h.rooms[roomID]))
	for conn, info := range h.rooms[roomID] {
		conns[conn] = info
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("encode room event")
		return
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for conn, info := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warn().Err(err).Str("room_id", roomID).Str("conn_id", info.ConnID).Msg("websocket write error")
			conn.Close()
			h.RemoveClient(roomID, conn)
			publishWSEvent(context.Background(), "ws_error", roomID, info, err.Error())
		}
	}
}

func publishWSEvent(ctx context.Context, event, roomID string, info ConnInfo, reason string) {
	observability.IncWSEvent(kindRoom, event)
	_ = observability.PublishEvent(ctx, roomEventKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload: map[string]any{
			"ws": map[string]any{
				"kind":        kindRoom,
				"resource_id": roomID,
				"event":       event,
				"conn_id":     info.ConnID,
				"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]any{
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}

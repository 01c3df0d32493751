package repositories

import (
	"context"
	"sync"

	"chatroom-service/internal/config"
	"chatroom-service/internal/models"
)

// MemoryMessageStore keeps room logs in process memory.
type MemoryMessageStore struct {
	mu    sync.RWMutex
	rooms map[string][]models.Message
	clock *clock
}

// NewMemoryMessageStore constructs an empty MemoryMessageStore.
func NewMemoryMessageStore() *MemoryMessageStore {
	return &MemoryMessageStore{rooms: make(map[string][]models.Message), clock: newClock()}
}

func (s *MemoryMessageStore) Backend() string {
	return config.BackendMemory
}

func (s *MemoryMessageStore) EnsureRoom(ctx context.Context, roomID string) error {
	safe, err := sanitizeRoomID(roomID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[safe]; !ok {
		s.rooms[safe] = []models.Message{}
	}
	return nil
}

func (s *MemoryMessageStore) Append(ctx context.Context, roomID string, text string) (models.Message, error) {
	safe, err := sanitizeRoomID(roomID)
	if err != nil {
		return models.Message{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := models.Message{RoomID: safe, Timestamp: s.clock.next(), Text: text}
	s.rooms[safe] = append(s.rooms[safe], msg)
	return msg, nil
}

func (s *MemoryMessageStore) List(ctx context.Context, roomID string) ([]models.Message, error) {
	safe, err := sanitizeRoomID(roomID)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, len(s.rooms[safe]))
	copy(out, s.rooms[safe])
	return out, nil
}

func (s *MemoryMessageStore) Close() error {
	return nil
}

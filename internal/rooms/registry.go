package rooms

import (
	"errors"
	"strings"
	"sync"

	"github.com/samber/lo"

	"chatroom-service/internal/identifier"
	"chatroom-service/internal/models"
)

// DefaultCapacity is the member limit of a room.
const DefaultCapacity = 50

var (
	ErrRoomFull      = errors.New("this room is full")
	ErrEmptyUsername = errors.New("username is required")
	ErrInvalidRoomID = errors.New("invalid room id")
)

// Registry tracks which users are in which room. Message history lives in
// the message store; this is presence only.
type Registry struct {
	mu       sync.RWMutex
	capacity int
	members  map[string][]string
}

// NewRegistry builds a Registry; capacity <= 0 means DefaultCapacity.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{capacity: capacity, members: make(map[string][]string)}
}

// Open makes sure the room has an entry and returns its sanitized id.
func (r *Registry) Open(roomID string) (models.Room, error) {
	safe := identifier.Sanitize(roomID)
	if safe == "" {
		return models.Room{}, ErrInvalidRoomID
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[safe]; !ok {
		r.members[safe] = []string{}
	}
	return r.snapshot(safe), nil
}

// Join adds username to the room. Joining twice is a no-op; joining a full
// room returns ErrRoomFull.
func (r *Registry) Join(roomID, username string) (models.Room, error) {
	safe := identifier.Sanitize(roomID)
	if safe == "" {
		return models.Room{}, ErrInvalidRoomID
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return models.Room{}, ErrEmptyUsername
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.members[safe]
	if lo.Contains(current, username) {
		return r.snapshot(safe), nil
	}
	if len(current) >= r.capacity {
		return models.Room{}, ErrRoomFull
	}
	r.members[safe] = append(current, username)
	return r.snapshot(safe), nil
}

// Leave removes username from the room.
func (r *Registry) Leave(roomID, username string) models.Room {
	safe := identifier.Sanitize(roomID)
	username = strings.TrimSpace(username)

	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.members[safe]; ok {
		r.members[safe] = lo.Without(current, username)
	}
	return r.snapshot(safe)
}

// Members returns the room's users in join order.
func (r *Registry) Members(roomID string) []string {
	safe := identifier.Sanitize(roomID)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(safe).Members
}

// Capacity is the member limit per room.
func (r *Registry) Capacity() int {
	return r.capacity
}

func (r *Registry) snapshot(safe string) models.Room {
	members := make([]string, len(r.members[safe]))
	copy(members, r.members[safe])
	return models.Room{ID: safe, Members: members}
}

package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"chatroom-service/internal/config"
	"chatroom-service/internal/models"
)

const redisRoomsKey = "rooms"

// RedisMessageStore keeps each room log in a Redis list of JSON entries.
type RedisMessageStore struct {
	client *redis.Client
	clock  *clock
}

type redisEntry struct {
	Timestamp float64 `json:"timestamp"`
	Message   string  `json:"message"`
}

// NewRedisMessageStore connects to the Redis server at url.
func NewRedisMessageStore(ctx context.Context, url string) (*RedisMessageStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisMessageStore{client: client, clock: newClock()}, nil
}

func roomKey(safeID string) string {
	return "room:" + safeID + ":messages"
}

func (s *RedisMessageStore) Backend() string {
	return config.BackendRedis
}

// EnsureRoom records the room; Redis lists come into being on first push.
func (s *RedisMessageStore) EnsureRoom(ctx context.Context, roomID string) (err error) {
	ctx, span := startSpan(ctx, "messages.ensure_room", s.Backend(), roomID)
	defer func() { endSpan(span, err) }()

	safe, err := sanitizeRoomID(roomID)
	if err != nil {
		return err
	}
	return s.client.SAdd(ctx, redisRoomsKey, safe).Err()
}

func (s *RedisMessageStore) Append(ctx context.Context, roomID string, text string) (msg models.Message, err error) {
	ctx, span := startSpan(ctx, "messages.append", s.Backend(), roomID)
	defer func() { endSpan(span, err) }()

	safe, err := sanitizeRoomID(roomID)
	if err != nil {
		return models.Message{}, err
	}

	msg = models.Message{RoomID: safe, Timestamp: s.clock.next(), Text: text}
	body, err := json.Marshal(redisEntry{Timestamp: msg.Timestamp, Message: msg.Text})
	if err != nil {
		return models.Message{}, err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, redisRoomsKey, safe)
		pipe.RPush(ctx, roomKey(safe), body)
		return nil
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("push to %s: %w", roomKey(safe), err)
	}
	return msg, nil
}

func (s *RedisMessageStore) List(ctx context.Context, roomID string) (msgs []models.Message, err error) {
	ctx, span := startSpan(ctx, "messages.list", s.Backend(), roomID)
	defer func() { endSpan(span, err) }()

	safe, err := sanitizeRoomID(roomID)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.LRange(ctx, roomKey(safe), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", roomKey(safe), err)
	}

	msgs = make([]models.Message, 0, len(raw))
	for _, item := range raw {
		var entry redisEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("decode %s entry: %w", roomKey(safe), err)
		}
		msgs = append(msgs, models.Message{RoomID: safe, Timestamp: entry.Timestamp, Text: entry.Message})
	}
	return msgs, nil
}

func (s *RedisMessageStore) Close() error {
	return s.client.Close()
}

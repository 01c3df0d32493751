package repositories

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"chatroom-service/internal/identifier"
	"chatroom-service/internal/models"
)

// ErrInvalidRoomID is returned when a room id sanitizes to the empty string.
var ErrInvalidRoomID = errors.New("invalid room id")

// MessageStore is an append-only, per-room message log.
type MessageStore interface {
	// EnsureRoom creates the room's storage if it does not exist yet.
	EnsureRoom(ctx context.Context, roomID string) error
	// Append persists text with the current timestamp.
	Append(ctx context.Context, roomID string, text string) (models.Message, error)
	// List returns every message of the room, oldest first. A room that was
	// never written yields an empty slice.
	List(ctx context.Context, roomID string) ([]models.Message, error)
	Backend() string
	Close() error
}

var tracer = otel.Tracer("chatroom-service/repositories")

func startSpan(ctx context.Context, name, backend, roomID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("store.backend", backend),
		attribute.String("room.id", roomID),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func sanitizeRoomID(roomID string) (string, error) {
	safe := identifier.Sanitize(roomID)
	if safe == "" {
		return "", ErrInvalidRoomID
	}
	return safe, nil
}

// clock hands out strictly increasing timestamps (seconds since epoch) so
// ordering by timestamp is insertion order even within one clock tick.
type clock struct {
	mu   sync.Mutex
	last float64
	now  func() time.Time
}

func newClock() *clock {
	return &clock{now: time.Now}
}

func (c *clock) next() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := float64(c.now().UnixNano()) / 1e9
	if ts <= c.last {
		ts = math.Nextafter(c.last, math.Inf(1))
	}
	c.last = ts
	return ts
}

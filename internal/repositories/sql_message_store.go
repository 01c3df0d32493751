package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chatroom-service/internal/db"
	"chatroom-service/internal/models"
)

// pq error code for undefined_table.
const pqUndefinedTable = "42P01"

// SQLMessageStore keeps one table per room: room_<sanitized id>(timestamp, message).
type SQLMessageStore struct {
	db    *sqlx.DB
	clock *clock
}

// NewSQLMessageStore constructs a SQLMessageStore.
func NewSQLMessageStore(db *sqlx.DB) *SQLMessageStore {
	return &SQLMessageStore{db: db, clock: newClock()}
}

func (s *SQLMessageStore) Backend() string {
	return s.db.DriverName()
}

// EnsureRoom creates the room table if it does not exist.
func (s *SQLMessageStore) EnsureRoom(ctx context.Context, roomID string) (err error) {
	ctx, span := startSpan(ctx, "messages.ensure_room", s.Backend(), roomID)
	defer func() { endSpan(span, err) }()

	safe, err := sanitizeRoomID(roomID)
	if err != nil {
		return err
	}
	return s.createTable(ctx, safe)
}

func (s *SQLMessageStore) createTable(ctx context.Context, safeID string) error {
	tsType := "REAL"
	if s.db.DriverName() == db.DriverPostgres {
		// REAL is single precision on PostgreSQL.
		tsType = "DOUBLE PRECISION"
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS room_%s (timestamp %s, message TEXT)`, safeID, tsType)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table room_%s: %w", safeID, err)
	}
	return nil
}

// Append stores text in the room table, creating the table on first use.
func (s *SQLMessageStore) Append(ctx context.Context, roomID string, text string) (msg models.Message, err error) {
	ctx, span := startSpan(ctx, "messages.append", s.Backend(), roomID)
	defer func() { endSpan(span, err) }()

	safe, err := sanitizeRoomID(roomID)
	if err != nil {
		return models.Message{}, err
	}
	if err = s.createTable(ctx, safe); err != nil {
		return models.Message{}, err
	}

	msg = models.Message{RoomID: safe, Timestamp: s.clock.next(), Text: text}
	query := s.db.Rebind(fmt.Sprintf(`INSERT INTO room_%s (timestamp, message) VALUES (?, ?)`, safe))
	if _, err = s.db.ExecContext(ctx, query, msg.Timestamp, msg.Text); err != nil {
		return models.Message{}, fmt.Errorf("insert into room_%s: %w", safe, err)
	}
	return msg, nil
}

// List returns the room's messages by ascending timestamp. A missing table is empty history.
func (s *SQLMessageStore) List(ctx context.Context, roomID string) (msgs []models.Message, err error) {
	ctx, span := startSpan(ctx, "messages.list", s.Backend(), roomID)
	defer func() { endSpan(span, err) }()

	safe, err := sanitizeRoomID(roomID)
	if err != nil {
		return nil, err
	}

	msgs = []models.Message{}
	query := fmt.Sprintf(`SELECT timestamp, message FROM room_%s ORDER BY timestamp ASC`, safe)
	if err = s.db.SelectContext(ctx, &msgs, query); err != nil {
		if isMissingTable(err) {
			return []models.Message{}, nil
		}
		return nil, fmt.Errorf("select from room_%s: %w", safe, err)
	}
	for i := range msgs {
		msgs[i].RoomID = safe
	}
	return msgs, nil
}

func (s *SQLMessageStore) Close() error {
	return s.db.Close()
}

func isMissingTable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUndefinedTable
	}
	return strings.Contains(err.Error(), "no such table")
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// chatRepo implements ChatRepo on raw SQL.
type chatRepo struct {
	db *sql.DB
}

func (r *chatRepo) Append(ctx context.Context, msg ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, timestamp, role, content) VALUES (?, ?, ?, ?)`,
		msg.ID, ts.Format(time.RFC3339Nano), msg.Role, msg.Content)
	if err != nil {
		return fmt.Errorf("save chat message: %w", err)
	}
	return nil
}

func (r *chatRepo) Recent(ctx context.Context, limit int) ([]ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, role, content FROM (
			SELECT rowid AS rid, id, timestamp, role, content FROM chat_messages ORDER BY rid DESC LIMIT ?
		) ORDER BY rid ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []ChatMessage
	for rows.Next() {
		var m ChatMessage
		var ts string
		if err := rows.Scan(&m.ID, &ts, &m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse chat timestamp: %w", err)
		}
		m.Timestamp = parsed
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *chatRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chat_messages`); err != nil {
		return fmt.Errorf("delete chat messages: %w", err)
	}
	return nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// Insert stores a chat message and returns the saved row with its
// server-assigned id. Insert and read-back are one statement, so listeners
// always see consistent ids and timestamps.
func (r *ChatRepository) Insert(ctx context.Context, userID *int64, username, text string, timestamp int64, chatType string) (*model.ChatMessage, error) {
	m := &model.ChatMessage{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (user_id, username, text, timestamp, chat_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, username, text, timestamp, chat_type
	`, userID, username, text, timestamp, chatType).Scan(&m.ID, &m.UserID, &m.Username, &m.Text, &m.Timestamp, &m.ChatType)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Recent returns up to limit messages of the given kind with timestamp >= since,
// newest first. The caller reorders for presentation.
func (r *ChatRepository) Recent(ctx context.Context, chatType string, since int64, limit int) ([]model.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, username, text, timestamp, chat_type
		FROM messages
		WHERE chat_type = $1 AND timestamp >= $2
		ORDER BY timestamp DESC, id DESC
		LIMIT $3
	`, chatType, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Username, &m.Text, &m.Timestamp, &m.ChatType); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// DeleteOlderThan removes messages of every kind with timestamp < cutoff.
// Returns the number of deleted rows.
func (r *ChatRepository) DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Clear removes all messages of the given kind regardless of age.
// An empty chatType clears every kind.
func (r *ChatRepository) Clear(ctx context.Context, chatType string) (int64, error) {
	if chatType == "" {
		tag, err := r.pool.Exec(ctx, `DELETE FROM messages`)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE chat_type = $1`, chatType)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ChatRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *ChatRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

type SystemMessageRepository struct {
	pool *pgxpool.Pool
}

func NewSystemMessageRepository(pool *pgxpool.Pool) *SystemMessageRepository {
	return &SystemMessageRepository{pool: pool}
}

func (r *SystemMessageRepository) Insert(ctx context.Context, title *string, content string, createdBy int64, isPrivate bool, targetUser *int64, timestamp int64) (*model.SystemMessage, error) {
	m := &model.SystemMessage{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO system_messages (title, content, created_by, is_private, target_user, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, content, created_by, is_private, target_user, timestamp
	`, title, content, createdBy, isPrivate, targetUser, timestamp).Scan(
		&m.ID, &m.Title, &m.Content, &m.CreatedBy, &m.IsPrivate, &m.TargetUser, &m.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListForUser returns broadcast messages plus private ones targeting the
// user, newest first, capped at limit.
func (r *SystemMessageRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]model.SystemMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, created_by, is_private, target_user, timestamp
		FROM system_messages
		WHERE is_private = FALSE OR (is_private = TRUE AND target_user = $1)
		ORDER BY timestamp DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.SystemMessage
	for rows.Next() {
		var m model.SystemMessage
		if err := rows.Scan(&m.ID, &m.Title, &m.Content, &m.CreatedBy, &m.IsPrivate, &m.TargetUser, &m.Timestamp); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

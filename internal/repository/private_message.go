package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

type PrivateMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPrivateMessageRepository(pool *pgxpool.Pool) *PrivateMessageRepository {
	return &PrivateMessageRepository{pool: pool}
}

// Insert stores a private message and returns the saved row with both
// usernames resolved.
func (r *PrivateMessageRepository) Insert(ctx context.Context, senderID, receiverID int64, text string, timestamp int64) (*model.PrivateMessage, error) {
	m := &model.PrivateMessage{}
	err := r.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO private_messages (sender_id, receiver_id, text, timestamp)
			VALUES ($1, $2, $3, $4)
			RETURNING id, sender_id, receiver_id, text, timestamp, read
		)
		SELECT i.id, i.sender_id, i.receiver_id, i.text, i.timestamp, i.read,
		       s.username, rcv.username
		FROM inserted i
		JOIN users s ON i.sender_id = s.id
		JOIN users rcv ON i.receiver_id = rcv.id
	`, senderID, receiverID, text, timestamp).Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Timestamp, &m.Read,
		&m.SenderUsername, &m.ReceiverUsername,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Conversation returns every message between the two users, oldest first.
func (r *PrivateMessageRepository) Conversation(ctx context.Context, userID, otherID int64) ([]model.PrivateMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pm.id, pm.sender_id, pm.receiver_id, pm.text, pm.timestamp, pm.read,
		       s.username, rcv.username
		FROM private_messages pm
		JOIN users s ON pm.sender_id = s.id
		JOIN users rcv ON pm.receiver_id = rcv.id
		WHERE (pm.sender_id = $1 AND pm.receiver_id = $2)
		   OR (pm.sender_id = $2 AND pm.receiver_id = $1)
		ORDER BY pm.timestamp ASC, pm.id ASC
	`, userID, otherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.PrivateMessage
	for rows.Next() {
		var m model.PrivateMessage
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Timestamp, &m.Read,
			&m.SenderUsername, &m.ReceiverUsername); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// MarkRead flags all unread messages from senderID to receiverID as read.
// Read-on-fetch: the receiver calls this when loading the conversation.
func (r *PrivateMessageRepository) MarkRead(ctx context.Context, receiverID, senderID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE private_messages SET read = TRUE
		WHERE receiver_id = $1 AND sender_id = $2 AND read = FALSE
	`, receiverID, senderID)
	return err
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"farmdirect/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (uuid, chat_room_uuid, sender_email, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		m.UUID, m.ChatRoomUUID, m.SenderEmail, m.Body, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListForRoom returns messages in ascending timestamp order, with insertion
// order breaking ties.
func (r *MessageRepo) ListForRoom(ctx context.Context, chatRoomUUID string) ([]*domain.Message, error) {
	query := `
		SELECT id, uuid, chat_room_uuid, sender_email, body, created_at
		FROM messages
		WHERE chat_room_uuid = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, chatRoomUUID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []*domain.Message
	for rows.Next() {
		m := &domain.Message{}
		if err := rows.Scan(&m.ID, &m.UUID, &m.ChatRoomUUID, &m.SenderEmail, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

package store

import (
	"context"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/db"
	"github.com/arshGoyalDev/chat-app-backend/internal/app/model"
)

const messageColumns = `id, sender_id, recipient_id, content, message_type, file_url, sent_at`

// CreateMessage appends a new message record. Ids are generated by this
// process, so a unique violation means the same insert was retried; it is
// treated as success.
func (s *PostgresStore) CreateMessage(ctx context.Context, m *model.Message) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, content, message_type, file_url, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.SenderID, m.RecipientID, m.Content, string(m.Type), m.FileURL, m.Timestamp)
	if err != nil && db.IsUniqueViolation(err) {
		return nil
	}
	return err
}

// GetMessagesByIDs retrieves the messages with the given ids, ordered by the
// position of each id in ids. The caller's id list is the group's append-only
// sequence; timestamps can collide and must not decide the order.
func (s *PostgresStore) GetMessagesByIDs(ctx context.Context, ids []string) ([]model.Message, error) {
	if len(ids) == 0 {
		return []model.Message{}, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages WHERE id = ANY($1)
		ORDER BY array_position($1, id)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]model.Message, 0, len(ids))
	for rows.Next() {
		m := model.Message{}
		var msgType string
		if err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.RecipientID,
			&m.Content,
			&msgType,
			&m.FileURL,
			&m.Timestamp,
		); err != nil {
			return nil, err
		}
		m.Type = model.MessageType(msgType)
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

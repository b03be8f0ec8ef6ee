package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/model"
)

const groupColumns = `id, name, description, pic, admin_id, member_ids, message_ids, created_at, updated_at`

func scanGroup(row pgx.Row) (*model.Group, error) {
	g := &model.Group{}
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.Pic,
		&g.AdminID,
		&g.MemberIDs,
		&g.MessageIDs,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// CreateGroup inserts the group-created system message and the group row in a
// single transaction, so a failure on either side rolls back both.
func (s *PostgresStore) CreateGroup(ctx context.Context, g *model.Group, sysMsg *model.Message) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create group tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, content, message_type, file_url, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, sysMsg.ID, sysMsg.SenderID, sysMsg.RecipientID, sysMsg.Content, string(sysMsg.Type), sysMsg.FileURL, sysMsg.Timestamp)
	if err != nil {
		return fmt.Errorf("insert group-created message: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO groups (id, name, description, pic, admin_id, member_ids, message_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, g.ID, g.Name, g.Description, g.Pic, g.AdminID, g.MemberIDs, g.MessageIDs, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}

	return tx.Commit(ctx)
}

// GetGroupByID retrieves a group record by id.
func (s *PostgresStore) GetGroupByID(ctx context.Context, id string) (*model.Group, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+groupColumns+`
		FROM groups WHERE id = $1
	`, id)
	return scanGroup(row)
}

// AppendGroupMessage atomically appends messageID to the group's message list.
func (s *PostgresStore) AppendGroupMessage(ctx context.Context, groupID, messageID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE groups
		SET message_ids = array_append(message_ids, $2), updated_at = now()
		WHERE id = $1
	`, groupID, messageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateGroupMembers replaces the member list and appends messageID in a
// single row write.
func (s *PostgresStore) UpdateGroupMembers(ctx context.Context, groupID string, memberIDs []string, messageID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE groups
		SET member_ids = $2, message_ids = array_append(message_ids, $3), updated_at = now()
		WHERE id = $1
	`, groupID, memberIDs, messageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateGroupPic replaces the group's picture reference.
func (s *PostgresStore) UpdateGroupPic(ctx context.Context, groupID string, pic string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE groups
		SET pic = $2, updated_at = now()
		WHERE id = $1
	`, groupID, pic)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGroup removes the group's messages and the group row in one
// transaction. A crash can no longer leave messages deleted with the group
// intact, or the reverse.
func (s *PostgresStore) DeleteGroup(ctx context.Context, groupID string, messageIDs []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete group tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(messageIDs) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE id = ANY($1)`, messageIDs); err != nil {
			return fmt.Errorf("delete group messages: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM groups WHERE id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// ListUserGroups returns the groups where userID is the admin or a member,
// most recently updated first.
func (s *PostgresStore) ListUserGroups(ctx context.Context, userID string) ([]model.Group, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+groupColumns+`
		FROM groups
		WHERE admin_id = $1 OR $1 = ANY(member_ids)
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []model.Group{}
	for rows.Next() {
		g := model.Group{}
		if err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.Description,
			&g.Pic,
			&g.AdminID,
			&g.MemberIDs,
			&g.MessageIDs,
			&g.CreatedAt,
			&g.UpdatedAt,
		); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

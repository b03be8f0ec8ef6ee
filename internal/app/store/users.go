package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/arshGoyalDev/chat-app-backend/internal/app/model"
)

const userColumns = `id, email, first_name, last_name, profile_pic, status, user_online`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.ProfilePic,
		&u.Status,
		&u.Online,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetUserByID retrieves a user record by id.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

// GetUsersByIDs retrieves every user whose id appears in ids.
func (s *PostgresStore) GetUsersByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0, len(ids))
	for rows.Next() {
		u := model.User{}
		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.FirstName,
			&u.LastName,
			&u.ProfilePic,
			&u.Status,
			&u.Online,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// SetUserOnline persists the user's online flag.
func (s *PostgresStore) SetUserOnline(ctx context.Context, id string, online bool) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users SET user_online = $2 WHERE id = $1
	`, id, online)
	return err
}

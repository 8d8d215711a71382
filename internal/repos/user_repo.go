package repos

import (
	"context"

	"electrostore/internal/domain"
)

type UserRepo struct{}

func NewUserRepo() *UserRepo { return &UserRepo{} }

const userCols = `id, email, name, password_hash, role`

func (r *UserRepo) ByEmail(ctx context.Context, q Queryer, email string) (*domain.User, error) {
	var u domain.User
	if err := get(ctx, q, &u, `SELECT `+userCols+` FROM users WHERE LOWER(email) = LOWER(?)`, email); err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, q Queryer, id string) (*domain.User, error) {
	var u domain.User
	if err := get(ctx, q, &u, `SELECT `+userCols+` FROM users WHERE id = ?`, id); err != nil {
		return nil, notFound(err, "user "+id)
	}
	return &u, nil
}

// BindSession stores token as a live session for userID.
func (r *UserRepo) BindSession(ctx context.Context, q Queryer, token, userID string) error {
	ts := now()
	_, err := exec(ctx, q, `
		INSERT INTO sessions(id, user_id, created_at, last_seen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, last_seen = excluded.last_seen
	`, token, userID, ts, ts)
	return err
}

func (r *UserRepo) SessionUser(ctx context.Context, q Queryer, token string) (*domain.User, error) {
	var u domain.User
	err := get(ctx, q, &u, `
      SELECT u.id, u.email, u.name, u.password_hash, u.role
      FROM sessions s
      JOIN users u ON u.id = s.user_id
      WHERE s.id = ?`, token)
	if err != nil {
		return nil, notFound(err, "session")
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(ctx context.Context, q Queryer, token string) error {
	_, err := exec(ctx, q, `DELETE FROM sessions WHERE id = ?`, token)
	return err
}

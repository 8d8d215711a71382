package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"electrostore/internal/domain"
	"electrostore/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	DB    *sqlx.DB
	Users *repos.UserRepo
}

func NewAuthService(db *sqlx.DB, users *repos.UserRepo) *AuthService {
	return &AuthService{DB: db, Users: users}
}

// Login checks the password and issues a fresh opaque bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, ErrBadCreds
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}
	token := uuid.NewString()
	if err := s.Users.BindSession(ctx, s.DB, token, u.ID); err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.Users.UnbindSession(ctx, s.DB, token)
}

func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.Users.SessionUser(ctx, s.DB, token)
}

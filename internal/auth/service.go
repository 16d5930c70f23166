package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrValidation = errors.New("invalid request")

type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
}

type Service struct {
	Users      UserStore
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

// Register hashes the credential and stores the user. The plaintext never
// reaches the store.
func (s *Service) Register(ctx context.Context, username, password, role string) (*User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if role == "" {
		role = RoleCustomer
	}
	if role != RoleAdmin && role != RoleCustomer {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	hash, err := HashPassword(password, s.BcryptCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the credential and issues a signed token. Unknown username
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil || !VerifyPassword(u.PasswordHash, password) {
		return "", ErrUnauthorized
	}
	return IssueToken(s.Secret, s.TokenTTL, u)
}

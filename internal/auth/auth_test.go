package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	byName map[string]*User
}

func (m *memUsers) CreateUser(_ context.Context, u *User) error {
	if _, ok := m.byName[u.Username]; ok {
		return fmt.Errorf("%w: %s", ErrUsernameTaken, u.Username)
	}
	m.byName[u.Username] = u
	return nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*User, error) {
	return m.byName[username], nil
}

func newService() (*Service, *memUsers) {
	users := &memUsers{byName: map[string]*User{}}
	return &Service{
		Users:      users,
		Secret:     "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, users
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	svc, users := newService()

	u, err := svc.Register(context.Background(), "ada", "s3cret", "")
	require.NoError(t, err)

	stored := users.byName["ada"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.True(t, VerifyPassword(stored.PasswordHash, "s3cret"))
	assert.Equal(t, RoleCustomer, u.Role, "role defaults to Customer")
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(context.Background(), "", "pw", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(context.Background(), "bob", "pw", "Root")
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(context.Background(), "ada", "pw", "")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "ada", "pw2", "")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLoginIssuesTokenWithClaims(t *testing.T) {
	svc, _ := newService()

	u, err := svc.Register(context.Background(), "ada", "s3cret", RoleAdmin)
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "ada", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(svc.Secret, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(context.Background(), "ada", "s3cret", "")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(context.Background(), "nobody", "s3cret")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	u := &User{ID: "u1", Username: "ada", Role: RoleCustomer}

	expired, err := IssueToken("test-secret", -time.Minute, u)
	require.NoError(t, err)
	_, err = ParseToken("test-secret", expired)
	require.ErrorIs(t, err, ErrUnauthorized)

	token, err := IssueToken("test-secret", time.Hour, u)
	require.NoError(t, err)
	_, err = ParseToken("other-secret", token)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = ParseToken("test-secret", "not-a-token")
	require.ErrorIs(t, err, ErrUnauthorized)
}

package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podhub/internal/models"
)

type memUsers struct {
	byEmail map[string]*models.User
	nextID  uint
}

func (m *memUsers) CreateUser(ctx context.Context, u *models.User) error {
	for _, existing := range m.byEmail {
		if existing.Email == u.Email || existing.Username == u.Username {
			return ErrConflict
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func newTestAuth() *AuthService {
	return NewAuthService(&memUsers{byEmail: map[string]*models.User{}}, "test-secret")
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newTestAuth()
	ctx := context.Background()

	user, token, err := auth.Register(ctx, "ada", " Ada@Example.com ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, RoleUser, user.Role)
	assert.NotEqual(t, "hunter22", user.Password)

	id, role, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, RoleUser, role)

	_, token, err = auth.Login(ctx, "ADA@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = auth.Login(ctx, "ada@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = auth.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = auth.Register(ctx, "ada", "other@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	auth := newTestAuth()
	ctx := context.Background()

	tests := []struct {
		name, username, email, password string
	}{
		{"no username", " ", "a@example.com", "hunter22"},
		{"bad email", "ada", "not-an-email", "hunter22"},
		{"short password", "ada", "a@example.com", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := auth.Register(ctx, tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrBadRequest)
		})
	}
}

func TestParseTokenRejects(t *testing.T) {
	auth := newTestAuth()
	user := &models.User{ID: 3, Role: RoleAdmin}

	good, err := auth.IssueToken(user)
	require.NoError(t, err)
	id, role, err := auth.ParseToken(good)
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)
	assert.Equal(t, RoleAdmin, role)

	other := NewAuthService(nil, "another-secret")
	forged, err := other.IssueToken(user)
	require.NoError(t, err)
	_, _, err = auth.ParseToken(forged)
	assert.ErrorIs(t, err, ErrUnauthorized)

	auth.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	expired, err := auth.IssueToken(user)
	require.NoError(t, err)
	auth.now = time.Now
	_, _, err = auth.ParseToken(expired)
	assert.ErrorIs(t, err, ErrUnauthorized)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "3", "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, _, err = auth.ParseToken(unsigned)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = auth.ParseToken(strings.Repeat("x", 20))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

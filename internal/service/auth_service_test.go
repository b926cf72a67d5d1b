package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/prepatef/prepatef-api/internal/models"
	"github.com/prepatef/prepatef-api/pkg/config"
)

type mockUserRepo struct {
	users      map[string]*models.User
	lastLogins []string
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLogins = append(m.lastLogins, id)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test_secret", Expiration: time.Hour, Issuer: "prepatef-test"}
}

func seedUser(t *testing.T, password string, active bool) *mockUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &mockUserRepo{users: map[string]*models.User{
		"u1": {
			ID:           "u1",
			Email:        "admin@prepatef.example",
			PasswordHash: string(hash),
			FullName:     "Admin PrepaTEF",
			Role:         models.RoleAdmin,
			Active:       active,
		},
	}}
}

func TestAuthServiceLogin(t *testing.T) {
	repo := seedUser(t, "secret123", true)
	service := NewAuthService(repo, testJWTConfig(), nil, nil)

	resp, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "admin@prepatef.example",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	assert.Equal(t, []string{"u1"}, repo.lastLogins)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := seedUser(t, "secret123", true)
	service := NewAuthService(repo, testJWTConfig(), nil, nil)

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "admin@prepatef.example",
		Password: "nope",
	})
	require.Error(t, err)
	assert.Empty(t, repo.lastLogins)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo := seedUser(t, "secret123", false)
	service := NewAuthService(repo, testJWTConfig(), nil, nil)

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "admin@prepatef.example",
		Password: "secret123",
	})
	require.Error(t, err)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	service := NewAuthService(&mockUserRepo{}, testJWTConfig(), nil, nil)

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "ghost@prepatef.example",
		Password: "secret123",
	})
	require.Error(t, err)
}

func TestAuthServiceValidateToken(t *testing.T) {
	repo := seedUser(t, "secret123", true)
	service := NewAuthService(repo, testJWTConfig(), nil, nil)

	resp, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "admin@prepatef.example",
		Password: "secret123",
	})
	require.NoError(t, err)

	claims, err := service.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceValidateTokenWrongSecret(t *testing.T) {
	repo := seedUser(t, "secret123", true)
	issuer := NewAuthService(repo, testJWTConfig(), nil, nil)

	resp, err := issuer.Login(context.Background(), models.LoginRequest{
		Email:    "admin@prepatef.example",
		Password: "secret123",
	})
	require.NoError(t, err)

	verifier := NewAuthService(repo, config.JWTConfig{Secret: "other_secret", Expiration: time.Hour}, nil, nil)
	_, err = verifier.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}

func TestAuthServiceValidateGarbageToken(t *testing.T) {
	service := NewAuthService(&mockUserRepo{}, testJWTConfig(), nil, nil)

	_, err := service.ValidateToken("not.a.token")
	require.Error(t, err)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/store"
	"github.com/campushq/campus-admin-api/pkg/config"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
)

type mockUserStore struct {
	user             *models.User
	getErr           error
	lastLoginErr     error
	lastLoginStamped bool
}

func (m *mockUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserStore) UpdateLastLogin(ctx context.Context, username string, ts time.Time) error {
	if m.lastLoginErr != nil {
		return m.lastLoginErr
	}
	m.lastLoginStamped = true
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Expiration: time.Hour, Issuer: "campus-admin-api"}
}

func activeUser(password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return &models.User{
		ID:           "user001",
		Username:     "admin",
		PasswordHash: string(hash),
		Name:         "Admin",
		Email:        "admin@campus.edu",
		UserType:     models.RoleAdmin,
		Status:       "active",
	}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	st := &mockUserStore{user: activeUser("123")}
	svc := NewAuthService(st, testJWTConfig(), nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "user001", res.User.ID)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.True(t, st.lastLoginStamped)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(&mockUserStore{user: activeUser("123")}, testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "wrong"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc := NewAuthService(&mockUserStore{getErr: store.ErrNotFound}, testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "123"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	user := activeUser("123")
	user.Status = "inactive"
	svc := NewAuthService(&mockUserStore{user: user}, testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "123"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthServiceLoginValidatesPayload(t *testing.T) {
	svc := NewAuthService(&mockUserStore{user: activeUser("123")}, testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceLoginSurvivesLastLoginFailure(t *testing.T) {
	st := &mockUserStore{user: activeUser("123"), lastLoginErr: errors.New("write failed")}
	svc := NewAuthService(st, testJWTConfig(), nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestAuthServiceValidateTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(&mockUserStore{user: activeUser("123")}, testJWTConfig(), nil, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user001", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(&mockUserStore{}, testJWTConfig(), nil, nil)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(&mockUserStore{user: activeUser("123")}, testJWTConfig(), nil, nil)
	res, err := issuer.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "123"})
	require.NoError(t, err)

	verifier := NewAuthService(&mockUserStore{}, config.JWTConfig{Secret: "other", Expiration: time.Hour}, nil, nil)
	_, err = verifier.ValidateToken(res.AccessToken)
	require.Error(t, err)
}

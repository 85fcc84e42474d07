package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skillside-labs/questly_api/dto"
	"github.com/skillside-labs/questly_api/model"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	authSvc := &AuthService{}
	authSvc.setDB(db)
	authSvc.jwtSvc = &JWTService{
		AccessTokenDuration: time.Hour,
		jwtSecretKey:        "test-secret",
	}

	return authSvc
}

func TestRegisterAndLogin(t *testing.T) {
	authSvc := newTestAuth(t)

	resp, err := authSvc.Register(dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.UserID)
	assert.Equal(t, "alice", resp.Username)

	login, err := authSvc.Login(dto.LoginRequest{
		EmailOrUsername: "alice@example.com",
		Password:        "Sup3rSecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.Equal(t, resp.UserID, login.UserID)

	// Username works as the login identifier too
	login, err = authSvc.Login(dto.LoginRequest{
		EmailOrUsername: "alice",
		Password:        "Sup3rSecret",
	})
	require.NoError(t, err)

	userID, role, err := authSvc.jwtSvc.VerifyJWTToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, userID)
	assert.Equal(t, "user", role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	authSvc := newTestAuth(t)

	_, err := authSvc.Register(dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)

	_, err = authSvc.Register(dto.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
	})
	require.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	authSvc := newTestAuth(t)

	_, err := authSvc.Register(dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)

	_, err = authSvc.Login(dto.LoginRequest{
		EmailOrUsername: "alice",
		Password:        "wrong-password",
	})
	require.Error(t, err)
}

func TestJWTTamperRejected(t *testing.T) {
	jwtSvc := &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "secret-a"}

	token, _, err := jwtSvc.GenerateToken("user-1", "user")
	require.NoError(t, err)

	other := &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "secret-b"}
	_, _, err = other.VerifyJWTToken(token)
	require.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	jwtSvc := &JWTService{}

	token, err := jwtSvc.ExtractTokenFromHeader("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = jwtSvc.ExtractTokenFromHeader("")
	require.Error(t, err)

	_, err = jwtSvc.ExtractTokenFromHeader("Basic abc123")
	require.Error(t, err)
}

package services

import (
	"testing"
	"time"

	"github.com/rahasiadapur/backend/internal/models"
	"github.com/rahasiadapur/backend/internal/store"
	"github.com/rahasiadapur/backend/internal/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db       *gorm.DB
	users    *store.Users
	sessions *store.Sessions
	codec    *token.Codec
	auth     *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	InitActivityLogger(db)

	users := store.NewUsers(db)
	sessions := store.NewSessions(db)
	codec := token.New("access-test-secret", "refresh-test-secret", 15*time.Minute, 7*24*time.Hour)

	return &testEnv{
		db:       db,
		users:    users,
		sessions: sessions,
		codec:    codec,
		auth:     NewAuthService(users, sessions, codec),
	}
}

// register creates an account and returns the stored user.
func (e *testEnv) register(t *testing.T, name, email, password string) *models.User {
	t.Helper()

	user, err := e.auth.Register(&RegisterRequest{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

func (e *testEnv) login(t *testing.T, email, password, device string) *LoginResult {
	t.Helper()

	result, err := e.auth.Login(&LoginRequest{Email: email, Password: password}, device)
	if err != nil {
		t.Fatalf("login %s on %s: %v", email, device, err)
	}
	return result
}

func (e *testEnv) sessionCount(t *testing.T, userID uint) int {
	t.Helper()

	sessions, err := e.sessions.ListForUser(userID)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	return len(sessions)
}

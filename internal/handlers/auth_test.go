package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rahasiadapur/backend/internal/config"
	"github.com/rahasiadapur/backend/internal/middleware"
	"github.com/rahasiadapur/backend/internal/models"
	"github.com/rahasiadapur/backend/internal/services"
	"github.com/rahasiadapur/backend/internal/store"
	"github.com/rahasiadapur/backend/internal/token"
	"github.com/rahasiadapur/backend/pkg/response"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	router   *gin.Engine
	auth     *services.AuthService
	users    *store.Users
	sessions *store.Sessions
}

func newAuthFixture(t *testing.T) *authFixture {
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

	users := store.NewUsers(db)
	sessions := store.NewSessions(db)
	codec := token.New("access-test-secret", "refresh-test-secret", 15*time.Minute, 7*24*time.Hour)
	authService := services.NewAuthService(users, sessions, codec)

	handler := NewAuthHandler(authService, config.CookieConfig{Secure: false, MaxAgeHour: 24})

	router := gin.New()
	auth := router.Group("/api/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.POST("/admin/login", handler.AdminLogin)
	auth.POST("/refresh-token", handler.RefreshToken)
	auth.POST("/logout", handler.Logout)

	protected := auth.Group("", middleware.AuthRequired(codec))
	protected.POST("/logout-all", handler.LogoutAll)
	protected.GET("/profile", handler.GetProfile)

	return &authFixture{router: router, auth: authService, users: users, sessions: sessions}
}

func (f *authFixture) post(t *testing.T, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, _ := http.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()

	var env response.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	return env
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "refreshToken" {
			return cookie
		}
	}
	t.Fatal("no refreshToken cookie in response")
	return nil
}

func registerAndLogin(t *testing.T, f *authFixture) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()

	w := f.post(t, "/api/auth/register", gin.H{
		"name": "Alice", "email": "a@b.com",
		"password": "secret123", "confirmPassword": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	w = f.post(t, "/api/auth/login", gin.H{"email": "a@b.com", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	return w, refreshCookie(t, w)
}

func TestAuthFlow_LoginSetsRefreshCookie(t *testing.T) {
	f := newAuthFixture(t)
	w, cookie := registerAndLogin(t, f)

	if !cookie.HttpOnly {
		t.Error("refresh cookie must be httpOnly")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Error("refresh cookie must be SameSite=Strict")
	}
	if cookie.Value == "" {
		t.Error("refresh cookie empty")
	}

	env := decodeEnvelope(t, w)
	data, ok := env.Data.(map[string]interface{})
	if !ok || data["accessToken"] == "" {
		t.Errorf("expected access token in body, got %v", env.Data)
	}
	// The refresh token never appears in the login body
	if _, present := data["refreshToken"]; present {
		t.Error("refresh token leaked into login response body")
	}
}

func TestAuthFlow_RefreshRotatesCookie(t *testing.T) {
	f := newAuthFixture(t)
	_, cookie := registerAndLogin(t, f)

	w := f.post(t, "/api/auth/refresh-token", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	rotated := refreshCookie(t, w)
	if rotated.Value == cookie.Value {
		t.Error("cookie was not rotated")
	}

	// The old cookie is now a replayed token: 403 and global logout
	w = f.post(t, "/api/auth/refresh-token", nil, cookie)
	if w.Code != http.StatusForbidden {
		t.Errorf("replayed refresh: expected 403, got %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Message != "Suspicious activity detected. Logged out from all devices." {
		t.Errorf("unexpected message %q", env.Message)
	}

	// Even the rotated cookie is dead after global revocation
	w = f.post(t, "/api/auth/refresh-token", nil, rotated)
	if w.Code != http.StatusForbidden {
		t.Errorf("post-revocation refresh: expected 403, got %d", w.Code)
	}
}

func TestAuthFlow_RefreshFromBody(t *testing.T) {
	f := newAuthFixture(t)
	_, cookie := registerAndLogin(t, f)

	w := f.post(t, "/api/auth/refresh-token", gin.H{"refreshToken": cookie.Value})
	if w.Code != http.StatusOK {
		t.Errorf("body refresh: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestAuthFlow_RefreshWithoutToken(t *testing.T) {
	f := newAuthFixture(t)

	w := f.post(t, "/api/auth/refresh-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthFlow_LogoutAlwaysSucceedsAndClearsCookie(t *testing.T) {
	f := newAuthFixture(t)
	_, cookie := registerAndLogin(t, f)

	w := f.post(t, "/api/auth/logout", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}
	cleared := refreshCookie(t, w)
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Errorf("cookie not cleared: value=%q maxage=%d", cleared.Value, cleared.MaxAge)
	}

	// Logout without any token is still 200
	w = f.post(t, "/api/auth/logout", nil)
	if w.Code != http.StatusOK {
		t.Errorf("tokenless logout: expected 200, got %d", w.Code)
	}
}

// A user logging in through the admin endpoint is rejected AND the refresh
// token issued during credential verification is revoked before the reply.
func TestAuthFlow_RoleGateRevokesSession(t *testing.T) {
	f := newAuthFixture(t)

	w := f.post(t, "/api/auth/register", gin.H{
		"name": "Alice", "email": "a@b.com",
		"password": "secret123", "confirmPassword": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d", w.Code)
	}

	w = f.post(t, "/api/auth/admin/login", gin.H{"email": "a@b.com", "password": "secret123"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("user on admin login: expected 403, got %d", w.Code)
	}

	user, err := f.users.FindByEmail("a@b.com")
	if err != nil || user == nil {
		t.Fatalf("user lookup: %v", err)
	}
	// No session may survive the failed gate
	remaining, err := f.sessions.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected 0 sessions after failed role gate, got %d", len(remaining))
	}

	w = f.post(t, "/api/auth/login", gin.H{"email": "a@b.com", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Errorf("user login after failed admin attempt: expected 200, got %d", w.Code)
	}
}

func TestAuthFlow_ProfileRequiresBearer(t *testing.T) {
	f := newAuthFixture(t)
	w, _ := registerAndLogin(t, f)

	env := decodeEnvelope(t, w)
	access := env.Data.(map[string]interface{})["accessToken"].(string)

	req, _ := http.NewRequest("GET", "/api/auth/profile", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no bearer: expected 401, got %d", rec.Code)
	}

	req, _ = http.NewRequest("GET", "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("with bearer: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	profile := decodeEnvelope(t, rec)
	data := profile.Data.(map[string]interface{})
	if data["email"] != "a@b.com" {
		t.Errorf("unexpected profile %v", profile.Data)
	}
	if _, leaked := data["password"]; leaked {
		t.Error("password leaked in profile response")
	}
}

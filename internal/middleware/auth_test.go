package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rahasiadapur/backend/internal/models"
	"github.com/rahasiadapur/backend/internal/token"
)

func testCodec() *token.Codec {
	return token.New("access-test-secret", "refresh-test-secret", 15*time.Minute, 7*24*time.Hour)
}

func authRouter(codec *token.Codec, roles ...string) *gin.Engine {
	router := gin.New()
	group := router.Group("/", AuthRequired(codec))
	if len(roles) > 0 {
		group.Use(RoleRequired(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		c.JSON(200, gin.H{"id": GetUserID(c), "role": GetRole(c)})
	})
	return router
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	router := authRouter(testCodec())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthRequired_MalformedHeader(t *testing.T) {
	router := authRouter(testCodec())

	for _, header := range []string{"Token abc", "Bearer", "abc"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected %d, got %d", header, http.StatusUnauthorized, w.Code)
		}
	}
}

func TestAuthRequired_ValidToken(t *testing.T) {
	codec := testCodec()
	router := authRouter(codec)

	access, err := codec.IssueAccess(&models.User{ID: 7, Role: models.RoleUser})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected %d, got %d", http.StatusOK, w.Code)
	}
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	expired := token.New("access-test-secret", "refresh-test-secret", -time.Minute, 7*24*time.Hour)
	router := authRouter(testCodec())

	access, err := expired.IssueAccess(&models.User{ID: 7, Role: models.RoleUser})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAuthRequired_WrongSecret(t *testing.T) {
	other := token.New("someone-elses-secret", "refresh-test-secret", 15*time.Minute, 7*24*time.Hour)
	router := authRouter(testCodec())

	access, err := other.IssueAccess(&models.User{ID: 7, Role: models.RoleUser})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRoleRequired(t *testing.T) {
	codec := testCodec()
	router := authRouter(codec, models.RoleAdmin)

	userToken, _ := codec.IssueAccess(&models.User{ID: 1, Role: models.RoleUser})
	adminToken, _ := codec.IssueAccess(&models.User{ID: 2, Role: models.RoleAdmin})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("user on admin route: expected %d, got %d", http.StatusForbidden, w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin on admin route: expected %d, got %d", http.StatusOK, w.Code)
	}
}

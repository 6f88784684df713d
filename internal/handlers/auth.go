package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rahasiadapur/backend/internal/config"
	"github.com/rahasiadapur/backend/internal/middleware"
	"github.com/rahasiadapur/backend/internal/models"
	"github.com/rahasiadapur/backend/internal/services"
	"github.com/rahasiadapur/backend/pkg/response"
)

const refreshCookieName = "refreshToken"

// AuthHandler exposes the authentication endpoints. The refresh token
// travels in an httpOnly SameSite=Strict cookie; the access token in the
// response body only.
type AuthHandler struct {
	auth   *services.AuthService
	cookie config.CookieConfig
}

func NewAuthHandler(auth *services.AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

// userResponse is the public view of a user.
type userResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, token, h.cookie.MaxAgeHour*3600, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", h.cookie.Secure, true)
}

// refreshTokenFrom reads the refresh token from the cookie, falling back to
// the request body for non-browser clients.
func refreshTokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie != "" {
		return cookie
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.auth.Register(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Registration successful", gin.H{
		"name":  user.Name,
		"email": user.Email,
	})
}

// Login handles POST /api/auth/login (regular users only).
func (h *AuthHandler) Login(c *gin.Context) {
	h.login(c, models.RoleUser)
}

// AdminLogin handles POST /api/auth/admin/login (admins only).
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, models.RoleAdmin)
}

// login authenticates and then gates on role. The gate runs after the
// session is created, so a mismatch must revoke the refresh token that was
// just issued before answering 403.
func (h *AuthHandler) login(c *gin.Context, requiredRole string) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	device := c.GetHeader("User-Agent")
	result, err := h.auth.Login(&req, device)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.User.Role != requiredRole {
		_ = h.auth.Logout(result.RefreshToken)
		response.Fail(c, http.StatusForbidden, "Access denied")
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	response.OK(c, "Login successful", gin.H{
		"accessToken": result.AccessToken,
		"user":        toUserResponse(result.User),
	})
}

// RefreshToken handles POST /api/auth/refresh-token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	result, err := h.auth.Refresh(refreshTokenFrom(c))
	if err != nil {
		h.clearRefreshCookie(c)
		response.Error(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	response.OK(c, "Token refreshed", result)
}

// Logout handles POST /api/auth/logout. Always answers 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	_ = h.auth.Logout(refreshTokenFrom(c))
	h.clearRefreshCookie(c)
	response.OK(c, "Logged out", nil)
}

// LogoutAll handles POST /api/auth/logout-all (Bearer required).
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	if err := h.auth.LogoutAll(middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	h.clearRefreshCookie(c)
	response.OK(c, "Logged out from all devices", nil)
}

// GetProfile handles GET /api/auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.auth.GetProfile(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Profile retrieved", toUserResponse(user))
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.auth.UpdateProfile(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Profile updated", toUserResponse(user))
}

// ChangePassword handles PUT /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.auth.ChangePassword(middleware.GetUserID(c), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Password changed", nil)
}

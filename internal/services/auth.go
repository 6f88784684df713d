package services

import (
	"errors"
	"fmt"

	"github.com/rahasiadapur/backend/internal/models"
	"github.com/rahasiadapur/backend/internal/store"
	"github.com/rahasiadapur/backend/internal/token"
	"github.com/rahasiadapur/backend/internal/utils"
	"github.com/rahasiadapur/backend/pkg/response"
)

// DeviceUnknown labels sessions whose client sent no user-agent.
const DeviceUnknown = "unknown"

// AuthService drives the refresh-token lifecycle: registration, login,
// rotation-on-refresh with reuse detection, logout and password management.
// Refresh tokens are dual-gated: they must verify cryptographically AND be
// present verbatim in the session store.
type AuthService struct {
	users    *store.Users
	sessions *store.Sessions
	codec    *token.Codec
}

func NewAuthService(users *store.Users, sessions *store.Sessions, codec *token.Codec) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		codec:    codec,
	}
}

type RegisterRequest struct {
	Name            string `json:"name" binding:"required,min=3"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

type RefreshResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,min=3"`
	Email string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// Register creates a new account. The role is always forced to "user";
// admin accounts are created through user management only.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	exists, err := s.users.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, response.NewBadRequest("Email already registered")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	LogActivity(&user.ID, "REGISTER", models.ActivityTypeUser, &user.ID,
		fmt.Sprintf("User %s registered", user.Name))

	return user, nil
}

// Login verifies credentials and opens a session for the device. Any prior
// session for the same device is evicted atomically, so a (user, device)
// pair holds at most one record. Role gating happens at the handler after
// this returns.
func (s *AuthService) Login(req *LoginRequest, device string) (*LoginResult, error) {
	if device == "" {
		device = DeviceUnknown
	}

	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.NewNotFound("User not found")
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewBadRequest("Invalid password")
	}

	accessToken, err := s.codec.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.IssueRefresh(user)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.ReplaceByDevice(user.ID, device, refreshToken); err != nil {
		return nil, err
	}

	LogActivity(&user.ID, "LOGIN", models.ActivityTypeUser, &user.ID,
		fmt.Sprintf("User %s logged in from %s", user.Name, device))

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a live refresh token for a new access/refresh pair,
// rotating the stored record in place. Presenting a token that verifies but
// is no longer stored proves replay or compromise: every session for that
// user is revoked before the error is returned.
func (s *AuthService) Refresh(oldToken string) (*RefreshResult, error) {
	if oldToken == "" {
		return nil, response.NewUnauthorized("No refresh token")
	}

	claims, err := s.codec.ParseRefresh(oldToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			// Best-effort cleanup: the unverified decode only identifies
			// which user's stale record to drop, it grants nothing.
			if stale := s.codec.DecodeUnverified(oldToken); stale != nil && stale.UserID != 0 {
				_ = s.sessions.RemoveByToken(stale.UserID, oldToken)
			}
			return nil, response.NewUnauthorized("Refresh token expired. Please login again.")
		}
		return nil, response.NewForbidden("Invalid refresh token")
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.NewNotFound("User not found")
	}

	existing, err := s.sessions.FindByToken(user.ID, oldToken)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, s.revokeAllOnReuse(user.ID)
	}

	newAccess, err := s.codec.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.codec.IssueRefresh(user)
	if err != nil {
		return nil, err
	}

	matched, err := s.sessions.ReplaceToken(user.ID, oldToken, newRefresh)
	if err != nil {
		return nil, err
	}
	if !matched {
		// A concurrent refresh rotated this token first; the stale holder
		// is handled exactly like a not-found lookup.
		return nil, s.revokeAllOnReuse(user.ID)
	}

	return &RefreshResult{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
	}, nil
}

func (s *AuthService) revokeAllOnReuse(userID uint) error {
	_ = s.sessions.ClearAll(userID)
	LogActivity(&userID, "TOKEN_REUSE", models.ActivityTypeUser, &userID,
		"Rotated refresh token presented, all sessions revoked")
	return response.NewForbidden("Suspicious activity detected. Logged out from all devices.")
}

// Logout removes the session holding the given refresh token. It never fails
// from the client's point of view: missing, expired or invalid tokens all
// count as already logged out.
func (s *AuthService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.codec.ParseRefresh(refreshToken)
	if err != nil {
		return nil
	}

	_ = s.sessions.RemoveByToken(claims.UserID, refreshToken)
	return nil
}

// LogoutAll unconditionally clears the user's entire session list.
func (s *AuthService) LogoutAll(userID uint) error {
	return s.sessions.ClearAll(userID)
}

// GetProfile loads the user record for the authenticated subject.
func (s *AuthService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.NewNotFound("User not found")
	}
	return user, nil
}

// UpdateProfile changes name and optionally email. Tokens and password are
// untouched.
func (s *AuthService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.NewNotFound("User not found")
	}

	user.Name = req.Name
	if req.Email != "" {
		user.Email = req.Email
	}
	if err := s.users.Save(user); err != nil {
		return nil, err
	}

	LogActivity(&user.ID, "UPDATE_PROFILE", models.ActivityTypeUser, &user.ID,
		fmt.Sprintf("User %s updated profile", user.Name))

	return user, nil
}

// ChangePassword verifies the current password and stores a new hash. The
// new password must differ from the old one, compared through the stored
// hash. Outstanding refresh tokens are NOT revoked here; clients that want
// that call LogoutAll explicitly.
func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return response.NewNotFound("User not found")
	}

	if !utils.CheckPassword(req.CurrentPassword, user.Password) {
		return response.NewBadRequest("Current password is incorrect")
	}

	if utils.CheckPassword(req.NewPassword, user.Password) {
		return response.NewBadRequest("New password cannot be the same as old password")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(userID, hash)
}

// CreateAdminIfNotExists seeds a default admin account on first boot.
func (s *AuthService) CreateAdminIfNotExists(email, password string) error {
	admin, err := s.users.FindByEmail(email)
	if err != nil {
		return err
	}
	if admin != nil {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	return s.users.Create(&models.User{
		Name:     "Administrator",
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	})
}

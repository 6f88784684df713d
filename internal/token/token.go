package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rahasiadapur/backend/internal/config"
	"github.com/rahasiadapur/backend/internal/models"
)

var (
	// ErrExpired reports a structurally valid, correctly signed token past
	// its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid reports a token that fails signature or structural checks.
	ErrInvalid = errors.New("token invalid")
)

// Claims carried by both token kinds. Access tokens carry the role; refresh
// tokens carry only the user id.
type Claims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access and refresh tokens. The two kinds use
// independent secrets and lifetimes: a short access TTL bounds the blast
// radius of a stolen access token without server-side revocation lookups,
// while refresh tokens are additionally gated by the session store.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// New creates a Codec with explicit secrets and lifetimes.
func New(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// NewCodec creates a Codec from configuration.
func NewCodec(cfg *config.JWTConfig) *Codec {
	return New(
		cfg.AccessSecret,
		cfg.RefreshSecret,
		time.Duration(cfg.AccessExpireMinutes)*time.Minute,
		time.Duration(cfg.RefreshExpireDays)*24*time.Hour,
	)
}

// RefreshTTL returns the configured refresh-token lifetime.
func (c *Codec) RefreshTTL() time.Duration {
	return c.refreshTTL
}

// IssueAccess signs a short-lived token carrying {id, role}.
func (c *Codec) IssueAccess(user *models.User) (string, error) {
	return c.sign(c.accessSecret, c.accessTTL, user.ID, user.Role)
}

// IssueRefresh signs a longer-lived token carrying only the user id. The jti
// claim makes every issued token unique even within one second, so the
// session store can match tokens verbatim.
func (c *Codec) IssueRefresh(user *models.User) (string, error) {
	return c.sign(c.refreshSecret, c.refreshTTL, user.ID, "")
}

func (c *Codec) sign(secret []byte, ttl time.Duration, userID uint, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAccess verifies an access token against the access secret.
func (c *Codec) ParseAccess(tokenString string) (*Claims, error) {
	return parse(tokenString, c.accessSecret)
}

// ParseRefresh verifies a refresh token against the refresh secret. It does
// not consult the session store; that gate is layered by the caller.
func (c *Codec) ParseRefresh(tokenString string) (*Claims, error) {
	return parse(tokenString, c.refreshSecret)
}

func parse(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !parsed.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

// DecodeUnverified structurally decodes a token WITHOUT verifying its
// signature. It exists solely to recover the owner of an already-expired
// refresh token for store cleanup and must never feed an authorization
// decision. Returns nil for malformed tokens.
func (c *Codec) DecodeUnverified(tokenString string) *Claims {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}

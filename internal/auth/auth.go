package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller as carried in tokens and request contexts.
type Identity struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

func (i *Identity) HasPermission(permission string) bool {
	for _, p := range i.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// Credential is what the credential store returns for a login attempt.
type Credential struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	RoleID       int64
}

// Claims represents JWT token claims
type Claims struct {
	UserID      int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

func newClaims(identity Identity, ttl time.Duration, now time.Time) *Claims {
	perms := make([]string, len(identity.Permissions))
	copy(perms, identity.Permissions)
	return &Claims{
		UserID:      identity.ID,
		Name:        identity.Name,
		Email:       identity.Email,
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(identity.ID, 10),
		},
	}
}

func (c *Claims) Identity() Identity {
	return Identity{
		ID:          c.UserID,
		Name:        c.Name,
		Email:       c.Email,
		Permissions: c.Permissions,
	}
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(identity Identity) (string, error)
	GenerateRefreshToken(identity Identity) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// CredentialStore is the read side of users, roles and permissions used for authentication.
type CredentialStore interface {
	GetUserByEmail(ctx context.Context, email string) (*Credential, error)
	GetPermissionsByRole(ctx context.Context, roleID int64) ([]string, error)
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

type ctxKey string

const ContextUserKey ctxKey = "user"

func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, ContextUserKey, identity)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	u, ok := ctx.Value(ContextUserKey).(*Identity)
	return u, ok && u != nil
}

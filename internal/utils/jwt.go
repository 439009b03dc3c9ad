package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin marks tokens issued through the fixed-credential admin login.
// Admin tokens carry no user ID; the admin identity is independent of the
// users table.
const RoleAdmin = "admin"

type jwtCustomClaims struct {
	UserID uint   `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenClaims is the decoded identity carried by a session token.
type TokenClaims struct {
	UserID uint
	Role   string
}

// IsAdmin reports whether the token grants admin privileges.
func (c TokenClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// GenerateUserToken creates a signed JWT for the provided user ID.
func GenerateUserToken(secret string, userID uint, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateAdminToken creates a signed JWT carrying the admin role.
func GenerateAdminToken(secret string, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the embedded claims.
func ParseToken(secret, tokenString string) (TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return TokenClaims{}, err
	}

	if claims, ok := token.Claims.(*jwtCustomClaims); ok && token.Valid {
		return TokenClaims{UserID: claims.UserID, Role: claims.Role}, nil
	}

	return TokenClaims{}, jwt.ErrTokenInvalidClaims
}

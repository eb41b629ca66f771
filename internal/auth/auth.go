// Package auth implements the credential check and JWT session tokens
// for the single configured back-office account.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken is returned when a token fails validation.
var ErrInvalidToken = errors.New("invalid token")

// RoleSuperAdmin is the role of the single configured account.
const RoleSuperAdmin = "SUPER_ADMIN"

const tokenTTL = 24 * time.Hour

// Claims defines what is inside the token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service verifies the configured credential pair and issues session
// tokens. The password is held only as a bcrypt hash.
type Service struct {
	jwtKey       []byte
	username     string
	passwordHash []byte
}

// NewService hashes the configured password and returns a ready service.
func NewService(jwtSecret, username, password string) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Service{
		jwtKey:       []byte(jwtSecret),
		username:     username,
		passwordHash: hash,
	}, nil
}

// Verify reports whether the given credentials match the configured pair.
func (s *Service) Verify(username, password string) bool {
	if username != s.username {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
}

// GenerateToken creates a signed JWT for the authenticated account.
func (s *Service) GenerateToken(username string) (string, error) {
	claims := &Claims{
		Username: username,
		Role:     RoleSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

// ValidateToken checks a token's signature and expiry and returns its
// claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

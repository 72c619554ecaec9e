package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the payload carried by every issued bearer token.
type TokenClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies bearer tokens (HS256).
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

func NewTokenManager(config JWTConfig) *TokenManager {
	expiryHours := config.ExpiryHours
	if expiryHours <= 0 {
		expiryHours = 1
	}

	return &TokenManager{
		secret: []byte(config.Secret),
		expiry: time.Duration(expiryHours) * time.Hour,
	}
}

// Generate issues a signed token carrying user id and email
func (tm *TokenManager) Generate(userID uuid.UUID, email string) (string, error) {
	now := time.Now()

	claims := TokenClaims{
		ID:    userID.String(),
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Parse verifies the signature and expiry, returning the claims
func (tm *TokenManager) Parse(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claims")
	ErrNoSecret     = errors.New("session secret is not configured")
)

// VisitorClaims are the JWT claims of an anonymous visitor session
type VisitorClaims struct {
	VisitorID string `json:"visitor_id"`
	Anonymous bool   `json:"anonymous"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates anonymous session tokens
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(secret string, issuer string, ttlHours int) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    time.Duration(ttlHours) * time.Hour,
		now:    time.Now,
	}
}

// Issue creates a token for a fresh visitor id
func (tm *TokenManager) Issue() (string, *VisitorClaims, error) {
	if len(tm.secret) == 0 {
		return "", nil, ErrNoSecret
	}

	now := tm.now()
	visitorID := uuid.NewString()

	claims := &VisitorClaims{
		VisitorID: visitorID,
		Anonymous: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tm.issuer,
			Subject:   visitorID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// Validate parses a token and returns its claims
func (tm *TokenManager) Validate(tokenString string) (*VisitorClaims, error) {
	if len(tm.secret) == 0 {
		return nil, ErrNoSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &VisitorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	}, jwt.WithIssuer(tm.issuer), jwt.WithTimeFunc(tm.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*VisitorClaims)
	if !ok || !token.Valid || claims.VisitorID == "" {
		return nil, ErrInvalidClaim
	}
	return claims, nil
}

// TTL returns the session lifetime
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

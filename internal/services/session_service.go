package services

import (
	"context"
	"errors"

	"github.com/shabadpapers/shabad-api/config"
	"github.com/shabadpapers/shabad-api/internal/models"
	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"github.com/shabadpapers/shabad-api/pkg/session"
	"go.uber.org/zap"
)

// SessionService bootstraps anonymous visitor sessions
type SessionService struct {
	tokens *session.TokenManager
	config config.SessionConfig
}

// NewSessionService creates a new session service instance
func NewSessionService(tokens *session.TokenManager, cfg *config.Config) *SessionService {
	return &SessionService{tokens: tokens, config: cfg.Session}
}

// StartAnonymous issues a session for a new visitor and returns its token
func (s *SessionService) StartAnonymous(_ context.Context) (*models.AnonymousSession, string, error) {
	token, claims, err := s.tokens.Issue()
	if err != nil {
		if errors.Is(err, session.ErrNoSecret) {
			return nil, "", apperrors.ConfigurationError("SESSION_JWT_SECRET")
		}
		logger.Error("Failed to issue anonymous session", zap.Error(err))
		return nil, "", err
	}

	metrics.AnonymousSessions.Inc()
	return toAnonymousSession(claims), token, nil
}

// Validate returns the session carried by token
func (s *SessionService) Validate(token string) (*models.AnonymousSession, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return toAnonymousSession(claims), nil
}

// GetSessionTTL returns the session lifetime in seconds
func (s *SessionService) GetSessionTTL() int {
	return int(s.tokens.TTL().Seconds())
}

func (s *SessionService) GetCookieName() string {
	return s.config.CookieName
}

func (s *SessionService) GetCookieDomain() string {
	return s.config.CookieDomain
}

func (s *SessionService) GetCookieSecure() bool {
	return s.config.CookieSecure
}

func toAnonymousSession(claims *session.VisitorClaims) *models.AnonymousSession {
	out := &models.AnonymousSession{VisitorID: claims.VisitorID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	return out
}

package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/supportdesk/reactivation-service/internal/auth"
	"github.com/supportdesk/reactivation-service/internal/config"
)

// ErrInvalidCredentials is returned for an unknown client or wrong secret.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues bearer tokens to internal callers such as helpdesk
// triggers.
type AuthService struct {
	clientID   string
	secretHash string
	tokenMgr   *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		clientID:   cfg.ClientID,
		secretHash: cfg.ClientSecretHash,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// IssueToken verifies the client credentials and returns a signed token
// carrying every internal scope.
func (s *AuthService) IssueToken(clientID, secret string) (string, time.Time, error) {
	if s.secretHash == "" {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(clientID), []byte(s.clientID)) != 1 {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := auth.CompareSecret(s.secretHash, secret); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.tokenMgr.GenerateToken(clientID, []string{
		auth.ScopeReactivate,
		auth.ScopeIdentityToken,
		auth.ScopeJournalRead,
	})
}

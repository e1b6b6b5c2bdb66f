package service

import (
	"context"
	"time"

	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService for the single program
// administrator, whose credentials come from configuration.
type AuthServiceImpl struct {
	username     string
	passwordHash string
	hashSvc      ports.HashService
	tokenSvc     ports.TokenService
	log          zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	username, passwordHash string,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		username:     username,
		passwordHash: passwordHash,
		hashSvc:      hashSvc,
		tokenSvc:     tokenSvc,
		log:          log,
	}
}

// Login verifies the admin credentials and issues a session token.
func (s *AuthServiceImpl) Login(_ context.Context, username, password string) (string, time.Time, error) {
	if username != s.username || s.passwordHash == "" {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	ok, err := s.hashSvc.Verify(password, s.passwordHash)
	if err != nil {
		s.log.Error().Err(err).Msg("password hash verification failed")
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}
	if !ok {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(err)
	}
	return token, expiry, nil
}

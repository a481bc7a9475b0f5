package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DevService is an in-memory identity provider for local development and
// tests. Accounts live only for the process lifetime.
type DevService struct {
	mu       sync.Mutex
	accounts map[string]string // email -> uid
	logger   zerolog.Logger
}

// NewDevService creates an empty in-memory provider.
func NewDevService(logger zerolog.Logger) *DevService {
	return &DevService{
		accounts: make(map[string]string),
		logger:   logger,
	}
}

// AccountIDByEmail returns the stored uid, or empty when unknown.
func (s *DevService) AccountIDByEmail(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[email], nil
}

// CreateAccount stores a new account keyed by email.
func (s *DevService) CreateAccount(_ context.Context, email, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[email]; ok {
		return "", fmt.Errorf("%w: %s", ErrAccountExists, email)
	}
	uid := uuid.New().String()
	s.accounts[email] = uid
	s.logger.Debug().Str("email", email).Str("uid", uid).Msg("dev identity account created")
	return uid, nil
}

// SendPasswordReset logs the request instead of sending mail.
func (s *DevService) SendPasswordReset(_ context.Context, email, displayName string) error {
	s.logger.Info().Str("email", email).Str("name", displayName).Msg("dev identity password reset requested")
	return nil
}

package identity

import (
	"context"
	"errors"
	"fmt"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog"

	"github.com/mitsdash/campuskeys/internal/pkg/email"
)

// FirebaseService implements Service against the Firebase Auth admin API.
// Reset links are generated by Firebase but delivered through the injected
// mail sender, since the admin SDK does not send mail itself.
type FirebaseService struct {
	client *firebaseauth.Client
	mailer email.Sender
	logger zerolog.Logger
}

// NewFirebaseService wraps an initialized Firebase Auth client.
func NewFirebaseService(client *firebaseauth.Client, mailer email.Sender, logger zerolog.Logger) *FirebaseService {
	return &FirebaseService{client: client, mailer: mailer, logger: logger}
}

// AccountIDByEmail looks up an account by email. A missing user is not an
// error; it reports as an empty id.
func (s *FirebaseService) AccountIDByEmail(ctx context.Context, email string) (string, error) {
	user, err := s.client.GetUserByEmail(ctx, email)
	if err != nil {
		if firebaseauth.IsUserNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up account for %s: %w", email, err)
	}
	return user.UID, nil
}

// CreateAccount registers the email/password pair and returns the new UID.
func (s *FirebaseService) CreateAccount(ctx context.Context, emailAddr, password string) (string, error) {
	params := (&firebaseauth.UserToCreate{}).
		Email(emailAddr).
		Password(password).
		EmailVerified(false).
		Disabled(false)

	user, err := s.client.CreateUser(ctx, params)
	if err != nil {
		if firebaseauth.IsEmailAlreadyExists(err) {
			return "", fmt.Errorf("%w: %s", ErrAccountExists, emailAddr)
		}
		return "", fmt.Errorf("failed to create account for %s: %w", emailAddr, err)
	}
	return user.UID, nil
}

// SendPasswordReset generates a reset link and mails it to the student.
func (s *FirebaseService) SendPasswordReset(ctx context.Context, emailAddr, displayName string) error {
	link, err := s.client.PasswordResetLink(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("failed to generate password reset link for %s: %w", emailAddr, err)
	}
	if err := s.mailer.SendPasswordReset(emailAddr, displayName, link); err != nil {
		return fmt.Errorf("failed to deliver password reset mail to %s: %w", emailAddr, err)
	}
	s.logger.Debug().Str("email", emailAddr).Msg("password reset mail sent")
	return nil
}

// IsAccountExists reports whether err is the already-exists outcome.
func IsAccountExists(err error) bool {
	return errors.Is(err, ErrAccountExists)
}

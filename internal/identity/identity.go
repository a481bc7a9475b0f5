// Package identity abstracts the external identity provider that owns
// student login accounts.
package identity

import (
	"context"
	"errors"
)

// ErrAccountExists is returned by CreateAccount when the email is already
// registered. Provisioning treats it as success-by-idempotence.
var ErrAccountExists = errors.New("identity account already exists")

// Service is the external identity-provider contract the provisioning core
// depends on. Implementations must be safe for sequential reuse; the core
// never issues concurrent calls for the same student.
type Service interface {
	// AccountIDByEmail returns the provider's account id for an email, or
	// ("", nil) when no account exists.
	AccountIDByEmail(ctx context.Context, email string) (string, error)

	// CreateAccount registers an account and returns its id. Returns
	// ErrAccountExists (possibly wrapped) when the email is taken.
	CreateAccount(ctx context.Context, email, password string) (string, error)

	// SendPasswordReset triggers a password-reset flow for the account.
	SendPasswordReset(ctx context.Context, email, displayName string) error
}

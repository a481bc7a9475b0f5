package email

import "github.com/rs/zerolog"

// ConsoleSender logs mail instead of delivering it. Used in development and
// whenever no SendGrid key is configured, so reset links remain visible to
// the operator.
type ConsoleSender struct {
	logger zerolog.Logger
}

// NewConsoleSender creates a log-only sender.
func NewConsoleSender(logger zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

// SendPasswordReset logs the reset link.
func (s *ConsoleSender) SendPasswordReset(toEmail, toName, resetLink string) error {
	s.logger.Info().
		Str("toEmail", toEmail).
		Str("toName", toName).
		Str("resetLink", resetLink).
		Msg("password reset email (console sender, not delivered)")
	return nil
}

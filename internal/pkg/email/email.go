package email

// Sender delivers operational mail to students. The provisioning core only
// sends password-reset messages; delivery failures are reported to the
// caller, which records them per student.
type Sender interface {
	SendPasswordReset(toEmail, toName, resetLink string) error
}

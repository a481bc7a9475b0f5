package email

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridSender delivers mail through the SendGrid v3 API.
type SendgridSender struct {
	key  string
	from *sgmail.Email
}

// NewSendgridSender creates a sender using the given API key and from
// address.
func NewSendgridSender(key, fromName, fromEmail string) *SendgridSender {
	return &SendgridSender{
		key:  key,
		from: sgmail.NewEmail(fromName, fromEmail),
	}
}

// SendPasswordReset mails the reset link to the student.
func (s *SendgridSender) SendPasswordReset(toEmail, toName, resetLink string) error {
	p := sgmail.NewPersonalization()
	p.Subject = "Password reset for your student account"
	p.AddTos(sgmail.NewEmail(toName, toEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain",
			fmt.Sprintf("A password reset was requested for your student account.\n\nReset your password here: %s\n\nIf you did not request this, contact the administration office.", resetLink)),
	)

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	resp, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
	}
	return nil
}

// Package pattern generates usernames, passwords and emails for student
// records from configurable strategies. Generation is pure: no I/O, no
// stores, and byte-identical output for identical inputs, which is what
// makes re-provisioning idempotent and fixtures predictable.
package pattern

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/mitsdash/campuskeys/internal/app/models"
)

// Engine evaluates credential strategies. The zero value is not usable;
// construct with NewEngine.
type Engine struct {
	rng *rand.Rand
}

// NewEngine creates an engine whose RANDOM password strategy draws from the
// process-wide entropy. All other strategies are deterministic.
func NewEngine() *Engine {
	return NewEngineWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewEngineWithSource creates an engine with a caller-controlled random
// source so tests can pin the RANDOM strategy too.
func NewEngineWithSource(src rand.Source) *Engine {
	return &Engine{rng: rand.New(src)}
}

var (
	// ErrUnknownStrategy is returned for strategy ids outside the supported set.
	ErrUnknownStrategy = errors.New("unknown credential strategy")
	// ErrUnknownPlaceholder is returned when a custom template references a
	// placeholder that is not substituted; the student's generation step fails
	// fast rather than silently producing a malformed credential.
	ErrUnknownPlaceholder = errors.New("unknown template placeholder")
)

var (
	alphanumericOnly    = regexp.MustCompile(`[^a-z0-9]`)
	leftoverPlaceholder = regexp.MustCompile(`\{[A-Z]+\}`)
)

const (
	randomAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	randomSpecials      = "!@#$%^&*()_+-=[]{}|;:,.<>?"
	defaultRandomLength = 8
)

// Username derives a username for the student under the configured strategy.
func (e *Engine) Username(student *models.StudentRecord, cfg models.CredentialPattern) (string, error) {
	rollNo := student.RollNumber
	email := student.Email
	first := strings.ToLower(firstName(student))
	last := strings.ToLower(lastName(student))

	switch cfg.UsernameStrategy {
	case models.UsernameRollNumber, "":
		return lowerAlphanumeric(rollNo), nil
	case models.UsernameEmail:
		return localPart(email), nil
	case models.UsernameNameRoll:
		return lowerAlphanumeric(first + rollNo), nil
	case models.UsernameCustom:
		substituted, err := substitute(cfg.CustomUsername, map[string]string{
			"{ROLLNO}":    rollNo,
			"{EMAIL}":     localPart(email),
			"{FIRSTNAME}": first,
			"{LASTNAME}":  last,
		})
		if err != nil {
			return "", err
		}
		return lowerAlphanumeric(substituted), nil
	default:
		return "", fmt.Errorf("%w: username strategy %q", ErrUnknownStrategy, cfg.UsernameStrategy)
	}
}

// Password derives a password for the student under the configured strategy.
func (e *Engine) Password(student *models.StudentRecord, cfg models.CredentialPattern) (string, error) {
	rollNo := student.RollNumber
	dob := strings.ReplaceAll(student.DateOfBirth, "-", "")
	year := admissionYear(student)
	first := firstName(student)

	switch cfg.PasswordStrategy {
	case models.PasswordRollNumber, "":
		return rollNo, nil
	case models.PasswordRollDOB:
		return rollNo + lastN(dob, 4), nil
	case models.PasswordRollYear:
		return rollNo + year, nil
	case models.PasswordNameDOB:
		return strings.ToLower(firstN(first, 3)) + lastN(dob, 4), nil
	case models.PasswordCustom:
		return substitute(cfg.CustomPassword, map[string]string{
			"{ROLLNO}":    rollNo,
			"{DOB}":       dob,
			"{YEAR}":      year,
			"{FIRSTNAME}": first,
		})
	case models.PasswordRandom:
		return e.randomPassword(cfg), nil
	default:
		return "", fmt.Errorf("%w: password strategy %q", ErrUnknownStrategy, cfg.PasswordStrategy)
	}
}

// Email composes {localPart}{domain}. The local part prefers the roll number
// and falls back to the generated username when the roll number is absent;
// it is always lower-cased and alphanumeric-filtered before the domain is
// appended.
func (e *Engine) Email(student *models.StudentRecord, cfg models.CredentialPattern) (string, error) {
	base := student.RollNumber
	if base == "" {
		username, err := e.Username(student, cfg)
		if err != nil {
			return "", err
		}
		base = username
	}
	return lowerAlphanumeric(base) + cfg.EmailDomain, nil
}

// Generate runs all three derivations for one student.
func (e *Engine) Generate(student *models.StudentRecord, cfg models.CredentialPattern) (models.GeneratedCredentials, error) {
	username, err := e.Username(student, cfg)
	if err != nil {
		return models.GeneratedCredentials{}, err
	}
	password, err := e.Password(student, cfg)
	if err != nil {
		return models.GeneratedCredentials{}, err
	}
	email, err := e.Email(student, cfg)
	if err != nil {
		return models.GeneratedCredentials{}, err
	}
	return models.GeneratedCredentials{Username: username, Password: password, Email: email}, nil
}

func (e *Engine) randomPassword(cfg models.CredentialPattern) string {
	length := cfg.PasswordLength
	if length <= 0 {
		length = defaultRandomLength
	}
	alphabet := randomAlphabet
	if cfg.IncludeSpecialChars {
		alphabet += randomSpecials
	}
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(alphabet[e.rng.Intn(len(alphabet))])
	}
	return b.String()
}

// substitute replaces the known placeholders and rejects any that remain.
func substitute(template string, replacements map[string]string) (string, error) {
	out := template
	for placeholder, value := range replacements {
		out = strings.ReplaceAll(out, placeholder, value)
	}
	if leftover := leftoverPlaceholder.FindString(out); leftover != "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlaceholder, leftover)
	}
	return out, nil
}

func lowerAlphanumeric(s string) string {
	return alphanumericOnly.ReplaceAllString(strings.ToLower(s), "")
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}

func firstName(student *models.StudentRecord) string {
	if student.FirstName != "" {
		return student.FirstName
	}
	fields := strings.Fields(student.Name)
	if len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func lastName(student *models.StudentRecord) string {
	if student.LastName != "" {
		return student.LastName
	}
	fields := strings.Fields(student.Name)
	if len(fields) > 1 {
		return fields[1]
	}
	return ""
}

// admissionYear returns the four-digit year from the admission date, or ""
// when the record carries none. No clock fallback; the same record must
// yield the same credential in any year.
func admissionYear(student *models.StudentRecord) string {
	if len(student.AdmissionDate) >= 4 {
		return student.AdmissionDate[:4]
	}
	return ""
}

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func lastN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[len(s)-n:]
}

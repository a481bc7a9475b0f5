package models

// UsernameStrategy selects how usernames are derived.
type UsernameStrategy string

const (
	UsernameRollNumber UsernameStrategy = "ROLLNO"
	UsernameEmail      UsernameStrategy = "EMAIL"
	UsernameNameRoll   UsernameStrategy = "NAME-ROLLNO"
	UsernameCustom     UsernameStrategy = "CUSTOM"
)

// PasswordStrategy selects how passwords are derived.
type PasswordStrategy string

const (
	PasswordRollNumber PasswordStrategy = "DEFAULT_ROLLNO"
	PasswordRollDOB    PasswordStrategy = "ROLLNO-DOB"
	PasswordRollYear   PasswordStrategy = "ROLLNO-YEAR"
	PasswordNameDOB    PasswordStrategy = "NAME-DOB"
	PasswordCustom     PasswordStrategy = "CUSTOM"
	PasswordRandom     PasswordStrategy = "RANDOM"
)

// CredentialPattern configures one provisioning run. It is not persisted as
// an entity; the chosen strategy ids are stored alongside the generated
// credentials for audit.
type CredentialPattern struct {
	UsernameStrategy UsernameStrategy `json:"usernameStrategy"`
	PasswordStrategy PasswordStrategy `json:"passwordStrategy"`
	EmailDomain      string           `json:"emailDomain"` // includes the "@", e.g. "@mits.ac.in"

	// Custom templates, used when the matching strategy is CUSTOM.
	// Username placeholders: {ROLLNO} {EMAIL} {FIRSTNAME} {LASTNAME}
	// Password placeholders: {ROLLNO} {DOB} {YEAR} {FIRSTNAME}
	CustomUsername string `json:"customUsername,omitempty"`
	CustomPassword string `json:"customPassword,omitempty"`

	// Random password options.
	PasswordLength      int  `json:"passwordLength,omitempty"`
	IncludeSpecialChars bool `json:"includeSpecialChars,omitempty"`
}

// DefaultCredentialPattern mirrors the defaults the dashboard preselects.
func DefaultCredentialPattern() CredentialPattern {
	return CredentialPattern{
		UsernameStrategy: UsernameRollNumber,
		PasswordStrategy: PasswordRollNumber,
		EmailDomain:      "@mits.ac.in",
		CustomUsername:   "{ROLLNO}",
		PasswordLength:   8,
	}
}

package models

import "time"

// StudentRecord represents one student document in the hierarchical store.
// Records arrive from several historical ingestion paths, so identity and
// group fields may be inconsistently populated; the directory resolver is
// responsible for deriving the missing pieces.
type StudentRecord struct {
	// Identity
	RollNumber  string `json:"rollNumber" firestore:"rollNo"`
	CompositeID string `json:"compositeId,omitempty" firestore:"studentId,omitempty"` // e.g. CSE_DS_III_A_0012
	StoragePath string `json:"storagePath,omitempty" firestore:"-"`                   // document path the record was read from

	// Profile
	FirstName     string `json:"firstName,omitempty" firestore:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty" firestore:"lastName,omitempty"`
	Name          string `json:"name,omitempty" firestore:"name,omitempty"`
	Email         string `json:"email,omitempty" firestore:"email,omitempty"`
	DateOfBirth   string `json:"dateOfBirth,omitempty" firestore:"dateOfBirth,omitempty"`     // YYYY-MM-DD
	AdmissionDate string `json:"admissionDate,omitempty" firestore:"admissionDate,omitempty"` // YYYY-MM-DD
	Department    string `json:"department,omitempty" firestore:"department,omitempty"`       // full name
	Year          string `json:"year,omitempty" firestore:"year,omitempty"`                   // roman numeral token
	Section       string `json:"section,omitempty" firestore:"section,omitempty"`             // single letter

	// Credential state
	HasCredentials bool   `json:"hasCredentials" firestore:"hasLoginCredentials"`
	Username       string `json:"username,omitempty" firestore:"username,omitempty"`
	GeneratedEmail string `json:"generatedEmail,omitempty" firestore:"authEmail,omitempty"`
	AccountID      string `json:"accountId,omitempty" firestore:"authUid,omitempty"` // set only after identity account creation
	IsActive       bool   `json:"isActive" firestore:"isActive"`

	// IsAlias marks pointer documents written under an account-id key next to
	// the primary record. Aliases are never returned by directory listings.
	IsAlias bool `json:"isAlias,omitempty" firestore:"isAlias,omitempty"`

	CredentialsGeneratedAt time.Time `json:"credentialsGeneratedAt,omitempty" firestore:"credentialsGeneratedAt,omitempty"`
	PasswordResetAt        time.Time `json:"passwordResetAt,omitempty" firestore:"passwordResetAt,omitempty"`
	ActivatedAt            time.Time `json:"activatedAt,omitempty" firestore:"activatedAt,omitempty"`
	DeactivatedAt          time.Time `json:"deactivatedAt,omitempty" firestore:"deactivatedAt,omitempty"`
	DeletedAt              time.Time `json:"deletedAt,omitempty" firestore:"deletedAt,omitempty"`
}

// DocumentID returns the identifier used as the record's document id,
// preferring the roll number.
func (s *StudentRecord) DocumentID() string {
	if s.RollNumber != "" {
		return s.RollNumber
	}
	return s.CompositeID
}

// DisplayName returns a printable name for notifications and summaries.
func (s *StudentRecord) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.FirstName != "" || s.LastName != "" {
		if s.LastName == "" {
			return s.FirstName
		}
		return s.FirstName + " " + s.LastName
	}
	return s.RollNumber
}

// PartiallyProvisioned reports whether a record has credentials but no linked
// identity account. The directory surface treats these specially.
func (s *StudentRecord) PartiallyProvisioned() bool {
	return s.HasCredentials && s.AccountID == ""
}

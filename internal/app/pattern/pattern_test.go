package pattern

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitsdash/campuskeys/internal/app/models"
)

func sampleStudent() *models.StudentRecord {
	return &models.StudentRecord{
		RollNumber:    "21CSE045",
		Name:          "Asha Verma",
		Email:         "asha.verma@example.com",
		DateOfBirth:   "2003-07-14",
		AdmissionDate: "2021-08-02",
	}
}

func TestGenerateDefaults(t *testing.T) {
	e := NewEngine()

	creds, err := e.Generate(sampleStudent(), models.DefaultCredentialPattern())

	require.NoError(t, err)
	assert.Equal(t, "21cse045", creds.Username)
	assert.Equal(t, "21CSE045", creds.Password)
	assert.Equal(t, "21cse045@mits.ac.in", creds.Email)
}

func TestGenerateIsDeterministic(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultCredentialPattern()
	cfg.PasswordStrategy = models.PasswordRollDOB

	first, err := e.Generate(sampleStudent(), cfg)
	require.NoError(t, err)
	second, err := e.Generate(sampleStudent(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestUsernameStrategies(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		name string
		cfg  models.CredentialPattern
		want string
	}{
		{"roll number", models.CredentialPattern{UsernameStrategy: models.UsernameRollNumber}, "21cse045"},
		{"empty strategy falls back to roll number", models.CredentialPattern{}, "21cse045"},
		{"email local part", models.CredentialPattern{UsernameStrategy: models.UsernameEmail}, "asha.verma"},
		{"name plus roll", models.CredentialPattern{UsernameStrategy: models.UsernameNameRoll}, "asha21cse045"},
		{
			"custom template",
			models.CredentialPattern{UsernameStrategy: models.UsernameCustom, CustomUsername: "{FIRSTNAME}.{LASTNAME}"},
			"ashaverma",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Username(sampleStudent(), tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordStrategies(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		name string
		cfg  models.CredentialPattern
		want string
	}{
		{"roll number", models.CredentialPattern{PasswordStrategy: models.PasswordRollNumber}, "21CSE045"},
		{"roll plus dob tail", models.CredentialPattern{PasswordStrategy: models.PasswordRollDOB}, "21CSE0450714"},
		{"roll plus admission year", models.CredentialPattern{PasswordStrategy: models.PasswordRollYear}, "21CSE0452021"},
		{"name plus dob tail", models.CredentialPattern{PasswordStrategy: models.PasswordNameDOB}, "ash0714"},
		{
			"custom template",
			models.CredentialPattern{PasswordStrategy: models.PasswordCustom, CustomPassword: "{ROLLNO}#{YEAR}"},
			"21CSE045#2021",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Password(sampleStudent(), tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordWithoutAdmissionDateStaysDeterministic(t *testing.T) {
	e := NewEngine()
	student := sampleStudent()
	student.AdmissionDate = ""

	// A record with no admission date yields an empty year component rather
	// than picking up the current year, so the password never drifts across
	// a year boundary.
	got, err := e.Password(student, models.CredentialPattern{PasswordStrategy: models.PasswordRollYear})
	require.NoError(t, err)
	assert.Equal(t, "21CSE045", got)

	got, err = e.Password(student, models.CredentialPattern{PasswordStrategy: models.PasswordCustom, CustomPassword: "{ROLLNO}#{YEAR}"})
	require.NoError(t, err)
	assert.Equal(t, "21CSE045#", got)
}

func TestCustomTemplateRejectsUnknownPlaceholder(t *testing.T) {
	e := NewEngine()
	cfg := models.CredentialPattern{
		UsernameStrategy: models.UsernameCustom,
		CustomUsername:   "{ROLLNO}-{BRANCH}",
	}

	_, err := e.Username(sampleStudent(), cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPlaceholder)
	assert.Contains(t, err.Error(), "{BRANCH}")
}

func TestUnknownStrategies(t *testing.T) {
	e := NewEngine()

	_, err := e.Username(sampleStudent(), models.CredentialPattern{UsernameStrategy: "MAGIC"})
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = e.Password(sampleStudent(), models.CredentialPattern{PasswordStrategy: "MAGIC"})
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestRandomPassword(t *testing.T) {
	e := NewEngineWithSource(rand.NewSource(42))
	cfg := models.CredentialPattern{
		PasswordStrategy: models.PasswordRandom,
		PasswordLength:   12,
	}

	got, err := e.Password(sampleStudent(), cfg)

	require.NoError(t, err)
	assert.Len(t, got, 12)
	for _, c := range got {
		assert.Contains(t, randomAlphabet, string(c))
	}
}

func TestRandomPasswordPinnedSourceIsReproducible(t *testing.T) {
	cfg := models.CredentialPattern{PasswordStrategy: models.PasswordRandom}

	first, err := NewEngineWithSource(rand.NewSource(7)).Password(sampleStudent(), cfg)
	require.NoError(t, err)
	second, err := NewEngineWithSource(rand.NewSource(7)).Password(sampleStudent(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 8)
}

func TestEmailFallsBackToUsername(t *testing.T) {
	e := NewEngine()
	student := &models.StudentRecord{Name: "Rahul Nair", Email: "rahul.n@example.com"}
	cfg := models.CredentialPattern{
		UsernameStrategy: models.UsernameEmail,
		EmailDomain:      "@mits.ac.in",
	}

	email, err := e.Email(student, cfg)

	require.NoError(t, err)
	assert.Equal(t, "rahuln@mits.ac.in", email)
}

func TestSubstituteLeavesNoPlaceholders(t *testing.T) {
	out, err := substitute("{ROLLNO}-x", map[string]string{"{ROLLNO}": "21CSE045"})

	require.NoError(t, err)
	assert.False(t, strings.Contains(out, "{"))
}

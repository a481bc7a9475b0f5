package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("OPERATOR_PASSWORD_HASH", "$2a$12$notarealhashbutnonempty")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, IdentityModeDev, cfg.Firebase.IdentityMode)
	assert.Equal(t, EmailModeConsole, cfg.Email.Mode)
	assert.Equal(t, "@mits.ac.in", cfg.Provisioning.EmailDomain)
	assert.Equal(t, 8*time.Hour, cfg.AccessTokenTTL())
	assert.Equal(t, 35*time.Millisecond, cfg.IdentityPacing())
	assert.Equal(t, 10*time.Second, cfg.IdentityTimeout())
	assert.Equal(t, 100*time.Millisecond, cfg.LifecyclePacing())
}

func TestLoadConfigFromFile(t *testing.T) {
	setRequiredEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
provisioning:
  email_domain: "@example.edu"
  identity_pacing: "50ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "@example.edu", cfg.Provisioning.EmailDomain)
	assert.Equal(t, 50*time.Millisecond, cfg.IdentityPacing())
	// Untouched values keep their defaults.
	assert.Equal(t, "development", cfg.Server.Mode)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "7070")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600))

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OPERATOR_PASSWORD_HASH", "$2a$12$notarealhashbutnonempty")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")
}

func TestLoadConfigRejectsUnknownIdentityMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FIREBASE_IDENTITY_MODE", "ldap")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity mode")
}

func TestLoadConfigFirebaseModeNeedsProject(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FIREBASE_IDENTITY_MODE", IdentityModeFirebase)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "project id")
}

func TestLoadConfigRejectsBadPacing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PROVISIONING_IDENTITY_PACING", "fast")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity pacing")
}

func TestLoadConfigRejectsBadIdentityTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PROVISIONING_IDENTITY_TIMEOUT", "forever")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity timeout")
}

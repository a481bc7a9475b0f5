package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Identity provider modes.
const (
	IdentityModeFirebase = "firebase"
	IdentityModeDev      = "dev"
)

// Email sender modes.
const (
	EmailModeSendgrid = "sendgrid"
	EmailModeConsole  = "console"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Firebase struct {
		ProjectID       string `yaml:"project_id" env:"FIREBASE_PROJECT_ID"`
		CredentialsFile string `yaml:"credentials_file" env:"FIREBASE_CREDENTIALS_FILE"`
		// IdentityMode selects the real provider or the in-memory dev one.
		IdentityMode string `yaml:"identity_mode" env:"FIREBASE_IDENTITY_MODE"`
	} `yaml:"firebase"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Operator struct {
		Username     string `yaml:"username" env:"OPERATOR_USERNAME"`
		PasswordHash string `yaml:"password_hash" env:"OPERATOR_PASSWORD_HASH"`
	} `yaml:"operator"`

	Provisioning struct {
		EmailDomain     string `yaml:"email_domain" env:"PROVISIONING_EMAIL_DOMAIN"`
		IdentityPacing  string `yaml:"identity_pacing" env:"PROVISIONING_IDENTITY_PACING"`
		IdentityTimeout string `yaml:"identity_timeout" env:"PROVISIONING_IDENTITY_TIMEOUT"`
		LifecyclePacing string `yaml:"lifecycle_pacing" env:"PROVISIONING_LIFECYCLE_PACING"`
	} `yaml:"provisioning"`

	Email struct {
		Mode        string `yaml:"mode" env:"EMAIL_MODE"`
		SendgridKey string `yaml:"sendgrid_key" env:"SENDGRID_API_KEY"`
		FromEmail   string `yaml:"from_email" env:"EMAIL_FROM_ADDRESS"`
		FromName    string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	} `yaml:"email"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Firebase.IdentityMode = IdentityModeDev

	config.JWT.AccessTokenExpiration = "8h"
	config.JWT.Issuer = "campuskeys"

	config.Operator.Username = "admin"

	config.Provisioning.EmailDomain = "@mits.ac.in"
	// The provider throttles rapid account creation; these gaps keep bulk
	// runs under its limits.
	config.Provisioning.IdentityPacing = "35ms"
	// Bounds every single identity-provider call so one hung call fails that
	// student instead of stalling the whole batch.
	config.Provisioning.IdentityTimeout = "10s"
	config.Provisioning.LifecyclePacing = "100ms"

	config.Email.Mode = EmailModeConsole
	config.Email.FromName = "Credential Desk"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if config.Operator.PasswordHash == "" {
		return fmt.Errorf("operator password hash is required")
	}
	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}
	if _, err := time.ParseDuration(config.Provisioning.IdentityPacing); err != nil {
		return fmt.Errorf("invalid identity pacing format: %w", err)
	}
	if _, err := time.ParseDuration(config.Provisioning.IdentityTimeout); err != nil {
		return fmt.Errorf("invalid identity timeout format: %w", err)
	}
	if _, err := time.ParseDuration(config.Provisioning.LifecyclePacing); err != nil {
		return fmt.Errorf("invalid lifecycle pacing format: %w", err)
	}

	switch config.Firebase.IdentityMode {
	case IdentityModeFirebase:
		if config.Firebase.ProjectID == "" {
			return fmt.Errorf("firebase project id is required in firebase mode")
		}
	case IdentityModeDev:
	default:
		return fmt.Errorf("unknown identity mode %q", config.Firebase.IdentityMode)
	}

	switch config.Email.Mode {
	case EmailModeSendgrid:
		if config.Email.SendgridKey == "" {
			return fmt.Errorf("sendgrid api key is required in sendgrid mode")
		}
		if config.Email.FromEmail == "" {
			return fmt.Errorf("email from address is required in sendgrid mode")
		}
	case EmailModeConsole:
	default:
		return fmt.Errorf("unknown email mode %q", config.Email.Mode)
	}

	return nil
}

// AccessTokenTTL returns the parsed access token lifetime. Call only after
// LoadConfig has validated the format.
func (c *Config) AccessTokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTokenExpiration)
	return d
}

// IdentityPacing returns the parsed gap between identity-provider calls.
func (c *Config) IdentityPacing() time.Duration {
	d, _ := time.ParseDuration(c.Provisioning.IdentityPacing)
	return d
}

// IdentityTimeout returns the parsed per-call bound on identity-provider
// requests.
func (c *Config) IdentityTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Provisioning.IdentityTimeout)
	return d
}

// LifecyclePacing returns the parsed gap between bulk lifecycle items.
func (c *Config) LifecyclePacing() time.Duration {
	d, _ := time.ParseDuration(c.Provisioning.LifecyclePacing)
	return d
}

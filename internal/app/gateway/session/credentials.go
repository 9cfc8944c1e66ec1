package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/magiconair/properties"
)

// Config holds what a client needs to log in and how hard it tries to keep
// a session alive.
type Config struct {
	User            string
	Password        string
	CredentialsFile string
	MaxLoginRetries int
}

const DefaultMaxLoginRetries = 3

func (c Config) maxAttempts() int {
	if c.MaxLoginRetries <= 0 {
		return DefaultMaxLoginRetries
	}
	return c.MaxLoginRetries
}

var errNoCredentials = errors.New("no remote credentials configured")

// LoadCredentials returns the user and password to log in with. A
// credentials file (java properties format, keys user and password) wins
// over the static values when it exists; missing keys fall back to them.
// The file is read on every call so rotated credentials are picked up by the
// next login.
func LoadCredentials(cfg Config) (string, string, error) {
	user, password := cfg.User, cfg.Password
	if cfg.CredentialsFile != "" {
		if _, err := os.Stat(cfg.CredentialsFile); err == nil {
			props, err := properties.LoadFile(cfg.CredentialsFile, properties.UTF8)
			if err != nil {
				return "", "", fmt.Errorf("failed to read credentials file: %w", err)
			}
			user = props.GetString("user", user)
			password = props.GetString("password", password)
		}
	}
	if user == "" {
		return "", "", errNoCredentials
	}
	return user, password, nil
}

package validation

import (
	"errors"
	"strings"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// ValidatePassword checks length bounds.
// bcrypt silently truncates input past 72 bytes, so longer passwords are rejected.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return errors.New("password is required")
	}

	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 6 characters")
	}

	if len(password) > MaxPasswordLength {
		return errors.New("password must not exceed 72 characters")
	}

	return nil
}

package validation

import (
	"errors"
	"strings"
)

// ValidateName validates an optional profile name. Empty is allowed.
func ValidateName(name string) error {
	if len(strings.TrimSpace(name)) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateChurch validates the free-text church field of the settings screen.
func ValidateChurch(church string) error {
	if len(strings.TrimSpace(church)) > 200 {
		return errors.New("church is too long (max 200 characters)")
	}

	return nil
}

package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when no source yields a usable secret.
var ErrNotConfigured = errors.New("secret is not configured")

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret value provided via configuration or flags.
	Value string
	// Env names an environment variable holding the secret. It takes
	// precedence over Value.
	Env string
	// File points to a file containing the secret value. When set it takes
	// precedence over Env and Value.
	File string
	// Placeholders are template values (like "your_api_key_here") that are
	// treated as unset.
	Placeholders []string
}

// Load returns the resolved secret value from the provided source, trimmed.
// Precedence is File, then Env, then Value. ErrNotConfigured is returned when
// none of them contains a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}

		secret := strings.TrimSpace(string(data))
		if secret == "" || src.isPlaceholder(secret) {
			return "", fmt.Errorf("%s file %q is empty: %w", name, file, ErrNotConfigured)
		}
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" && !src.isPlaceholder(secret) {
			return secret, nil
		}
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" || src.isPlaceholder(secret) {
		return "", fmt.Errorf("%s: %w", name, ErrNotConfigured)
	}

	return secret, nil
}

func (src Source) isPlaceholder(secret string) bool {
	for _, p := range src.Placeholders {
		if strings.EqualFold(secret, strings.TrimSpace(p)) {
			return true
		}
	}
	return false
}

// Package config resolves the service configuration from the environment.
// Everything is validated eagerly at startup so a misconfigured deployment
// fails with the name of the missing piece instead of a 500 at first use.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/petit-sport/booking-backend/internal/apartment"
)

// Credentials holds the Google service-account identity used for both
// the Calendar and Sheets APIs.
type Credentials struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// Config is the validated runtime configuration.
type Config struct {
	Credentials Credentials
	SheetID     string
}

// MissingError reports configuration the environment does not supply.
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return "missing configuration: set " + strings.Join(e.Vars, ", ")
}

// Load reads and validates the full configuration. Every apartment in the
// catalog must have its calendar ID set.
func Load() (Config, error) {
	creds, err := LoadCredentials()
	if err != nil {
		return Config{}, err
	}

	sheetID := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_ID"))
	if sheetID == "" {
		return Config{}, &MissingError{Vars: []string{"GOOGLE_SHEET_ID"}}
	}

	var missing []string
	for _, a := range apartment.Catalog {
		if a.CalendarID() == "" {
			missing = append(missing, a.CalendarEnvVar)
		}
	}
	if len(missing) > 0 {
		return Config{}, &MissingError{Vars: missing}
	}

	return Config{Credentials: creds, SheetID: sheetID}, nil
}

// LoadCredentials resolves the service-account credentials from one of two
// shapes: GOOGLE_SERVICE_KEY carrying the whole service-account JSON as a
// string, or the discrete GOOGLE_CLIENT_EMAIL / GOOGLE_PRIVATE_KEY pair.
// The JSON form wins when both are present.
func LoadCredentials() (Credentials, error) {
	if raw := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_KEY")); raw != "" {
		var creds Credentials
		if err := json.Unmarshal([]byte(raw), &creds); err != nil {
			return Credentials{}, fmt.Errorf("GOOGLE_SERVICE_KEY is not valid JSON: %w", err)
		}
		if creds.ClientEmail == "" || creds.PrivateKey == "" {
			return Credentials{}, fmt.Errorf("GOOGLE_SERVICE_KEY must contain non-empty client_email and private_key")
		}
		creds.PrivateKey = unescapeKey(creds.PrivateKey)
		return creds, nil
	}

	email := os.Getenv("GOOGLE_CLIENT_EMAIL")
	key := os.Getenv("GOOGLE_PRIVATE_KEY")
	if email == "" || key == "" {
		return Credentials{}, &MissingError{
			Vars: []string{"GOOGLE_SERVICE_KEY (or GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY)"},
		}
	}

	return Credentials{ClientEmail: email, PrivateKey: unescapeKey(key)}, nil
}

// unescapeKey restores real newlines in a PEM key that was stored with
// literal \n sequences, the usual shape when pasted into an env var.
func unescapeKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const consentFileName = "telemetry.json"

// Consent is the locally stored opt-in record. InstallID is a random
// UUID with no link to the user.
type Consent struct {
	InstallID   string    `json:"install_id"`
	Enabled     bool      `json:"enabled"`
	ConsentDate time.Time `json:"consent_date"`
	Version     string    `json:"version"`
}

// LoadConsent reads the consent record from the given data directory.
// A missing file means telemetry was never enabled.
func LoadConsent(baseDir string) (*Consent, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, consentFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var consent Consent
	if err := json.Unmarshal(data, &consent); err != nil {
		return nil, err
	}
	return &consent, nil
}

// SaveConsent persists the user's choice, reusing an existing install ID
// when one is present.
func SaveConsent(baseDir string, enabled bool, version string) (*Consent, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	installID := uuid.NewString()
	if existing, err := LoadConsent(baseDir); err == nil && existing != nil && existing.InstallID != "" {
		installID = existing.InstallID
	}

	consent := &Consent{
		InstallID:   installID,
		Enabled:     enabled,
		ConsentDate: time.Now().UTC(),
		Version:     version,
	}

	data, err := json.MarshalIndent(consent, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(baseDir, consentFileName), data, 0644); err != nil {
		return nil, err
	}
	return consent, nil
}

package telemetry

import (
	"testing"
)

func TestLoadConsentMissingFile(t *testing.T) {
	consent, err := LoadConsent(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consent != nil {
		t.Fatalf("expected nil consent for missing file, got %+v", consent)
	}
}

func TestSaveConsentRoundTrip(t *testing.T) {
	dir := t.TempDir()

	saved, err := SaveConsent(dir, true, "1.0.0")
	if err != nil {
		t.Fatalf("SaveConsent: %v", err)
	}
	if saved.InstallID == "" {
		t.Fatal("expected generated install ID")
	}

	loaded, err := LoadConsent(dir)
	if err != nil {
		t.Fatalf("LoadConsent: %v", err)
	}
	if loaded == nil || !loaded.Enabled || loaded.InstallID != saved.InstallID {
		t.Fatalf("round trip mismatch: %+v vs %+v", loaded, saved)
	}
}

func TestSaveConsentKeepsInstallID(t *testing.T) {
	dir := t.TempDir()

	first, err := SaveConsent(dir, true, "1.0.0")
	if err != nil {
		t.Fatalf("SaveConsent: %v", err)
	}
	second, err := SaveConsent(dir, false, "1.1.0")
	if err != nil {
		t.Fatalf("SaveConsent: %v", err)
	}

	if second.InstallID != first.InstallID {
		t.Errorf("install ID changed on re-consent: %s vs %s", second.InstallID, first.InstallID)
	}
	if second.Enabled {
		t.Error("expected telemetry disabled after second save")
	}
}

func TestDisabledClientDoesNotPanic(t *testing.T) {
	c, err := NewPostHogClient("", "1.0.0", nil)
	if err != nil {
		t.Fatalf("NewPostHogClient: %v", err)
	}
	c.Track("chat_turn", map[string]any{"provider": "openai"})
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

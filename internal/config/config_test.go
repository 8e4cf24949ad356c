package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadAndDotPathAccess(t *testing.T) {
	path := writeTempConfig(t, `{
		"strava": {"client_id": "abc", "client_secret": "shh", "refresh_token": "tok"},
		"komoot": {"email": "me@example.com", "password": "pw"},
		"sync": {"auto_sync": true}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	tests := []struct {
		key      string
		def      string
		expected string
	}{
		{"strava.client_id", "", "abc"},
		{"komoot.email", "", "me@example.com"},
		{"strava.missing", "fallback", "fallback"},
		{"nonexistent.path.deep", "dflt", "dflt"},
	}
	for _, tc := range tests {
		if got := cfg.GetString(tc.key, tc.def); got != tc.expected {
			t.Errorf("GetString(%q) = %q, want %q", tc.key, got, tc.expected)
		}
	}

	if !cfg.GetBool("sync.auto_sync", false) {
		t.Errorf("GetBool(sync.auto_sync) = false, want true")
	}
	if cfg.GetBool("sync.absent", true) != true {
		t.Errorf("GetBool default not honored for absent key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Errorf("Load on missing file succeeded, want error")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeTempConfig(t, `{"strava": `)
	if _, err := Load(path); err == nil {
		t.Errorf("Load on malformed JSON succeeded, want error")
	}
}

func TestValidate(t *testing.T) {
	path := writeTempConfig(t, `{
		"strava": {"client_id": "abc", "client_secret": "shh", "refresh_token": "tok"},
		"komoot": {"email": "me@example.com"}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if err := cfg.ValidateStrava(); err != nil {
		t.Errorf("ValidateStrava = %v, want nil", err)
	}
	if err := cfg.ValidateKomoot(); err == nil {
		t.Errorf("ValidateKomoot = nil, want missing komoot.password error")
	}
}

func TestWriteExampleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	if err := WriteExample(path); err != nil {
		t.Fatalf("WriteExample error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load after WriteExample error: %v", err)
	}
	if got := cfg.GetString("strava.client_id", ""); got != "YOUR_STRAVA_CLIENT_ID" {
		t.Errorf("example strava.client_id = %q", got)
	}
	if got := cfg.GetString("sync.default_sport_mapping.Ride", ""); got != "touringbicycle" {
		t.Errorf("example sport mapping Ride = %q", got)
	}
}

func TestSetAndSave(t *testing.T) {
	path := writeTempConfig(t, `{"strava": {"client_id": "old"}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	cfg.Set("strava.client_id", "new")
	cfg.Set("komoot.email", "me@example.com")
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if got := reloaded.GetString("strava.client_id", ""); got != "new" {
		t.Errorf("reloaded strava.client_id = %q, want %q", got, "new")
	}
	if got := reloaded.GetString("komoot.email", ""); got != "me@example.com" {
		t.Errorf("reloaded komoot.email = %q", got)
	}
}

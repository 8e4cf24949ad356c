// Package config loads and persists the JSON configuration file holding
// vendor credentials and sync preferences. Nested values are addressed with
// dot-separated key paths ("strava.client_id").
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Required credential keys per vendor.
var (
	stravaKeys = []string{"strava.client_id", "strava.client_secret", "strava.refresh_token"}
	komootKeys = []string{"komoot.email", "komoot.password"}
)

// Config wraps a loaded configuration file.
type Config struct {
	v    *viper.Viper
	path string
}

// Load reads the configuration file at path. A missing or malformed file is
// an error; commands report it and exit before any network call.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || errorsAsNotFound(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	return &Config{v: v, path: path}, nil
}

func errorsAsNotFound(err error) bool {
	_, ok := err.(viper.ConfigFileNotFoundError)
	return ok
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// GetString returns the string at the dot-separated key path, or def when
// the path is absent.
func (c *Config) GetString(key, def string) string {
	if !c.v.IsSet(key) {
		return def
	}
	return c.v.GetString(key)
}

// GetBool returns the bool at the dot-separated key path, or def when the
// path is absent.
func (c *Config) GetBool(key string, def bool) bool {
	if !c.v.IsSet(key) {
		return def
	}
	return c.v.GetBool(key)
}

// Set stores a value at the dot-separated key path (in memory; call Save to
// persist).
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// Save writes the full configuration back to its file atomically.
func (c *Config) Save() error {
	return writeJSON(c.path, c.v.AllSettings())
}

// ValidateStrava checks the Strava credential keys.
func (c *Config) ValidateStrava() error {
	return c.requireKeys(stravaKeys)
}

// ValidateKomoot checks the Komoot credential keys.
func (c *Config) ValidateKomoot() error {
	return c.requireKeys(komootKeys)
}

func (c *Config) requireKeys(keys []string) error {
	for _, key := range keys {
		if c.GetString(key, "") == "" {
			return fmt.Errorf("missing required config: %s", key)
		}
	}
	return nil
}

// Example returns the template configuration document.
func Example() map[string]any {
	return map[string]any{
		"strava": map[string]any{
			"client_id":     "YOUR_STRAVA_CLIENT_ID",
			"client_secret": "YOUR_STRAVA_CLIENT_SECRET",
			"refresh_token": "YOUR_STRAVA_REFRESH_TOKEN",
		},
		"komoot": map[string]any{
			"email":    "YOUR_KOMOOT_EMAIL",
			"password": "YOUR_KOMOOT_PASSWORD",
		},
		"sync": map[string]any{
			"default_sport_mapping": map[string]any{
				"Ride": "touringbicycle",
				"Run":  "jogging",
				"Hike": "hiking",
			},
			"auto_sync":               false,
			"sync_private_activities": true,
		},
	}
}

// WriteExample writes the template configuration to path.
func WriteExample(path string) error {
	return writeJSON(path, Example())
}

// Write persists an arbitrary configuration document to path.
func Write(path string, doc map[string]any) error {
	return writeJSON(path, doc)
}

// writeJSON persists a document with atomic write (temp file + rename).
func writeJSON(path string, doc any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}

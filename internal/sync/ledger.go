package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stefan-bergstein/strava-komoot-sync/internal/models"
)

// LoadLedger replaces the in-memory ledger with the entries persisted at
// path. On any failure (missing file, malformed content) the in-memory
// ledger is left untouched and the error is returned for reporting; callers
// treat it as non-fatal.
func (m *Manager) LoadLedger(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}

	var entries []models.LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse ledger %s: %w", path, err)
	}

	m.ledger = entries
	return nil
}

// SaveLedger writes the full ledger to path, creating parent directories as
// needed. The file is rewritten wholesale with an atomic temp-file rename.
func (m *Manager) SaveLedger(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	entries := m.ledger
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "ledger-*.json.tmp")
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

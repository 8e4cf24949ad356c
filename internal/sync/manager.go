// Package sync drives activity transfers from Strava to Komoot and keeps
// the append-only transfer ledger used for idempotent re-runs.
package sync

import (
	"fmt"
	"time"

	"github.com/stefan-bergstein/strava-komoot-sync/internal/komoot"
	"github.com/stefan-bergstein/strava-komoot-sync/internal/models"
	"github.com/stefan-bergstein/strava-komoot-sync/internal/output"
)

// Source is the subset of the Strava client the manager needs.
type Source interface {
	Authenticate() error
	Activities(after, before *time.Time) ([]models.Activity, error)
	ActivityDetail(id int64) (*models.Activity, error)
	ExportGPX(id int64) ([]byte, error)
}

// Destination is the subset of the Komoot client the manager needs.
type Destination interface {
	Authenticate() error
	UploadGPX(data []byte, name, sport string) (*models.UploadResult, error)
}

// Manager orchestrates transfers and owns the in-memory ledger. Transfers
// run strictly sequentially; the ledger gains exactly one entry per attempt.
type Manager struct {
	source Source
	dest   Destination
	ledger []models.LedgerEntry

	now func() time.Time
}

// New creates a transfer manager.
func New(source Source, dest Destination) *Manager {
	return &Manager{
		source: source,
		dest:   dest,
		now:    time.Now,
	}
}

// Connect authenticates both ends so a bulk run fails before the first
// transfer instead of appending one failed ledger entry per activity.
func (m *Manager) Connect() error {
	if err := m.source.Authenticate(); err != nil {
		return err
	}
	return m.dest.Authenticate()
}

// TransferOne moves a single activity to the destination. sportOverride, if
// non-empty, replaces the mapped sport code. Every invocation appends one
// ledger entry, success or failure.
func (m *Manager) TransferOne(activityID int64, sportOverride string) bool {
	output.Info("\nSyncing activity %d...", activityID)

	activity, err := m.source.ActivityDetail(activityID)
	if err != nil {
		output.Error("failed to fetch activity details: %v", err)
		m.recordFailure(activityID, "", "", "")
		return false
	}
	output.Step("Activity: %s", activity.Name)
	output.Step("Type: %s", activity.Type)

	data, err := m.source.ExportGPX(activityID)
	if err != nil {
		output.Error("failed to export GPX: %v", err)
		m.recordFailure(activityID, activity.Name, activity.Type, "")
		return false
	}

	sport := sportOverride
	if sport == "" {
		sport = komoot.MapSport(activity.Type)
	}
	output.Step("Komoot sport type: %s", sport)

	result, err := m.dest.UploadGPX(data, activity.Name, sport)
	if err != nil {
		output.Error("failed to upload to Komoot: %v", err)
		m.recordFailure(activityID, activity.Name, activity.Type, sport)
		return false
	}

	entry := models.LedgerEntry{
		Timestamp:    m.now(),
		ActivityID:   activityID,
		ActivityName: activity.Name,
		ActivityType: activity.Type,
		TourID:       result.TourID,
		Sport:        sport,
		Status:       models.StatusSuccess,
	}
	m.ledger = append(m.ledger, entry)

	if result.TourID != nil {
		output.Success("synced to Komoot (tour %d)", *result.TourID)
	} else {
		output.Success("synced to Komoot")
	}
	return true
}

func (m *Manager) recordFailure(activityID int64, name, activityType, sport string) {
	m.ledger = append(m.ledger, models.LedgerEntry{
		Timestamp:    m.now(),
		ActivityID:   activityID,
		ActivityName: name,
		ActivityType: activityType,
		Sport:        sport,
		Status:       models.StatusFailed,
	})
}

// TransferMany transfers the given activities in order. A failure never
// aborts the remaining transfers.
func (m *Manager) TransferMany(activityIDs []int64, sportOverride string) models.Tally {
	var tally models.Tally

	output.Info("\nStarting sync of %d activities...", len(activityIDs))
	for i, id := range activityIDs {
		output.Info("[%d/%d]", i+1, len(activityIDs))
		if m.TransferOne(id, sportOverride) {
			tally.Success++
		} else {
			tally.Failed++
		}
	}

	output.Summary(tally)
	return tally
}

// TransferDateRange lists source activities in the window, filters them to
// the given origin types (exact, case-sensitive match) when provided, and
// transfers the remainder in listing order. A listing failure (notably an
// authentication failure) is returned so callers can fail the run.
func (m *Manager) TransferDateRange(after, before *time.Time, activityTypes []string, sportOverride string) (models.Tally, error) {
	output.Info("\nFetching activities from Strava...")

	activities, err := m.source.Activities(after, before)
	if err != nil {
		return models.Tally{}, fmt.Errorf("list activities: %w", err)
	}
	if len(activities) == 0 {
		output.Info("No activities found in the specified date range.")
		return models.Tally{}, nil
	}
	output.Step("Found %d activities", len(activities))

	if len(activityTypes) > 0 {
		wanted := make(map[string]bool, len(activityTypes))
		for _, t := range activityTypes {
			wanted[t] = true
		}
		filtered := activities[:0]
		for _, a := range activities {
			if wanted[a.Type] {
				filtered = append(filtered, a)
			}
		}
		activities = filtered
		output.Step("Filtered to %d activities", len(activities))
	}

	if len(activities) == 0 {
		output.Info("No activities match the filter criteria.")
		return models.Tally{}, nil
	}

	ids := make([]int64, len(activities))
	for i, a := range activities {
		ids[i] = a.ID
	}
	return m.TransferMany(ids, sportOverride), nil
}

// Ledger returns the in-memory ledger entries in order.
func (m *Manager) Ledger() []models.LedgerEntry {
	return m.ledger
}

// SyncedIDs returns the set of activity IDs with at least one successful
// transfer entry.
func (m *Manager) SyncedIDs() map[int64]struct{} {
	synced := make(map[int64]struct{})
	for _, entry := range m.ledger {
		if entry.Status == models.StatusSuccess {
			synced[entry.ActivityID] = struct{}{}
		}
	}
	return synced
}

// IsSynced reports whether the activity has been transferred successfully at
// least once.
func (m *Manager) IsSynced(activityID int64) bool {
	_, ok := m.SyncedIDs()[activityID]
	return ok
}

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TransferStatus represents the outcome of one transfer attempt.
type TransferStatus string

const (
	StatusSuccess TransferStatus = "success"
	StatusFailed  TransferStatus = "failed"
)

// Activity is a Strava activity summary. Field names follow the Strava v3
// wire format so listing payloads decode directly. Raw keeps the untouched
// listing record for verbatim re-export.
type Activity struct {
	Raw                json.RawMessage `json:"-"`
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	Type               string          `json:"type"`
	StartDate          time.Time       `json:"start_date"`
	Distance           float64         `json:"distance"`
	MovingTime         int64           `json:"moving_time"`
	TotalElevationGain float64         `json:"total_elevation_gain"`
}

// Athlete is the authenticated Strava athlete.
type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// Tour is a Komoot tour. Date is optional; not every tour carries one.
type Tour struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Sport string     `json:"sport"`
	Date  *time.Time `json:"date,omitempty"`
}

// UploadResult describes a completed tour upload.
type UploadResult struct {
	TourID *int64 `json:"id,omitempty"`
	Name   string `json:"name"`
	Sport  string `json:"sport"`
	Status string `json:"status"`
}

// LedgerEntry records a single transfer attempt. Entries are append-only;
// re-attempts add new entries rather than rewriting old ones.
type LedgerEntry struct {
	Timestamp    time.Time      `json:"timestamp"`
	ActivityID   int64          `json:"strava_activity_id"`
	ActivityName string         `json:"strava_activity_name"`
	ActivityType string         `json:"strava_activity_type"`
	TourID       *int64         `json:"komoot_tour_id,omitempty"`
	Sport        string         `json:"komoot_sport"`
	Status       TransferStatus `json:"status"`
}

// Tally accumulates bulk transfer outcomes.
type Tally struct {
	Success int
	Failed  int
}

// StreamSet holds the per-activity sensor streams returned by Strava with
// key_by_type=true. The arrays are parallel by sample index but may have
// different lengths; an index past a shorter array has no value for that
// stream.
type StreamSet struct {
	Time      []float64
	LatLng    [][2]float64
	Distance  []float64
	Altitude  []float64
	Velocity  []float64
	Heartrate []float64
	Cadence   []float64
	Watts     []float64
	Temp      []float64
	Moving    []bool
	Grade     []float64
}

// streamEnvelope is one entry of the key_by_type response object.
type streamEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// UnmarshalJSON decodes the key_by_type stream object into typed arrays.
// Unknown stream keys are ignored.
func (s *StreamSet) UnmarshalJSON(b []byte) error {
	var raw map[string]streamEnvelope
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	for key, dst := range map[string]any{
		"time":            &s.Time,
		"latlng":          &s.LatLng,
		"distance":        &s.Distance,
		"altitude":        &s.Altitude,
		"velocity_smooth": &s.Velocity,
		"heartrate":       &s.Heartrate,
		"cadence":         &s.Cadence,
		"watts":           &s.Watts,
		"temp":            &s.Temp,
		"moving":          &s.Moving,
		"grade_smooth":    &s.Grade,
	} {
		env, ok := raw[key]
		if !ok || len(env.Data) == 0 {
			continue
		}
		if err := json.Unmarshal(env.Data, dst); err != nil {
			return fmt.Errorf("stream %q: %w", key, err)
		}
	}
	return nil
}

// HasGPS reports whether the set carries position data.
func (s *StreamSet) HasGPS() bool {
	return s != nil && len(s.LatLng) > 0
}

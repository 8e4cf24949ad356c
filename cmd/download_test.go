package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stefan-bergstein/strava-komoot-sync/internal/models"
)

func TestGPXFileName(t *testing.T) {
	tests := []struct {
		activity models.Activity
		expected string
	}{
		{
			models.Activity{ID: 42, Type: "Ride", StartDate: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)},
			"2024-03-15_ride_42.gpx",
		},
		{
			models.Activity{ID: 7, Type: "Trail Run", StartDate: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
			"2024-12-01_trail_run_7.gpx",
		},
	}

	for _, tc := range tests {
		if got := gpxFileName(tc.activity); got != tc.expected {
			t.Errorf("gpxFileName(%+v) = %q, want %q", tc.activity, got, tc.expected)
		}
	}
}

func TestCSVRow(t *testing.T) {
	a := models.Activity{
		Name:               "Morning Ride, with coffee",
		Type:               "Ride",
		StartDate:          time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
		Distance:           25500,
		MovingTime:         5400,
		TotalElevationGain: 312.5,
	}

	got := csvRow(a)
	want := "2024-03-15,Ride,Morning Ride; with coffee,25.50,90.0,312.5"
	if got != want {
		t.Errorf("csvRow = %q, want %q", got, want)
	}
	if strings.Count(got, ",") != 5 {
		t.Errorf("row has %d commas, want 5", strings.Count(got, ","))
	}
}

func TestWriteSummaryFiles(t *testing.T) {
	dir := t.TempDir()
	activities := []models.Activity{
		{
			Raw:       json.RawMessage(`{"id":1,"name":"A","extra_field":true}`),
			ID:        1,
			Name:      "A",
			Type:      "Run",
			StartDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			Raw:       json.RawMessage(`{"id":2,"name":"B"}`),
			ID:        2,
			Name:      "B",
			Type:      "Ride",
			StartDate: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	jsonPath := filepath.Join(dir, "activities_summary.json")
	if err := writeSummaryJSON(jsonPath, activities); err != nil {
		t.Fatalf("writeSummaryJSON error: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("summary JSON not parseable: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("summary has %d records, want 2", len(records))
	}
	// The verbatim listing payload survives, including fields the client
	// never decodes.
	if _, ok := records[0]["extra_field"]; !ok {
		t.Errorf("summary dropped undecoded listing fields")
	}

	csvPath := filepath.Join(dir, "activities_summary.csv")
	if err := writeSummaryCSV(csvPath, activities); err != nil {
		t.Fatalf("writeSummaryCSV error: %v", err)
	}
	csvData, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(csvData), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("CSV has %d lines, want header + 2 rows", len(lines))
	}
	if lines[0] != "Date,Type,Name,Distance (km),Duration (min),Elevation Gain (m)" {
		t.Errorf("CSV header = %q", lines[0])
	}
}

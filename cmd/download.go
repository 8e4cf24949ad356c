package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefan-bergstein/strava-komoot-sync/internal/models"
	"github.com/stefan-bergstein/strava-komoot-sync/internal/output"
)

var (
	downloadAfter    string
	downloadBefore   string
	downloadOutput   string
	downloadGPX      bool
	downloadDetailed bool
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download Strava activities to a local directory",
	Long: `Download Strava activity data into a local directory.

Writes a JSON summary and a CSV overview of all activities in the date
window, plus one JSON file per activity. With --export-gpx the GPX track of
every activity is saved as well; with --detailed the per-activity files hold
the full activity record instead of the listing summary.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&downloadAfter, "after", "", "only activities on or after this date (YYYY-MM-DD)")
	downloadCmd.Flags().StringVar(&downloadBefore, "before", "", "only activities before this date (YYYY-MM-DD)")
	downloadCmd.Flags().StringVar(&downloadOutput, "output", "./strava_data", "output directory")
	downloadCmd.Flags().BoolVar(&downloadGPX, "export-gpx", false, "also export GPX tracks")
	downloadCmd.Flags().BoolVar(&downloadDetailed, "detailed", false, "fetch the full record for each activity")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	after, err := parseDateFlag(downloadAfter)
	if err != nil {
		return err
	}
	before, err := parseDateFlag(downloadBefore)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := stravaFromConfig(cfg)
	if err != nil {
		return err
	}

	output.Info("Fetching activities from Strava...")
	activities, err := client.Activities(after, before)
	if err != nil {
		return err
	}
	if len(activities) == 0 {
		output.Info("No activities found in the specified date range.")
		return nil
	}
	output.Step("Found %d activities", len(activities))

	if err := os.MkdirAll(downloadOutput, 0755); err != nil {
		return err
	}

	if err := writeSummaryJSON(filepath.Join(downloadOutput, "activities_summary.json"), activities); err != nil {
		return err
	}
	output.Success("wrote activities_summary.json")

	if err := writeSummaryCSV(filepath.Join(downloadOutput, "activities_summary.csv"), activities); err != nil {
		return err
	}
	output.Success("wrote activities_summary.csv")

	activityDir := filepath.Join(downloadOutput, "activities")
	if err := os.MkdirAll(activityDir, 0755); err != nil {
		return err
	}
	for _, a := range activities {
		record := a.Raw
		if downloadDetailed {
			detail, err := client.ActivityDetail(a.ID)
			if err != nil {
				output.Warning("activity %d: %v", a.ID, err)
				continue
			}
			record = detail.Raw
		}
		path := filepath.Join(activityDir, fmt.Sprintf("activity_%d.json", a.ID))
		if err := writeIndentedJSON(path, record); err != nil {
			output.Warning("activity %d: %v", a.ID, err)
		}
	}
	output.Success("wrote %d activity files", len(activities))

	if downloadGPX {
		gpxDir := filepath.Join(downloadOutput, "gpx")
		if err := os.MkdirAll(gpxDir, 0755); err != nil {
			return err
		}
		exported := 0
		for _, a := range activities {
			path := filepath.Join(gpxDir, gpxFileName(a))
			if err := client.SaveGPX(a.ID, path); err != nil {
				output.Warning("activity %d: GPX export failed: %v", a.ID, err)
				continue
			}
			exported++
		}
		output.Success("exported %d GPX tracks", exported)
	}

	return nil
}

// gpxFileName builds the per-activity track file name: date, lowercased
// type with spaces collapsed to underscores, and the activity ID.
func gpxFileName(a models.Activity) string {
	activityType := strings.ToLower(strings.ReplaceAll(a.Type, " ", "_"))
	return fmt.Sprintf("%s_%s_%d.gpx", a.StartDate.Format("2006-01-02"), activityType, a.ID)
}

// csvRow renders one summary line. Commas inside names would break the
// format, so they become semicolons.
func csvRow(a models.Activity) string {
	name := strings.ReplaceAll(a.Name, ",", ";")
	return fmt.Sprintf("%s,%s,%s,%.2f,%.1f,%.1f",
		a.StartDate.Format("2006-01-02"),
		a.Type,
		name,
		a.Distance/1000,
		float64(a.MovingTime)/60,
		a.TotalElevationGain)
}

func writeSummaryCSV(path string, activities []models.Activity) error {
	var b strings.Builder
	b.WriteString("Date,Type,Name,Distance (km),Duration (min),Elevation Gain (m)\n")
	for _, a := range activities {
		b.WriteString(csvRow(a))
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// writeSummaryJSON persists the untouched listing payloads as one array.
func writeSummaryJSON(path string, activities []models.Activity) error {
	records := make([]json.RawMessage, len(activities))
	for i, a := range activities {
		records[i] = a.Raw
	}
	return writeIndentedJSON(path, records)
}

func writeIndentedJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

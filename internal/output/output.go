// Package output provides styled terminal output helpers (success, error,
// warning, activity/tour tables) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/stefan-bergstein/strava-komoot-sync/internal/models"
)

var (
	// Styles
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Success prints a success status line.
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

// Error prints an error status line.
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("✗ " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message.
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints a plain info message.
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// Step prints an indented progress detail line.
func Step(format string, args ...interface{}) {
	fmt.Println(subtleStyle.Render("   " + fmt.Sprintf(format, args...)))
}

// JSON outputs data as indented JSON.
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Truncate shortens s to max runes, appending "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// tableHeader prints the shared ID/Date/Type/Name header.
func tableHeader() {
	fmt.Printf("%-12s %-12s %-20s %-40s\n", "ID", "Date", "Type", "Name")
	fmt.Println(subtleStyle.Render(strings.Repeat("-", 90)))
}

// ActivityTable prints Strava activities in a fixed-width table.
func ActivityTable(activities []models.Activity) {
	tableHeader()
	for _, a := range activities {
		fmt.Printf("%-12d %-12s %-20s %-40s\n",
			a.ID,
			a.StartDate.Format("2006-01-02"),
			a.Type,
			Truncate(a.Name, 40))
	}
}

// TourTable prints Komoot tours in a fixed-width table.
func TourTable(tours []models.Tour) {
	tableHeader()
	for _, tr := range tours {
		date := "N/A"
		if tr.Date != nil {
			date = tr.Date.Format("2006-01-02")
		}
		name := tr.Name
		if name == "" {
			name = "Unnamed"
		}
		fmt.Printf("%-12d %-12s %-20s %-40s\n",
			tr.ID,
			date,
			tr.Sport,
			Truncate(name, 40))
	}
}

// Summary prints the bulk transfer tally.
func Summary(tally models.Tally) {
	fmt.Println("\nSync summary:")
	fmt.Println(successStyle.Render(fmt.Sprintf("   ✓ Successful: %d", tally.Success)))
	fmt.Println(errorStyle.Render(fmt.Sprintf("   ✗ Failed: %d", tally.Failed)))
}

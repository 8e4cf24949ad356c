package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefan-bergstein/strava-komoot-sync/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Verify the configured Strava and Komoot credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		output.Info("Config: %s", cfg.Path())

		failed := false

		if stravaClient, err := stravaFromConfig(cfg); err != nil {
			output.Error("Strava: %v", err)
			failed = true
		} else if athlete, err := stravaClient.Athlete(); err != nil {
			output.Error("Strava: %v", err)
			failed = true
		} else {
			output.Success("Strava: connected as %s %s (%d)", athlete.Firstname, athlete.Lastname, athlete.ID)
		}

		if komootClient, err := komootFromConfig(cfg); err != nil {
			output.Error("Komoot: %v", err)
			failed = true
		} else if email, userID, err := komootClient.Profile(); err != nil {
			output.Error("Komoot: %v", err)
			failed = true
		} else {
			output.Success("Komoot: connected as %s (user %s)", email, userID)
		}

		if failed {
			return fmt.Errorf("credential check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

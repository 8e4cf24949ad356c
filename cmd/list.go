package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stefan-bergstein/strava-komoot-sync/internal/output"
)

var (
	listAfter  string
	listBefore string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities or tours",
}

var listStravaCmd = &cobra.Command{
	Use:   "strava",
	Short: "List Strava activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		after, err := parseDateFlag(listAfter)
		if err != nil {
			return err
		}
		before, err := parseDateFlag(listBefore)
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

		activities, err := client.Activities(after, before)
		if err != nil {
			return err
		}
		if len(activities) == 0 {
			output.Info("No activities found.")
			return nil
		}
		output.ActivityTable(activities)
		output.Info("\n%d activities", len(activities))
		return nil
	},
}

var listKomootCmd = &cobra.Command{
	Use:   "komoot",
	Short: "List Komoot tours",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := komootFromConfig(cfg)
		if err != nil {
			return err
		}

		tours, err := client.Tours("")
		if err != nil {
			return err
		}
		if len(tours) == 0 {
			output.Info("No tours found.")
			return nil
		}
		output.TourTable(tours)
		output.Info("\n%d tours", len(tours))
		return nil
	},
}

func init() {
	listStravaCmd.Flags().StringVar(&listAfter, "after", "", "only activities on or after this date (YYYY-MM-DD)")
	listStravaCmd.Flags().StringVar(&listBefore, "before", "", "only activities before this date (YYYY-MM-DD)")

	listCmd.AddCommand(listStravaCmd)
	listCmd.AddCommand(listKomootCmd)
	rootCmd.AddCommand(listCmd)
}

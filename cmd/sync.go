package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stefan-bergstein/strava-komoot-sync/internal/models"
	"github.com/stefan-bergstein/strava-komoot-sync/internal/output"
	syncer "github.com/stefan-bergstein/strava-komoot-sync/internal/sync"
)

var (
	syncAfter   string
	syncBefore  string
	syncIDs     []int64
	syncTypes   []string
	syncSport   string
	syncLogFile string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync Strava activities to Komoot",
	Long: `Transfer Strava activities to Komoot as tours.

Either pass explicit activity IDs with --activity-ids, or a date window with
--after/--before (optionally narrowed to activity types with --types). Every
attempt is appended to the sync log, which later runs use to tell what has
already been transferred.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncAfter, "after", "", "only activities on or after this date (YYYY-MM-DD)")
	syncCmd.Flags().StringVar(&syncBefore, "before", "", "only activities before this date (YYYY-MM-DD)")
	syncCmd.Flags().Int64SliceVar(&syncIDs, "activity-ids", nil, "specific activity IDs to sync")
	syncCmd.Flags().StringSliceVar(&syncTypes, "types", nil, "only these Strava activity types (e.g. Ride,Run)")
	syncCmd.Flags().StringVar(&syncSport, "sport", "", "Komoot sport code overriding the type mapping")
	syncCmd.Flags().StringVar(&syncLogFile, "log-file", "sync_log.json", "path of the sync log")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	after, err := parseDateFlag(syncAfter)
	if err != nil {
		return err
	}
	before, err := parseDateFlag(syncBefore)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	source, err := stravaFromConfig(cfg)
	if err != nil {
		return err
	}
	dest, err := komootFromConfig(cfg)
	if err != nil {
		return err
	}

	manager := syncer.New(source, dest)
	if err := manager.Connect(); err != nil {
		return err
	}

	if _, err := os.Stat(syncLogFile); err == nil {
		if err := manager.LoadLedger(syncLogFile); err != nil {
			output.Warning("could not read sync log: %v", err)
		} else {
			output.Step("Loaded sync log with %d entries (%d activities synced)",
				len(manager.Ledger()), len(manager.SyncedIDs()))
		}
	}

	var tally models.Tally
	if len(syncIDs) > 0 {
		tally = manager.TransferMany(syncIDs, syncSport)
	} else {
		tally, err = manager.TransferDateRange(after, before, syncTypes, syncSport)
		if err != nil {
			return err
		}
	}

	if err := manager.SaveLedger(syncLogFile); err != nil {
		output.Warning("could not save sync log: %v", err)
	}

	if tally.Failed > 0 {
		return fmt.Errorf("%d of %d transfers failed", tally.Failed, tally.Success+tally.Failed)
	}
	return nil
}

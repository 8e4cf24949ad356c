package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefan-bergstein/strava-komoot-sync/internal/config"
	"github.com/stefan-bergstein/strava-komoot-sync/internal/dateparse"
	"github.com/stefan-bergstein/strava-komoot-sync/internal/komoot"
	"github.com/stefan-bergstein/strava-komoot-sync/internal/strava"
)

var (
	version string

	configPath string
	verbose    bool
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "strava-komoot-sync",
	Short: "Transfer activities from Strava to Komoot",
	Long: `strava-komoot-sync - Download Strava activities and upload them to Komoot as tours.

Activities are fetched over the Strava v3 API, exported as GPX tracks and
uploaded to the Komoot account configured in the JSON config file. A local
sync log keeps track of what has already been transferred.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initLogging routes diagnostics to stderr so styled command output on
// stdout stays clean.
func initLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads the configuration file named by --config.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// stravaFromConfig builds a Strava client from validated credentials.
func stravaFromConfig(cfg *config.Config) (*strava.Client, error) {
	if err := cfg.ValidateStrava(); err != nil {
		return nil, err
	}
	return strava.New(
		cfg.GetString("strava.client_id", ""),
		cfg.GetString("strava.client_secret", ""),
		cfg.GetString("strava.refresh_token", ""),
	), nil
}

// komootFromConfig builds a Komoot client from validated credentials.
func komootFromConfig(cfg *config.Config) (*komoot.Client, error) {
	if err := cfg.ValidateKomoot(); err != nil {
		return nil, err
	}
	return komoot.New(
		cfg.GetString("komoot.email", ""),
		cfg.GetString("komoot.password", ""),
	), nil
}

// parseDateFlag turns an optional date flag into a window boundary. An empty
// value means the boundary is open.
func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := dateparse.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

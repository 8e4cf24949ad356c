package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stefan-bergstein/strava-komoot-sync/internal/config"
	"github.com/stefan-bergstein/strava-komoot-sync/internal/output"
)

var (
	configInit        bool
	configInteractive bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Manage the JSON configuration file.

With --init a template configuration is written to the path given by
--config. Adding --interactive prompts for the Strava and Komoot credentials
instead of writing placeholders.`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "write a template configuration file")
	configCmd.Flags().BoolVar(&configInteractive, "interactive", false, "prompt for credentials (requires a terminal)")

	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	if !configInit {
		return cmd.Help()
	}

	if _, err := os.Stat(configPath); err == nil {
		output.Warning("config file already exists: %s", configPath)
		return nil
	}

	doc := config.Example()
	if configInteractive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("--interactive requires a terminal")
		}
		creds, err := promptCredentials()
		if err != nil {
			return err
		}
		doc["strava"] = map[string]any{
			"client_id":     creds.stravaClientID,
			"client_secret": creds.stravaClientSecret,
			"refresh_token": creds.stravaRefreshToken,
		}
		doc["komoot"] = map[string]any{
			"email":    creds.komootEmail,
			"password": creds.komootPassword,
		}
	}

	if err := config.Write(configPath, doc); err != nil {
		return err
	}
	output.Success("wrote %s", configPath)
	if !configInteractive {
		output.Info("Fill in your Strava and Komoot credentials before running sync.")
	}
	return nil
}

type credentials struct {
	stravaClientID     string
	stravaClientSecret string
	stravaRefreshToken string
	komootEmail        string
	komootPassword     string
}

// promptCredentials collects the vendor credentials interactively.
func promptCredentials() (*credentials, error) {
	var creds credentials

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Strava client ID").
				Value(&creds.stravaClientID),
			huh.NewInput().
				Title("Strava client secret").
				EchoMode(huh.EchoModePassword).
				Value(&creds.stravaClientSecret),
			huh.NewInput().
				Title("Strava refresh token").
				EchoMode(huh.EchoModePassword).
				Value(&creds.stravaRefreshToken),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Komoot email").
				Value(&creds.komootEmail),
			huh.NewInput().
				Title("Komoot password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.komootPassword),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}
	return &creds, nil
}

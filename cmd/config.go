package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shortlog/internal/config"
	"shortlog/internal/credential"
)

func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long:  "View the configuration used when posting highlights.",
	}

	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configPathCmd())

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current configuration settings and where the API key comes from.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Current Configuration:")
			fmt.Fprintf(out, "\n  Username: %s", orNotSet(cfg.Username))
			fmt.Fprintf(out, "\n  Directory: %s", orNotSet(cfg.Directory))
			fmt.Fprintf(out, "\n  File Pattern: %s", cfg.FilePattern)
			fmt.Fprintf(out, "\n  Keyring Service: %s", cfg.KeyringService)
			fmt.Fprintf(out, "\n  API Key: %s", apiKeyStatus(cfg))

			fmt.Fprintf(out, "\n\nRescueTime:")
			fmt.Fprintf(out, "\n  URL: %s", cfg.RescueTime.URL)
			fmt.Fprintf(out, "\n  Source: %s", orNotSet(cfg.RescueTime.Source))
			fmt.Fprintf(out, "\n  Timeout: %s", cfg.RescueTime.Timeout)
			fmt.Fprintln(out)

			return nil
		},
	}
}

func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  "Display the path to the configuration file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return fmt.Errorf("failed to get config path: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file: %s\n", path)
			return nil
		},
	}
}

func apiKeyStatus(cfg *config.Config) string {
	if key := os.Getenv(credential.EnvAPIKey); key != "" {
		return maskToken(key) + " (from " + credential.EnvAPIKey + ")"
	}
	if cfg.Username == "" {
		return "(not set)"
	}

	key, err := newStore().Get(cfg.KeyringService, cfg.Username)
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return "(not set)"
		}
		return fmt.Sprintf("(keyring error: %v)", err)
	}
	return maskToken(key) + " (from keyring)"
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****" + token[len(token)-4:]
}

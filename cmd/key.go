package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shortlog/internal/config"
	"shortlog/internal/credential"
)

func KeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the RescueTime API key",
		Long:  "Store or remove the RescueTime API key in the OS keyring.",
	}

	cmd.AddCommand(keySetCmd())
	cmd.AddCommand(keyDeleteCmd())

	return cmd
}

func keySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <username>",
		Short: "Store the API key for a user",
		Long:  "Read the API key from standard input and store it in the OS keyring.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			fmt.Fprint(cmd.ErrOrStderr(), "API key: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			key := strings.TrimSpace(line)
			if key == "" {
				if err != nil {
					return fmt.Errorf("failed to read API key: %w", err)
				}
				return errors.New("empty API key")
			}

			if err := newStore().Set(cfg.KeyringService, args[0], key); err != nil {
				return fmt.Errorf("failed to store API key: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored API key for %s (%s)\n", args[0], maskToken(key))
			return nil
		},
	}
}

func keyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Remove the stored API key for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := newStore().Delete(cfg.KeyringService, args[0]); err != nil {
				if errors.Is(err, credential.ErrNotFound) {
					return fmt.Errorf("no API key stored for %s", args[0])
				}
				return fmt.Errorf("failed to delete API key: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted API key for %s\n", args[0])
			return nil
		},
	}
}

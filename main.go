package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"shortlog/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shortlog",
		Short: "Forward your daily shortlog to RescueTime highlights",
		Long:  "shortlog reads a day's shortlog file and submits each line as a RescueTime highlight.",
	}

	rootCmd.AddCommand(cmd.PostCmd())
	rootCmd.AddCommand(cmd.KeyCmd())
	rootCmd.AddCommand(cmd.ConfigCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, rootCmd); err != nil {
		stop()
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bendechrai/devports/internal/cmd"
)

var version = "0.2.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "devports",
		Short: "Port registry for concurrent local development projects",
		Long: `Devports assigns and tracks ports for local development projects so two
projects never claim the same one, and rewrites symbolic placeholders in
env files and templates with the ports it issues.`,
		Version: version,
	}

	// Add subcommands
	rootCmd.AddCommand(cmd.NewInitCmd())
	rootCmd.AddCommand(cmd.NewAllocateCmd())
	rootCmd.AddCommand(cmd.NewReleaseCmd())
	rootCmd.AddCommand(cmd.NewReserveCmd())
	rootCmd.AddCommand(cmd.NewUnreserveCmd())
	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewListCmd())
	rootCmd.AddCommand(cmd.NewRenderCmd())
	rootCmd.AddCommand(cmd.NewDetectCmd())
	rootCmd.AddCommand(cmd.NewWorktreeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

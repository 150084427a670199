package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"hybridsched/core/schedule"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "schedctl",
	Short: "Hybrid task scheduling engine",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(resourcesCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// exitCodeForError maps a Plan error to the codes documented in spec §6:
// 0 on success, 2 on horizon cap exceeded, 3 on invalid input.
func exitCodeForError(err error) int {
	if err == nil {
		return 0
	}
	var horizonErr *schedule.HorizonExceededError
	if errors.As(err, &horizonErr) {
		return 2
	}
	var invalidErr *schedule.InvalidInputError
	if errors.As(err, &invalidErr) {
		return 3
	}
	return 1
}

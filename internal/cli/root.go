// Package cli implements the topbar command-line interface.
//
// The root command launches the dashboard; subcommands manage the
// configuration (settings), probe plumbing (test, metrics) and version info.
// Each command delegates to the internal packages for the actual work.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/printwatch/topbar/internal/logger"
)

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "topbar",
	Short: "Temperature and system monitor bar for your terminal",
	Long: `topbar renders a compact monitor bar: printer temperatures plus any
custom monitors you define, sampled from shell commands, system metrics or
gcode traffic.

Run without arguments to start the dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to topbar.yaml")
}

// Execute runs the CLI. Errors are printed in the structured format and
// reported through the exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func log() logger.Logger {
	return logger.Default()
}

package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/probe"
	"github.com/printwatch/topbar/internal/ui"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List available metric and gcode sources",
	Long: `List everything a custom monitor can read on this machine.

Shows the system metric ids usable with the psutil source, the gcode
pattern presets, and any CPU temperature commands that work here.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return metricsCommand()
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func metricsCommand() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	heading := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorInfo)
	id := lipgloss.NewStyle().Foreground(ui.ColorPrimary)

	system := probe.NewSystemReader()
	if err := system.Refresh(ctx); err != nil {
		log().Warn("system metric discovery failed: %v", err)
	}

	fmt.Println(heading.Render("System metrics (psutil)"))
	for _, m := range system.Catalog() {
		fmt.Printf("  %-14s %s\n", id.Render(m.ID), m.Description)
	}

	fmt.Println()
	fmt.Println(heading.Render("Gcode presets"))
	presets := probe.GcodePresets()
	for _, dir := range []config.CommandType{config.CommandGcodeIn, config.CommandGcodeOut} {
		names := make([]string, 0, len(presets[dir]))
		for name := range presets[dir] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-6s %-18s %s\n", dir, name, id.Render(presets[dir][name]))
		}
	}

	fmt.Println()
	fmt.Println(heading.Render("CPU temperature commands"))
	found := probe.DiscoverCPUTemp(ctx, log())
	if len(found) == 0 {
		fmt.Println("  none found on this machine")
		return nil
	}
	for _, c := range found {
		fmt.Printf("  %-22s %s\n", c.Name, id.Render(c.Command))
	}
	return nil
}

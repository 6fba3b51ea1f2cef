package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/monitor"
	"github.com/printwatch/topbar/internal/probe"
	"github.com/printwatch/topbar/internal/ui"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Edit monitors interactively",
	Long: `Open the settings dialog.

Changes are held in a draft until you save. Discarding exits without
touching the config file, including any monitors added or deleted during
the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return settingsCommand()
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func settingsCommand() error {
	ctx := context.Background()

	settings, path, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}
	if path == "" {
		path = config.DefaultPath()
	}

	system := probe.NewSystemReader()
	if err := system.Refresh(ctx); err != nil {
		log().Warn("system metric discovery failed: %v", err)
	}

	store := monitor.NewDraftStore(settings, log())
	session := store.Begin()

	tester := func(command string, cmdType config.CommandType) probe.Result {
		tctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		res, err := probe.TestCommand(tctx, command, cmdType, system)
		if err != nil {
			return probe.Result{Error: err.Error(), ReturnCode: 1}
		}
		return res
	}

	saved, err := ui.RunSettings(session, tester)
	if err != nil {
		session.Rollback()
		return err
	}
	if !saved {
		session.Rollback()
		fmt.Println("Changes discarded.")
		return nil
	}

	committed := session.Commit(nil)
	if err := config.Save(committed, path); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

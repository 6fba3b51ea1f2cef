package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/errors"
	"github.com/printwatch/topbar/internal/monitor"
	"github.com/printwatch/topbar/internal/probe"
	"github.com/printwatch/topbar/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Run the monitor bar",
	Long: `Start the monitor bar in the terminal.

Loads topbar.yaml (creating a default one on first run), starts the probe
loops for every configured custom monitor, and renders the bar until quit.

Examples:
  topbar
  topbar dashboard
  topbar dashboard --config ./topbar.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand()
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func dashboardCommand() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrExec,
			"The dashboard needs a terminal",
			"Run topbar from an interactive shell, or use 'topbar test' for one-shot reads")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settings, path, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		path = config.DefaultPath()
		if err := config.Save(settings, path); err != nil {
			return err
		}
		log().Info("wrote default config to %s", path)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	system := probe.NewSystemReader()
	if err := system.Refresh(ctx); err != nil {
		log().Warn("system metric discovery failed: %v", err)
	}

	caps := monitor.Capabilities{
		HasBed:     true,
		HasChamber: true,
		ToolCount:  settings.NoTools,
	}
	controller := monitor.NewController(settings, caps, nil, log())

	samples := make(chan monitor.SampleEvent, 64)
	frames := make(chan monitor.TempFrame, 8)
	sink := func(ev monitor.SampleEvent) {
		select {
		case samples <- ev:
		default:
			log().Warn("sample queue full, dropping sample for %s", ev.Key)
		}
	}

	watcher := probe.NewGcodeWatcher(sink, log())
	defer watcher.Close()
	scheduler := probe.NewScheduler(system, watcher, sink, log())
	defer scheduler.Stop()
	scheduler.Apply(ctx, settings)

	model := ui.NewModel(controller, samples, frames, log())
	program := tea.NewProgram(model)
	if _, err := program.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Dashboard crashed", "")
	}
	return nil
}

// loadSettings loads the config and handles the first-run seeding: when the
// document is fresh, a working CPU temperature command is discovered and the
// starter monitors are filled in.
func loadSettings(ctx context.Context) (*config.Settings, string, error) {
	settings, path, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, "", err
	}

	if settings.FirstRun {
		cpuCmd := ""
		if found := probe.DiscoverCPUTemp(ctx, log()); len(found) > 0 {
			cpuCmd = found[0].Command
			log().Info("using %q for the CPU temperature monitor", found[0].Name)
		}
		config.SeedFirstRun(settings, cpuCmd)
		if path != "" {
			if err := config.Save(settings, path); err != nil {
				return nil, "", err
			}
		}
	}

	return settings, path, nil
}

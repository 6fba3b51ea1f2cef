package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/probe"
	"github.com/printwatch/topbar/internal/ui"
)

var testType string

var testCmd = &cobra.Command{
	Use:   "test <command>",
	Short: "Try a monitor command without saving it",
	Long: `Run a monitor command once and show what the dashboard would see.

The command type decides how the argument is interpreted:
  cmd     run it through the shell, stdout must be a number
  psutil  read the named system metric (see 'topbar metrics')
  gcIn    validate a printer-response regular expression
  gcOut   validate a sent-gcode regular expression

Examples:
  topbar test "vcgencmd measure_temp | cut -d '=' -f2 | cut -d \"'\" -f1"
  topbar test --type psutil memp
  topbar test --type gcOut '^M106.*?S([^ ]+)'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return testCommand(args[0])
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().StringVar(&testType, "type", "cmd", "Command type (cmd, psutil, gcIn, gcOut)")
}

func testCommand(command string) error {
	cmdType := config.CommandType(testType)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	system := probe.NewSystemReader()
	if cmdType == config.CommandSystem {
		if err := system.Refresh(ctx); err != nil {
			log().Warn("system metric discovery failed: %v", err)
		}
	}

	res, err := probe.TestCommand(ctx, command, cmdType, system)
	if err != nil {
		return err
	}

	printTestResult(command, res)
	return nil
}

func printTestResult(command string, res probe.Result) {
	var b strings.Builder
	if res.Success {
		ok := lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render("OK")
		fmt.Fprintf(&b, "%s  %s\n", ok, command)
		fmt.Fprintf(&b, "value: %g\n", res.Value)
	} else {
		failed := lipgloss.NewStyle().Foreground(ui.ColorError).Render("FAILED")
		fmt.Fprintf(&b, "%s  %s\n", failed, command)
		if res.Error != "" {
			fmt.Fprintf(&b, "error: %s\n", res.Error)
		}
	}
	if res.Raw != "" && res.Raw != fmt.Sprintf("%g", res.Value) {
		fmt.Fprintf(&b, "output: %s\n", res.Raw)
	}
	if res.ReturnCode != 0 {
		fmt.Fprintf(&b, "code: %d\n", res.ReturnCode)
	}
	fmt.Print(b.String())
}

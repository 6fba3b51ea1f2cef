package probe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/errors"
)

// Result is the outcome of one sample attempt, shaped for both the live
// sample feed and the settings dialog's command test button.
type Result struct {
	Success    bool
	Value      float64
	Raw        string
	Error      string
	ReturnCode int
}

// ParseNumeric parses trimmed command output as a float. Non-numeric output
// is rejected rather than coerced, so a failing command that prints an error
// message never turns into a bogus reading.
func ParseNumeric(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// RunShell executes a command through the shell and parses its stdout as a
// numeric sample. The shell interprets the command, so pipes and redirects
// work the same way they do in a terminal.
func RunShell(ctx context.Context, cmd string) Result {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	command := exec.CommandContext(ctx, shell, "-c", cmd)
	var stdout, stderr strings.Builder
	command.Stdout = &stdout
	command.Stderr = &stderr

	runErr := command.Run()
	out := strings.TrimSpace(stdout.String())

	if runErr != nil {
		code := -1
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = runErr.Error()
		}
		return Result{Raw: out, Error: msg, ReturnCode: code}
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return Result{Raw: out, Error: msg}
	}

	v, ok := ParseNumeric(out)
	if !ok {
		return Result{Raw: out, Error: fmt.Sprintf("output %q is not a numeric value", out)}
	}
	return Result{Success: true, Value: v, Raw: out}
}

// TestCommand runs a one-off check of a sampling definition for the settings
// dialog. Shell commands get a path lookup first so a typoed binary name
// produces a clear message instead of a shell error.
func TestCommand(ctx context.Context, cmd string, cmdType config.CommandType, system *SystemReader) (Result, error) {
	switch cmdType {
	case config.CommandSystem:
		v, err := system.Read(ctx, cmd)
		if err != nil {
			return Result{Error: err.Error(), ReturnCode: 404}, nil
		}
		return Result{Success: true, Value: v, ReturnCode: 200}, nil

	case config.CommandShell:
		binary := cmd
		if i := strings.IndexByte(cmd, ' '); i > 0 {
			binary = cmd[:i]
		}
		if _, statErr := os.Stat(binary); statErr != nil {
			if _, lookErr := exec.LookPath(binary); lookErr != nil {
				return Result{
					Error:      fmt.Sprintf("path/command %q not found", binary),
					ReturnCode: 1,
				}, nil
			}
		}
		return RunShell(ctx, cmd), nil

	case config.CommandGcodeIn, config.CommandGcodeOut:
		// Gcode patterns are validated by compiling, not by running.
		if err := ValidatePattern(cmd); err != nil {
			return Result{Error: err.Error(), ReturnCode: 1}, nil
		}
		return Result{Success: true}, nil
	}

	return Result{}, errors.New(errors.ErrProbe,
		fmt.Sprintf("Unknown command type %q", cmdType),
		"Use cmd, gcIn, gcOut or psutil.")
}

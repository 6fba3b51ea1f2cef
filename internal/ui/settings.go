package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/printwatch/topbar/internal/calc"
	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/errors"
	"github.com/printwatch/topbar/internal/monitor"
	"github.com/printwatch/topbar/internal/probe"
)

// customForm holds the string-typed working values the form inputs bind to
// for one custom monitor. Parsing back into the config types happens in
// apply, after validation.
type customForm struct {
	name          string
	command       string
	commandType   string
	interval      string
	label         string
	unit          string
	postCalc      string
	isTemperature bool
	waitForPrint  bool
	show          bool
	showUnit      bool
}

func newCustomForm(cm config.CustomMonitor) *customForm {
	return &customForm{
		name:          cm.Name,
		command:       cm.Command,
		commandType:   string(cm.CommandType),
		interval:      strconv.Itoa(cm.Interval),
		label:         cm.Label,
		unit:          cm.Unit,
		postCalc:      cm.PostCalc,
		isTemperature: cm.IsTemperature,
		waitForPrint:  cm.WaitForPrint,
		show:          cm.Show,
		showUnit:      cm.ShowUnit,
	}
}

// apply validates the form values and writes them back onto the monitor.
func (f *customForm) apply(cm *config.CustomMonitor) error {
	interval, err := strconv.Atoi(strings.TrimSpace(f.interval))
	if err != nil || interval < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval %q is not a positive number of seconds", f.interval),
			"Use a whole number of seconds, like 25.")
	}
	cmdType := config.CommandType(f.commandType)
	if !cmdType.Valid() {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown command type %q", f.commandType), "")
	}
	if f.postCalc != "" {
		if _, err := calc.Compile(f.postCalc); err != nil {
			return err
		}
	}

	cm.Name = f.name
	cm.Command = f.command
	cm.CommandType = cmdType
	cm.Interval = interval
	cm.Label = f.label
	cm.Unit = f.unit
	cm.PostCalc = f.postCalc
	cm.IsTemperature = f.isTemperature
	cm.WaitForPrint = f.waitForPrint
	cm.Show = f.show
	cm.ShowUnit = f.showUnit
	return nil
}

// buildForm lays out the edit dialog for one custom monitor.
func (f *customForm) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.name),
			huh.NewSelect[string]().
				Title("Source").
				Options(
					huh.NewOption("Shell command", string(config.CommandShell)),
					huh.NewOption("System metric", string(config.CommandSystem)),
					huh.NewOption("Gcode received", string(config.CommandGcodeIn)),
					huh.NewOption("Gcode sent", string(config.CommandGcodeOut)),
				).
				Value(&f.commandType),
			huh.NewInput().
				Title("Command / metric id / pattern").
				Value(&f.command),
			huh.NewInput().
				Title("Interval (seconds)").
				Validate(validateInterval).
				Value(&f.interval),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Label").
				Value(&f.label),
			huh.NewConfirm().
				Title("Temperature reading?").
				Value(&f.isTemperature),
			huh.NewInput().
				Title("Unit suffix").
				Value(&f.unit),
			huh.NewInput().
				Title("Transform (expression in x)").
				Validate(validatePostCalc).
				Value(&f.postCalc),
			huh.NewConfirm().
				Title("Show on the bar?").
				Value(&f.show),
			huh.NewConfirm().
				Title("Show unit?").
				Value(&f.showUnit),
			huh.NewConfirm().
				Title("Only while printing?").
				Value(&f.waitForPrint),
		),
	)
}

func validateInterval(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("enter a positive number of seconds")
	}
	return nil
}

func validatePostCalc(s string) error {
	if s == "" {
		return nil
	}
	if _, err := calc.Compile(s); err != nil {
		return fmt.Errorf("not a valid expression in x")
	}
	return nil
}

// monitorOptions lists the session's custom monitors for the picker, in
// numeric id order.
func monitorOptions(session *monitor.Session) []huh.Option[string] {
	keys := make([]string, 0, len(session.Settings().Custom))
	for key := range session.Settings().Custom {
		keys = append(keys, key)
	}
	sorted := monitor.KnownIDs(monitor.Capabilities{}, keys)

	options := make([]huh.Option[string], 0, len(sorted))
	for _, key := range sorted {
		cm := session.Settings().Custom[key]
		title := cm.Name
		if cm.MarkedForDeletion {
			title += " (deleting)"
		}
		options = append(options, huh.NewOption(fmt.Sprintf("%s  %s", key, title), key))
	}
	return options
}

// dialog actions offered by the top-level settings menu.
const (
	actionEdit    = "edit"
	actionAdd     = "add"
	actionDelete  = "delete"
	actionTest    = "test"
	actionSave    = "save"
	actionDiscard = "discard"
)

// RunSettings drives the interactive settings dialog over an edit session.
// Returns whether the user chose to save. The caller commits or rolls back
// through the controller so buffers are reconciled in one place.
func RunSettings(session *monitor.Session, tester func(cmd string, cmdType config.CommandType) probe.Result) (bool, error) {
	for {
		action := actionSave
		menu := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Top bar settings").
				Options(
					huh.NewOption("Edit a monitor", actionEdit),
					huh.NewOption("Add a monitor", actionAdd),
					huh.NewOption("Delete a monitor", actionDelete),
					huh.NewOption("Test a command", actionTest),
					huh.NewOption("Save and close", actionSave),
					huh.NewOption("Discard changes", actionDiscard),
				).
				Value(&action),
		))
		if err := menu.Run(); err != nil {
			return false, nil
		}

		switch action {
		case actionSave:
			return true, nil
		case actionDiscard:
			return false, nil
		case actionAdd:
			id, err := session.CreateDraft(config.CustomTemplate())
			if err != nil {
				return false, err
			}
			if err := editMonitor(session, id.Custom); err != nil {
				return false, err
			}
		case actionEdit:
			key, ok := pickMonitor(session, "Edit which monitor?")
			if !ok {
				continue
			}
			if err := editMonitor(session, key); err != nil {
				return false, err
			}
		case actionDelete:
			key, ok := pickMonitor(session, "Delete which monitor?")
			if !ok {
				continue
			}
			if err := toggleDeletion(session, key); err != nil {
				return false, err
			}
		case actionTest:
			if err := testCommand(session, tester); err != nil {
				return false, err
			}
		}
	}
}

func pickMonitor(session *monitor.Session, title string) (string, bool) {
	options := monitorOptions(session)
	if len(options) == 0 {
		return "", false
	}
	var key string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title(title).Options(options...).Value(&key),
	))
	if err := form.Run(); err != nil || key == "" {
		return "", false
	}
	return key, true
}

func editMonitor(session *monitor.Session, key string) error {
	cm, ok := session.Settings().Custom[key]
	if !ok {
		return errors.New(errors.ErrMonitor,
			fmt.Sprintf("Unknown custom monitor %s", key), "")
	}

	form := newCustomForm(cm)
	if err := form.buildForm().Run(); err != nil {
		// Cancelled; the draft (if any) stays and dies with a discard.
		return nil
	}
	if err := form.apply(&cm); err != nil {
		return err
	}
	session.Settings().Custom[key] = cm
	return nil
}

// toggleDeletion flips the deletion mark, so picking a monitor twice undoes
// the first pick.
func toggleDeletion(session *monitor.Session, key string) error {
	id := monitor.CustomID(key)
	if session.Settings().Custom[key].MarkedForDeletion {
		return session.UnmarkForDeletion(id)
	}
	return session.MarkForDeletion(id)
}

func testCommand(session *monitor.Session, tester func(cmd string, cmdType config.CommandType) probe.Result) error {
	key, ok := pickMonitor(session, "Test which monitor?")
	if !ok {
		return nil
	}
	cm := session.Settings().Custom[key]
	result := tester(cm.Command, cm.CommandType)

	summary := fmt.Sprintf("%s returned %.2f", cm.Command, result.Value)
	if !result.Success {
		summary = fmt.Sprintf("%s failed: %s (exit %d)", cm.Command, result.Error, result.ReturnCode)
	}

	done := true
	note := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(summary).Affirmative("OK").Negative("").Value(&done),
	))
	_ = note.Run()
	return nil
}

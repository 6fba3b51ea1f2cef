package config

import (
	"fmt"
	"strings"

	"github.com/printwatch/topbar/internal/calc"
	"github.com/printwatch/topbar/internal/errors"
)

// Validate checks a settings document for values that would break rendering
// or sampling. Returns the first problem found.
func (s *Settings) Validate() error {
	if s.NoTools < 0 {
		return errors.New(errors.ErrConfig,
			"no_tools cannot be negative", "")
	}

	for id, m := range s.Monitors {
		if err := validateMonitor(id, m); err != nil {
			return err
		}
	}

	for id, cm := range s.Custom {
		if !strings.HasPrefix(id, "cu") {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Custom monitor id %q lacks the cu prefix", id),
				"Custom monitor keys must look like cu0, cu1, ...")
		}
		if err := validateMonitor(id, cm.MonitorConfig); err != nil {
			return err
		}
		if !cm.CommandType.Valid() {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Custom monitor %q has unknown command type %q", id, cm.CommandType),
				"Use cmd, gcIn, gcOut, or psutil")
		}
		if cm.Interval <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Custom monitor %q has non-positive interval", id), "")
		}
		if cm.PostCalc != "" {
			if _, err := calc.Compile(cm.PostCalc); err != nil {
				return errors.WrapWithCode(err, errors.ErrConfig,
					fmt.Sprintf("Custom monitor %q has an invalid post-calc expression", id),
					"Only numbers, x, + - * / and parentheses are allowed")
			}
		}
	}

	return nil
}

func validateMonitor(id string, m MonitorConfig) error {
	if m.DecimalDigits < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Monitor %q has negative decimal_digits", id), "")
	}
	if m.Width < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Monitor %q has negative width", id), "")
	}
	if m.Graph.Opacity < 0 || m.Graph.Opacity > 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Monitor %q graph opacity must be within 0..1", id), "")
	}
	return nil
}

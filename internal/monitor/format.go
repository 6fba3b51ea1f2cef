package monitor

import (
	"strconv"
	"strings"

	"github.com/printwatch/topbar/internal/calc"
	"github.com/printwatch/topbar/internal/config"
)

// TargetState classifies an actual reading against its target temperature.
type TargetState int

const (
	TargetBelow TargetState = iota
	TargetOn
	TargetAbove
)

// targetMargin is the half-width of the "on target" band.
const targetMargin = 0.5

// ClassifyTarget compares an actual reading to its target: readings within
// ±0.5 of the target count as on target. Callers pick the up/down/checkered
// indicator from the result and may suppress the numeric target display.
func ClassifyTarget(actual, target float64) TargetState {
	switch {
	case actual < target-targetMargin:
		return TargetBelow
	case actual > target+targetMargin:
		return TargetAbove
	}
	return TargetOn
}

// CelsiusToFahrenheit converts a Celsius reading.
func CelsiusToFahrenheit(c float64) float64 {
	return c*1.8 + 32
}

// FormatSpec carries the subset of a monitor's configuration the formatter
// needs, unified across built-in and custom monitors.
type FormatSpec struct {
	IsTemperature    bool
	PostCalc         string
	Unit             string
	ShowUnit         bool
	DecimalDigits    int
	DecimalSeparator string
}

// SpecForBuiltIn builds a FormatSpec for a built-in temperature monitor.
func SpecForBuiltIn(m config.MonitorConfig) FormatSpec {
	return FormatSpec{
		IsTemperature:    true,
		ShowUnit:         m.ShowUnit,
		DecimalDigits:    m.DecimalDigits,
		DecimalSeparator: m.DecimalSeparator,
	}
}

// SpecForCustom builds a FormatSpec for a custom monitor.
func SpecForCustom(cm config.CustomMonitor) FormatSpec {
	return FormatSpec{
		IsTemperature:    cm.IsTemperature,
		PostCalc:         cm.PostCalc,
		Unit:             cm.Unit,
		ShowUnit:         cm.ShowUnit,
		DecimalDigits:    cm.DecimalDigits,
		DecimalSeparator: cm.DecimalSeparator,
	}
}

// Format renders a raw reading into its display string.
//
// Temperature monitors convert to Fahrenheit when the global preference asks
// for it and suffix °C/°F when ShowUnit is set. Non-temperature monitors
// apply the post-calc transform first and suffix the configured unit
// verbatim. The number is rounded to DecimalDigits and the decimal point is
// rendered as DecimalSeparator.
//
// On a post-calc evaluation failure the raw unformatted value is returned
// together with the error, so the render loop can degrade instead of crash.
func Format(value float64, spec FormatSpec, fahrenheit bool) (string, error) {
	if !spec.IsTemperature {
		v := value
		if spec.PostCalc != "" {
			transformed, err := calc.Run(spec.PostCalc, v)
			if err != nil {
				return strconv.FormatFloat(value, 'g', -1, 64), err
			}
			v = transformed
		}
		out := formatNumber(v, spec.DecimalDigits, spec.DecimalSeparator)
		if spec.Unit != "" {
			out += spec.Unit
		}
		return out, nil
	}

	symbol := "C"
	v := value
	if fahrenheit {
		v = CelsiusToFahrenheit(v)
		symbol = "F"
	}
	out := formatNumber(v, spec.DecimalDigits, spec.DecimalSeparator)
	if spec.ShowUnit {
		out += "°" + symbol
	}
	return out, nil
}

// formatNumber rounds to the given number of decimals and applies the
// configured decimal separator.
func formatNumber(v float64, digits int, sep string) string {
	if digits < 0 {
		digits = 0
	}
	out := strconv.FormatFloat(v, 'f', digits, 64)
	if sep != "" && sep != "." {
		out = strings.Replace(out, ".", sep, 1)
	}
	return out
}

package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printwatch/topbar/internal/config"
)

func TestClassifyTarget(t *testing.T) {
	tests := []struct {
		name   string
		actual float64
		target float64
		want   TargetState
	}{
		{name: "well below", actual: 20, target: 60, want: TargetBelow},
		{name: "just outside low edge", actual: 59.4, target: 60, want: TargetBelow},
		{name: "on low edge", actual: 59.5, target: 60, want: TargetOn},
		{name: "exact", actual: 60, target: 60, want: TargetOn},
		{name: "on high edge", actual: 60.5, target: 60, want: TargetOn},
		{name: "just outside high edge", actual: 60.6, target: 60, want: TargetAbove},
		{name: "well above", actual: 80, target: 60, want: TargetAbove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTarget(tt.actual, tt.target))
		})
	}
}

func TestCelsiusToFahrenheit(t *testing.T) {
	assert.Equal(t, 32.0, CelsiusToFahrenheit(0))
	assert.Equal(t, 68.0, CelsiusToFahrenheit(20))
	assert.Equal(t, 212.0, CelsiusToFahrenheit(100))
}

func TestFormat_Temperature(t *testing.T) {
	spec := FormatSpec{
		IsTemperature:    true,
		ShowUnit:         true,
		DecimalDigits:    1,
		DecimalSeparator: ".",
	}

	tests := []struct {
		name       string
		value      float64
		fahrenheit bool
		spec       FormatSpec
		want       string
	}{
		{name: "celsius", value: 20.0, spec: spec, want: "20.0°C"},
		{name: "same reading in fahrenheit", value: 20.0, fahrenheit: true, spec: spec, want: "68.0°F"},
		{
			name:  "unit suppressed",
			value: 20.0,
			spec:  FormatSpec{IsTemperature: true, DecimalDigits: 1, DecimalSeparator: "."},
			want:  "20.0",
		},
		{
			name:  "comma separator",
			value: 61.25,
			spec:  FormatSpec{IsTemperature: true, ShowUnit: true, DecimalDigits: 2, DecimalSeparator: ","},
			want:  "61,25°C",
		},
		{
			name:  "zero digits rounds",
			value: 60.7,
			spec:  FormatSpec{IsTemperature: true, DecimalDigits: 0},
			want:  "61",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.value, tt.spec, tt.fahrenheit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_NonTemperature(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		spec  FormatSpec
		want  string
	}{
		{
			name:  "fan speed scaling",
			value: 255,
			spec:  FormatSpec{PostCalc: "x/255*100", Unit: "%", DecimalDigits: 0},
			want:  "100%",
		},
		{
			name:  "half fan",
			value: 127.5,
			spec:  FormatSpec{PostCalc: "x/255*100", Unit: "%", DecimalDigits: 0},
			want:  "50%",
		},
		{
			name:  "no transform passes through",
			value: 12.5,
			spec:  FormatSpec{Unit: " rpm", DecimalDigits: 1, DecimalSeparator: "."},
			want:  "12.5 rpm",
		},
		{
			name:  "unit is verbatim, never temperature-converted",
			value: 40,
			spec:  FormatSpec{Unit: "GB", DecimalDigits: 0},
			want:  "40GB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.value, tt.spec, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_BadPostCalcDegrades(t *testing.T) {
	spec := FormatSpec{PostCalc: "x/(x-x)", DecimalDigits: 2}

	got, err := Format(128, spec, false)
	require.Error(t, err)
	assert.Equal(t, "128", got, "raw value is returned when the transform fails")
}

func TestSpecForCustom(t *testing.T) {
	cm := config.CustomTemplate()
	cm.IsTemperature = false
	cm.PostCalc = "x*2"
	cm.Unit = "W"
	cm.ShowUnit = true
	cm.DecimalDigits = 3
	cm.DecimalSeparator = "."

	spec := SpecForCustom(cm)
	assert.False(t, spec.IsTemperature)
	assert.Equal(t, "x*2", spec.PostCalc)
	assert.Equal(t, "W", spec.Unit)
	assert.Equal(t, 3, spec.DecimalDigits)
}

func TestSpecForBuiltIn(t *testing.T) {
	m := config.MonitorTemplate()
	m.DecimalDigits = 1

	spec := SpecForBuiltIn(m)
	assert.True(t, spec.IsTemperature)
	assert.Empty(t, spec.PostCalc, "built-in monitors never run a transform")
	assert.Equal(t, 1, spec.DecimalDigits)
}

package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/logger"
	"github.com/printwatch/topbar/internal/monitor"
)

func TestCustomForm_RoundTrip(t *testing.T) {
	cm := config.CustomTemplate()
	cm.Name = "CPU temperature"
	cm.Command = "vcgencmd measure_temp"
	cm.Interval = 30
	cm.Unit = "°C"

	f := newCustomForm(cm)
	assert.Equal(t, "CPU temperature", f.name)
	assert.Equal(t, "30", f.interval)
	assert.Equal(t, string(config.CommandShell), f.commandType)

	out := config.CustomTemplate()
	require.NoError(t, f.apply(&out))
	assert.Equal(t, cm.Name, out.Name)
	assert.Equal(t, cm.Command, out.Command)
	assert.Equal(t, cm.Interval, out.Interval)
	assert.Equal(t, cm.Unit, out.Unit)
}

func TestCustomForm_ApplyRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *customForm)
	}{
		{name: "zero interval", mutate: func(f *customForm) { f.interval = "0" }},
		{name: "non-numeric interval", mutate: func(f *customForm) { f.interval = "fast" }},
		{name: "unknown type", mutate: func(f *customForm) { f.commandType = "http" }},
		{name: "broken transform", mutate: func(f *customForm) { f.postCalc = "x**" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCustomForm(config.CustomTemplate())
			tt.mutate(f)
			cm := config.CustomTemplate()
			assert.Error(t, f.apply(&cm))
		})
	}
}

func TestValidateInterval(t *testing.T) {
	assert.NoError(t, validateInterval("25"))
	assert.NoError(t, validateInterval(" 1 "))
	assert.Error(t, validateInterval("0"))
	assert.Error(t, validateInterval("-3"))
	assert.Error(t, validateInterval("soon"))
}

func TestValidatePostCalc(t *testing.T) {
	assert.NoError(t, validatePostCalc(""))
	assert.NoError(t, validatePostCalc("x/255*100"))
	assert.Error(t, validatePostCalc("import os"))
}

func TestMonitorOptions_SortedAndAnnotated(t *testing.T) {
	s := config.DefaultSettings()
	cu0 := config.CustomTemplate()
	cu0.Name = "First"
	cu10 := config.CustomTemplate()
	cu10.Name = "Last"
	cu2 := config.CustomTemplate()
	cu2.Name = "Middle"
	s.Custom = map[string]config.CustomMonitor{"cu10": cu10, "cu0": cu0, "cu2": cu2}

	store := monitor.NewDraftStore(s, logger.Noop())
	session := store.Begin()
	require.NoError(t, session.MarkForDeletion(monitor.CustomID("cu2")))

	options := monitorOptions(session)
	require.Len(t, options, 3)
	assert.Equal(t, "cu0", options[0].Value)
	assert.Equal(t, "cu2", options[1].Value)
	assert.Equal(t, "cu10", options[2].Value)
	assert.Contains(t, options[1].Key, "(deleting)")
}

func TestToggleDeletion(t *testing.T) {
	s := config.DefaultSettings()
	s.Custom["cu0"] = config.CustomTemplate()

	store := monitor.NewDraftStore(s, logger.Noop())
	session := store.Begin()

	require.NoError(t, toggleDeletion(session, "cu0"))
	assert.True(t, session.Settings().Custom["cu0"].MarkedForDeletion)

	require.NoError(t, toggleDeletion(session, "cu0"))
	assert.False(t, session.Settings().Custom["cu0"].MarkedForDeletion)
}

func TestRenderSegment(t *testing.T) {
	s := config.DefaultSettings()

	state := monitor.TargetBelow
	v := monitor.MonitorView{
		ID:      monitor.MustParseID("bed"),
		Label:   "B: ",
		Text:    "55°C",
		Icon:    "bed",
		Target:  &state,
		Visible: true,
	}

	out := renderSegment(v, s)
	assert.Contains(t, out, "B: ")
	assert.Contains(t, out, "55°C")
	assert.Contains(t, out, TargetUp)
	assert.Contains(t, out, Icon("bed"))
}

func TestIcon_FallsBackToThermometer(t *testing.T) {
	assert.Equal(t, Icon("thermometer"), Icon("nosuchicon"))
	assert.NotEqual(t, Icon("bed"), Icon("fan"))
}

func TestTargetGlyph(t *testing.T) {
	assert.Equal(t, TargetUp, TargetGlyph(monitor.TargetBelow))
	assert.Equal(t, TargetDown, TargetGlyph(monitor.TargetAbove))
	assert.Equal(t, TargetHold, TargetGlyph(monitor.TargetOn))
}

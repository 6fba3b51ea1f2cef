package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/monitor"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	settings := config.DefaultSettings()
	config.SeedFirstRun(settings, "echo 48.3")
	controller := monitor.NewController(settings, monitor.Capabilities{}, nil, nil)
	samples := make(chan monitor.SampleEvent, 1)
	frames := make(chan monitor.TempFrame, 1)
	return NewModel(controller, samples, frames, nil)
}

func feedSample(m Model, key string, value float64) Model {
	ev := monitor.SampleEvent{Key: key, Success: true, Value: value, When: time.Now()}
	next, _ := m.Update(sampleMsg(ev))
	return next.(Model)
}

func press(m Model, key string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(Model)
}

func TestModel_WaitsForFirstSample(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "waiting for samples")

	m = feedSample(m, "cu0", 48.3)
	view := m.View()
	assert.NotContains(t, view, "waiting for samples")
	assert.Contains(t, view, "48")
}

func TestModel_PauseKeyTogglesBanner(t *testing.T) {
	m := feedSample(newTestModel(t), "cu0", 48.3)

	m = press(m, "p")
	assert.Contains(t, m.View(), "paused")
	assert.True(t, m.controller.Paused())

	m = press(m, "p")
	assert.NotContains(t, m.View(), "paused")
}

func TestModel_DetailViewShowsWindowStats(t *testing.T) {
	m := newTestModel(t)
	for _, v := range []float64{44, 46, 48} {
		m = feedSample(m, "cu0", v)
	}

	m = press(m, "d")
	view := m.View()
	assert.Contains(t, view, "cur 48.0")
	assert.Contains(t, view, "min 44.0")
	assert.Contains(t, view, "max 48.0")
	assert.Contains(t, view, "n=3")

	m = press(m, "d")
	assert.NotContains(t, m.View(), "cur 48.0")
}

func TestModel_QuitClearsView(t *testing.T) {
	m := feedSample(newTestModel(t), "cu0", 48.3)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Empty(t, next.(Model).View())
}

func TestModel_HelpLineListsKeys(t *testing.T) {
	m := feedSample(newTestModel(t), "cu0", 48.3)
	help := m.View()
	for _, key := range []string{"[p]ause", "[d]etail", "[q]uit"} {
		assert.True(t, strings.Contains(help, key), "help should mention %s", key)
	}
}

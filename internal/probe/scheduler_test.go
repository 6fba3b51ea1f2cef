package probe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/logger"
)

func settingsWithCustom(customs map[string]config.CustomMonitor) *config.Settings {
	s := config.DefaultSettings()
	s.Custom = customs
	return s
}

func shellMonitor(cmd string, interval int) config.CustomMonitor {
	cm := config.CustomTemplate()
	cm.Command = cmd
	cm.CommandType = config.CommandShell
	cm.Interval = interval
	return cm
}

func TestScheduler_RunsShellProbeImmediately(t *testing.T) {
	sink := &eventSink{}
	s := NewScheduler(NewSystemReader(), nil, sink.put, logger.Noop())
	defer s.Stop()

	s.Apply(context.Background(), settingsWithCustom(map[string]config.CustomMonitor{
		"cu0": shellMonitor("echo 48.3", 60),
	}))

	events := sink.waitFor(t, 1)
	assert.Equal(t, "cu0", events[0].Key)
	assert.True(t, events[0].Success)
	assert.Equal(t, 48.3, events[0].Value)
}

func TestScheduler_FailingCommandReportsFailure(t *testing.T) {
	sink := &eventSink{}
	s := NewScheduler(NewSystemReader(), nil, sink.put, logger.Noop())
	defer s.Stop()

	s.Apply(context.Background(), settingsWithCustom(map[string]config.CustomMonitor{
		"cu0": shellMonitor("exit 2", 60),
	}))

	events := sink.waitFor(t, 1)
	assert.False(t, events[0].Success)
}

func TestScheduler_UnchangedMonitorKeepsItsLoop(t *testing.T) {
	sink := &eventSink{}
	s := NewScheduler(NewSystemReader(), nil, sink.put, logger.Noop())
	defer s.Stop()

	doc := settingsWithCustom(map[string]config.CustomMonitor{
		"cu0": shellMonitor("echo 1", 60),
	})
	s.Apply(context.Background(), doc)
	sink.waitFor(t, 1)

	// Re-applying an identical document must not rerun the first sample.
	s.Apply(context.Background(), doc)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, sink.all(), 1)
}

func TestScheduler_ChangedCommandRestartsLoop(t *testing.T) {
	sink := &eventSink{}
	s := NewScheduler(NewSystemReader(), nil, sink.put, logger.Noop())
	defer s.Stop()

	s.Apply(context.Background(), settingsWithCustom(map[string]config.CustomMonitor{
		"cu0": shellMonitor("echo 1", 60),
	}))
	sink.waitFor(t, 1)

	s.Apply(context.Background(), settingsWithCustom(map[string]config.CustomMonitor{
		"cu0": shellMonitor("echo 2", 60),
	}))

	events := sink.waitFor(t, 2)
	assert.Equal(t, 2.0, events[1].Value, "restarted loop samples the new command at once")
}

func TestScheduler_RemovedMonitorStops(t *testing.T) {
	sink := &eventSink{}
	s := NewScheduler(NewSystemReader(), nil, sink.put, logger.Noop())
	defer s.Stop()

	s.Apply(context.Background(), settingsWithCustom(map[string]config.CustomMonitor{
		"cu0": shellMonitor("echo 1", 1),
	}))
	sink.waitFor(t, 1)

	s.Apply(context.Background(), settingsWithCustom(map[string]config.CustomMonitor{}))
	assert.Empty(t, s.jobs)
}

func TestScheduler_EmptyCommandNeverStarts(t *testing.T) {
	sink := &eventSink{}
	s := NewScheduler(NewSystemReader(), nil, sink.put, logger.Noop())
	defer s.Stop()

	s.Apply(context.Background(), settingsWithCustom(map[string]config.CustomMonitor{
		"cu0": shellMonitor("", 60),
	}))
	assert.Empty(t, s.jobs)
}

func TestScheduler_RoutesGcodeToWatcher(t *testing.T) {
	sink := &eventSink{}
	w := NewGcodeWatcher(sink.put, logger.Noop())
	defer w.Close()
	s := NewScheduler(NewSystemReader(), w, sink.put, logger.Noop())
	defer s.Stop()

	gc := config.CustomTemplate()
	gc.Command = `^M106.*?S([^ ]+)`
	gc.CommandType = config.CommandGcodeOut

	s.Apply(context.Background(), settingsWithCustom(map[string]config.CustomMonitor{
		"cu1": gc,
	}))

	require.True(t, w.NeedsSent())
	assert.Empty(t, s.jobs, "gcode monitors are not timed loops")

	// Repointing the monitor at a shell command unhooks the pattern.
	s.Apply(context.Background(), settingsWithCustom(map[string]config.CustomMonitor{
		"cu1": shellMonitor("echo 1", 60),
	}))
	assert.False(t, w.NeedsSent())
}

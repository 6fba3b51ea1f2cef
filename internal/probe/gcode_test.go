package probe

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/logger"
	"github.com/printwatch/topbar/internal/monitor"
)

// eventSink collects samples delivered from the watcher's worker goroutine.
type eventSink struct {
	mu     sync.Mutex
	events []monitor.SampleEvent
}

func (s *eventSink) put(ev monitor.SampleEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *eventSink) all() []monitor.SampleEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]monitor.SampleEvent(nil), s.events...)
}

func (s *eventSink) waitFor(t *testing.T, n int) []monitor.SampleEvent {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(s.all()) >= n
	}, 2*time.Second, 5*time.Millisecond)
	return s.all()
}

func newTestWatcher(t *testing.T) (*GcodeWatcher, *eventSink) {
	t.Helper()
	sink := &eventSink{}
	w := NewGcodeWatcher(sink.put, logger.Noop())
	t.Cleanup(w.Close)
	return w, sink
}

func TestGcodePresets_AllCompile(t *testing.T) {
	for dir, presets := range GcodePresets() {
		for name, pattern := range presets {
			assert.NoError(t, ValidatePattern(pattern), "%s preset %q", dir, name)
		}
	}
}

func TestValidatePattern(t *testing.T) {
	assert.NoError(t, ValidatePattern(`^M220 S([^ ]+)`))
	assert.Error(t, ValidatePattern(`^M220 S(`), "broken syntax")
	assert.Error(t, ValidatePattern(`^M220`), "no capture group")
}

func TestGcodeWatcher_MatchesSentFanSpeed(t *testing.T) {
	w, sink := newTestWatcher(t)
	require.NoError(t, w.Watch("cu1", config.CommandGcodeOut, `^M106.*?S([^ ]+)`))

	w.OnSent("M106 S255", "M106")

	events := sink.waitFor(t, 1)
	assert.Equal(t, "cu1", events[0].Key)
	assert.True(t, events[0].Success)
	assert.Equal(t, 255.0, events[0].Value)
}

func TestGcodeWatcher_M107BecomesFanOff(t *testing.T) {
	w, sink := newTestWatcher(t)
	require.NoError(t, w.Watch("cu1", config.CommandGcodeOut, `^M106.*?S([^ ]+)`))

	w.OnSent("M107", "M107")

	events := sink.waitFor(t, 1)
	assert.Equal(t, 0.0, events[0].Value, "fan off reads as zero speed")
}

func TestGcodeWatcher_ReceivedDirection(t *testing.T) {
	w, sink := newTestWatcher(t)
	require.NoError(t, w.Watch("cu2", config.CommandGcodeIn, `(?:T|T0):.*? A:([^ ]+)`))

	w.OnReceived("T:210.1 /210.0 A:24.5 B:60.0")

	events := sink.waitFor(t, 1)
	assert.Equal(t, "cu2", events[0].Key)
	assert.Equal(t, 24.5, events[0].Value)
}

func TestGcodeWatcher_NonNumericCaptureDropped(t *testing.T) {
	w, sink := newTestWatcher(t)
	require.NoError(t, w.Watch("cu1", config.CommandGcodeOut, `^M106.*?S([^ ]+)`))

	w.OnSent("M106 Sfull", "M106")
	w.OnSent("M106 S128", "M106")

	events := sink.waitFor(t, 1)
	require.Len(t, events, 1, "the non-numeric capture never becomes a sample")
	assert.Equal(t, 128.0, events[0].Value)
}

func TestGcodeWatcher_SwitchingDirectionDropsOldSide(t *testing.T) {
	w, _ := newTestWatcher(t)
	require.NoError(t, w.Watch("cu1", config.CommandGcodeOut, `^M106.*?S([^ ]+)`))
	require.True(t, w.NeedsSent())

	require.NoError(t, w.Watch("cu1", config.CommandGcodeIn, `A:([^ ]+)`))
	assert.False(t, w.NeedsSent())
	assert.True(t, w.NeedsReceived())
}

func TestGcodeWatcher_Forget(t *testing.T) {
	w, _ := newTestWatcher(t)
	require.NoError(t, w.Watch("cu1", config.CommandGcodeOut, `^M106.*?S([^ ]+)`))

	w.Forget("cu1")
	assert.False(t, w.NeedsSent())
	assert.False(t, w.NeedsReceived())
}

func TestGcodeWatcher_RejectsBadInput(t *testing.T) {
	w, _ := newTestWatcher(t)
	assert.Error(t, w.Watch("cu1", config.CommandShell, `x`), "not a gcode direction")
	assert.Error(t, w.Watch("cu1", config.CommandGcodeIn, `(`), "broken pattern")
}

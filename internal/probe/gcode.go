package probe

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/errors"
	"github.com/printwatch/topbar/internal/logger"
	"github.com/printwatch/topbar/internal/monitor"
)

// GcodePresets lists the ready-made patterns offered by the settings dialog,
// grouped by traffic direction. Every pattern captures the sampled value in
// its first group.
func GcodePresets() map[config.CommandType]map[string]string {
	return map[config.CommandType]map[string]string{
		config.CommandGcodeIn: {
			"Probe temp":   `(?:T|T0):.*? P:([^ ]+)`,
			"Ambient temp": `(?:T|T0):.*? A:([^ ]+)`,
		},
		config.CommandGcodeOut: {
			"Cooling fan speed": `^M106.*?S([^ ]+)`,
			"Feedrate %":        `^M220 S([^ ]+)`,
			"% Completed":       `^M73.*?P(\d+)`,
		},
	}
}

// ValidatePattern compiles a gcode match pattern and checks it captures a
// value.
func ValidatePattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrProbe,
			fmt.Sprintf("Pattern %q doesn't compile", pattern),
			"Check the regular expression syntax.")
	}
	if re.NumSubexp() < 1 {
		return errors.New(errors.ErrProbe,
			fmt.Sprintf("Pattern %q has no capture group", pattern),
			"Wrap the value to extract in parentheses, like S([^ ]+).")
	}
	return nil
}

type gcodeItem struct {
	dir  config.CommandType
	line string
	when time.Time
}

// GcodeWatcher matches printer traffic against the configured monitor
// patterns and emits a sample for every capture. Matching runs on a single
// worker goroutine fed by a queue, so the comm hot path only pays for an
// enqueue, and only when at least one monitor watches that direction.
type GcodeWatcher struct {
	mu       sync.Mutex
	patterns map[config.CommandType]map[string]*regexp.Regexp

	queue chan gcodeItem
	stop  chan struct{}
	done  chan struct{}

	sink func(monitor.SampleEvent)
	log  logger.Logger
}

// NewGcodeWatcher creates a watcher delivering samples to sink.
func NewGcodeWatcher(sink func(monitor.SampleEvent), log logger.Logger) *GcodeWatcher {
	if log == nil {
		log = logger.Noop()
	}
	w := &GcodeWatcher{
		patterns: map[config.CommandType]map[string]*regexp.Regexp{
			config.CommandGcodeIn:  {},
			config.CommandGcodeOut: {},
		},
		queue: make(chan gcodeItem, 256),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
		sink:  sink,
		log:   log,
	}
	go w.worker()
	return w
}

// Watch registers (or replaces) the pattern for a monitor key. A key watches
// exactly one direction: switching direction drops the old registration.
func (w *GcodeWatcher) Watch(key string, dir config.CommandType, pattern string) error {
	if dir != config.CommandGcodeIn && dir != config.CommandGcodeOut {
		return errors.New(errors.ErrProbe,
			fmt.Sprintf("%q is not a gcode direction", dir), "")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrProbe,
			fmt.Sprintf("Pattern %q doesn't compile", pattern),
			"Check the regular expression syntax.")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.patterns[config.CommandGcodeIn], key)
	delete(w.patterns[config.CommandGcodeOut], key)
	w.patterns[dir][key] = re
	w.log.Debug("watching %s gcode for %s: %s", dir, key, pattern)
	return nil
}

// Forget removes a monitor key from both directions.
func (w *GcodeWatcher) Forget(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.patterns[config.CommandGcodeIn], key)
	delete(w.patterns[config.CommandGcodeOut], key)
}

// NeedsReceived reports whether any monitor watches incoming lines.
func (w *GcodeWatcher) NeedsReceived() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.patterns[config.CommandGcodeIn]) > 0
}

// NeedsSent reports whether any monitor watches outgoing commands.
func (w *GcodeWatcher) NeedsSent() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.patterns[config.CommandGcodeOut]) > 0
}

// OnReceived feeds one line received from the printer.
func (w *GcodeWatcher) OnReceived(line string) {
	if !w.NeedsReceived() {
		return
	}
	w.enqueue(gcodeItem{dir: config.CommandGcodeIn, line: line, when: time.Now()})
}

// OnSent feeds one command sent to the printer. gcode is the parsed command
// word (e.g. "M106"). M107 turns the fan off without an S parameter, so it
// is rewritten to the equivalent M106 S0 to keep fan monitors in sync.
func (w *GcodeWatcher) OnSent(cmd, gcode string) {
	if !w.NeedsSent() {
		return
	}
	data := cmd
	if gcode == "M107" {
		data = "M106 S0"
	}
	w.enqueue(gcodeItem{dir: config.CommandGcodeOut, line: data, when: time.Now()})
}

func (w *GcodeWatcher) enqueue(item gcodeItem) {
	select {
	case w.queue <- item:
	default:
		w.log.Warn("gcode match queue full, dropping %s line", item.dir)
	}
}

// Close stops the worker. Pending queue entries are discarded.
func (w *GcodeWatcher) Close() {
	close(w.stop)
	<-w.done
}

func (w *GcodeWatcher) worker() {
	defer close(w.done)
	for {
		select {
		case <-w.stop:
			return
		case item := <-w.queue:
			w.match(item)
		}
	}
}

func (w *GcodeWatcher) match(item gcodeItem) {
	w.mu.Lock()
	regs := make(map[string]*regexp.Regexp, len(w.patterns[item.dir]))
	for key, re := range w.patterns[item.dir] {
		regs[key] = re
	}
	w.mu.Unlock()

	line := strings.TrimSpace(item.line)
	for key, re := range regs {
		m := re.FindStringSubmatch(line)
		if m == nil || len(m) < 2 {
			continue
		}
		value, ok := ParseNumeric(m[1])
		if !ok {
			w.log.Debug("gcode match for %s captured non-numeric %q", key, m[1])
			continue
		}
		w.sink(monitor.SampleEvent{
			Key:     key,
			Success: true,
			When:    item.when,
			Value:   value,
		})
	}
}

package probe

import (
	"context"
	"time"

	"github.com/printwatch/topbar/internal/config"
	"github.com/printwatch/topbar/internal/logger"
	"github.com/printwatch/topbar/internal/monitor"
)

type job struct {
	cancel   context.CancelFunc
	command  string
	cmdType  config.CommandType
	interval int
}

func (j *job) matches(cm config.CustomMonitor) bool {
	return j.command == cm.Command && j.cmdType == cm.CommandType && j.interval == cm.Interval
}

// Scheduler runs the timed probes: one sampling loop per shell or system
// monitor, each on its own interval. Gcode monitors are event driven and
// handled by the GcodeWatcher instead.
//
// Apply reconciles the running loops against a settings document: unchanged
// monitors keep their loop (and its phase), while a changed command, type or
// interval restarts the loop from scratch.
type Scheduler struct {
	system  *SystemReader
	watcher *GcodeWatcher
	sink    func(monitor.SampleEvent)
	log     logger.Logger

	jobs map[string]*job
}

// NewScheduler creates a scheduler delivering samples to sink. The watcher
// may be nil when no gcode feed exists (e.g. in the standalone CLI).
func NewScheduler(system *SystemReader, watcher *GcodeWatcher, sink func(monitor.SampleEvent), log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Noop()
	}
	return &Scheduler{
		system:  system,
		watcher: watcher,
		sink:    sink,
		log:     log,
		jobs:    make(map[string]*job),
	}
}

// Apply starts, restarts and stops sampling loops to match the settings
// document. Not safe for concurrent use; call it from the event loop that
// owns the settings lifecycle.
func (s *Scheduler) Apply(ctx context.Context, settings *config.Settings) {
	for key, j := range s.jobs {
		cm, ok := settings.Custom[key]
		if !ok || cm.Command == "" || !isTimed(cm.CommandType) || !j.matches(cm) {
			s.log.Debug("stopping probe loop for %s", key)
			j.cancel()
			delete(s.jobs, key)
		}
	}

	for key, cm := range settings.Custom {
		if cm.Command == "" {
			continue
		}
		switch cm.CommandType {
		case config.CommandGcodeIn, config.CommandGcodeOut:
			if s.watcher != nil {
				if err := s.watcher.Watch(key, cm.CommandType, cm.Command); err != nil {
					s.log.Error("gcode pattern for %s rejected: %v", key, err)
				}
			}
		case config.CommandShell, config.CommandSystem:
			if s.watcher != nil {
				s.watcher.Forget(key)
			}
			if _, running := s.jobs[key]; running {
				continue
			}
			s.start(ctx, key, cm)
		}
	}

	if s.watcher != nil {
		for key := range watchedKeys(s.watcher) {
			if cm, ok := settings.Custom[key]; !ok || !isGcode(cm.CommandType) {
				s.watcher.Forget(key)
			}
		}
	}
}

// Stop cancels every running loop.
func (s *Scheduler) Stop() {
	for key, j := range s.jobs {
		j.cancel()
		delete(s.jobs, key)
	}
}

func (s *Scheduler) start(ctx context.Context, key string, cm config.CustomMonitor) {
	interval := cm.Interval
	if interval < 1 {
		interval = 1
	}
	jobCtx, cancel := context.WithCancel(ctx)
	s.jobs[key] = &job{
		cancel:   cancel,
		command:  cm.Command,
		cmdType:  cm.CommandType,
		interval: cm.Interval,
	}

	s.log.Debug("starting %s probe loop for %s every %ds", cm.CommandType, key, interval)
	go s.run(jobCtx, key, cm.Command, cm.CommandType, time.Duration(interval)*time.Second)
}

// run samples once immediately, then on every tick until cancelled.
func (s *Scheduler) run(ctx context.Context, key, command string, cmdType config.CommandType, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.sample(ctx, key, command, cmdType)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample(ctx, key, command, cmdType)
		}
	}
}

func (s *Scheduler) sample(ctx context.Context, key, command string, cmdType config.CommandType) {
	when := time.Now()

	if cmdType == config.CommandSystem {
		value, err := s.system.Read(ctx, command)
		if err != nil {
			s.sink(monitor.SampleEvent{Key: key, When: when, Error: err.Error()})
			return
		}
		s.sink(monitor.SampleEvent{Key: key, Success: true, When: when, Value: value})
		return
	}

	result := RunShell(ctx, command)
	s.sink(monitor.SampleEvent{
		Key:     key,
		Success: result.Success,
		When:    when,
		Value:   result.Value,
		Error:   result.Error,
	})
}

func isTimed(t config.CommandType) bool {
	return t == config.CommandShell || t == config.CommandSystem
}

func isGcode(t config.CommandType) bool {
	return t == config.CommandGcodeIn || t == config.CommandGcodeOut
}

func watchedKeys(w *GcodeWatcher) map[string]struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	keys := make(map[string]struct{})
	for _, dir := range []config.CommandType{config.CommandGcodeIn, config.CommandGcodeOut} {
		for key := range w.patterns[dir] {
			keys[key] = struct{}{}
		}
	}
	return keys
}

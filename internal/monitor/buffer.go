package monitor

import (
	"sync"
	"time"
)

// BufferCap is the number of samples retained per custom monitor key.
// Matches the history cap used by the rehydration service.
const BufferCap = 300

// Sample is a single timestamped reading for a monitor.
type Sample struct {
	When  time.Time
	Value float64
}

// SampleBuffer holds a bounded trailing window of samples per monitor key.
// Buffers are created lazily on first push; absent keys behave as empty.
// It is safe for concurrent use: probe schedulers push from their own
// goroutines while the UI reads.
type SampleBuffer struct {
	mu      sync.RWMutex
	samples map[string][]Sample
}

// NewSampleBuffer creates an empty sample buffer.
func NewSampleBuffer() *SampleBuffer {
	return &SampleBuffer{
		samples: make(map[string][]Sample),
	}
}

// Push appends a sample for the key and truncates to the most recent
// BufferCap entries, dropping from the front.
func (b *SampleBuffer) Push(key string, s Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := append(b.samples[key], s)
	if len(buf) > BufferCap {
		buf = buf[len(buf)-BufferCap:]
	}
	b.samples[key] = buf
}

// Latest returns the most recent sample for the key, or false if the key has
// no data yet.
func (b *SampleBuffer) Latest(key string) (Sample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	buf := b.samples[key]
	if len(buf) == 0 {
		return Sample{}, false
	}
	return buf[len(buf)-1], true
}

// Window returns the samples newer than now+since, where since is negative
// (e.g. -10m for the last ten minutes). Entries are assumed time-ordered
// ascending, so the scan walks from newest to oldest and stops at the first
// entry past the cutoff.
func (b *SampleBuffer) Window(key string, since time.Duration) []Sample {
	return b.WindowAt(key, since, time.Now())
}

// WindowAt is Window with an explicit reference time.
func (b *SampleBuffer) WindowAt(key string, since time.Duration, now time.Time) []Sample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	buf := b.samples[key]
	if len(buf) == 0 {
		return nil
	}

	cutoff := now.Add(since)
	start := len(buf)
	for i := len(buf) - 1; i >= 0; i-- {
		if buf[i].When.Before(cutoff) {
			break
		}
		start = i
	}
	if start == len(buf) {
		return nil
	}

	out := make([]Sample, len(buf)-start)
	copy(out, buf[start:])
	return out
}

// Values returns the value series for the key in arrival order, oldest first.
// Used for the inline trend graph, which plots the full retained window.
func (b *SampleBuffer) Values(key string) []float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	buf := b.samples[key]
	if len(buf) == 0 {
		return nil
	}
	out := make([]float64, len(buf))
	for i, s := range buf {
		out[i] = s.Value
	}
	return out
}

// Len returns the number of samples buffered for the key.
func (b *SampleBuffer) Len(key string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples[key])
}

// Clear drops all samples for the key. Called when a monitor's command or
// type changes, since old readings are no longer comparable.
func (b *SampleBuffer) Clear(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.samples, key)
}

// Rehydrate replaces the buffer contents from an external history snapshot,
// capping each key at BufferCap.
func (b *SampleBuffer) Rehydrate(history map[string][]Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.samples = make(map[string][]Sample, len(history))
	for key, buf := range history {
		if len(buf) > BufferCap {
			buf = buf[len(buf)-BufferCap:]
		}
		b.samples[key] = append([]Sample(nil), buf...)
	}
}

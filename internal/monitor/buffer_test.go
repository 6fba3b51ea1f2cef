package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleBuffer_PushCapsAtLimit(t *testing.T) {
	b := NewSampleBuffer()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < BufferCap+50; i++ {
		b.Push("cu0", Sample{When: base.Add(time.Duration(i) * time.Second), Value: float64(i)})
	}

	require.Equal(t, BufferCap, b.Len("cu0"))

	values := b.Values("cu0")
	require.Len(t, values, BufferCap)
	// The 50 oldest entries were dropped from the front.
	assert.Equal(t, float64(50), values[0])
	assert.Equal(t, float64(BufferCap+49), values[len(values)-1])

	latest, ok := b.Latest("cu0")
	require.True(t, ok)
	assert.Equal(t, float64(BufferCap+49), latest.Value)
}

func TestSampleBuffer_Latest(t *testing.T) {
	b := NewSampleBuffer()

	_, ok := b.Latest("cu0")
	assert.False(t, ok, "empty buffer has no latest sample")

	now := time.Now()
	b.Push("cu0", Sample{When: now, Value: 42.5})
	b.Push("cu0", Sample{When: now.Add(time.Second), Value: 43.0})

	latest, ok := b.Latest("cu0")
	require.True(t, ok)
	assert.Equal(t, 43.0, latest.Value)

	// Keys are independent.
	_, ok = b.Latest("cu1")
	assert.False(t, ok)
}

func TestSampleBuffer_WindowAt(t *testing.T) {
	b := NewSampleBuffer()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// One sample every minute for the last 20 minutes.
	for i := 20; i >= 0; i-- {
		b.Push("cu0", Sample{When: now.Add(-time.Duration(i) * time.Minute), Value: float64(20 - i)})
	}

	tests := []struct {
		name    string
		since   time.Duration
		wantLen int
		first   float64
		last    float64
	}{
		{name: "last ten minutes", since: -10 * time.Minute, wantLen: 11, first: 10, last: 20},
		{name: "last five minutes", since: -5 * time.Minute, wantLen: 6, first: 15, last: 20},
		{name: "covers everything", since: -time.Hour, wantLen: 21, first: 0, last: 20},
		{name: "nothing recent enough", since: time.Second, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.WindowAt("cu0", tt.since, now)
			require.Len(t, got, tt.wantLen)
			if tt.wantLen == 0 {
				return
			}
			assert.Equal(t, tt.first, got[0].Value)
			assert.Equal(t, tt.last, got[len(got)-1].Value)
		})
	}
}

func TestSampleBuffer_WindowAt_UnknownKey(t *testing.T) {
	b := NewSampleBuffer()
	assert.Nil(t, b.WindowAt("cu9", -time.Minute, time.Now()))
}

func TestSampleBuffer_Clear(t *testing.T) {
	b := NewSampleBuffer()
	b.Push("cu0", Sample{When: time.Now(), Value: 1})
	b.Push("cu1", Sample{When: time.Now(), Value: 2})

	b.Clear("cu0")

	assert.Equal(t, 0, b.Len("cu0"))
	assert.Equal(t, 1, b.Len("cu1"), "clearing one key leaves others alone")
}

func TestSampleBuffer_Rehydrate(t *testing.T) {
	b := NewSampleBuffer()
	b.Push("cu5", Sample{When: time.Now(), Value: 9})

	oversize := make([]Sample, BufferCap+10)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range oversize {
		oversize[i] = Sample{When: base.Add(time.Duration(i) * time.Second), Value: float64(i)}
	}

	b.Rehydrate(map[string][]Sample{
		"cu0": oversize,
		"cu1": {{When: base, Value: 7}},
	})

	assert.Equal(t, BufferCap, b.Len("cu0"), "rehydrated history is capped")
	assert.Equal(t, 1, b.Len("cu1"))
	assert.Equal(t, 0, b.Len("cu5"), "rehydrate replaces previous contents")

	values := b.Values("cu0")
	assert.Equal(t, float64(10), values[0])
}

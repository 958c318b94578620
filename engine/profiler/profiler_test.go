package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewProfiler(WithLogger(zap.New(core)), WithClock(clock.now))

	for range 49 {
		clock.advance(20 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	assert.Equal(t, 0, logs.Len())

	clock.advance(20 * time.Millisecond)
	assert.True(t, p.Tick())

	stats := p.Last()
	assert.Equal(t, 50, stats.Frames)
	assert.InDelta(t, 50.0, stats.FPS, 0.01)
	assert.Positive(t, stats.HeapMB)
	assert.Equal(t, 1, logs.FilterMessage("frame stats").Len())
}

func TestTickResetsWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithInterval(100*time.Millisecond))

	clock.advance(100 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.False(t, p.Tick(), "the window restarts after a report")

	clock.advance(100 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.Equal(t, 2, p.Last().Frames)
}

func TestNewProfilerIgnoresInvalidOptions(t *testing.T) {
	p := NewProfiler(WithLogger(nil), WithInterval(-time.Second), WithClock(nil))

	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.now)
	assert.Equal(t, time.Second, p.updateInterval)
	assert.Equal(t, Stats{}, p.Last())
}

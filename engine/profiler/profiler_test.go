package profiler

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickCountsFrames(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(time.Hour))
	for range 5 {
		assert.False(t, p.Tick())
	}
	assert.Equal(t, float64(5), testutil.ToFloat64(p.frames))
}

func TestTickLogsSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(WithLogger(zerolog.New(&buf)), WithUpdateInterval(time.Nanosecond))
	p.lastTime = time.Now().Add(-time.Second)

	assert.True(t, p.Tick())
	assert.Contains(t, buf.String(), `"fps"`)
	assert.Greater(t, testutil.ToFloat64(p.fps), float64(0))
	assert.Equal(t, 0, p.frameCount)
}

func TestObservationsAreExported(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	p := NewProfiler()
	require.NoError(t, p.Register(reg))

	p.ObserveFrame(16 * time.Millisecond)
	p.ObservePass("bloom", 2*time.Millisecond)
	p.ObservePass("tonemap", time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(p.passDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(p.frameDuration))
	assert.Error(t, p.Register(reg), "collectors register once")
}

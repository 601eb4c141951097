package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPUProfilerStartStopIsIdempotent(t *testing.T) {
	p, err := NewCPUProfiler(20 * time.Millisecond)
	require.NoError(t, err)

	p.Start()
	p.Start() // no-op on an already-running sampler

	time.Sleep(100 * time.Millisecond)

	p.Stop()
	p.Stop() // no-op on an already-stopped sampler

	assert.GreaterOrEqual(t, p.Stats().Avg(), 0.0)
}

func TestRSSProfilerRecordsSamples(t *testing.T) {
	p, err := NewRSSProfiler(20 * time.Millisecond)
	require.NoError(t, err)

	p.Start()
	time.Sleep(150 * time.Millisecond)
	p.Stop()

	assert.Greater(t, p.Stats().Max(), 0.0, "a running process always has nonzero RSS")
}

func TestSampleStatsTracksMinMaxAvg(t *testing.T) {
	var s SampleStats
	s.record(10)
	s.record(30)
	s.record(20)

	assert.Equal(t, 10.0, s.Min())
	assert.Equal(t, 30.0, s.Max())
	assert.Equal(t, 20.0, s.Avg())
}

package bench

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// SampleStats is the running {min, max, avg} triple a background sampler
// maintains over its lifetime (§4.8).
type SampleStats struct {
	mu    sync.Mutex
	min   float64
	max   float64
	sum   float64
	count int64
	set   bool
}

func (s *SampleStats) record(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		s.min, s.max, s.set = v, v, true
	} else {
		if v < s.min {
			s.min = v
		}
		if v > s.max {
			s.max = v
		}
	}
	s.sum += v
	s.count++
}

// Min, Max and Avg report the triple observed so far. Avg is 0 before the
// first sample.
func (s *SampleStats) Min() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.min
}

func (s *SampleStats) Max() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max
}

func (s *SampleStats) Avg() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

// DefaultSampleInterval is the sampler tick Δ, matching the harness's
// documented default of 100ms.
const DefaultSampleInterval = 100 * time.Millisecond

// CPUProfiler samples this process's CPU utilization at a fixed interval on
// its own goroutine, computing instantaneous CPU% = 100·Δ(user+sys)/Δ(wall)
// between consecutive samples.
type CPUProfiler struct {
	proc     *process.Process
	interval time.Duration
	stats    SampleStats

	running atomic.Bool
	die     atomic.Bool
	done    chan struct{}
}

// NewCPUProfiler constructs a sampler for the current OS process.
func NewCPUProfiler(interval time.Duration) (*CPUProfiler, error) {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &CPUProfiler{proc: proc, interval: interval}, nil
}

// Start is idempotent: calling it on an already-running sampler is a no-op.
func (p *CPUProfiler) Start() {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	p.die.Store(false)
	p.done = make(chan struct{})
	go p.loop()
}

// Stop signals the sampling goroutine to die and waits for it to exit.
func (p *CPUProfiler) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	p.die.Store(true)
	<-p.done
}

// Stats returns the {min, max, avg} CPU% triple observed so far.
func (p *CPUProfiler) Stats() *SampleStats { return &p.stats }

func (p *CPUProfiler) loop() {
	defer close(p.done)

	lastWall := time.Now()
	lastTimes, err := p.proc.Times()
	if err != nil {
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if p.die.Load() {
			return
		}
		<-ticker.C
		if p.die.Load() {
			return
		}

		now := time.Now()
		times, err := p.proc.Times()
		if err != nil {
			continue
		}

		wallDelta := now.Sub(lastWall).Seconds()
		if wallDelta <= 0 {
			continue
		}
		cpuDelta := (times.User + times.System) - (lastTimes.User + lastTimes.System)
		pct := 100 * cpuDelta / wallDelta
		if pct < 0 {
			pct = 0
		}
		p.stats.record(pct)

		lastWall, lastTimes = now, times
	}
}

// RSSProfiler samples this process's resident set size at a fixed interval.
type RSSProfiler struct {
	proc     *process.Process
	interval time.Duration
	stats    SampleStats

	running atomic.Bool
	die     atomic.Bool
	done    chan struct{}
}

// NewRSSProfiler constructs a sampler for the current OS process.
func NewRSSProfiler(interval time.Duration) (*RSSProfiler, error) {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &RSSProfiler{proc: proc, interval: interval}, nil
}

func (p *RSSProfiler) Start() {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	p.die.Store(false)
	p.done = make(chan struct{})
	go p.loop()
}

func (p *RSSProfiler) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	p.die.Store(true)
	<-p.done
}

// Stats returns the {min, max, avg} RSS-bytes triple observed so far.
func (p *RSSProfiler) Stats() *SampleStats { return &p.stats }

func (p *RSSProfiler) loop() {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if p.die.Load() {
			return
		}
		<-ticker.C
		if p.die.Load() {
			return
		}

		info, err := p.proc.MemoryInfo()
		if err != nil || info == nil {
			continue
		}
		p.stats.record(float64(info.RSS))
	}
}

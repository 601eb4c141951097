package bench

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/unum-cloud/ukvsb/pkg/storage"
)

// ProgressFunc receives the single overwriting progress line the
// orchestrator prints at roughly every 10% of completed iterations.
type ProgressFunc func(line string)

// RunOptions configures one workload's execution window.
type RunOptions struct {
	Threads       int
	Transactional bool
	MetricsSink   MetricsSink
	Progress      ProgressFunc
}

// WorkloadResult is the set of counters published to the metrics sink at
// the end of a workload's execution window (§4.7 step 8).
type WorkloadResult struct {
	Name                string
	FailsPercent        float64
	OperationsPerSecond float64
	CPUMaxPercent       float64
	CPUAvgPercent       float64
	MemMaxBytes         float64
	MemAvgBytes         float64
	ProcessedBytes      int64
	Elapsed             time.Duration
	DiskBytes           int64
}

// RunWorkload executes a workload's full execution window against engine,
// partitioning it across opts.Threads goroutines and following the
// open->fence->loop->flush->fence->close sequence of §4.7.
func RunWorkload(ctx context.Context, engine storage.Engine, w *Workload, opts RunOptions) (*WorkloadResult, error) {
	threadsCount := opts.Threads
	if threadsCount < 1 {
		threadsCount = 1
	}
	if err := w.Validate(threadsCount); err != nil {
		return nil, err
	}
	sink := opts.MetricsSink
	if sink == nil {
		sink = NopMetricsSink
	}

	threads := Split(w, threadsCount)
	lifecycle := storage.NewLifecycle(engine)
	openFence := NewFence(threadsCount)
	closeFence := NewFence(threadsCount)
	counters := &Counters{}

	var totalIterations int64
	for _, t := range threads {
		totalIterations += t.OperationsCount
	}

	cpuProf, cpuErr := NewCPUProfiler(DefaultSampleInterval)
	if cpuErr == nil {
		cpuProf.Start()
		defer cpuProf.Stop()
	}
	rssProf, rssErr := NewRSSProfiler(DefaultSampleInterval)
	if rssErr == nil {
		rssProf.Start()
		defer rssProf.Stop()
	}

	if err := lifecycle.Open(ctx); err != nil {
		return nil, err
	}

	var doneIterations atomic.Int64
	var threadsCompleted atomic.Int64
	var lastReportedDecile atomic.Int64
	var txnErr atomic.Value // stores error

	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(threadsCount)
	for i := 0; i < threadsCount; i++ {
		go func(i int) {
			defer wg.Done()
			openFence.Sync()

			var accessor storage.Accessor = engine
			var txn storage.Transaction
			if opts.Transactional {
				var err error
				txn, err = storage.PrepareTransaction(ctx, engine)
				if err != nil {
					txnErr.Store(err)
					closeFence.Sync()
					return
				}
				accessor = txn
			}

			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(i)))
			worker := NewWorker(threads[i], accessor, counters, rng)

			for iter := int64(0); iter < threads[i].OperationsCount; iter++ {
				worker.Step(ctx)

				done := doneIterations.Add(1)
				if opts.Progress != nil && totalIterations > 0 {
					decile := done * 10 / totalIterations
					for {
						prior := lastReportedDecile.Load()
						if decile <= prior {
							break
						}
						if lastReportedDecile.CompareAndSwap(prior, decile) {
							pct := 100 * float64(done) / float64(totalIterations)
							opts.Progress(fmt.Sprintf("\r%s: %6.2f%%", w.Name, pct))
							break
						}
					}
				}
			}

			if txn != nil {
				_ = txn.Commit(ctx)
			}

			if threadsCompleted.Add(1) == int64(threadsCount) {
				_ = lifecycle.FlushOnce(ctx)
			}

			closeFence.Sync()
		}(i)
	}
	wg.Wait()

	if v := txnErr.Load(); v != nil {
		return nil, v.(error)
	}

	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		elapsed = 1e-9
	}

	if err := lifecycle.Close(ctx); err != nil {
		return nil, err
	}

	diskBytes, _ := engine.SizeOnDisk(ctx)

	result := &WorkloadResult{
		Name:           w.Name,
		ProcessedBytes: counters.BytesProcessed.Load(),
		DiskBytes:      diskBytes,
		Elapsed:        time.Since(start),
	}
	// fails_percent is a fraction of operations (§4.7), not of entries
	// touched: EntriesTouched sums per-op entry counts and is inflated by
	// batch/range ops, which would otherwise understate the failure rate.
	if totalIterations > 0 {
		result.FailsPercent = 100 * float64(counters.FailsCount.Load()) / float64(totalIterations)
	}
	result.OperationsPerSecond = float64(totalIterations) / elapsed
	if cpuErr == nil {
		result.CPUMaxPercent = cpuProf.Stats().Max()
		result.CPUAvgPercent = cpuProf.Stats().Avg()
	}
	if rssErr == nil {
		result.MemMaxBytes = rssProf.Stats().Max()
		result.MemAvgBytes = rssProf.Stats().Avg()
	}

	sink.Publish(w.Name, "fails_percent", result.FailsPercent, UnitPercent)
	sink.Publish(w.Name, "operations_per_second", result.OperationsPerSecond, UnitRate)
	sink.Publish(w.Name, "cpu_max_percent", result.CPUMaxPercent, UnitPercent)
	sink.Publish(w.Name, "cpu_avg_percent", result.CPUAvgPercent, UnitPercent)
	sink.Publish(w.Name, "mem_max_bytes", result.MemMaxBytes, UnitBytes)
	sink.Publish(w.Name, "mem_avg_bytes", result.MemAvgBytes, UnitBytes)
	sink.Publish(w.Name, "processed_bytes", float64(result.ProcessedBytes), UnitBytes)
	sink.Publish(w.Name, "disk_bytes", float64(result.DiskBytes), UnitBytes)

	return result, nil
}

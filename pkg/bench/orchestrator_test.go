package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unum-cloud/ukvsb/pkg/storage/memory"
)

func TestRunWorkloadPureInsert(t *testing.T) {
	ctx := context.Background()
	engine := memory.New()

	w := &Workload{
		Name: "load", DBRecordsCount: 200, DBOperationsCount: 200,
		UpsertProportion: 1.0, StartKey: 0,
	}
	w.applyDefaults()

	var published []string
	sink := MetricsSinkFunc(func(workload, name string, value float64, unit UnitHint) {
		published = append(published, name)
	})

	result, err := RunWorkload(ctx, engine, w, RunOptions{Threads: 4, MetricsSink: sink})
	require.NoError(t, err)
	assert.Equal(t, "load", result.Name)
	assert.Greater(t, result.OperationsPerSecond, 0.0)
	assert.NotEmpty(t, published)

	size, err := engine.SizeOnDisk(ctx)
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))
}

func TestRunWorkloadTransactional(t *testing.T) {
	ctx := context.Background()
	engine := memory.New()

	w := &Workload{
		Name: "txn-load", DBRecordsCount: 50, DBOperationsCount: 50,
		UpsertProportion: 1.0, StartKey: 0,
	}
	w.applyDefaults()

	result, err := RunWorkload(ctx, engine, w, RunOptions{Threads: 2, Transactional: true})
	require.NoError(t, err)
	assert.Equal(t, "txn-load", result.Name)
	assert.Greater(t, result.ProcessedBytes, int64(0))
}

func TestRunWorkloadMixedAfterLoad(t *testing.T) {
	ctx := context.Background()
	engine := memory.New()

	load := &Workload{
		Name: "load", DBRecordsCount: 100, DBOperationsCount: 100,
		UpsertProportion: 1.0, StartKey: 0,
	}
	load.applyDefaults()
	_, err := RunWorkload(ctx, engine, load, RunOptions{Threads: 1})
	require.NoError(t, err)

	mixed := &Workload{
		Name: "mixed", DBRecordsCount: 100, DBOperationsCount: 100,
		ReadProportion: 0.5, UpdateProportion: 0.5, StartKey: 0, KeyDist: DistZipfian,
	}
	mixed.applyDefaults()
	result, err := RunWorkload(ctx, engine, mixed, RunOptions{Threads: 2})
	require.NoError(t, err)
	assert.Equal(t, "mixed", result.Name)
}

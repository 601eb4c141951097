package bench

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unum-cloud/ukvsb/pkg/storage"
	"github.com/unum-cloud/ukvsb/pkg/storage/memory"
)

func TestWorkerUpsertThenRead(t *testing.T) {
	ctx := context.Background()
	engine := memory.New()
	require.NoError(t, engine.Open(ctx))
	defer engine.Close(ctx)

	w := &Workload{
		Name: "upsert-only", DBRecordsCount: 20, DBOperationsCount: 20,
		UpsertProportion: 1.0, StartKey: 0,
	}
	w.applyDefaults()
	threads := Split(w, 1)

	counters := &Counters{}
	rng := rand.New(rand.NewSource(1))
	worker := NewWorker(threads[0], engine, counters, rng)

	for i := 0; i < 20; i++ {
		worker.Step(ctx)
	}
	assert.Equal(t, int64(20), counters.EntriesTouched.Load())
	assert.Equal(t, int64(0), counters.FailsCount.Load())

	_, result := engine.Read(ctx, 0)
	assert.Equal(t, 1, result.EntriesTouched)
}

func TestWorkerMixedReadWriteRespectsKeyRejection(t *testing.T) {
	ctx := context.Background()
	engine := memory.New()
	require.NoError(t, engine.Open(ctx))
	defer engine.Close(ctx)

	// pre-populate 10 records, starting at key 1000
	for i := int64(0); i < 10; i++ {
		engine.Upsert(ctx, storage.Key(1000+i), []byte("v"))
	}

	w := &Workload{
		Name: "mixed", DBRecordsCount: 10, DBOperationsCount: 50,
		UpsertProportion: 0.5, ReadProportion: 0.5, StartKey: 1000, KeyDist: DistUniform,
	}
	w.applyDefaults()
	threads := Split(w, 1)

	counters := &Counters{}
	rng := rand.New(rand.NewSource(1))
	worker := NewWorker(threads[0], engine, counters, rng)
	require.NotNil(t, worker.acked)

	for i := 0; i < 50; i++ {
		worker.Step(ctx)
	}
	// every upsert touches its new key, and every read targets a key at or
	// below the acknowledged watermark, which is always present
	assert.Equal(t, int64(50), counters.EntriesTouched.Load())
}

func TestWorkerBatchUpsertIsAscendingAndAcknowledgesNothingWhenPureInsert(t *testing.T) {
	ctx := context.Background()
	engine := memory.New()
	require.NoError(t, engine.Open(ctx))
	defer engine.Close(ctx)

	w := &Workload{
		Name: "batch", DBRecordsCount: 100, DBOperationsCount: 2,
		BatchUpsertProportion: 1.0, StartKey: 0,
		BatchUpsert: LengthSpec{MinLength: 10, MaxLength: 10, Dist: DistConst},
	}
	w.applyDefaults()
	threads := Split(w, 1)

	counters := &Counters{}
	rng := rand.New(rand.NewSource(1))
	worker := NewWorker(threads[0], engine, counters, rng)
	require.Nil(t, worker.acked, "pure-insert workloads use a plain counter")

	worker.Step(ctx)
	assert.Equal(t, int64(10), counters.EntriesTouched.Load())

	// the batch took ten consecutive ids from the counter: keys 0..9
	rows, _ := engine.RangeSelect(ctx, 0, 20)
	require.Len(t, rows, 10)
	assert.Equal(t, storage.Key(0), rows[0].Key)
	assert.Equal(t, storage.Key(9), rows[9].Key)
}

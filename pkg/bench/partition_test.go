package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitDistributesRemainderToFirstThreads(t *testing.T) {
	w := &Workload{DBRecordsCount: 10, DBOperationsCount: 10, UpsertProportion: 1.0, StartKey: 0}
	threads := Split(w, 3)

	assert.Equal(t, int64(4), threads[0].RecordsCount)
	assert.Equal(t, int64(3), threads[1].RecordsCount)
	assert.Equal(t, int64(3), threads[2].RecordsCount)
}

func TestSplitAdvancesStartKeyForPureInsert(t *testing.T) {
	w := &Workload{DBRecordsCount: 9, DBOperationsCount: 9, UpsertProportion: 1.0, StartKey: 100}
	threads := Split(w, 3)

	assert.Equal(t, int64(100), threads[0].StartKey)
	assert.Equal(t, int64(103), threads[1].StartKey)
	assert.Equal(t, int64(106), threads[2].StartKey)
}

func TestSplitAdvancesStartKeyForQueryWorkload(t *testing.T) {
	w := &Workload{DBRecordsCount: 9, DBOperationsCount: 30, ReadProportion: 1.0, StartKey: 0}
	threads := Split(w, 3)

	assert.Equal(t, int64(0), threads[0].StartKey)
	assert.Equal(t, int64(3), threads[1].StartKey)
	assert.Equal(t, int64(6), threads[2].StartKey)
}

func TestSplitNeverProducesZeroOperations(t *testing.T) {
	w := &Workload{DBRecordsCount: 1, DBOperationsCount: 1, ReadProportion: 1.0}
	threads := Split(w, 4)
	for _, th := range threads {
		assert.GreaterOrEqual(t, th.OperationsCount, int64(1))
	}
}

func TestInsertKeyMultiplierForBatchUpsert(t *testing.T) {
	w := &Workload{BatchUpsertProportion: 1.0, BatchUpsert: LengthSpec{MaxLength: 64}}
	assert.Equal(t, int64(64), insertKeyMultiplier(w))
}

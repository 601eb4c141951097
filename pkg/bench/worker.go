package bench

import (
	"context"
	"math/rand"
	"time"

	"github.com/unum-cloud/ukvsb/pkg/storage"
)

const pageSize = 4096

// alignToPage rounds n up to the next multiple of pageSize.
func alignToPage(n int) int {
	if n%pageSize == 0 {
		return n
	}
	return (n/pageSize + 1) * pageSize
}

// Worker synthesizes and dispatches one thread's share of a workload's
// operations against a storage.Accessor, which is either the raw engine or
// a transaction scoped to this thread (§4.7 step 3). It owns no state
// shared with other threads beyond the Counters it folds results into.
type Worker struct {
	workload *Workload
	accessor storage.Accessor
	counters *Counters
	rng      *rand.Rand

	issuer Generator
	acked  *AcknowledgedCounter

	readKey *boundedKeyGenerator

	keyScratchLen int
	valueLen      int
	valueLenGen   Generator
	valueScratch  []byte

	batchUpsertLen Generator
	batchReadLen   Generator
	bulkLoadLen    Generator
	rangeSelectLen Generator

	bytes *ByteGenerator

	chooser *Chooser

	active time.Duration
}

// NewWorker builds a worker for one thread's partitioned workload
// descriptor, following the §4.4 initialization sequence.
func NewWorker(w *Workload, accessor storage.Accessor, counters *Counters, rng *rand.Rand) *Worker {
	wk := &Worker{
		workload: w,
		accessor: accessor,
		counters: counters,
		rng:      rng,
		bytes:    NewByteGenerator(rng),
		chooser:  NewWorkloadChooser(w, rng),
		valueLen: w.ValueLength,
	}
	wk.valueLenGen = newValueLengthGenerator(w.ValueLengthDist, w.ValueLength, rng)

	if w.isPureInsertClass() {
		wk.issuer = NewCounterGenerator(w.StartKey)
	} else {
		wk.acked = NewAcknowledgedCounter(w.StartKey + w.DBRecordsCount)
		wk.issuer = wk.acked
		wk.readKey = newBoundedKeyGenerator(w.KeyDist, w.StartKey, wk.issuer, rng)
	}

	wk.keyScratchLen = maxInt(
		w.BatchUpsert.MaxLength, w.BatchRead.MaxLength, w.BulkLoad.MaxLength, w.RangeSelect.MaxLength, 1,
	)
	wk.valueScratch = make([]byte, alignToPage(wk.keyScratchLen*wk.valueLen))

	wk.batchUpsertLen = newLengthGenerator(w.BatchUpsert, rng)
	wk.batchReadLen = newLengthGenerator(w.BatchRead, rng)
	wk.bulkLoadLen = newLengthGenerator(w.BulkLoad, rng)
	wk.rangeSelectLen = newLengthGenerator(w.RangeSelect, rng)

	return wk
}

func maxInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// ActiveDuration is the cumulative time spent inside contract calls,
// excluding batch/bulk data-prep time paused per the §4.4 timer policy.
func (w *Worker) ActiveDuration() time.Duration { return w.active }

// nextReadKey draws a read-side key and applies the key-rejection rule:
// redraw while the candidate exceeds the issuing generator's watermark.
func (w *Worker) nextReadKey() storage.Key {
	for {
		k := w.readKey.Next()
		if k <= w.issuer.Last() {
			return storage.Key(k)
		}
	}
}

// valueAt fills slot n of the value scratch with fresh random bytes and
// returns the leading sub-slice the value-length generator draws for this
// value (§3: value_length_dist const/uniform). The full slot is always
// filled so a later draw of a larger length within the same slot never
// exposes stale bytes from a previous, shorter draw.
func (w *Worker) valueAt(n int) []byte {
	buf := w.valueScratch[n*w.valueLen : (n+1)*w.valueLen]
	w.bytes.Fill(buf)

	length := int(w.valueLenGen.Next())
	if length < 1 {
		length = 1
	}
	if length > w.valueLen {
		length = w.valueLen
	}
	return buf[:length]
}

// newValueLengthGenerator builds the generator backing §3's
// value_length_dist: const always yields valueLen, uniform draws in
// [1, valueLen], matching the original's create_value_length_generator.
func newValueLengthGenerator(dist Distribution, valueLen int, rng *rand.Rand) Generator {
	if dist == DistUniform {
		return NewUniformGenerator(1, int64(valueLen), rng)
	}
	return NewConstGenerator(int64(valueLen))
}

// Step synthesizes and dispatches exactly one operation, folding its
// outcome into the shared Counters. It is the unit of work the
// orchestrator's main loop (§4.7 step 4) calls operations_count times.
func (w *Worker) Step(ctx context.Context) {
	switch w.chooser.Choose() {
	case OpUpsert:
		w.doUpsert(ctx)
	case OpUpdate:
		w.doUpdate(ctx)
	case OpRemove:
		w.doRemove(ctx)
	case OpRead:
		w.doRead(ctx)
	case OpReadModifyWrite:
		w.doReadModifyWrite(ctx)
	case OpBatchUpsert:
		w.doBatchUpsert(ctx)
	case OpBatchRead:
		w.doBatchRead(ctx)
	case OpBulkLoad:
		w.doBulkLoad(ctx)
	case OpRangeSelect:
		w.doRangeSelect(ctx)
	case OpScan:
		w.doScan(ctx)
	}
}

func (w *Worker) timed(fn func()) {
	start := time.Now()
	fn()
	w.active += time.Since(start)
}

func (w *Worker) doUpsert(ctx context.Context) {
	key := storage.Key(w.issuer.Next())
	value := w.valueAt(0)
	var result storage.Result
	w.timed(func() { result = w.accessor.Upsert(ctx, key, value) })
	if w.acked != nil {
		_ = w.acked.Acknowledge(int64(key))
	}
	w.counters.Add(result.EntriesTouched, result.Status != storage.StatusOK, len(value))
}

func (w *Worker) doUpdate(ctx context.Context) {
	key := w.nextReadKey()
	value := w.valueAt(0)
	var result storage.Result
	w.timed(func() { result = w.accessor.Update(ctx, key, value) })
	w.counters.Add(result.EntriesTouched, result.Status != storage.StatusOK && result.Status != storage.StatusNotFound, len(value))
}

func (w *Worker) doRemove(ctx context.Context) {
	key := w.nextReadKey()
	var result storage.Result
	w.timed(func() { result = w.accessor.Remove(ctx, key) })
	w.counters.Add(result.EntriesTouched, result.Status != storage.StatusOK && result.Status != storage.StatusNotFound, 0)
}

func (w *Worker) doRead(ctx context.Context) {
	key := w.nextReadKey()
	var value storage.Value
	var result storage.Result
	w.timed(func() { value, result = w.accessor.Read(ctx, key) })
	w.counters.Add(result.EntriesTouched, result.Status != storage.StatusOK && result.Status != storage.StatusNotFound, len(value))
}

func (w *Worker) doReadModifyWrite(ctx context.Context) {
	key := w.nextReadKey()
	var value storage.Value
	var readResult storage.Result
	w.timed(func() { value, readResult = w.accessor.Read(ctx, key) })
	w.counters.Add(readResult.EntriesTouched, readResult.Status != storage.StatusOK && readResult.Status != storage.StatusNotFound, len(value))

	newValue := w.valueAt(0)
	var writeResult storage.Result
	w.timed(func() { writeResult = w.accessor.Update(ctx, key, newValue) })
	w.counters.Add(writeResult.EntriesTouched, writeResult.Status != storage.StatusOK && writeResult.Status != storage.StatusNotFound, len(newValue))
}

func (w *Worker) doBatchUpsert(ctx context.Context) {
	n := int(w.batchUpsertLen.Next())
	if n < 1 {
		n = 1
	}
	if n > w.keyScratchLen {
		n = w.keyScratchLen
	}

	// data prep runs with the timer paused
	pairs := make([]storage.KeyValue, n)
	bytesTotal := 0
	for i := 0; i < n; i++ {
		key := storage.Key(w.issuer.Next())
		value := append([]byte(nil), w.valueAt(i)...)
		pairs[i] = storage.KeyValue{Key: key, Value: value}
		bytesTotal += len(value)
	}

	var result storage.Result
	w.timed(func() { result = w.accessor.BatchUpsert(ctx, pairs) })
	w.counters.Add(result.EntriesTouched, result.Status != storage.StatusOK, bytesTotal)
}

func (w *Worker) doBatchRead(ctx context.Context) {
	n := int(w.batchReadLen.Next())
	if n < 1 {
		n = 1
	}

	keys := make([]storage.Key, n)
	for i := 0; i < n; i++ {
		keys[i] = w.nextReadKey()
	}

	var values []storage.Value
	var result storage.Result
	w.timed(func() { values, result = w.accessor.BatchRead(ctx, keys) })
	bytesTotal := 0
	for _, v := range values {
		bytesTotal += len(v)
	}
	w.counters.Add(result.EntriesTouched, result.Status != storage.StatusOK, bytesTotal)
}

func (w *Worker) doBulkLoad(ctx context.Context) {
	n := int(w.bulkLoadLen.Next())
	if n < 1 {
		n = 1
	}
	if n > w.keyScratchLen {
		n = w.keyScratchLen
	}

	// data prep runs with the timer paused
	pairs := make([]storage.KeyValue, n)
	bytesTotal := 0
	for i := 0; i < n; i++ {
		key := storage.Key(w.issuer.Next())
		value := append([]byte(nil), w.valueAt(i)...)
		pairs[i] = storage.KeyValue{Key: key, Value: value}
		bytesTotal += len(value)
	}

	var result storage.Result
	w.timed(func() { result = w.accessor.BulkLoad(ctx, pairs) })
	if w.acked != nil {
		for _, kv := range pairs {
			_ = w.acked.Acknowledge(int64(kv.Key))
		}
	}
	w.counters.Add(result.EntriesTouched, result.Status != storage.StatusOK, bytesTotal)
}

func (w *Worker) doRangeSelect(ctx context.Context) {
	key := w.nextReadKey()
	length := int(w.rangeSelectLen.Next())
	if length < 1 {
		length = 1
	}

	var rows []storage.KeyValue
	var result storage.Result
	w.timed(func() { rows, result = w.accessor.RangeSelect(ctx, key, length) })
	bytesTotal := 0
	for _, kv := range rows {
		bytesTotal += len(kv.Value)
	}
	w.counters.Add(result.EntriesTouched, result.Status != storage.StatusOK, bytesTotal)
}

func (w *Worker) doScan(ctx context.Context) {
	key := storage.Key(w.workload.StartKey)
	length := int(w.workload.RecordsCount)
	bytesTotal := 0

	visit := func(_ storage.Key, v storage.Value) bool {
		bytesTotal += len(v)
		return true
	}

	var result storage.Result
	w.timed(func() { result = w.accessor.Scan(ctx, key, length, visit) })
	w.counters.Add(result.EntriesTouched, result.Status != storage.StatusOK, bytesTotal)
}

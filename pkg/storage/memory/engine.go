// Package memory provides a reference Data-Access Contract adapter backed by
// an in-memory map, used by the demo CLI and the harness's own tests. It
// exercises every operation in storage.Engine without depending on a
// specific external storage engine.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/unum-cloud/ukvsb/pkg/storage"
)

// Engine is a mutex-protected map[storage.Key]storage.Value satisfying
// storage.Engine. It supports transactions via a copy-on-write snapshot.
type Engine struct {
	mu     sync.RWMutex
	data   map[storage.Key]storage.Value
	opened bool
}

// New constructs an empty memory engine.
func New() *Engine {
	return &Engine{data: make(map[storage.Key]storage.Value)}
}

func (e *Engine) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opened = true
	return nil
}

func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opened = false
	return nil
}

func (e *Engine) Flush(ctx context.Context) error {
	return nil
}

func (e *Engine) SizeOnDisk(ctx context.Context) (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var size int64
	for k, v := range e.data {
		size += 8 + int64(len(v))
		_ = k
	}
	return size, nil
}

func (e *Engine) Upsert(ctx context.Context, key storage.Key, value storage.Value) storage.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data[key] = append(storage.Value(nil), value...)
	return storage.Result{EntriesTouched: 1, Status: storage.StatusOK}
}

func (e *Engine) Update(ctx context.Context, key storage.Key, value storage.Value) storage.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.data[key]; !ok {
		return storage.Result{Status: storage.StatusNotFound}
	}
	e.data[key] = append(storage.Value(nil), value...)
	return storage.Result{EntriesTouched: 1, Status: storage.StatusOK}
}

func (e *Engine) Remove(ctx context.Context, key storage.Key) storage.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.data[key]; !ok {
		return storage.Result{Status: storage.StatusNotFound}
	}
	delete(e.data, key)
	return storage.Result{EntriesTouched: 1, Status: storage.StatusOK}
}

func (e *Engine) Read(ctx context.Context, key storage.Key) (storage.Value, storage.Result) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.data[key]
	if !ok {
		return nil, storage.Result{Status: storage.StatusNotFound}
	}
	return v, storage.Result{EntriesTouched: 1, Status: storage.StatusOK}
}

func (e *Engine) BatchUpsert(ctx context.Context, pairs []storage.KeyValue) storage.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, kv := range pairs {
		e.data[kv.Key] = append(storage.Value(nil), kv.Value...)
	}
	return storage.Result{EntriesTouched: len(pairs), Status: storage.StatusOK}
}

func (e *Engine) BatchRead(ctx context.Context, keys []storage.Key) ([]storage.Value, storage.Result) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	values := make([]storage.Value, 0, len(keys))
	touched := 0
	for _, k := range keys {
		if v, ok := e.data[k]; ok {
			values = append(values, v)
			touched++
		} else {
			values = append(values, nil)
		}
	}
	return values, storage.Result{EntriesTouched: touched, Status: storage.StatusOK}
}

func (e *Engine) BulkLoad(ctx context.Context, pairs []storage.KeyValue) storage.Result {
	return e.BatchUpsert(ctx, pairs)
}

func (e *Engine) RangeSelect(ctx context.Context, key storage.Key, length int) ([]storage.KeyValue, storage.Result) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	keys := make([]storage.Key, 0, len(e.data))
	for k := range e.data {
		if k >= key {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	if len(keys) > length {
		keys = keys[:length]
	}

	result := make([]storage.KeyValue, 0, len(keys))
	for _, k := range keys {
		result = append(result, storage.KeyValue{Key: k, Value: e.data[k]})
	}
	return result, storage.Result{EntriesTouched: len(result), Status: storage.StatusOK}
}

func (e *Engine) Scan(ctx context.Context, key storage.Key, length int, visit func(storage.Key, storage.Value) bool) storage.Result {
	e.mu.RLock()
	keys := make([]storage.Key, 0, len(e.data))
	for k := range e.data {
		if k >= key {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	if len(keys) > length {
		keys = keys[:length]
	}
	e.mu.RUnlock()

	touched := 0
	for _, k := range keys {
		e.mu.RLock()
		v, ok := e.data[k]
		e.mu.RUnlock()
		if !ok {
			continue
		}
		touched++
		if !visit(k, v) {
			break
		}
	}
	return storage.Result{EntriesTouched: touched, Status: storage.StatusOK}
}

func (e *Engine) CreateTransaction(ctx context.Context) (storage.Transaction, storage.Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snapshot := make(map[storage.Key]storage.Value, len(e.data))
	for k, v := range e.data {
		snapshot[k] = v
	}
	return &transaction{engine: e, writes: snapshot}, storage.Result{Status: storage.StatusOK}
}

// transaction buffers writes against a snapshot and applies them atomically
// to the parent engine on Commit.
type transaction struct {
	mu     sync.Mutex
	engine *Engine
	writes map[storage.Key]storage.Value
	done   bool
}

func (t *transaction) Upsert(ctx context.Context, key storage.Key, value storage.Value) storage.Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes[key] = append(storage.Value(nil), value...)
	return storage.Result{EntriesTouched: 1, Status: storage.StatusOK}
}

func (t *transaction) Update(ctx context.Context, key storage.Key, value storage.Value) storage.Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.writes[key]; !ok {
		return storage.Result{Status: storage.StatusNotFound}
	}
	t.writes[key] = append(storage.Value(nil), value...)
	return storage.Result{EntriesTouched: 1, Status: storage.StatusOK}
}

func (t *transaction) Remove(ctx context.Context, key storage.Key) storage.Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.writes[key]; !ok {
		return storage.Result{Status: storage.StatusNotFound}
	}
	delete(t.writes, key)
	return storage.Result{EntriesTouched: 1, Status: storage.StatusOK}
}

func (t *transaction) Read(ctx context.Context, key storage.Key) (storage.Value, storage.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.writes[key]
	if !ok {
		return nil, storage.Result{Status: storage.StatusNotFound}
	}
	return v, storage.Result{EntriesTouched: 1, Status: storage.StatusOK}
}

func (t *transaction) BatchUpsert(ctx context.Context, pairs []storage.KeyValue) storage.Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, kv := range pairs {
		t.writes[kv.Key] = append(storage.Value(nil), kv.Value...)
	}
	return storage.Result{EntriesTouched: len(pairs), Status: storage.StatusOK}
}

func (t *transaction) BatchRead(ctx context.Context, keys []storage.Key) ([]storage.Value, storage.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	values := make([]storage.Value, 0, len(keys))
	touched := 0
	for _, k := range keys {
		if v, ok := t.writes[k]; ok {
			values = append(values, v)
			touched++
		} else {
			values = append(values, nil)
		}
	}
	return values, storage.Result{EntriesTouched: touched, Status: storage.StatusOK}
}

func (t *transaction) BulkLoad(ctx context.Context, pairs []storage.KeyValue) storage.Result {
	return t.BatchUpsert(ctx, pairs)
}

func (t *transaction) RangeSelect(ctx context.Context, key storage.Key, length int) ([]storage.KeyValue, storage.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys := make([]storage.Key, 0, len(t.writes))
	for k := range t.writes {
		if k >= key {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	if len(keys) > length {
		keys = keys[:length]
	}

	result := make([]storage.KeyValue, 0, len(keys))
	for _, k := range keys {
		result = append(result, storage.KeyValue{Key: k, Value: t.writes[k]})
	}
	return result, storage.Result{EntriesTouched: len(result), Status: storage.StatusOK}
}

func (t *transaction) Scan(ctx context.Context, key storage.Key, length int, visit func(storage.Key, storage.Value) bool) storage.Result {
	t.mu.Lock()
	keys := make([]storage.Key, 0, len(t.writes))
	for k := range t.writes {
		if k >= key {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	if len(keys) > length {
		keys = keys[:length]
	}
	t.mu.Unlock()

	touched := 0
	for _, k := range keys {
		t.mu.Lock()
		v, ok := t.writes[k]
		t.mu.Unlock()
		if !ok {
			continue
		}
		touched++
		if !visit(k, v) {
			break
		}
	}
	return storage.Result{EntriesTouched: touched, Status: storage.StatusOK}
}

func (t *transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.engine.mu.Lock()
	t.engine.data = t.writes
	t.engine.mu.Unlock()
	t.done = true
	return nil
}

func (t *transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = true
	return nil
}

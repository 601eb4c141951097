package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unum-cloud/ukvsb/pkg/storage"
	"github.com/unum-cloud/ukvsb/pkg/storage/memory"
)

func TestLifecycleOpenIsOneShot(t *testing.T) {
	ctx := context.Background()
	e := memory.New()
	l := storage.NewLifecycle(e)

	require.NoError(t, l.Open(ctx))
	require.NoError(t, l.Open(ctx)) // second call is a no-op, not an error

	e.Upsert(ctx, 1, []byte("v"))
	_, result := e.Read(ctx, 1)
	assert.Equal(t, storage.StatusOK, result.Status)
}

func TestLifecycleFlushOnceRunsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	e := memory.New()
	l := storage.NewLifecycle(e)
	require.NoError(t, l.Open(ctx))

	require.NoError(t, l.FlushOnce(ctx))
	require.NoError(t, l.FlushOnce(ctx)) // second call is a no-op
}

func TestPrepareTransactionFailsWhenNotImplemented(t *testing.T) {
	ctx := context.Background()
	_, err := storage.PrepareTransaction(ctx, &notImplementedEngine{})
	assert.Error(t, err)
}

// notImplementedEngine is a minimal storage.Engine whose CreateTransaction
// always reports StatusNotImplemented.
type notImplementedEngine struct{ memory.Engine }

func (*notImplementedEngine) CreateTransaction(ctx context.Context) (storage.Transaction, storage.Result) {
	return nil, storage.Result{Status: storage.StatusNotImplemented}
}

package storage_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unum-cloud/ukvsb/pkg/storage"
)

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, storage.StatusOK, storage.ClassifyStatus(nil))
	assert.Equal(t, storage.StatusNotFound, storage.ClassifyStatus(errors.New("key not found")))
	assert.Equal(t, storage.StatusError, storage.ClassifyStatus(errors.New("disk full")))

	notFoundErr := storage.NewEngineOpenError(errors.New("boom"))
	notFoundErr.Code = storage.ErrCodeNotFound
	assert.Equal(t, storage.StatusNotFound, storage.ClassifyStatus(notFoundErr))

	notImplErr := storage.NewEngineOpenError(errors.New("boom"))
	notImplErr.Code = storage.ErrCodeNotImplemented
	assert.Equal(t, storage.StatusNotImplemented, storage.ClassifyStatus(notImplErr))
}

func TestErrorAggregator(t *testing.T) {
	agg := storage.NewErrorAggregator("run")
	assert.False(t, agg.HasErrors())
	assert.Nil(t, agg.CreateAggregateError())

	agg.Add(errors.New("load failed"))
	assert.True(t, agg.HasErrors())
	assert.Len(t, agg.GetAllErrors(), 1)
	assert.EqualError(t, agg.CreateAggregateError(), "load failed")

	agg.Add(errors.New("mixed failed"))
	err := agg.CreateAggregateError()
	assert.Contains(t, err.Error(), "run failed for 2 workloads")
}

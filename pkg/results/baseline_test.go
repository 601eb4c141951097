package results

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unum-cloud/ukvsb/pkg/bench"
	"github.com/unum-cloud/ukvsb/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.DefaultConfig())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "baseline.json")
	m := NewManager(path, testLogger())

	in := []*bench.WorkloadResult{{Name: "load", OperationsPerSecond: 1000}}
	require.NoError(t, m.Save(in))

	out, err := m.Load()
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "load", out.Results[0].Name)
	assert.Equal(t, 1000.0, out.Results[0].OperationsPerSecond)
}

func TestCompareFlagsRegression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	m := NewManager(path, testLogger())
	require.NoError(t, m.Save([]*bench.WorkloadResult{{Name: "load", OperationsPerSecond: 1000}}))

	comparisons, err := m.Compare([]*bench.WorkloadResult{{Name: "load", OperationsPerSecond: 500}})
	require.NoError(t, err)
	require.Len(t, comparisons, 1)
	assert.Equal(t, "regressed", comparisons[0].Status)
}

func TestCompareSkipsUnknownWorkloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	m := NewManager(path, testLogger())
	require.NoError(t, m.Save([]*bench.WorkloadResult{{Name: "load", OperationsPerSecond: 1000}}))

	comparisons, err := m.Compare([]*bench.WorkloadResult{{Name: "new-workload", OperationsPerSecond: 500}})
	require.NoError(t, err)
	assert.Empty(t, comparisons)
}

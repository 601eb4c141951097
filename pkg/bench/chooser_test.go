package bench

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChooserRespectsWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := NewChooser(rng)
	c.Add(OpUpsert, 0.9)
	c.Add(OpRead, 0.1)

	counts := map[OperationKind]int{}
	for i := 0; i < 10000; i++ {
		counts[c.Choose()]++
	}
	assert.Greater(t, counts[OpUpsert], counts[OpRead])
}

func TestChooserIgnoresZeroWeight(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := NewChooser(rng)
	c.Add(OpUpsert, 1.0)
	c.Add(OpRemove, 0)

	for i := 0; i < 1000; i++ {
		assert.Equal(t, OpUpsert, c.Choose())
	}
}

func TestNewWorkloadChooserOrdersByRegistration(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	w := &Workload{UpsertProportion: 1.0}
	c := NewWorkloadChooser(w, rng)
	assert.Len(t, c.ops, 1)
	assert.Equal(t, OpUpsert, c.ops[0].kind)
}

func TestOperationKindString(t *testing.T) {
	assert.Equal(t, "read_modify_write", OpReadModifyWrite.String())
	assert.Equal(t, "scan", OpScan.String())
}

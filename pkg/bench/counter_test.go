package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcknowledgedCounterSequentialAcknowledge(t *testing.T) {
	c := NewAcknowledgedCounter(100)
	assert.Equal(t, int64(99), c.Last())

	for i := 0; i < 5; i++ {
		v := c.Next()
		require.NoError(t, c.Acknowledge(v))
	}
	assert.Equal(t, int64(104), c.Last())
}

func TestAcknowledgedCounterOutOfOrderAcknowledge(t *testing.T) {
	c := NewAcknowledgedCounter(0)
	ids := make([]int64, 5)
	for i := range ids {
		ids[i] = c.Next()
	}

	require.NoError(t, c.Acknowledge(ids[1]))
	require.NoError(t, c.Acknowledge(ids[2]))
	assert.Equal(t, int64(-1), c.Last(), "watermark can't advance past a hole at id 0")

	require.NoError(t, c.Acknowledge(ids[0]))
	assert.Equal(t, int64(2), c.Last(), "acknowledging the hole slides the watermark over the contiguous run")
}

func TestAcknowledgedCounterWindowExhausted(t *testing.T) {
	c := NewAcknowledgedCounter(0)
	c.Next() // id 0 is never acknowledged, so the watermark cannot slide past id 1
	v := c.Next()
	require.NoError(t, c.Acknowledge(v))
	err := c.Acknowledge(v)
	assert.ErrorIs(t, err, ErrWindowExhausted)
}

func TestCounterGenerator(t *testing.T) {
	g := NewCounterGenerator(10)
	assert.Equal(t, int64(10), g.Next())
	assert.Equal(t, int64(11), g.Next())
	assert.Equal(t, int64(11), g.Last())
}

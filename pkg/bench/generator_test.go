package bench

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformGeneratorStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewUniformGenerator(5, 10, rng)
	for i := 0; i < 1000; i++ {
		v := g.Next()
		assert.GreaterOrEqual(t, v, int64(5))
		assert.LessOrEqual(t, v, int64(10))
	}
}

func TestZipfianGeneratorStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewZipfianGenerator(100, 50, zipfianTheta, rng)
	for i := 0; i < 1000; i++ {
		v := g.Next()
		assert.GreaterOrEqual(t, v, int64(100))
		assert.LessOrEqual(t, v, int64(149))
	}
}

func TestZipfianGeneratorSkewsTowardLow(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewZipfianGenerator(0, 1000, zipfianTheta, rng)

	lowCount, highCount := 0, 0
	for i := 0; i < 5000; i++ {
		v := g.Next()
		if v < 100 {
			lowCount++
		}
		if v >= 900 {
			highCount++
		}
	}
	assert.Greater(t, lowCount, highCount, "zipfian should favor the low end of its domain")
}

func TestZipfianGeneratorResizeGrowsDomain(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewZipfianGenerator(0, 10, zipfianTheta, rng)
	g.Resize(1000)

	for i := 0; i < 500; i++ {
		v := g.Next()
		assert.LessOrEqual(t, v, int64(999))
	}

	g.Resize(5) // shrinking is a no-op
	assert.Equal(t, int64(1000), g.n)
}

func TestScrambledZipfianStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewScrambledZipfianGenerator(1000, 2000, rng)
	for i := 0; i < 1000; i++ {
		v := g.Next()
		assert.GreaterOrEqual(t, v, int64(1000))
		assert.LessOrEqual(t, v, int64(2000))
	}
}

func TestSkewedLatestGeneratorBiasesRecent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	counter := NewCounterGenerator(0)
	for i := 0; i < 1000; i++ {
		counter.Next()
	}

	g := NewSkewedLatestGenerator(counter, rng)
	recentCount := 0
	for i := 0; i < 2000; i++ {
		v := g.Next()
		assert.GreaterOrEqual(t, v, int64(0))
		assert.LessOrEqual(t, v, counter.Last())
		if v > counter.Last()-100 {
			recentCount++
		}
	}
	assert.Greater(t, recentCount, 0, "skewed-latest should frequently land near the watermark")
}

func TestBoundedKeyGeneratorUniformTracksGrowingBound(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	counter := NewCounterGenerator(0)
	g := newBoundedKeyGenerator(DistUniform, 0, counter, rng)

	v := g.Next()
	assert.Equal(t, int64(0), v, "bound hasn't advanced yet so the only valid draw is 0")

	for i := 0; i < 50; i++ {
		counter.Next()
	}
	for i := 0; i < 100; i++ {
		v := g.Next()
		assert.LessOrEqual(t, v, counter.Last())
	}
}

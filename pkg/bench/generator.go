package bench

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// Generator produces a lazy, infinite sequence of integers. Last returns the
// most recently yielded value; it is undefined before the first Next call.
type Generator interface {
	Next() int64
	Last() int64
}

// ConstGenerator always yields the same value.
type ConstGenerator struct {
	value int64
}

func NewConstGenerator(c int64) *ConstGenerator { return &ConstGenerator{value: c} }
func (g *ConstGenerator) Next() int64           { return g.value }
func (g *ConstGenerator) Last() int64           { return g.value }

// CounterGenerator yields start, start+1, start+2, … monotonically.
type CounterGenerator struct {
	next int64
	last int64
}

func NewCounterGenerator(start int64) *CounterGenerator {
	return &CounterGenerator{next: start, last: start - 1}
}

func (g *CounterGenerator) Next() int64 {
	v := g.next
	g.next++
	g.last = v
	return v
}

func (g *CounterGenerator) Last() int64 { return g.last }

// UniformGenerator draws an inclusive integer uniform in [lo, hi] from a
// thread-local PRNG. Each worker must own an independent *rand.Rand: two
// generators sharing one source would serialize on its internal lock and
// correlate their draws.
type UniformGenerator struct {
	lo, hi int64
	rng    *rand.Rand
	last   int64
}

func NewUniformGenerator(lo, hi int64, rng *rand.Rand) *UniformGenerator {
	return &UniformGenerator{lo: lo, hi: hi, rng: rng}
}

func (g *UniformGenerator) Next() int64 {
	span := g.hi - g.lo + 1
	if span <= 0 {
		g.last = g.lo
		return g.last
	}
	g.last = g.lo + g.rng.Int63n(span)
	return g.last
}

func (g *UniformGenerator) Last() int64 { return g.last }

// zipfianTheta is the default skew parameter used by key-distribution
// generators, matching the original implementation's constant.
const zipfianTheta = 0.99

// ZipfianGenerator implements the Gray-Sanders rejection-free Zipfian
// algorithm over [lo, lo+N-1]. N can grow across calls to Resize; zeta is
// extended incrementally rather than recomputed from scratch.
type ZipfianGenerator struct {
	lo, n   int64
	theta   float64
	alpha   float64
	zeta2   float64
	zetaN   float64
	eta     float64
	rng     *rand.Rand
	last    int64
}

// NewZipfianGenerator constructs a generator over [lo, lo+n-1]. n must
// satisfy 2 <= n < 2^40.
func NewZipfianGenerator(lo, n int64, theta float64, rng *rand.Rand) *ZipfianGenerator {
	g := &ZipfianGenerator{lo: lo, theta: theta, rng: rng}
	g.alpha = 1.0 / (1.0 - theta)
	g.zeta2 = zetaRange(1, 2, theta, 0)
	g.setN(n)
	return g
}

// zetaRange computes Σ i^-theta for i in [from, to], optionally continuing
// from a prior partial sum (used by the incremental extension on growth).
func zetaRange(from, to int64, theta, priorSum float64) float64 {
	sum := priorSum
	for i := from; i <= to; i++ {
		sum += 1.0 / math.Pow(float64(i), theta)
	}
	return sum
}

func (g *ZipfianGenerator) setN(n int64) {
	if n < 2 {
		n = 2
	}
	if n <= g.n {
		if g.n == 0 {
			g.zetaN = zetaRange(1, n, g.theta, 0)
		}
		g.n = n
	} else {
		from := g.n + 1
		if from < 1 {
			from = 1
		}
		g.zetaN = zetaRange(from, n, g.theta, g.zetaN)
		g.n = n
	}
	g.eta = (1 - math.Pow(2.0/float64(g.n), 1-g.theta)) / (1 - g.zeta2/g.zetaN)
}

// Resize grows the domain to n items, extending zeta incrementally.
// Shrinking is disallowed; a smaller n is a no-op.
func (g *ZipfianGenerator) Resize(n int64) {
	if n > g.n {
		g.setN(n)
	}
}

func (g *ZipfianGenerator) Next() int64 {
	u := g.rng.Float64()
	uz := u * g.zetaN

	var v int64
	switch {
	case uz < 1:
		v = g.lo
	case uz < 1+math.Pow(0.5, g.theta):
		v = g.lo + 1
	default:
		v = g.lo + int64(float64(g.n)*math.Pow(g.eta*u-g.eta+1, g.alpha))
	}
	g.last = v
	return v
}

func (g *ZipfianGenerator) Last() int64 { return g.last }

// ScrambledZipfianGenerator draws from a Zipfian distribution over a huge
// virtual domain, then scrambles the result through an FNV-1a hash modulo
// the real [lo, hi] range. This preserves the Zipfian skew while breaking
// the monotonic hot-spot structure a plain Zipfian would otherwise place at
// the low end of the key space.
type ScrambledZipfianGenerator struct {
	lo, hi   int64
	inner    *ZipfianGenerator
	last     int64
}

// virtualDomainSize is the size of the virtual domain the inner Zipfian
// generator draws from before scrambling.
const virtualDomainSize = 10_000_000_000

func NewScrambledZipfianGenerator(lo, hi int64, rng *rand.Rand) *ScrambledZipfianGenerator {
	return &ScrambledZipfianGenerator{
		lo:    lo,
		hi:    hi,
		inner: NewZipfianGenerator(0, virtualDomainSize, zipfianTheta, rng),
	}
}

func (g *ScrambledZipfianGenerator) Next() int64 {
	raw := g.inner.Next()
	h := fnv.New64a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(raw >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	span := g.hi - g.lo + 1
	g.last = g.lo + int64(h.Sum64()%uint64(span))
	return g.last
}

func (g *ScrambledZipfianGenerator) Last() int64 { return g.last }

// SkewedLatestGenerator biases draws toward recently inserted keys: it reads
// the issuing counter's current watermark M and returns M - Zipfian(0, M),
// so smaller Zipfian draws (the common case) land close to M.
type SkewedLatestGenerator struct {
	counter Generator
	inner   *ZipfianGenerator
	last    int64
}

func NewSkewedLatestGenerator(counter Generator, rng *rand.Rand) *SkewedLatestGenerator {
	return &SkewedLatestGenerator{
		counter: counter,
		inner:   NewZipfianGenerator(0, 2, zipfianTheta, rng),
	}
}

func (g *SkewedLatestGenerator) Next() int64 {
	m := g.counter.Last()
	if m < 1 {
		g.last = 0
		return 0
	}
	g.inner.Resize(m + 1)
	g.last = m - g.inner.Next()
	if g.last < 0 {
		g.last = 0
	}
	return g.last
}

func (g *SkewedLatestGenerator) Last() int64 { return g.last }

// boundedKeyGenerator draws read-side keys over [lo, bound.Last()], where
// bound is the thread's issuing generator. The upper edge is re-read on
// every draw so the distribution tracks the watermark as it advances
// (§4.4: "configured against the acknowledged counter").
type boundedKeyGenerator struct {
	dist  Distribution
	lo    int64
	bound Generator
	rng   *rand.Rand

	seq    int64
	zipf   *ZipfianGenerator
	latest *SkewedLatestGenerator
	last   int64
}

func newBoundedKeyGenerator(dist Distribution, lo int64, bound Generator, rng *rand.Rand) *boundedKeyGenerator {
	g := &boundedKeyGenerator{dist: dist, lo: lo, bound: bound, rng: rng}
	switch dist {
	case DistZipfian:
		g.zipf = NewZipfianGenerator(0, 2, zipfianTheta, rng)
	case DistScrambled:
		g.zipf = NewZipfianGenerator(0, virtualDomainSize, zipfianTheta, rng)
	case DistLatest:
		g.latest = NewSkewedLatestGenerator(bound, rng)
	}
	return g
}

func (g *boundedKeyGenerator) span() int64 {
	span := g.bound.Last() - g.lo + 1
	if span < 1 {
		span = 1
	}
	return span
}

func (g *boundedKeyGenerator) Next() int64 {
	switch g.dist {
	case DistConst:
		g.last = g.lo
	case DistCounter:
		span := g.span()
		g.last = g.lo + (g.seq % span)
		g.seq++
	case DistZipfian:
		span := g.span()
		g.zipf.Resize(span)
		g.last = g.lo + g.zipf.Next()
	case DistScrambled:
		span := g.span()
		raw := g.zipf.Next()
		h := fnv.New64a()
		var buf [8]byte
		for i := 0; i < 8; i++ {
			buf[i] = byte(raw >> (8 * i))
		}
		_, _ = h.Write(buf[:])
		g.last = g.lo + int64(h.Sum64()%uint64(span))
	case DistLatest:
		// SkewedLatestGenerator.Next already returns an absolute key
		// (bound.Last() - Zipfian(0, bound.Last())); it must not be
		// offset by g.lo a second time, or candidates exceed the
		// watermark whenever g.lo > 0 and nextReadKey's rejection loop
		// spins almost indefinitely.
		g.last = g.latest.Next()
	default: // DistUniform and anything else fall back to uniform
		span := g.span()
		g.last = g.lo + g.rng.Int63n(span)
	}
	return g.last
}

func (g *boundedKeyGenerator) Last() int64 { return g.last }

// newLengthGenerator builds the fixed-range generator backing a
// batch/bulk/range length spec.
func newLengthGenerator(spec LengthSpec, rng *rand.Rand) Generator {
	lo, hi := int64(spec.MinLength), int64(spec.MaxLength)
	if hi < lo {
		hi = lo
	}
	switch spec.Dist {
	case DistConst:
		return NewConstGenerator(lo)
	case DistCounter:
		return NewCounterGenerator(lo)
	case DistZipfian, DistScrambled:
		return NewZipfianGenerator(lo, hi-lo+1, zipfianTheta, rng)
	default: // uniform
		return NewUniformGenerator(lo, hi, rng)
	}
}

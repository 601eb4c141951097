package bench

import "math/rand"

// ByteGenerator is a restartable stream of printable-ASCII-adjacent bytes
// (C4.4.1). It consumes one 32-bit PRNG draw per six bytes produced and
// never allocates per call, so it can fill a large value buffer in a tight
// loop without pressuring the garbage collector.
type ByteGenerator struct {
	rng *rand.Rand
	buf [6]byte
	off int
}

// NewByteGenerator constructs a byte stream drawing from rng. Like the
// other generators, each worker must own its own rng.
func NewByteGenerator(rng *rand.Rand) *ByteGenerator {
	return &ByteGenerator{rng: rng, off: 6}
}

// Next returns the next byte in the stream.
func (g *ByteGenerator) Next() byte {
	if g.off == 6 {
		bits := g.rng.Uint32()
		g.buf[0] = byte((bits&31)+' ')
		g.buf[1] = byte(((bits>>5)&63)+' ')
		g.buf[2] = byte(((bits>>10)&95)+' ')
		g.buf[3] = byte(((bits>>15)&31)+' ')
		g.buf[4] = byte(((bits>>20)&63)+' ')
		g.buf[5] = byte(((bits>>25)&95)+' ')
		g.off = 0
	}
	b := g.buf[g.off]
	g.off++
	return b
}

// Fill writes len(dst) generated bytes into dst, reusing dst's storage.
func (g *ByteGenerator) Fill(dst []byte) {
	for i := range dst {
		dst[i] = g.Next()
	}
}

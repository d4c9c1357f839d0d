package pcgbreaker

import (
	"crypto/rand"
	"encoding/binary"
)

// DPRNG is a Deterministic Pseudo-Random Number Generator based on the xorshift*
// algorithm (see https://en.wikipedia.org/wiki/Xorshift#xorshift*). It has a
// period of 2^64-1, is not cryptographically secure, and is not thread-safe.
// cmd/pcg-simulate uses it to pick the (state, inc) pair of the generator it
// emulates. The initial state must not be zero.
type DPRNG struct {
	State uint64
	Round uint64 // for debugging purposes
}

// NewDPRNG creates a DPRNG. With no argument, the seed is drawn from
// crypto/rand. With one argument, that value seeds the generator (a zero
// seed is replaced with a fixed non-zero default, since the all-zero state
// never advances).
func NewDPRNG(seed ...uint64) *DPRNG {
	var s uint64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			panic(err)
		}
		s = binary.LittleEndian.Uint64(buf[:])
	}
	if s == 0 {
		s = 0x9E3779B97F4A7C15
	}
	return &DPRNG{State: s}
}

// Uint64 returns the next pseudo-random number in the sequence.
// It has a deterministic (i.e. constant) runtime and a high probability to be inlined by the compiler.
func (d *DPRNG) Uint64() uint64 {
	x := d.State
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	d.State = x
	d.Round++
	return x * 0x2545F4914F6CDD1D
}

// UInt32N returns a pseudo-random number in the half-open interval [0,n)
// using Lemire's bias-corrected reduction. For n==0 it returns 0.
func (d *DPRNG) UInt32N(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	v := uint32(d.Uint64())
	prod := uint64(v) * uint64(n)
	low := uint32(prod)
	if low < n {
		thresh := -n % n
		for low < thresh {
			v = uint32(d.Uint64())
			prod = uint64(v) * uint64(n)
			low = uint32(prod)
		}
	}
	return uint32(prod >> 32)
}

// Uint27 returns a pseudo-random value in [0, 1<<27), the width of a
// candidate's free low bits (epsilon_1).
func (d *DPRNG) Uint27() uint64 {
	return d.Uint64() & 0x7FF_FFFF
}

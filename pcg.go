package pcgbreaker

import (
	"iter"
	"math/bits"
)

// M is the PCG-XSH-RR multiplicative constant (the default multiplier from
// the reference pcg32 implementation, O'Neill 2014).
const M uint64 = 6364136223846793005

// inverseM is the multiplicative inverse of M modulo 2^64, precomputed so
// that reversing one LCG step never needs to compute it at runtime.
const inverseM uint64 = 0xC097EF87329E28A5

// Step advances one PCG-XSH-RR generation step. It returns the output
// produced by the pre-step state together with the successor state.
// inc's low bit is forced to 1, per the PCG recurrence.
func Step(state, inc uint64) (next uint64, output uint32) {
	output = OutputOf(state)
	next = state*M + (inc | 1)
	return next, output
}

// OutputOf computes the XSH-RR output transform for a pre-state, without
// advancing it: xorshifted = ((state>>18) ^ state) >> 27 (32 bits), and the
// result rotates that word right by the top 5 bits of state.
func OutputOf(state uint64) uint32 {
	xorshifted := uint32(((state >> 18) ^ state) >> 27)
	rot := uint32(state >> 59)
	return bits.RotateLeft32(xorshifted, -int(rot))
}

// UnstepState inverts one LCG step: given the successor state and the
// increment used to reach it, it recovers the predecessor state. This is
// the exact inverse of the state-advance half of Step, via multiplication
// by inverseM.
func UnstepState(next, inc uint64) uint64 {
	return (next - (inc | 1)) * inverseM
}

// InvertXSHRR recovers the top 37 bits of a pre-state (bits 27..63) that are
// forced by a rotation guess and an observed output; the low 27 bits are
// left zero since the output alone cannot constrain them. Every one of the
// 32 possible rotation amounts yields a distinct candidate fragment; only
// one (or, for some outputs, a small handful due to XOR symmetry) is
// consistent with the true generator, which is why XSHRRPreimages and the
// seeding phase (Engine.Seed) try every rotation guess rather than trusting
// a single one.
func InvertXSHRR(rotation uint8, output uint32) uint64 {
	state := uint64(rotation&0x1f) << 59

	recovered := uint64(bits.RotateLeft32(output, int(rotation&0x1f)))

	state |= (recovered >> 19) << 46
	state |= (((recovered >> 1) ^ (state >> 46)) & 0x3ffff) << 28
	state |= ((recovered ^ (state >> 45)) & 1) << 27

	return state
}

// XSHRRPreimages lazily enumerates every 64-bit pre-state whose XSH-RR
// output equals o. For each of the 32 rotation guesses it yields the 2^27
// pre-states obtained by completing InvertXSHRR's high-bit fragment with
// every possible low-27-bit value. Callers that already hold additional
// constraints (as the candidate engine does) should break out of the
// range-over-func early rather than drain this sequence, since the full
// space is 32*2^27 states.
func XSHRRPreimages(o uint32) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for r := range uint8(32) {
			high := InvertXSHRR(r, o)
			for low := uint64(0); low < 1<<27; low++ {
				if !yield(high | low) {
					return
				}
			}
		}
	}
}

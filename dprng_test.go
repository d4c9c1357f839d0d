package pcgbreaker

import (
	"testing"

	set3 "github.com/TomTonic/Set3"
	"github.com/stretchr/testify/assert"
)

func TestNewDPRNG_NoSeed_GeneratesNonZero(t *testing.T) {
	prng := NewDPRNG()
	if prng.State == 0 {
		t.Errorf("Expected non-zero state when no seed is provided, got 0")
	}
}

func TestNewDPRNG_ZeroSeed_GeneratesNonZero(t *testing.T) {
	prng := NewDPRNG(0)
	if prng.State == 0 {
		t.Errorf("Expected non-zero state when seed is 0, got 0")
	}
}

func TestNewDPRNG_WithValidSeed(t *testing.T) {
	seed := uint64(42)
	prng := NewDPRNG(seed)
	if prng.State != seed {
		t.Errorf("Expected state %d, got %d", seed, prng.State)
	}
}

func TestPrngSeqLength(t *testing.T) {
	state := NewDPRNG(0x1234567890ABCDEF)
	limit := uint32(2_000_000)
	set := set3.EmptyWithCapacity[uint64](limit * 7 / 5)
	counter := uint32(0)
	for set.Size() < limit {
		set.Add(state.Uint64())
		counter++
	}
	assert.True(t, counter == limit, "sequence < limit")
}

func TestPrngDeterminism(t *testing.T) {
	state1 := NewDPRNG(0x1234567890ABCDEF)
	state2 := NewDPRNG(0x1234567890ABCDEF) // create two different instances with the same seed
	limit := 1_000_000
	for i := range limit {
		v1 := state1.Uint64()
		v2 := state2.Uint64()
		assert.True(t, v1 == v2, "out of sync: values not equal in round %d", i)
	}
	_ = state2.Uint64() // skip one value to get both prng out of sync
	for i := range limit {
		v1 := state1.Uint64()
		v2 := state2.Uint64()
		assert.False(t, v1 == v2, "in: values equal in round %d", i)
	}
}

func TestUInt32N_Range(t *testing.T) {
	rng := NewDPRNG(0xC0FFEE)
	const n = 1000
	for range 100_000 {
		v := rng.UInt32N(n)
		if v >= n {
			t.Fatalf("UInt32N(%d) returned %d, out of range", n, v)
		}
	}
}

func TestUInt32N_Zero(t *testing.T) {
	rng := NewDPRNG(1)
	if v := rng.UInt32N(0); v != 0 {
		t.Fatalf("UInt32N(0) = %d, want 0", v)
	}
}

func TestUInt32N_Distribution(t *testing.T) {
	rng := NewDPRNG(0xDEADBEEF)
	const n = 8
	counts := make([]int, n)
	const trials = 800_000
	for range trials {
		counts[rng.UInt32N(n)]++
	}
	expected := float64(trials) / float64(n)
	for i, c := range counts {
		ratio := float64(c) / expected
		if ratio < 0.9 || ratio > 1.1 {
			t.Errorf("bucket %d got %d samples, expected ~%.0f", i, c, expected)
		}
	}
}

func TestUint27_Width(t *testing.T) {
	rng := NewDPRNG(0x1234)
	for range 100_000 {
		v := rng.Uint27()
		if v >= 1<<27 {
			t.Fatalf("Uint27() = %d, exceeds 27-bit range", v)
		}
	}
}

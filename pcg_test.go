package pcgbreaker

import "testing"

func TestStepUnstepRoundTrip(t *testing.T) {
	rng := NewDPRNG(0xA5A5A5A5A5A5A5A5)
	for range 10_000 {
		state := rng.Uint64()
		inc := rng.Uint64() | 1
		next, _ := Step(state, inc)
		got := UnstepState(next, inc)
		if got != state {
			t.Fatalf("UnstepState(Step(state)) = %#x, want %#x", got, state)
		}
	}
}

func TestStepOutputMatchesOutputOf(t *testing.T) {
	rng := NewDPRNG(0xFEEDFACE)
	for range 10_000 {
		state := rng.Uint64()
		inc := rng.Uint64() | 1
		_, output := Step(state, inc)
		if want := OutputOf(state); output != want {
			t.Fatalf("Step output %#x != OutputOf(state) %#x", output, want)
		}
	}
}

func TestInvertXSHRR_RecoversHighBits(t *testing.T) {
	rng := NewDPRNG(0x1)
	shift := uint(27)
	highMask := ^uint64(0) << shift
	for range 20_000 {
		state := rng.Uint64()
		output := OutputOf(state)
		rotation := uint8(state >> 59)
		got := InvertXSHRR(rotation, output) & highMask
		want := state & highMask
		if got != want {
			t.Fatalf("InvertXSHRR high bits mismatch: got %#x want %#x (state %#x)", got, want, state)
		}
	}
}

func TestInvertXSHRR_RotationFieldEchoed(t *testing.T) {
	for r := range uint8(32) {
		got := InvertXSHRR(r, 0xCAFEBABE) >> 59
		if uint8(got) != r {
			t.Fatalf("InvertXSHRR(%d,...) encoded rotation %d", r, got)
		}
	}
}

func TestInvertXSHRR_LowBitsAlwaysZero(t *testing.T) {
	for r := range uint8(32) {
		got := InvertXSHRR(r, 0x12345678)
		if got&((1<<27)-1) != 0 {
			t.Fatalf("InvertXSHRR(%d,...) left low bits set: %#x", r, got)
		}
	}
}

func TestXSHRRPreimages_FirstBlockMatchesInvert(t *testing.T) {
	output := uint32(0x89ABCDEF)
	want := InvertXSHRR(0, output)
	count := 0
	for cand := range XSHRRPreimages(output) {
		if cand&^uint64((1<<27)-1) != want {
			t.Fatalf("preimage %#x does not match InvertXSHRR(0,...) high bits %#x", cand, want)
		}
		count++
		if count >= 1000 {
			break
		}
	}
	if count != 1000 {
		t.Fatalf("expected to collect 1000 preimages, got %d", count)
	}
}

func TestXSHRRPreimages_EarlyStopHonored(t *testing.T) {
	output := uint32(0x11223344)
	count := 0
	for range XSHRRPreimages(output) {
		count++
		if count == 5 {
			break
		}
	}
	if count != 5 {
		t.Fatalf("expected early break at 5, got %d", count)
	}
}

func TestXSHRRPreimages_EveryYieldedStateReproducesOutput(t *testing.T) {
	output := uint32(0x5FAAB311)
	count := 0
	for cand := range XSHRRPreimages(output) {
		if OutputOf(cand) != output {
			t.Fatalf("preimage %#x produces output %#x, want %#x", cand, OutputOf(cand), output)
		}
		count++
		if count >= 2000 {
			break
		}
	}
}

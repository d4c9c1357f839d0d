package pcgbreaker

// Generator is a minimal PCG-XSH-RR 32 source driven entirely by Step, the
// same transform cmd/pcg-breaker is trying to recover. Grounded on the
// reference C implementation's pcg32_random_t/pcg32_random_r pair: a bare
// (state, inc) struct advanced one word at a time, nothing more.
type Generator struct {
	state uint64
	inc   uint64
}

// NewGenerator creates a Generator seeded at state/inc. inc's low bit is
// forced to 1 by Step on every advance, matching the PCG recurrence.
func NewGenerator(state, inc uint64) *Generator {
	return &Generator{state: state, inc: inc}
}

// NewRandomGenerator picks a state and inc from prng and returns both the
// Generator and the pair it was seeded with, so a caller can log the ground
// truth before feeding the stream to something that is supposed to recover
// it blind.
func NewRandomGenerator(prng *DPRNG) (gen *Generator, state, inc uint64) {
	state = prng.Uint64()
	inc = prng.Uint64()
	return NewGenerator(state, inc), state, inc
}

// Next advances the generator and returns the output it just produced.
func (g *Generator) Next() uint32 {
	next, output := Step(g.state, g.inc)
	g.state = next
	return output
}

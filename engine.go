package pcgbreaker

// seedProbeBudget bounds the rotation-triple search in Seed: 32^3 == 2^15,
// comfortably inside spec.md's "up to 2^17" allowance.
const seedProbeBudget = 32 * 32 * 32

// seedFragment is one surviving high-bit fragment from the first pass of
// Seed, before the free 27 bits (epsilon_1) have been pinned down.
type seedFragment struct {
	s0High uint64
	s1High uint64
	value  uint64 // the recovered zeta candidate, see Table.QueryFragments
}

// Engine is the candidate engine of spec.md §4.4: it seeds a CandidateSet
// from the first four outputs and refines it against every output after
// that. It is single-threaded and holds no state beyond the table handle.
type Engine struct {
	table *Table
}

// NewEngine creates an Engine backed by an already-open table.
func NewEngine(table *Table) *Engine {
	return &Engine{table: table}
}

// SeedResult is the outcome of a successful Seed call.
type SeedResult struct {
	Candidates *CandidateSet
	Guesses    int
}

// Seed builds the initial candidate set from the first four consecutive
// outputs (spec.md §4.4, "Initial seeding"). It tries every rotation-guess
// triple for (o1,o2,o3), looks up the table for each, and for every
// surviving high-bit fragment searches the 27 free bits for a value
// consistent with o4.
func (e *Engine) Seed(o1, o2, o3, o4 uint32) (*SeedResult, error) {
	var frags []seedFragment
	guesses := 0

	for r0 := range uint8(32) {
		s0High := InvertXSHRR(r0, o1)
		sStar0 := s0High >> zetaBits

		for r1 := range uint8(32) {
			s1High := InvertXSHRR(r1, o2)
			sStar1 := s1High >> zetaBits

			for r2 := range uint8(32) {
				s2High := InvertXSHRR(r2, o3)
				sStar2 := s2High >> zetaBits

				n := (sStar1 - sStar2 + M*(sStar1-sStar0)) & nMask

				values, err := e.table.QueryFragments(n)
				if err != nil {
					return nil, err
				}
				guesses++

				for _, v := range values {
					frags = append(frags, seedFragment{
						s0High: s0High,
						s1High: s1High,
						value:  v,
					})
				}
			}
		}
	}

	if len(frags) == 0 {
		return nil, newBreakerError(KindInconsistent, "no table matches for the first three outputs", nil)
	}

	frags = dedupSeedFragments(frags)

	var candidates []Candidate
	for _, f := range frags {
		candidates = append(candidates, e.searchFreeBits(f, o4)...)
	}

	if len(candidates) == 0 {
		return nil, newBreakerError(KindInconsistent, "no candidate state reproduces the fourth output", nil)
	}

	return &SeedResult{Candidates: NewCandidateSet(candidates), Guesses: guesses}, nil
}

// dedupSeedFragments removes fragments that share a (s0High, s1High, zeta)
// key with one already kept, backed by the same keyed dedup candidate.go uses
// for fragmentKey itself. Fragments with the same high bits but a different
// recovered zeta lead to different candidates and are all kept.
func dedupSeedFragments(frags []seedFragment) []seedFragment {
	return dedupByKey(frags, func(f seedFragment) fragmentKey {
		return fragmentKey{s0High: f.s0High, s1High: f.s1High, zeta: f.value}
	})
}

// searchFreeBits enumerates every value of the 27 free low bits of f
// consistent with o4. A fragment's high bits alone do not pin down a unique
// completion: more than one epsilon can independently reproduce o4, and
// every one of them is a genuine member of the candidate set, not just the
// first one found, so the full range is always scanned to exhaustion.
func (e *Engine) searchFreeBits(f seedFragment, o4 uint32) []Candidate {
	var out []Candidate
	for epsilon := uint64(0); epsilon < 1<<27; epsilon++ {
		// s0 is the fully reconstructed pre-state of the first output: its
		// high bits came from the rotation guess, its low 27 bits are
		// f.value (the recovered zeta) plus this probe's epsilon.
		s0 := f.s0High | (f.value + epsilon)
		inc := ((f.s1High | epsilon) - s0*M) | 1

		state := s0
		for range 3 {
			state = state*M + inc
		}
		if OutputOf(state) != o4 {
			continue
		}
		// Store the pre-state of the next, not yet observed, output (o5):
		// that is the state CandidateSet.Retain and Predict step from.
		out = append(out, Candidate{Initial: s0, State: state*M + inc, Inc: inc})
	}
	return out
}

// Refine consumes one more observed output against the live candidate set
// (spec.md §4.4, "Online refinement"). Every live candidate already holds a
// concrete 64-bit state, so checking it against the new output is a single
// forward step plus a 32-bit compare; the table-based pre-filter spec.md
// §4.4 step 2 describes for the unseeded case has nothing left to narrow
// down here; it only pays for itself while the state's high bits are still
// a guess, which Seed has already resolved by the time Refine runs. Refine
// mutates c in place.
func (e *Engine) Refine(c *CandidateSet, observed uint32) error {
	if c.Retain(observed) == 0 {
		return newBreakerError(KindInconsistent, "no surviving candidate predicts the observed output", nil)
	}
	return nil
}

package pcgbreaker

import set3 "github.com/TomTonic/Set3"

// Candidate is a (state, inc) pair consistent with every observation seen
// so far (spec.md §3). State is always the generator's pre-state of the
// *next, not yet observed* output (one step past the most recently consumed
// output), not rewound to the first one; Initial tracks the original
// pre-state of the very first ingested output, needed to report a recovered
// pair in its originally-observed form (spec.md §4.5).
type Candidate struct {
	Initial uint64
	State   uint64
	Inc     uint64
}

// Step advances c by one generator step, returning the predicted output for
// the state that produced it (i.e. the output from the pre-step state).
func (c Candidate) Step() (next Candidate, output uint32) {
	nextState, output := Step(c.State, c.Inc)
	next = Candidate{Initial: c.Initial, State: nextState, Inc: c.Inc}
	return next, output
}

// fragmentKey packs the high-bit fragment a candidate was seeded from, used
// to deduplicate seeding survivors sharing the same (s0_high, s1_high, zeta)
// before the more expensive free-bit search runs (spec.md §4.4
// "Tie-breaking").
type fragmentKey struct {
	s0High uint64
	s1High uint64
	zeta   uint64
}

// dedupByKey returns items with exact key duplicates removed, preserving the
// first occurrence's order, via a Set3-based O(1) membership test rather
// than an O(n^2) scan. Engine.Seed uses this to collapse seeding survivors
// down to one entry per (s0High, s1High, zeta) fragment.
func dedupByKey[T any](items []T, key func(T) fragmentKey) []T {
	seen := set3.EmptyWithCapacity[fragmentKey](uint32(len(items)*7/5 + 1))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if seen.Contains(k) {
			continue
		}
		seen.Add(k)
		out = append(out, it)
	}
	return out
}

// CandidateSet is the engine's live set C (spec.md §3). It is a thin slice
// wrapper rather than a bare []Candidate so call sites read as domain
// operations (Collapsed, States) instead of slice index juggling.
type CandidateSet struct {
	items []Candidate
}

// NewCandidateSet wraps items as a CandidateSet, taking ownership of the slice.
func NewCandidateSet(items []Candidate) *CandidateSet {
	return &CandidateSet{items: items}
}

// Len returns the number of surviving candidates.
func (c *CandidateSet) Len() int { return len(c.items) }

// Collapsed reports whether exactly one candidate remains (full recovery,
// spec.md §3).
func (c *CandidateSet) Collapsed() bool { return len(c.items) == 1 }

// Empty reports whether every candidate has been pruned (observation
// inconsistency, spec.md §3).
func (c *CandidateSet) Empty() bool { return len(c.items) == 0 }

// Items returns the live candidates. The returned slice is owned by the
// CandidateSet and must not be retained past the next mutation.
func (c *CandidateSet) Items() []Candidate { return c.items }

// Sole returns the single surviving candidate. It panics if Collapsed is
// false; callers must check Collapsed first.
func (c *CandidateSet) Sole() Candidate {
	if len(c.items) != 1 {
		panic("pcgbreaker: Sole called on a non-collapsed candidate set")
	}
	return c.items[0]
}

// Retain advances every candidate by one step and keeps only those whose
// predicted output equals observed (spec.md §4.4, online refinement step
// 1). It mutates c in place and returns the new size.
func (c *CandidateSet) Retain(observed uint32) int {
	kept := c.items[:0]
	for _, cand := range c.items {
		next, predicted := cand.Step()
		if predicted == observed {
			kept = append(kept, next)
		}
	}
	c.items = kept
	return len(c.items)
}

// Predict groups each candidate's next predicted output and returns it as a
// Prediction (spec.md §4.5).
func (c *CandidateSet) Predict() Prediction {
	counts := make(map[uint32]int, 4)
	order := make([]uint32, 0, 4)
	for _, cand := range c.items {
		_, output := cand.Step()
		if _, ok := counts[output]; !ok {
			order = append(order, output)
		}
		counts[output]++
	}
	total := len(c.items)
	values := make([]PredictedValue, 0, len(order))
	for _, v := range order {
		values = append(values, PredictedValue{
			Output:      v,
			Probability: float64(counts[v]) / float64(total),
		})
	}
	return Prediction{Values: sortByProbabilityDesc(values)}
}

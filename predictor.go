package pcgbreaker

import "sort"

// PredictedValue is one possible next output together with the fraction of
// live candidates that predict it.
type PredictedValue struct {
	Output      uint32
	Probability float64
}

// Prediction is the predictor's report for the next output (spec.md §4.5):
// normally one value, occasionally two, rarely up to four, sorted by
// descending probability.
type Prediction struct {
	Values []PredictedValue
}

// Unique returns the predicted output and true if the candidate set agrees
// on a single next value.
func (p Prediction) Unique() (uint32, bool) {
	if len(p.Values) == 1 {
		return p.Values[0].Output, true
	}
	return 0, false
}

func sortByProbabilityDesc(values []PredictedValue) []PredictedValue {
	sort.Slice(values, func(i, j int) bool {
		if values[i].Probability != values[j].Probability {
			return values[i].Probability > values[j].Probability
		}
		return values[i].Output < values[j].Output
	})
	return values
}

// RecoveredState is the result of full state recovery: the originally
// observed pre-state and the increment, with its low bit set per
// convention (spec.md §3).
type RecoveredState struct {
	State uint64
	Inc   uint64
}

// Recover reports the recovered (state, inc) pair once c has collapsed to a
// single candidate. It panics if c is not collapsed; callers must check
// CandidateSet.Collapsed first.
func Recover(c *CandidateSet) RecoveredState {
	sole := c.Sole()
	return RecoveredState{
		State: sole.Initial,
		Inc:   sole.Inc | 1,
	}
}

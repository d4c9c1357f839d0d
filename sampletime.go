package pcgbreaker

import (
	"math"
)

const iterationsForCallibration = 10_000_000

var (
	// precision holds the precision of time measurements obtained via SampleTime() on the runtime system in nanoseconds.
	precision = int64(-1)
)

// Returns the precision of time measurements obtained via SampleTime() on the runtime system in nanoseconds.
// Should return 100ns on Windows systems, and typically between 20ns and 100ns on Linux and MacOS systems.
func GetSampleTimePrecision() int64 {
	if precision == int64(-1) {
		precision = calcMinTimeSample()
	}
	return precision
}

func calcMinTimeSample() int64 {
	var minDiff = int64(math.MaxInt64) // initial large value
	for range iterationsForCallibration {
		t1 := SampleTime()
		t2 := SampleTime()
		diff := DiffTimeStamps(t1, t2)
		if diff > 0 && diff < minDiff {
			minDiff = diff
		}
	}
	return minDiff
}

// FloatsEqualWithTolerance reports whether f1 and f2 are within
// tolerancePercentage of each other, relative to either value.
func FloatsEqualWithTolerance(f1, f2, tolerancePercentage float64) bool {
	absTol1 := math.Abs(f1 * tolerancePercentage / 100)
	if f1-absTol1 <= f2 && f1+absTol1 >= f2 {
		return true
	}
	absTol2 := math.Abs(f2 * tolerancePercentage / 100)
	return f2-absTol2 <= f1 && f2+absTol2 >= f1
}

// plausibleSampleTimePrecisionNs is the expected order of magnitude of
// GetSampleTimePrecision's result on the platforms this module targets: up
// to 100ns on Windows, typically 20-100ns on Linux and macOS.
const plausibleSampleTimePrecisionNs = 100

// CalibrateTimer measures this runtime's SampleTime precision and reports
// whether it falls within a generous tolerance of the expected order of
// magnitude. A driver reporting elapsed seconds (cmd/pcg-breaker's
// --calibrate-timer flag) uses this to warn when the clock looks too coarse
// for its own elapsed-time numbers to be trusted, e.g. under a virtualized
// or heavily throttled clock source.
func CalibrateTimer() (precisionNs int64, plausible bool) {
	precisionNs = GetSampleTimePrecision()
	plausible = FloatsEqualWithTolerance(float64(precisionNs), plausibleSampleTimePrecisionNs, 90)
	return precisionNs, plausible
}

package indicator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SpreadZScore standardizes the spread at index i against the rolling mean
// and population standard deviation of the trailing lookback spreads
// (exclusive of i). The second return is false when there is not enough
// history or the rolling standard deviation is zero; callers must degrade
// to hold/exit in that case instead of working with a NaN z-score.
func SpreadZScore(spreads []float64, i, lookback int) (float64, bool) {
	if i < lookback || lookback <= 0 {
		return 0, false
	}

	window := spreads[i-lookback : i]
	mean := stat.Mean(window, nil)
	sd := stat.PopStdDev(window, nil)

	if sd == 0 || math.IsNaN(sd) {
		return 0, false
	}

	return (spreads[i] - mean) / sd, true
}

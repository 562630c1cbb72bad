// Package indicator provides series-indexed technical indicators.
//
// Indicators are pure functions over a slice of closing prices. Positions
// where a value cannot be computed yet (the warmup window) hold math.NaN();
// callers are expected to treat NaN as "no value" and degrade to a hold
// signal rather than propagate it.
package indicator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SMA computes the simple moving average of values over period.
func SMA(values []float64, period int) []float64 {
	result := make([]float64, len(values))

	for i := range values {
		if i < period-1 {
			result[i] = math.NaN()
			continue
		}

		result[i] = stat.Mean(values[i-period+1:i+1], nil)
	}

	return result
}

package indicator

import "math"

// RSI computes the Wilder-smoothed relative strength index over period.
// The first period positions hold NaN. When the average loss is zero the
// index saturates at 100 rather than dividing by zero.
func RSI(values []float64, period int) []float64 {
	result := make([]float64, len(values))
	for i := range result {
		result[i] = math.NaN()
	}

	if len(values) <= period {
		return result
	}

	gain := func(delta float64) float64 { return math.Max(delta, 0) }
	loss := func(delta float64) float64 { return -math.Min(delta, 0) }

	// Seed with the plain average of the first period deltas, then apply
	// Wilder smoothing for the rest of the series.
	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i < period; i++ {
		delta := values[i] - values[i-1]
		avgGain += gain(delta)
		avgLoss += loss(delta)
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period; i < len(values); i++ {
		delta := values[i] - values[i-1]
		avgGain = (avgGain*float64(period-1) + gain(delta)) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss(delta)) / float64(period)

		if avgLoss == 0 {
			result[i] = 100
			continue
		}

		rs := avgGain / avgLoss
		result[i] = 100 - 100/(1+rs)
	}

	return result
}

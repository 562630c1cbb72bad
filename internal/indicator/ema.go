package indicator

import "math"

// EMA computes the exponential moving average of values over period,
// seeded with the SMA of the first period values. NaN inputs (e.g. the
// warmup prefix of another indicator) are skipped without resetting the
// running average.
func EMA(values []float64, period int) []float64 {
	result := make([]float64, len(values))
	k := 2.0 / (float64(period) + 1)

	emaPrev := math.NaN()

	for i, value := range values {
		if math.IsNaN(value) {
			result[i] = math.NaN()
			continue
		}

		if math.IsNaN(emaPrev) {
			if i < period-1 {
				result[i] = math.NaN()
				continue
			}

			sum := 0.0
			count := 0

			for _, v := range values[i-period+1 : i+1] {
				if !math.IsNaN(v) {
					sum += v
					count++
				}
			}

			if count == 0 {
				result[i] = math.NaN()
				continue
			}

			emaPrev = sum / float64(period)
		} else {
			emaPrev = value*k + emaPrev*(1-k)
		}

		result[i] = emaPrev
	}

	return result
}

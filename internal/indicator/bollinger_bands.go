package indicator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Band is one Bollinger band triple. Warmup positions hold NaN in all
// three fields.
type Band struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// BollingerBands computes a moving average plus/minus stdDev population
// standard deviations over period.
func BollingerBands(values []float64, period int, stdDev float64) []Band {
	result := make([]Band, len(values))

	for i := range values {
		if i < period-1 {
			result[i] = Band{Upper: math.NaN(), Middle: math.NaN(), Lower: math.NaN()}
			continue
		}

		window := values[i-period+1 : i+1]
		mean := stat.Mean(window, nil)
		sd := stat.PopStdDev(window, nil)

		result[i] = Band{
			Upper:  mean + stdDev*sd,
			Middle: mean,
			Lower:  mean - stdDev*sd,
		}
	}

	return result
}

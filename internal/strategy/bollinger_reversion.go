package strategy

import (
	"math"

	"github.com/stratlab-dev/stratbt/internal/indicator"
	"github.com/stratlab-dev/stratbt/internal/types"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// BollingerReversion buys when the close drops below the lower band and
// sells when it rises above the upper band.
type BollingerReversion struct {
	period int
	stdDev float64
}

// BollingerReversionDefinition returns the registry definition with default params.
func BollingerReversionDefinition() Definition {
	return Definition{
		Type: types.StrategyTypeBollingerReversion,
		DefaultParams: types.StrategyParams{
			"period": 20,
			"stdDev": 2,
		},
		New:      func() Strategy { return &BollingerReversion{} },
		NewPairs: nil,
	}
}

// Name returns the registry key of the strategy.
func (b *BollingerReversion) Name() types.StrategyType {
	return types.StrategyTypeBollingerReversion
}

// Config expects period and stdDev.
func (b *BollingerReversion) Config(params types.StrategyParams) error {
	period, err := params.Int("period")
	if err != nil {
		return err
	}

	stdDev, err := params.Float("stdDev")
	if err != nil {
		return err
	}

	if stdDev <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "stdDev must be positive, got %v", stdDev)
	}

	b.period = period
	b.stdDev = stdDev

	return nil
}

// Signal implements Strategy.
func (b *BollingerReversion) Signal(series types.Series, i int) types.SignalType {
	if i < b.period-1 {
		return types.SignalTypeHold
	}

	window := series.Closes()[i-b.period+1 : i+1]
	band := indicator.BollingerBands(window, b.period, b.stdDev)[b.period-1]

	if math.IsNaN(band.Lower) || math.IsNaN(band.Upper) {
		return types.SignalTypeHold
	}

	price := series[i].Close

	switch {
	case price < band.Lower:
		return types.SignalTypeBuy
	case price > band.Upper:
		return types.SignalTypeSell
	default:
		return types.SignalTypeHold
	}
}

package strategy

import (
	"math"

	"github.com/stratlab-dev/stratbt/internal/types"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// Breakout compares the current close to the max/min close over the trailing
// lookback window, excluding the current bar. The optional
// breakoutMultiplier widens the entry thresholds by a fraction of the
// trailing range; at 0 the plain channel breakout rule applies.
type Breakout struct {
	lookback   int
	multiplier float64
}

// BreakoutDefinition returns the registry definition with default params.
func BreakoutDefinition() Definition {
	return Definition{
		Type: types.StrategyTypeBreakout,
		DefaultParams: types.StrategyParams{
			"lookback":           20,
			"breakoutMultiplier": 0,
		},
		New:      func() Strategy { return &Breakout{} },
		NewPairs: nil,
	}
}

// Name returns the registry key of the strategy.
func (b *Breakout) Name() types.StrategyType {
	return types.StrategyTypeBreakout
}

// Config expects lookback and optionally breakoutMultiplier.
func (b *Breakout) Config(params types.StrategyParams) error {
	lookback, err := params.Int("lookback")
	if err != nil {
		return err
	}

	multiplier := params.FloatOr("breakoutMultiplier", 0)
	if multiplier < 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"breakoutMultiplier must be non-negative, got %v", multiplier)
	}

	b.lookback = lookback
	b.multiplier = multiplier

	return nil
}

// Signal implements Strategy.
func (b *Breakout) Signal(series types.Series, i int) types.SignalType {
	if i < b.lookback {
		return types.SignalTypeHold
	}

	maxClose := math.Inf(-1)
	minClose := math.Inf(1)

	for _, bar := range series[i-b.lookback : i] {
		maxClose = math.Max(maxClose, bar.Close)
		minClose = math.Min(minClose, bar.Close)
	}

	priceRange := maxClose - minClose
	price := series[i].Close

	switch {
	case price > maxClose+b.multiplier*priceRange:
		return types.SignalTypeBuy
	case price < minClose-b.multiplier*priceRange:
		return types.SignalTypeSell
	default:
		return types.SignalTypeHold
	}
}

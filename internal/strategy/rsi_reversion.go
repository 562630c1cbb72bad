package strategy

import (
	"math"

	"github.com/stratlab-dev/stratbt/internal/indicator"
	"github.com/stratlab-dev/stratbt/internal/types"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// RSIReversion buys below an oversold threshold and sells above an
// overbought threshold of a Wilder-smoothed RSI. An optional signalSmoothing
// parameter applies an EMA over the RSI series before thresholding.
type RSIReversion struct {
	period     int
	oversold   float64
	overbought float64
	smoothing  int

	// The Wilder recursion runs from the series start, so the oscillator is
	// computed once per series and cached. Values at index i depend only on
	// bars up to i, which keeps the no-lookahead contract intact.
	cached    []float64
	cachedLen int
}

// RSIReversionDefinition returns the registry definition with default params.
func RSIReversionDefinition() Definition {
	return Definition{
		Type: types.StrategyTypeRSIReversion,
		DefaultParams: types.StrategyParams{
			"period":          14,
			"oversold":        30,
			"overbought":      70,
			"signalSmoothing": 1,
		},
		New:      func() Strategy { return &RSIReversion{} },
		NewPairs: nil,
	}
}

// Name returns the registry key of the strategy.
func (r *RSIReversion) Name() types.StrategyType {
	return types.StrategyTypeRSIReversion
}

// Config expects period, oversold, overbought and optionally signalSmoothing.
func (r *RSIReversion) Config(params types.StrategyParams) error {
	period, err := params.Int("period")
	if err != nil {
		return err
	}

	oversold, err := params.Float("oversold")
	if err != nil {
		return err
	}

	overbought, err := params.Float("overbought")
	if err != nil {
		return err
	}

	if oversold >= overbought {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"oversold (%v) must be less than overbought (%v)", oversold, overbought)
	}

	r.period = period
	r.oversold = oversold
	r.overbought = overbought
	r.smoothing = params.IntOr("signalSmoothing", 1)
	r.cached = nil
	r.cachedLen = 0

	return nil
}

// Signal implements Strategy.
func (r *RSIReversion) Signal(series types.Series, i int) types.SignalType {
	if i <= r.period {
		return types.SignalTypeHold
	}

	oscillator := r.oscillator(series)

	value := oscillator[i]
	if math.IsNaN(value) {
		return types.SignalTypeHold
	}

	switch {
	case value < r.oversold:
		return types.SignalTypeBuy
	case value > r.overbought:
		return types.SignalTypeSell
	default:
		return types.SignalTypeHold
	}
}

func (r *RSIReversion) oscillator(series types.Series) []float64 {
	if r.cached != nil && r.cachedLen == len(series) {
		return r.cached
	}

	oscillator := indicator.RSI(series.Closes(), r.period)
	if r.smoothing > 1 {
		oscillator = indicator.EMA(oscillator, r.smoothing)
	}

	r.cached = oscillator
	r.cachedLen = len(series)

	return oscillator
}

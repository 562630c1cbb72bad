package strategy

import (
	"math"

	"github.com/stratlab-dev/stratbt/internal/indicator"
	"github.com/stratlab-dev/stratbt/internal/types"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// SMACrossover compares a short-window and a long-window simple moving
// average at the current bar: buy while the short average is above the long
// one, sell while it is below.
type SMACrossover struct {
	shortPeriod int
	longPeriod  int
}

// SMACrossoverDefinition returns the registry definition with default params.
func SMACrossoverDefinition() Definition {
	return Definition{
		Type: types.StrategyTypeSMACrossover,
		DefaultParams: types.StrategyParams{
			"shortPeriod": 20,
			"longPeriod":  50,
		},
		New:      func() Strategy { return &SMACrossover{} },
		NewPairs: nil,
	}
}

// Name returns the registry key of the strategy.
func (s *SMACrossover) Name() types.StrategyType {
	return types.StrategyTypeSMACrossover
}

// Config expects shortPeriod and longPeriod, with shortPeriod < longPeriod.
func (s *SMACrossover) Config(params types.StrategyParams) error {
	shortPeriod, err := params.Int("shortPeriod")
	if err != nil {
		return err
	}

	longPeriod, err := params.Int("longPeriod")
	if err != nil {
		return err
	}

	if shortPeriod >= longPeriod {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"shortPeriod (%d) must be less than longPeriod (%d)", shortPeriod, longPeriod)
	}

	s.shortPeriod = shortPeriod
	s.longPeriod = longPeriod

	return nil
}

// Signal implements Strategy.
func (s *SMACrossover) Signal(series types.Series, i int) types.SignalType {
	if i < s.longPeriod {
		return types.SignalTypeHold
	}

	closes := series.Closes()
	short := windowMean(closes, i, s.shortPeriod)
	long := windowMean(closes, i, s.longPeriod)

	if math.IsNaN(short) || math.IsNaN(long) {
		return types.SignalTypeHold
	}

	switch {
	case short > long:
		return types.SignalTypeBuy
	case short < long:
		return types.SignalTypeSell
	default:
		return types.SignalTypeHold
	}
}

// windowMean is the SMA value at index i only, avoiding a full-series pass
// per bar.
func windowMean(values []float64, i, period int) float64 {
	if i < period-1 {
		return math.NaN()
	}

	window := values[i-period+1 : i+1]

	return indicator.SMA(window, period)[period-1]
}

package strategy

import (
	"math"

	"github.com/stratlab-dev/stratbt/internal/indicator"
	"github.com/stratlab-dev/stratbt/internal/types"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// PairsTrading standardizes the price spread between two instruments
// against its rolling mean/std: short the spread above entryZ, long it
// below -entryZ, exit inside exitZ. A zero rolling standard deviation pins
// the z-score at zero, which exits inside any positive exit band.
type PairsTrading struct {
	lookback   int
	entryZ     float64
	exitZ      float64
	hedgeRatio float64
}

// PairsTradingDefinition returns the registry definition with default params.
func PairsTradingDefinition() Definition {
	return Definition{
		Type: types.StrategyTypePairsTrading,
		DefaultParams: types.StrategyParams{
			"lookback":   20,
			"entryZ":     2,
			"exitZ":      0.5,
			"hedgeRatio": 1,
		},
		New:      nil,
		NewPairs: func() PairsStrategy { return &PairsTrading{} },
	}
}

// Name returns the registry key of the strategy.
func (p *PairsTrading) Name() types.StrategyType {
	return types.StrategyTypePairsTrading
}

// Config expects lookback, entryZ, exitZ and optionally hedgeRatio.
func (p *PairsTrading) Config(params types.StrategyParams) error {
	lookback, err := params.Int("lookback")
	if err != nil {
		return err
	}

	entryZ, err := params.Float("entryZ")
	if err != nil {
		return err
	}

	exitZ, err := params.Float("exitZ")
	if err != nil {
		return err
	}

	if exitZ < 0 || entryZ <= exitZ {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"entryZ (%v) must exceed exitZ (%v) and exitZ must be non-negative", entryZ, exitZ)
	}

	hedgeRatio := params.FloatOr("hedgeRatio", 1)
	if hedgeRatio <= 0 || math.IsNaN(hedgeRatio) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "hedgeRatio must be positive, got %v", hedgeRatio)
	}

	p.lookback = lookback
	p.entryZ = entryZ
	p.exitZ = exitZ
	p.hedgeRatio = hedgeRatio

	return nil
}

// HedgeRatio returns the configured quantity ratio for the second leg.
func (p *PairsTrading) HedgeRatio() float64 {
	return p.hedgeRatio
}

// Signal implements PairsStrategy.
func (p *PairsTrading) Signal(series types.PairSeries, i int) types.SignalType {
	if i < p.lookback {
		return types.SignalTypeHold
	}

	spreads := make([]float64, i+1)
	for j := 0; j <= i; j++ {
		spreads[j] = series.Spread(j)
	}

	// With enough history the only failure mode is a zero rolling std, and a
	// flat spread window means the spread sits exactly on its mean.
	z, ok := indicator.SpreadZScore(spreads, i, p.lookback)
	if !ok {
		z = 0
	}

	switch {
	case z > p.entryZ:
		return types.SignalTypeShort
	case z < -p.entryZ:
		return types.SignalTypeLong
	case math.Abs(z) < p.exitZ:
		return types.SignalTypeExit
	default:
		return types.SignalTypeHold
	}
}

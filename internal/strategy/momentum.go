package strategy

import (
	"github.com/stratlab-dev/stratbt/internal/types"
)

// Momentum compares the current close to the close lookback bars earlier:
// buy on a higher close, sell on a lower one.
type Momentum struct {
	lookback int
}

// MomentumDefinition returns the registry definition with default params.
func MomentumDefinition() Definition {
	return Definition{
		Type: types.StrategyTypeMomentum,
		DefaultParams: types.StrategyParams{
			"lookback": 63,
		},
		New:      func() Strategy { return &Momentum{} },
		NewPairs: nil,
	}
}

// Name returns the registry key of the strategy.
func (m *Momentum) Name() types.StrategyType {
	return types.StrategyTypeMomentum
}

// Config expects lookback.
func (m *Momentum) Config(params types.StrategyParams) error {
	lookback, err := params.Int("lookback")
	if err != nil {
		return err
	}

	m.lookback = lookback

	return nil
}

// Signal implements Strategy.
func (m *Momentum) Signal(series types.Series, i int) types.SignalType {
	if i < m.lookback {
		return types.SignalTypeHold
	}

	past := series[i-m.lookback].Close
	current := series[i].Close

	switch {
	case current > past:
		return types.SignalTypeBuy
	case current < past:
		return types.SignalTypeSell
	default:
		return types.SignalTypeHold
	}
}

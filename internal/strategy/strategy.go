// Package strategy contains the signal generators the simulator consults at
// every bar, and the registry that maps strategy keys to generator factories
// and default parameters.
package strategy

import (
	"github.com/stratlab-dev/stratbt/internal/types"
)

// Strategy maps (series, index) to a trading signal for one instrument.
//
// Implementations must be deterministic, must not read past index i, and
// must return SignalTypeHold whenever insufficient history exists for the
// configured lookback. Degenerate statistics (zero standard deviation)
// degrade to hold or exit, never to NaN; Signal never fails.
type Strategy interface {
	// Name returns the registry key of the strategy.
	Name() types.StrategyType
	// Config applies strategy parameters. Malformed parameters are an
	// invalid-input condition and reject the run before simulation.
	Config(params types.StrategyParams) error
	// Signal returns the decision for bar i.
	Signal(series types.Series, i int) types.SignalType
}

// PairsStrategy is the two-instrument counterpart of Strategy. It emits
// long/short/exit/hold over a date-aligned pair series, returning
// SignalTypeHold when history is insufficient and SignalTypeExit only for
// explicit spread convergence.
type PairsStrategy interface {
	Name() types.StrategyType
	Config(params types.StrategyParams) error
	Signal(series types.PairSeries, i int) types.SignalType
}

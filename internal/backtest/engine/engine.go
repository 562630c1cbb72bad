// Package engine defines the execution simulator boundary. The simulator
// replays trading decisions bar-by-bar against a price history and produces
// a complete BacktestResult; it is a pure function of its inputs with no
// state carried between invocations.
package engine

import (
	"github.com/stratlab-dev/stratbt/internal/strategy"
	"github.com/stratlab-dev/stratbt/internal/types"
)

type Engine interface {
	// Run simulates one instrument. The strategy must already be configured.
	// Invalid input (empty series, non-positive prices) rejects the
	// invocation before simulation begins.
	Run(symbol string, series types.Series, strat strategy.Strategy) (types.BacktestResult, error)
	// RunPairs simulates a two-instrument spread strategy over a
	// date-aligned pair series.
	RunPairs(series types.PairSeries, strat strategy.PairsStrategy) (types.BacktestResult, error)
}

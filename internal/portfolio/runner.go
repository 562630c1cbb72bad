package portfolio

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	engine_v1 "github.com/stratlab-dev/stratbt/internal/backtest/engine/engine_v1"
	"github.com/stratlab-dev/stratbt/internal/logger"
	"github.com/stratlab-dev/stratbt/internal/strategy"
	"github.com/stratlab-dev/stratbt/internal/types"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// Instrument is one symbol with its bar history, ready for simulation.
type Instrument struct {
	Symbol string
	Series types.Series
}

// Runner fans a multi-instrument backtest out over independent simulations
// and aggregates the results. Instrument simulations share no mutable state,
// so they run concurrently; each bar within one instrument still executes
// strictly sequentially.
type Runner struct {
	config   engine_v1.SimulationConfig
	registry strategy.Registry
	log      *logger.Logger
}

// NewRunner validates the config and builds a runner. A nil registry uses the
// built-in strategies; a nil logger disables logging.
func NewRunner(config engine_v1.SimulationConfig, registry strategy.Registry, log *logger.Logger) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if registry == nil {
		registry = strategy.DefaultRegistry()
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Runner{
		config:   config,
		registry: registry,
		log:      log,
	}, nil
}

// Run simulates every instrument with an even split of the configured
// capital, then combines the results into the "overall" aggregate. Per-
// instrument results come back in input order. The context bounds the
// parallel fan-out; the first failure cancels the remaining simulations.
func (r *Runner) Run(ctx context.Context, instruments []Instrument, strategyType types.StrategyType, overrides types.StrategyParams) (types.BacktestResult, []types.BacktestResult, error) {
	if len(instruments) == 0 {
		return types.BacktestResult{}, nil, errors.New(errors.ErrCodeInvalidParameter, "no instruments to run")
	}

	def, err := r.registry.Get(strategyType)
	if err != nil {
		return types.BacktestResult{}, nil, err
	}

	if def.Pairs() {
		return types.BacktestResult{}, nil, errors.Newf(errors.ErrCodeStrategyConfigError,
			"strategy %s trades a pair, not independent instruments", strategyType)
	}

	params := def.DefaultParams.Merge(overrides)

	perInstrument := r.config
	perInstrument.InitialCapital = r.config.InitialCapital / float64(len(instruments))

	r.log.Info("running portfolio backtest",
		zap.String("strategy", string(strategyType)),
		zap.Int("instruments", len(instruments)),
		zap.Float64("capital_per_instrument", perInstrument.InitialCapital),
	)

	results := make([]types.BacktestResult, len(instruments))

	group, ctx := errgroup.WithContext(ctx)
	for i, instrument := range instruments {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			eng, err := engine_v1.NewBacktestEngineV1(perInstrument, r.log)
			if err != nil {
				return err
			}

			strat := def.New()
			if err := strat.Config(params); err != nil {
				return err
			}

			result, err := eng.Run(instrument.Symbol, instrument.Series, strat)
			if err != nil {
				return errors.Wrapf(errors.GetCode(err), err, "backtest for %s failed", instrument.Symbol)
			}

			results[i] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return types.BacktestResult{}, nil, err
	}

	overall, err := Combine(results, r.config.RiskFreeRate)
	if err != nil {
		return types.BacktestResult{}, nil, err
	}

	return overall, results, nil
}

// RunPairs simulates a two-instrument spread strategy with the full
// configured capital. The two series are aligned on their common dates
// before simulation.
func (r *Runner) RunPairs(ctx context.Context, first Instrument, second Instrument, strategyType types.StrategyType, overrides types.StrategyParams) (types.BacktestResult, error) {
	if err := ctx.Err(); err != nil {
		return types.BacktestResult{}, err
	}

	def, err := r.registry.Get(strategyType)
	if err != nil {
		return types.BacktestResult{}, err
	}

	if !def.Pairs() {
		return types.BacktestResult{}, errors.Newf(errors.ErrCodeStrategyConfigError,
			"strategy %s is not a pairs strategy", strategyType)
	}

	pair, err := types.NewPairSeries(first.Symbol, first.Series, second.Symbol, second.Series)
	if err != nil {
		return types.BacktestResult{}, err
	}

	eng, err := engine_v1.NewBacktestEngineV1(r.config, r.log)
	if err != nil {
		return types.BacktestResult{}, err
	}

	strat := def.NewPairs()
	if err := strat.Config(def.DefaultParams.Merge(overrides)); err != nil {
		return types.BacktestResult{}, err
	}

	return eng.RunPairs(pair, strat)
}

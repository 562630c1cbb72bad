package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stratlab-dev/stratbt/internal/analytics"
	"github.com/stratlab-dev/stratbt/internal/backtest/engine"
	"github.com/stratlab-dev/stratbt/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/stratlab-dev/stratbt/internal/logger"
	"github.com/stratlab-dev/stratbt/internal/strategy"
	"github.com/stratlab-dev/stratbt/internal/types"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// BacktestEngineV1 replays a configured strategy bar-by-bar over a price
// series. One engine may run any number of simulations; each Run is a pure
// function of its inputs and the immutable config, so concurrent Runs on the
// same engine are safe.
type BacktestEngineV1 struct {
	config    SimulationConfig
	costModel commission_fee.CostModel
	log       *logger.Logger
}

// NewBacktestEngineV1 validates the config and builds the simulator. A nil
// logger disables engine logging.
func NewBacktestEngineV1(config SimulationConfig, log *logger.Logger) (engine.Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BacktestEngineV1{
		config:    config,
		costModel: commission_fee.GetCostModel(config.CostModel, config.SlippagePct, config.CommissionPct, config.CommissionFixed),
		log:       log,
	}, nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(symbol string, series types.Series, strat strategy.Strategy) (types.BacktestResult, error) {
	if err := series.Validate(); err != nil {
		return types.BacktestResult{}, err
	}

	series = b.window(series)
	if len(series) == 0 {
		return types.BacktestResult{}, errors.Newf(errors.ErrCodeBacktestNoResults,
			"no bars for %s inside the configured date window", symbol)
	}

	b.log.Debug("starting simulation",
		zap.String("symbol", symbol),
		zap.String("strategy", string(strat.Name())),
		zap.Int("bars", len(series)),
	)

	var (
		capital = b.config.InitialCapital
		pos     types.Position
		curve   = make([]types.EquityPoint, 0, len(series))
		trades  []types.Trade
	)

	for i, bar := range series {
		signal := strat.Signal(series, i)

		switch {
		case signal == types.SignalTypeBuy && !pos.Open():
			eff := b.costModel.EffectivePrice(bar.Close, types.SideBuy)
			fee := b.costModel.EntryCommission(capital, eff)

			quantity := (capital - fee) / eff
			if quantity > 0 {
				pos = types.Position{
					Symbol:     symbol,
					Quantity:   quantity,
					EntryPrice: bar.Close,
					EntryDate:  bar.Date,
				}
				capital = 0

				b.log.Debug("opened position",
					zap.String("symbol", symbol),
					zap.Time("date", bar.Date),
					zap.Float64("quantity", quantity),
					zap.Float64("price", bar.Close),
				)
			}

		case signal == types.SignalTypeSell && pos.Open():
			trade, proceeds := b.closeLong(pos, bar)
			trades = append(trades, trade)
			capital = proceeds
			pos = types.Position{}

			b.log.Debug("closed position",
				zap.String("symbol", symbol),
				zap.Time("date", bar.Date),
				zap.Float64("pnl", trade.PnL),
			)
		}

		// Every bar marks the curve, trade or not, so the curve keeps the
		// series' length and date alignment.
		curve = append(curve, types.EquityPoint{
			Date:  bar.Date,
			Value: capital + pos.Quantity*bar.Close,
		})
	}

	// Force-liquidate at the final close so finalCapital is cash, not a
	// mark-to-market figure. The curve already has the final bar's point.
	if pos.Open() {
		last := series[len(series)-1]
		trade, proceeds := b.closeLong(pos, last)
		trades = append(trades, trade)
		capital = proceeds
		pos = types.Position{}

		b.log.Debug("forced liquidation at end of series",
			zap.String("symbol", symbol),
			zap.Float64("pnl", trade.PnL),
		)
	}

	return b.buildResult(symbol, strat.Name(), capital, curve, trades), nil
}

// closeLong closes a long position at the bar's close and returns the
// resulting trade and cash proceeds. Slippage applies symmetrically to both
// legs; the exit commission is deducted from the proceeds.
func (b *BacktestEngineV1) closeLong(pos types.Position, bar types.Bar) (types.Trade, float64) {
	effEntry := b.costModel.EffectivePrice(pos.EntryPrice, types.SideBuy)
	effExit := b.costModel.EffectivePrice(bar.Close, types.SideSell)

	trade := types.Trade{
		Symbol:     pos.Symbol,
		EntryDate:  pos.EntryDate,
		ExitDate:   bar.Date,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  bar.Close,
		PnL:        pos.Quantity * (effExit - effEntry),
		ReturnPct:  (effExit - effEntry) / effEntry * 100,
	}

	proceeds := pos.Quantity*effExit - b.costModel.ExitCommission(pos.Quantity)

	return trade, proceeds
}

// window restricts the series to the configured start/end dates, both
// inclusive. No-op when neither bound is set.
func (b *BacktestEngineV1) window(series types.Series) types.Series {
	if b.config.StartTime.IsNone() && b.config.EndTime.IsNone() {
		return series
	}

	windowed := make(types.Series, 0, len(series))
	for _, bar := range series {
		if b.config.StartTime.IsSome() && bar.Date.Before(b.config.StartTime.Unwrap()) {
			continue
		}

		if b.config.EndTime.IsSome() && bar.Date.After(b.config.EndTime.Unwrap()) {
			continue
		}

		windowed = append(windowed, bar)
	}

	return windowed
}

func (b *BacktestEngineV1) buildResult(symbol string, strategyType types.StrategyType, capital float64, curve []types.EquityPoint, trades []types.Trade) types.BacktestResult {
	return types.BacktestResult{
		ID:             uuid.NewString(),
		Symbol:         symbol,
		Strategy:       strategyType,
		InitialCapital: b.config.InitialCapital,
		FinalCapital:   capital,
		ReturnPct:      (capital/b.config.InitialCapital - 1) * 100,
		EquityCurve:    curve,
		Trades:         trades,
		Metrics:        analytics.ComputeMetrics(curve, b.config.RiskFreeRate),
		TradeStats:     analytics.ComputeTradeStats(trades),
	}
}

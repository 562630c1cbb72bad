package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/stratlab-dev/stratbt/internal/strategy"
	"github.com/stratlab-dev/stratbt/internal/types"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// hedgeRatioProvider is implemented by pairs strategies that size the second
// leg relative to the first. Strategies without it trade one-for-one.
type hedgeRatioProvider interface {
	HedgeRatio() float64
}

// RunPairs implements engine.Engine. The spread position holds two legs with
// opposite signs: long the spread buys leg one and shorts hedgeRatio times
// the quantity of leg two, short the spread mirrors that. The long leg is
// sized from available capital exactly like a single-instrument entry, and
// short proceeds are credited to cash, so the per-bar equity
// (cash + q1*close1 + q2*close2, signed quantities) stays mark-to-market
// consistent.
func (b *BacktestEngineV1) RunPairs(series types.PairSeries, strat strategy.PairsStrategy) (types.BacktestResult, error) {
	if err := series.Validate(); err != nil {
		return types.BacktestResult{}, err
	}

	series.Bars = b.windowPair(series.Bars)
	if len(series.Bars) == 0 {
		return types.BacktestResult{}, errors.Newf(errors.ErrCodeBacktestNoResults,
			"no bars for %s/%s inside the configured date window", series.Symbol1, series.Symbol2)
	}

	hedgeRatio := 1.0
	if p, ok := strat.(hedgeRatioProvider); ok {
		hedgeRatio = p.HedgeRatio()
	}

	b.log.Debug("starting pairs simulation",
		zap.String("symbol1", series.Symbol1),
		zap.String("symbol2", series.Symbol2),
		zap.String("strategy", string(strat.Name())),
		zap.Int("bars", len(series.Bars)),
	)

	var (
		capital    = b.config.InitialCapital
		pos1, pos2 types.Position
		curve      = make([]types.EquityPoint, 0, len(series.Bars))
		trades     []types.Trade
	)

	flat := func() bool { return !pos1.Open() && !pos2.Open() }

	closeSpread := func(bar types.PairBar) {
		trade1, cash1 := b.closeLeg(pos1, bar.Date, bar.Close1)
		trade2, cash2 := b.closeLeg(pos2, bar.Date, bar.Close2)
		trades = append(trades, trade1, trade2)
		capital += cash1 + cash2
		pos1, pos2 = types.Position{}, types.Position{}
	}

	for i, bar := range series.Bars {
		signal := strat.Signal(series, i)

		switch {
		case signal == types.SignalTypeLong && flat():
			// Buy leg one with all capital, short the hedge on leg two.
			eff1 := b.costModel.EffectivePrice(bar.Close1, types.SideBuy)
			fee := b.costModel.EntryCommission(capital, eff1)

			q1 := (capital - fee) / eff1
			if q1 > 0 {
				q2 := hedgeRatio * q1
				eff2 := b.costModel.EffectivePrice(bar.Close2, types.SideSell)

				capital = q2*eff2 - b.costModel.ExitCommission(q2)
				pos1 = types.Position{Symbol: series.Symbol1, Quantity: q1, EntryPrice: bar.Close1, EntryDate: bar.Date}
				pos2 = types.Position{Symbol: series.Symbol2, Quantity: -q2, EntryPrice: bar.Close2, EntryDate: bar.Date}
			}

		case signal == types.SignalTypeShort && flat():
			// Mirror: buy leg two with all capital, short leg one so the
			// hedge ratio q2 = hedgeRatio*q1 still holds.
			eff2 := b.costModel.EffectivePrice(bar.Close2, types.SideBuy)
			fee := b.costModel.EntryCommission(capital, eff2)

			q2 := (capital - fee) / eff2
			if q2 > 0 {
				q1 := q2 / hedgeRatio
				eff1 := b.costModel.EffectivePrice(bar.Close1, types.SideSell)

				capital = q1*eff1 - b.costModel.ExitCommission(q1)
				pos1 = types.Position{Symbol: series.Symbol1, Quantity: -q1, EntryPrice: bar.Close1, EntryDate: bar.Date}
				pos2 = types.Position{Symbol: series.Symbol2, Quantity: q2, EntryPrice: bar.Close2, EntryDate: bar.Date}
			}

		case signal == types.SignalTypeExit && !flat():
			closeSpread(bar)

			b.log.Debug("closed spread position",
				zap.Time("date", bar.Date),
				zap.Float64("capital", capital),
			)
		}

		curve = append(curve, types.EquityPoint{
			Date:  bar.Date,
			Value: capital + pos1.Quantity*bar.Close1 + pos2.Quantity*bar.Close2,
		})
	}

	if !flat() {
		closeSpread(series.Bars[len(series.Bars)-1])

		b.log.Debug("forced spread liquidation at end of series",
			zap.Float64("capital", capital),
		)
	}

	symbol := series.Symbol1 + "/" + series.Symbol2

	return b.buildResult(symbol, strat.Name(), capital, curve, trades), nil
}

// closeLeg closes one signed leg at the given raw price and returns the trade
// and the net cash delta: sale proceeds for a long leg, the (negative) cost
// of buying back a short leg. Slippage and the exit commission apply either
// way.
func (b *BacktestEngineV1) closeLeg(pos types.Position, date time.Time, rawPrice float64) (types.Trade, float64) {
	if pos.Quantity > 0 {
		effEntry := b.costModel.EffectivePrice(pos.EntryPrice, types.SideBuy)
		effExit := b.costModel.EffectivePrice(rawPrice, types.SideSell)

		trade := types.Trade{
			Symbol:     pos.Symbol,
			EntryDate:  pos.EntryDate,
			ExitDate:   date,
			EntryPrice: pos.EntryPrice,
			ExitPrice:  rawPrice,
			PnL:        pos.Quantity * (effExit - effEntry),
			ReturnPct:  (effExit - effEntry) / effEntry * 100,
		}

		return trade, pos.Quantity*effExit - b.costModel.ExitCommission(pos.Quantity)
	}

	quantity := -pos.Quantity
	effEntry := b.costModel.EffectivePrice(pos.EntryPrice, types.SideSell)
	effExit := b.costModel.EffectivePrice(rawPrice, types.SideBuy)

	trade := types.Trade{
		Symbol:     pos.Symbol,
		EntryDate:  pos.EntryDate,
		ExitDate:   date,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  rawPrice,
		PnL:        quantity * (effEntry - effExit),
		ReturnPct:  (effEntry - effExit) / effEntry * 100,
	}

	return trade, -(quantity*effExit + b.costModel.ExitCommission(quantity))
}

// windowPair mirrors window for pair bars.
func (b *BacktestEngineV1) windowPair(bars []types.PairBar) []types.PairBar {
	if b.config.StartTime.IsNone() && b.config.EndTime.IsNone() {
		return bars
	}

	windowed := make([]types.PairBar, 0, len(bars))
	for _, bar := range bars {
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

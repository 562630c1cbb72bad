// Package analytics reduces equity curves and trade ledgers to summary
// performance figures. All functions are pure; insufficient input yields a
// nil result rather than an error so callers can attach whatever the data
// supports.
package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/stratlab-dev/stratbt/internal/types"
)

// TradingDaysPerYear is the annualization factor for daily returns.
const TradingDaysPerYear = 252

// DailyReturns computes bar-over-bar simple returns from an equity curve.
// Points following a zero value produce no return. The result has at most
// len(curve)-1 entries.
func DailyReturns(curve []types.EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Value
		if prev == 0 {
			continue
		}
		returns = append(returns, curve[i].Value/prev-1)
	}

	return returns
}

// ComputeMetrics reduces an equity curve to annualized risk/return figures.
// Returns nil when the curve yields no daily returns (fewer than two points).
// riskFreeRate is the annual rate used for the Sharpe ratio.
func ComputeMetrics(curve []types.EquityPoint, riskFreeRate float64) *types.Metrics {
	returns := DailyReturns(curve)
	if len(returns) == 0 {
		return nil
	}

	mean := stat.Mean(returns, nil)
	vol := stat.PopStdDev(returns, nil)

	annualMean := mean * TradingDaysPerYear
	annualVol := vol * math.Sqrt(TradingDaysPerYear)

	sharpe := 0.0
	if annualVol != 0 {
		sharpe = (annualMean - riskFreeRate) / annualVol
	}

	return &types.Metrics{
		MeanReturn:           annualMean,
		CAGR:                 cagr(curve),
		AnnualisedVolatility: annualVol,
		SharpeRatio:          sharpe,
		MaxDrawdown:          maxDrawdown(curve),
	}
}

// cagr is the compound annual growth rate of the curve, in percent, using
// calendar time between the first and last point. Zero when the curve spans
// no time or either endpoint is non-positive.
func cagr(curve []types.EquityPoint) float64 {
	start := curve[0].Value
	final := curve[len(curve)-1].Value
	if start <= 0 || final <= 0 {
		return 0
	}

	years := curve[len(curve)-1].Date.Sub(curve[0].Date).Hours() / 24 / 365.25
	if years <= 0 {
		return 0
	}

	return (math.Pow(final/start, 1/years) - 1) * 100
}

// maxDrawdown is the largest percentage decline from a running peak of the
// curve, in percent. Zero for a curve that never declines.
func maxDrawdown(curve []types.EquityPoint) float64 {
	peak := curve[0].Value
	maxDD := 0.0
	for _, p := range curve {
		if p.Value > peak {
			peak = p.Value
		}
		if peak == 0 {
			continue
		}
		dd := (peak - p.Value) / peak
		if dd > maxDD {
			maxDD = dd
		}
	}

	return maxDD * 100
}

// ComputeTradeStats reduces a closed-trade ledger to win/loss statistics.
// Returns nil for an empty ledger. Wins are trades with positive ReturnPct;
// averages and the profit factor weight each trade's ReturnPct by its entry
// price, so larger positions count for more.
func ComputeTradeStats(trades []types.Trade) *types.TradeStats {
	if len(trades) == 0 {
		return nil
	}

	var (
		numWins, numLosses  int
		totalWin, totalLoss float64
	)

	best, worst := trades[0], trades[0]
	for _, t := range trades {
		notional := t.ReturnPct * t.EntryPrice
		if t.ReturnPct > 0 {
			numWins++
			totalWin += notional
		} else {
			numLosses++
			totalLoss += notional
		}

		if t.PnL > best.PnL {
			best = t
		}
		if t.PnL < worst.PnL {
			worst = t
		}
	}

	avgWin := 0.0
	if numWins > 0 {
		avgWin = totalWin / float64(numWins)
	}

	// totalLoss accumulates signed (negative) notionals, so the average is
	// reported as a negative number.
	avgLoss := 0.0
	if numLosses > 0 {
		avgLoss = totalLoss / float64(numLosses)
	}

	profitFactor := math.Inf(1)
	if totalLoss != 0 {
		profitFactor = totalWin / -totalLoss
	}

	return &types.TradeStats{
		NumTrades:    len(trades),
		WinRate:      float64(numWins) / float64(len(trades)) * 100,
		AvgWin:       avgWin,
		AvgLoss:      avgLoss,
		ProfitFactor: profitFactor,
		BestTrade:    best,
		WorstTrade:   worst,
	}
}

// Package portfolio runs multi-instrument backtests: a concurrent fan-out of
// independent per-instrument simulations and a forward-fill aggregation of
// their equity curves into one synthetic "overall" result.
package portfolio

import (
	"time"

	"github.com/google/uuid"

	"github.com/stratlab-dev/stratbt/internal/analytics"
	"github.com/stratlab-dev/stratbt/internal/types"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// OverallSymbol names the synthetic aggregate result.
const OverallSymbol = "overall"

// Combine merges per-instrument results into one aggregate over the union of
// their equity-curve dates. Instruments may start on different dates or have
// gaps, so each instrument contributes its last known value on or before
// every date (forward-fill), falling back to its initial capital before its
// first point. A single merge pass over the pre-sorted curves with one
// pointer per instrument keeps this O(total points).
func Combine(results []types.BacktestResult, riskFreeRate float64) (types.BacktestResult, error) {
	if len(results) == 0 {
		return types.BacktestResult{}, errors.New(errors.ErrCodeBacktestNoResults, "no results to combine")
	}

	var (
		idx       = make([]int, len(results))
		lastKnown = make([]float64, len(results))

		combinedInitial float64
		curve           []types.EquityPoint
		trades          []types.Trade
	)

	for i, result := range results {
		lastKnown[i] = result.InitialCapital
		combinedInitial += result.InitialCapital
		trades = append(trades, result.Trades...)
	}

	for {
		var (
			next  time.Time
			found bool
		)

		for i, result := range results {
			if idx[i] >= len(result.EquityCurve) {
				continue
			}

			date := result.EquityCurve[idx[i]].Date
			if !found || date.Before(next) {
				next = date
				found = true
			}
		}

		if !found {
			break
		}

		total := 0.0
		for i, result := range results {
			for idx[i] < len(result.EquityCurve) && !result.EquityCurve[idx[i]].Date.After(next) {
				lastKnown[i] = result.EquityCurve[idx[i]].Value
				idx[i]++
			}

			total += lastKnown[i]
		}

		curve = append(curve, types.EquityPoint{Date: next, Value: total})
	}

	if len(curve) == 0 {
		return types.BacktestResult{}, errors.New(errors.ErrCodeBacktestNoResults, "combined equity curve is empty")
	}

	combinedFinal := curve[len(curve)-1].Value

	return types.BacktestResult{
		ID:             uuid.NewString(),
		Symbol:         OverallSymbol,
		Strategy:       results[0].Strategy,
		InitialCapital: combinedInitial,
		FinalCapital:   combinedFinal,
		ReturnPct:      (combinedFinal/combinedInitial - 1) * 100,
		EquityCurve:    curve,
		Trades:         trades,
		Metrics:        analytics.ComputeMetrics(curve, riskFreeRate),
		TradeStats:     analytics.ComputeTradeStats(trades),
	}, nil
}

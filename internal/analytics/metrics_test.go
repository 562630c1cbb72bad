package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stratlab-dev/stratbt/internal/types"
)

type MetricsTestSuite struct {
	suite.Suite
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func curveOf(values ...float64) []types.EquityPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	curve := make([]types.EquityPoint, len(values))
	for i, value := range values {
		curve[i] = types.EquityPoint{Date: start.AddDate(0, 0, i), Value: value}
	}

	return curve
}

func (suite *MetricsTestSuite) TestDailyReturns() {
	returns := DailyReturns(curveOf(100, 110, 99))

	suite.Require().Len(returns, 2)
	suite.InDelta(0.10, returns[0], 1e-9)
	suite.InDelta(-0.10, returns[1], 1e-9)

	suite.Nil(DailyReturns(curveOf(100)))
	suite.Nil(DailyReturns(nil))
}

func (suite *MetricsTestSuite) TestDailyReturnsSkipsZeroPrevious() {
	returns := DailyReturns(curveOf(100, 0, 50))
	suite.Require().Len(returns, 1)
	suite.InDelta(-1.0, returns[0], 1e-9)
}

func (suite *MetricsTestSuite) TestComputeMetricsNilForShortCurve() {
	suite.Nil(ComputeMetrics(curveOf(100), 0.01))
	suite.Nil(ComputeMetrics(nil, 0.01))
}

func (suite *MetricsTestSuite) TestComputeMetricsFlatCurve() {
	metrics := ComputeMetrics(curveOf(100, 100, 100, 100), 0.01)
	suite.Require().NotNil(metrics)

	suite.Equal(0.0, metrics.MeanReturn)
	suite.Equal(0.0, metrics.AnnualisedVolatility)
	// Zero volatility yields a zero ratio, never a division by zero.
	suite.Equal(0.0, metrics.SharpeRatio)
	suite.Equal(0.0, metrics.MaxDrawdown)
	suite.Equal(0.0, metrics.CAGR)
}

func (suite *MetricsTestSuite) TestComputeMetricsAnnualization() {
	metrics := ComputeMetrics(curveOf(100, 110, 99), 0.01)
	suite.Require().NotNil(metrics)

	// Daily returns +10% and -10%: mean 0, population std 0.10.
	suite.InDelta(0.0, metrics.MeanReturn, 1e-9)
	suite.InDelta(0.10*math.Sqrt(252), metrics.AnnualisedVolatility, 1e-9)
	suite.InDelta((0.0-0.01)/(0.10*math.Sqrt(252)), metrics.SharpeRatio, 1e-9)

	// Peak 110 down to 99.
	suite.InDelta((110.0-99.0)/110.0*100, metrics.MaxDrawdown, 1e-9)

	// Two days elapsed with a net loss.
	suite.Less(metrics.CAGR, 0.0)
}

func (suite *MetricsTestSuite) TestMaxDrawdownMonotoneCurve() {
	metrics := ComputeMetrics(curveOf(100, 105, 111, 120), 0.01)
	suite.Require().NotNil(metrics)
	suite.Equal(0.0, metrics.MaxDrawdown)
	suite.Greater(metrics.CAGR, 0.0)
}

func tradeOf(returnPct, entryPrice, pnl float64) types.Trade {
	return types.Trade{
		Symbol:     "TEST",
		EntryPrice: entryPrice,
		ExitPrice:  entryPrice * (1 + returnPct/100),
		ReturnPct:  returnPct,
		PnL:        pnl,
	}
}

func (suite *MetricsTestSuite) TestComputeTradeStatsEmpty() {
	suite.Nil(ComputeTradeStats(nil))
	suite.Nil(ComputeTradeStats([]types.Trade{}))
}

func (suite *MetricsTestSuite) TestComputeTradeStats() {
	trades := []types.Trade{
		tradeOf(10, 100, 500),  // win, notional 1000
		tradeOf(-5, 200, -300), // loss, notional -1000
		tradeOf(20, 50, 800),   // win, notional 1000
	}

	stats := ComputeTradeStats(trades)
	suite.Require().NotNil(stats)

	suite.Equal(3, stats.NumTrades)
	suite.InDelta(2.0/3.0*100, stats.WinRate, 1e-9)

	// Notional-weighted: wins sum to 2000 over 2 trades, losses to -1000
	// over 1 trade.
	suite.InDelta(1000.0, stats.AvgWin, 1e-9)
	suite.InDelta(-1000.0, stats.AvgLoss, 1e-9)
	suite.InDelta(2.0, stats.ProfitFactor, 1e-9)

	suite.Equal(800.0, stats.BestTrade.PnL)
	suite.Equal(-300.0, stats.WorstTrade.PnL)
}

func (suite *MetricsTestSuite) TestAvgLossReportedNegative() {
	trades := []types.Trade{
		tradeOf(-5, 200, -500),
		tradeOf(10, 100, 400),
	}

	stats := ComputeTradeStats(trades)
	suite.Require().NotNil(stats)

	// The lone loss has notional -5 * 200 = -1000 and keeps its sign.
	suite.InDelta(-1000.0, stats.AvgLoss, 1e-9)
	suite.InDelta(1000.0, stats.AvgWin, 1e-9)
	suite.InDelta(1.0, stats.ProfitFactor, 1e-9)
}

func (suite *MetricsTestSuite) TestProfitFactorInfiniteWithoutLosses() {
	stats := ComputeTradeStats([]types.Trade{tradeOf(10, 100, 500)})
	suite.Require().NotNil(stats)

	suite.True(math.IsInf(stats.ProfitFactor, 1))
	suite.Equal(100.0, stats.WinRate)
	suite.Equal(0.0, stats.AvgLoss)
}

func (suite *MetricsTestSuite) TestZeroReturnTradeCountsAsLoss() {
	stats := ComputeTradeStats([]types.Trade{tradeOf(0, 100, 0), tradeOf(10, 100, 100)})
	suite.Require().NotNil(stats)

	suite.Equal(50.0, stats.WinRate)
	suite.Equal(2, stats.NumTrades)
}

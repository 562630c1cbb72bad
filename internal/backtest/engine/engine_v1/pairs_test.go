package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stratlab-dev/stratbt/internal/types"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// scriptedPairsStrategy replays fixed spread signals per bar index.
type scriptedPairsStrategy struct {
	signals    map[int]types.SignalType
	hedgeRatio float64
}

func (s *scriptedPairsStrategy) Name() types.StrategyType { return "scripted_pairs" }

func (s *scriptedPairsStrategy) Config(params types.StrategyParams) error { return nil }

func (s *scriptedPairsStrategy) Signal(series types.PairSeries, i int) types.SignalType {
	if signal, ok := s.signals[i]; ok {
		return signal
	}

	return types.SignalTypeHold
}

func (s *scriptedPairsStrategy) HedgeRatio() float64 { return s.hedgeRatio }

type PairsEngineTestSuite struct {
	suite.Suite
}

func TestPairsEngineSuite(t *testing.T) {
	suite.Run(t, new(PairsEngineTestSuite))
}

func pairSeries(closes1, closes2 []float64) types.PairSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	bars := make([]types.PairBar, len(closes1))
	for i := range closes1 {
		bars[i] = types.PairBar{Date: start.AddDate(0, 0, i), Close1: closes1[i], Close2: closes2[i]}
	}

	return types.PairSeries{Symbol1: "AAA", Symbol2: "BBB", Bars: bars}
}

func (suite *PairsEngineTestSuite) newEngine(config SimulationConfig) *BacktestEngineV1 {
	eng, err := NewBacktestEngineV1(config, nil)
	suite.Require().NoError(err)

	return eng.(*BacktestEngineV1)
}

func (suite *PairsEngineTestSuite) TestLongSpreadRoundTrip() {
	eng := suite.newEngine(TestConfig(10000))

	// Spread converges from -10 to 0: a long spread position profits on both
	// legs.
	series := pairSeries(
		[]float64{100, 100, 105, 110},
		[]float64{110, 110, 108, 110},
	)

	strat := &scriptedPairsStrategy{
		hedgeRatio: 1,
		signals: map[int]types.SignalType{
			1: types.SignalTypeLong,
			3: types.SignalTypeExit,
		},
	}

	result, err := eng.RunPairs(series, strat)
	suite.Require().NoError(err)

	suite.Equal("AAA/BBB", result.Symbol)
	suite.Require().Len(result.Trades, 2)

	long, short := result.Trades[0], result.Trades[1]
	suite.Equal("AAA", long.Symbol)
	suite.Equal("BBB", short.Symbol)

	// q1 = 10000/100 = 100 on both legs at hedge ratio 1.
	suite.InDelta(100*(110.0-100.0), long.PnL, 1e-9)
	suite.InDelta(100*(110.0-110.0), short.PnL, 1e-9)
	suite.InDelta(10.0, long.ReturnPct, 1e-9)
	suite.InDelta(0.0, short.ReturnPct, 1e-9)

	// Zero costs: final capital is initial plus both legs' pnl.
	suite.InDelta(10000.0+long.PnL+short.PnL, result.FinalCapital, 1e-9)

	// Equity is conserved at the entry bar and marks both legs afterwards.
	suite.InDelta(10000.0, result.EquityCurve[1].Value, 1e-9)
	suite.InDelta(10000.0+100*(105.0-100.0)+100*(110.0-108.0), result.EquityCurve[2].Value, 1e-9)
}

func (suite *PairsEngineTestSuite) TestShortSpreadRoundTrip() {
	eng := suite.newEngine(TestConfig(10000))

	// Spread converges from +10 to 0: a short spread position profits on the
	// first leg.
	series := pairSeries(
		[]float64{110, 110, 100},
		[]float64{100, 100, 100},
	)

	strat := &scriptedPairsStrategy{
		hedgeRatio: 1,
		signals: map[int]types.SignalType{
			1: types.SignalTypeShort,
			2: types.SignalTypeExit,
		},
	}

	result, err := eng.RunPairs(series, strat)
	suite.Require().NoError(err)
	suite.Require().Len(result.Trades, 2)

	// q2 = 10000/100 = 100 long BBB, q1 = 100 short AAA.
	first, second := result.Trades[0], result.Trades[1]
	suite.Equal("AAA", first.Symbol)
	suite.InDelta(100*(110.0-100.0), first.PnL, 1e-9, "short leg gains as the price falls")
	suite.InDelta(0.0, second.PnL, 1e-9)

	suite.InDelta(11000.0, result.FinalCapital, 1e-9)
	suite.Greater(result.ReturnPct, 0.0)
}

func (suite *PairsEngineTestSuite) TestForcedLiquidationClosesBothLegs() {
	eng := suite.newEngine(TestConfig(10000))

	series := pairSeries(
		[]float64{100, 100, 102},
		[]float64{100, 100, 101},
	)

	strat := &scriptedPairsStrategy{
		hedgeRatio: 1,
		signals:    map[int]types.SignalType{0: types.SignalTypeLong},
	}

	result, err := eng.RunPairs(series, strat)
	suite.Require().NoError(err)

	// No exit signal: the end-of-series liquidation closes both legs.
	suite.Require().Len(result.Trades, 2)
	suite.Equal(series.Bars[2].Date, result.Trades[0].ExitDate)
	suite.Equal(series.Bars[2].Date, result.Trades[1].ExitDate)

	suite.InDelta(10000.0+100*(102.0-100.0)+100*(100.0-101.0), result.FinalCapital, 1e-9)
}

func (suite *PairsEngineTestSuite) TestHedgeRatioSizesSecondLeg() {
	eng := suite.newEngine(TestConfig(10000))

	series := pairSeries(
		[]float64{100, 100, 100},
		[]float64{50, 50, 52},
	)

	strat := &scriptedPairsStrategy{
		hedgeRatio: 0.5,
		signals: map[int]types.SignalType{
			0: types.SignalTypeLong,
			2: types.SignalTypeExit,
		},
	}

	result, err := eng.RunPairs(series, strat)
	suite.Require().NoError(err)
	suite.Require().Len(result.Trades, 2)

	// q1 = 100, q2 = 0.5*100 = 50 short: the second leg loses 2 per share.
	suite.InDelta(50*(50.0-52.0), result.Trades[1].PnL, 1e-9)
}

func (suite *PairsEngineTestSuite) TestEmptyPairSeriesRejected() {
	eng := suite.newEngine(TestConfig(10000))

	_, err := eng.RunPairs(types.PairSeries{Symbol1: "AAA", Symbol2: "BBB"}, &scriptedPairsStrategy{hedgeRatio: 1})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSeries))
}

func (suite *PairsEngineTestSuite) TestNonPositivePairCloseRejected() {
	eng := suite.newEngine(TestConfig(10000))

	// Directly constructed pair series bypass NewPairSeries, so RunPairs must
	// reject bad closes itself before simulating.
	series := pairSeries(
		[]float64{100, 0, 102},
		[]float64{50, 51, 52},
	)

	_, err := eng.RunPairs(series, &scriptedPairsStrategy{hedgeRatio: 1})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSeries))

	series = pairSeries(
		[]float64{100, 101, 102},
		[]float64{50, -51, 52},
	)

	_, err = eng.RunPairs(series, &scriptedPairsStrategy{hedgeRatio: 1})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSeries))
}

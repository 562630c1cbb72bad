package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EquityPoint is the mark-to-market portfolio value at the end of one bar:
// cash plus quantity times the bar close. One point exists for every bar of
// the input series, so the equity curve keeps the series' date alignment.
type EquityPoint struct {
	Date  time.Time `yaml:"date"`
	Value float64   `yaml:"value"`
}

// Metrics holds annualized risk/return figures reduced from an equity curve.
// A nil *Metrics means the curve had fewer than two points.
type Metrics struct {
	// Mean daily return annualized over 252 trading days.
	MeanReturn float64 `yaml:"mean_return"`
	// Compound annual growth rate, in percent.
	CAGR float64 `yaml:"cagr"`
	// Daily return standard deviation annualized over 252 trading days.
	AnnualisedVolatility float64 `yaml:"annualised_volatility"`
	// Annualized excess return over the risk-free rate per unit of volatility.
	SharpeRatio float64 `yaml:"sharpe_ratio"`
	// Largest percentage decline from a running peak of the curve.
	MaxDrawdown float64 `yaml:"max_drawdown"`
}

// TradeStats holds ledger statistics. A nil *TradeStats means the ledger was
// empty. AvgWin and AvgLoss are dollar-notional-weighted averages
// (returnPct times entryPrice), not simple averages of returnPct; AvgLoss
// keeps the negative sign of its trades. ProfitFactor is the ratio of the
// notional-weighted win/loss sums
// (+Inf when there are no losing trades).
type TradeStats struct {
	NumTrades    int     `yaml:"num_trades"`
	WinRate      float64 `yaml:"win_rate"`
	AvgWin       float64 `yaml:"avg_win"`
	AvgLoss      float64 `yaml:"avg_loss"`
	ProfitFactor float64 `yaml:"profit_factor"`
	BestTrade    Trade   `yaml:"best_trade"`
	WorstTrade   Trade   `yaml:"worst_trade"`
}

// BacktestResult is the complete output of one simulation run, or of the
// portfolio aggregation (symbol "overall"). Never mutated after creation.
type BacktestResult struct {
	// ID uniquely identifies this run.
	ID string `yaml:"id"`
	// Symbol of the instrument, or "overall" for the aggregate.
	Symbol string `yaml:"symbol"`
	// Strategy that produced the run.
	Strategy StrategyType `yaml:"strategy"`

	InitialCapital float64 `yaml:"initial_capital"`
	FinalCapital   float64 `yaml:"final_capital"`
	ReturnPct      float64 `yaml:"return_pct"`

	EquityCurve []EquityPoint `yaml:"equity_curve"`
	Trades      []Trade       `yaml:"trades"`

	Metrics    *Metrics    `yaml:"metrics"`
	TradeStats *TradeStats `yaml:"trade_stats"`
}

// WriteResult serializes a result to a YAML file.
func WriteResult(path string, result BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}

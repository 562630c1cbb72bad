package types

import (
	"math"

	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// StrategyType identifies a registered strategy variant.
type StrategyType string

const (
	StrategyTypeSMACrossover       StrategyType = "sma_crossover"
	StrategyTypeBollingerReversion StrategyType = "bollinger_reversion"
	StrategyTypeRSIReversion       StrategyType = "rsi_reversion"
	StrategyTypeMomentum           StrategyType = "momentum"
	StrategyTypeBreakout           StrategyType = "breakout"
	StrategyTypePairsTrading       StrategyType = "pairs_trading"
)

// StrategyParams is a named mapping of parameter name to numeric value.
// Immutable for the duration of one simulation run.
type StrategyParams map[string]float64

// Float returns the named parameter.
func (p StrategyParams) Float(name string) (float64, error) {
	value, ok := p[name]
	if !ok {
		return 0, errors.Newf(errors.ErrCodeMissingParameter, "missing parameter %q", name)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "parameter %q is not finite", name)
	}

	return value, nil
}

// FloatOr returns the named parameter, or fallback when absent.
func (p StrategyParams) FloatOr(name string, fallback float64) float64 {
	value, err := p.Float(name)
	if err != nil {
		return fallback
	}

	return value
}

// Int returns the named parameter as a positive integer period.
func (p StrategyParams) Int(name string) (int, error) {
	value, err := p.Float(name)
	if err != nil {
		return 0, err
	}

	period := int(value)
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "parameter %q must be a positive integer, got %v", name, value)
	}

	return period, nil
}

// IntOr returns the named parameter as an int, or fallback when absent.
func (p StrategyParams) IntOr(name string, fallback int) int {
	period, err := p.Int(name)
	if err != nil {
		return fallback
	}

	return period
}

// Clone returns a copy so a caller's map cannot mutate a configured strategy.
func (p StrategyParams) Clone() StrategyParams {
	clone := make(StrategyParams, len(p))
	for name, value := range p {
		clone[name] = value
	}

	return clone
}

// Merge returns a copy of p with overrides applied on top.
func (p StrategyParams) Merge(overrides StrategyParams) StrategyParams {
	merged := p.Clone()
	for name, value := range overrides {
		merged[name] = value
	}

	return merged
}

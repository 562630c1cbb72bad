// Package commission_fee implements the closed-form cost model: effective
// (slippage-adjusted) fill prices and transaction commissions.
package commission_fee

import "github.com/stratlab-dev/stratbt/internal/types"

// CostModel prices one fill.
//
// EntryCommission solves for the fee that maximises the tradable quantity
// under a combined percentage-of-notional plus fixed-per-share fee, so the
// purchased position plus its commission never exceeds available capital.
// ExitCommission is deducted from sale proceeds. Both are finite and
// non-negative for non-negative inputs.
type CostModel interface {
	// EffectivePrice applies slippage: buys pay rawPrice*(1+slippage),
	// sells receive rawPrice*(1-slippage).
	EffectivePrice(rawPrice float64, side types.Side) float64
	// EntryCommission is the fee charged when opening a position with the
	// given capital at the given effective price.
	EntryCommission(capital float64, effectivePrice float64) float64
	// ExitCommission is the fee charged when closing a position of the
	// given quantity.
	ExitCommission(quantity float64) float64
}

// Model selects a CostModel implementation.
type Model string

const (
	ModelPercentFixed Model = "percent_fixed"
	ModelZero         Model = "zero"
)

// AllModels lists the selectable cost models, for config schema generation.
var AllModels = []any{
	ModelPercentFixed,
	ModelZero,
}

// GetCostModel returns the CostModel for the given selector, defaulting to
// the percent+fixed model.
func GetCostModel(model Model, slippagePct, commissionPct, commissionFixed float64) CostModel {
	switch model {
	case ModelZero:
		return NewZeroCostModel()
	case ModelPercentFixed:
		return NewPercentFixedCostModel(slippagePct, commissionPct, commissionFixed)
	default:
		return NewPercentFixedCostModel(slippagePct, commissionPct, commissionFixed)
	}
}

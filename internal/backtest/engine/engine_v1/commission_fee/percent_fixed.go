package commission_fee

import (
	"math"

	"github.com/stratlab-dev/stratbt/internal/types"
)

// PercentFixedCostModel charges a percentage of notional plus a fixed fee
// per share, with symmetric percentage slippage on fills.
type PercentFixedCostModel struct {
	slippagePct     float64
	commissionPct   float64
	commissionFixed float64
}

// NewPercentFixedCostModel creates the percent+fixed cost model. Negative
// rates are clamped to zero.
func NewPercentFixedCostModel(slippagePct, commissionPct, commissionFixed float64) CostModel {
	return &PercentFixedCostModel{
		slippagePct:     math.Max(slippagePct, 0),
		commissionPct:   math.Max(commissionPct, 0),
		commissionFixed: math.Max(commissionFixed, 0),
	}
}

// EffectivePrice implements CostModel.
func (c *PercentFixedCostModel) EffectivePrice(rawPrice float64, side types.Side) float64 {
	if side == types.SideBuy {
		return rawPrice * (1 + c.slippagePct)
	}

	return rawPrice * (1 - c.slippagePct)
}

// EntryCommission implements CostModel. The fee solves
//
//	commission = (capital*pct + fixed*price) / (price + pct)
//
// which sizes the entry so quantity*price plus the commission stays within
// capital.
func (c *PercentFixedCostModel) EntryCommission(capital float64, effectivePrice float64) float64 {
	if effectivePrice+c.commissionPct <= 0 {
		return 0
	}

	fee := (capital*c.commissionPct + c.commissionFixed*effectivePrice) / (effectivePrice + c.commissionPct)

	return math.Max(fee, 0)
}

// ExitCommission implements CostModel.
func (c *PercentFixedCostModel) ExitCommission(quantity float64) float64 {
	return math.Max(quantity*c.commissionPct+c.commissionFixed, 0)
}

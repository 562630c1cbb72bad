package commission_fee

import "github.com/stratlab-dev/stratbt/internal/types"

// ZeroCostModel implements CostModel with no slippage and no commission.
type ZeroCostModel struct{}

// NewZeroCostModel creates a new zero cost model.
func NewZeroCostModel() CostModel {
	return &ZeroCostModel{}
}

// EffectivePrice returns the raw price unchanged.
func (c *ZeroCostModel) EffectivePrice(rawPrice float64, side types.Side) float64 {
	return rawPrice
}

// EntryCommission returns 0 for any entry.
func (c *ZeroCostModel) EntryCommission(capital float64, effectivePrice float64) float64 {
	return 0.0
}

// ExitCommission returns 0 for any exit.
func (c *ZeroCostModel) ExitCommission(quantity float64) float64 {
	return 0.0
}

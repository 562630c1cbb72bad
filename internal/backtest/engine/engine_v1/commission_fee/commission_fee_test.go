package commission_fee

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stratlab-dev/stratbt/internal/types"
)

type CommissionFeeTestSuite struct {
	suite.Suite
}

func TestCommissionFeeSuite(t *testing.T) {
	suite.Run(t, new(CommissionFeeTestSuite))
}

func (suite *CommissionFeeTestSuite) TestZeroCostModel() {
	model := NewZeroCostModel()

	suite.Equal(100.0, model.EffectivePrice(100, types.SideBuy))
	suite.Equal(100.0, model.EffectivePrice(100, types.SideSell))
	suite.Equal(0.0, model.EntryCommission(10000, 100))
	suite.Equal(0.0, model.ExitCommission(50))
}

func (suite *CommissionFeeTestSuite) TestEffectivePrice() {
	model := NewPercentFixedCostModel(0.01, 0, 0)

	tests := []struct {
		name     string
		side     types.Side
		raw      float64
		expected float64
	}{
		{"buy pays up", types.SideBuy, 100, 101},
		{"sell receives less", types.SideSell, 100, 99},
		{"zero price", types.SideBuy, 0, 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, model.EffectivePrice(tc.raw, tc.side), 1e-9)
		})
	}
}

func (suite *CommissionFeeTestSuite) TestEntryCommissionSizing() {
	// capital=10000, pct=0.001, fixed=0, price=100: the quantity bought plus
	// its commission must never exceed the available capital.
	model := NewPercentFixedCostModel(0, 0.001, 0)

	capital := 10000.0
	price := 100.0

	fee := model.EntryCommission(capital, price)
	quantity := (capital - fee) / price

	suite.Greater(quantity, 0.0)
	suite.LessOrEqual(quantity*price+fee, capital+1e-9)

	// Closed form: fee = (10000*0.001 + 0) / (100 + 0.001).
	suite.InDelta(10000.0*0.001/(100+0.001), fee, 1e-9)
}

func (suite *CommissionFeeTestSuite) TestEntryCommissionClampsNegative() {
	model := NewPercentFixedCostModel(0, -1, -5)

	suite.Equal(0.0, model.EntryCommission(10000, 100))
	suite.Equal(0.0, model.ExitCommission(50))
}

func (suite *CommissionFeeTestSuite) TestExitCommission() {
	model := NewPercentFixedCostModel(0, 0.002, 1.5)

	suite.InDelta(50*0.002+1.5, model.ExitCommission(50), 1e-9)
	suite.InDelta(1.5, model.ExitCommission(0), 1e-9)
}

func (suite *CommissionFeeTestSuite) TestGetCostModel() {
	tests := []struct {
		name         string
		model        Model
		expectedType string
	}{
		{"percent fixed", ModelPercentFixed, "*commission_fee.PercentFixedCostModel"},
		{"zero", ModelZero, "*commission_fee.ZeroCostModel"},
		{"unknown defaults to percent fixed", Model("unknown"), "*commission_fee.PercentFixedCostModel"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			model := GetCostModel(tc.model, 0, 0, 0)
			suite.NotNil(model)
			suite.Equal(tc.expectedType, fmt.Sprintf("%T", model))
		})
	}
}

func (suite *CommissionFeeTestSuite) TestAllModels() {
	suite.Len(AllModels, 2)
	suite.Contains(AllModels, ModelPercentFixed)
	suite.Contains(AllModels, ModelZero)
}

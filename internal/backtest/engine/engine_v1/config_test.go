package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"

	"github.com/stratlab-dev/stratbt/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestValidate() {
	tests := []struct {
		name        string
		mutate      func(*SimulationConfig)
		expectError bool
	}{
		{
			name:        "valid",
			mutate:      func(c *SimulationConfig) {},
			expectError: false,
		},
		{
			name:        "zero capital",
			mutate:      func(c *SimulationConfig) { c.InitialCapital = 0 },
			expectError: true,
		},
		{
			name:        "negative slippage",
			mutate:      func(c *SimulationConfig) { c.SlippagePct = -0.01 },
			expectError: true,
		},
		{
			name:        "negative commission",
			mutate:      func(c *SimulationConfig) { c.CommissionPct = -1 },
			expectError: true,
		},
		{
			name: "end before start",
			mutate: func(c *SimulationConfig) {
				c.StartTime = optionalTime(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
				c.EndTime = optionalTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
			},
			expectError: true,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			config := TestConfig(10000)
			tc.mutate(&config)

			err := config.Validate()
			if tc.expectError {
				suite.True(errors.HasCode(err, errors.ErrCodeBacktestConfigError))
			} else {
				suite.NoError(err)
			}
		})
	}
}

func (suite *ConfigTestSuite) TestUnmarshalYAML() {
	raw := `
initial_capital: 50000
slippage_pct: 0.0005
commission_pct: 0.001
commission_fixed: 0.01
risk_free_rate: 0.02
cost_model: percent_fixed
start_time: 2024-01-01T00:00:00Z
end_time: 2024-06-30T00:00:00Z
`

	var config SimulationConfig
	suite.Require().NoError(yaml.Unmarshal([]byte(raw), &config))

	suite.Equal(50000.0, config.InitialCapital)
	suite.Equal(0.0005, config.SlippagePct)
	suite.Equal(0.001, config.CommissionPct)
	suite.Equal(0.01, config.CommissionFixed)
	suite.Equal(0.02, config.RiskFreeRate)
	suite.Equal(commission_fee.ModelPercentFixed, config.CostModel)

	suite.Require().True(config.StartTime.IsSome())
	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), config.StartTime.Unwrap().UTC())
	suite.Require().True(config.EndTime.IsSome())
}

func (suite *ConfigTestSuite) TestUnmarshalYAMLOmittedWindow() {
	raw := `
initial_capital: 10000
`

	var config SimulationConfig
	suite.Require().NoError(yaml.Unmarshal([]byte(raw), &config))

	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
	suite.Equal(DefaultRiskFreeRate, config.RiskFreeRate)
	suite.Equal(commission_fee.ModelPercentFixed, config.CostModel)
}

func (suite *ConfigTestSuite) TestEmptyConfigDefaults() {
	config := EmptyConfig()

	suite.Equal(DefaultRiskFreeRate, config.RiskFreeRate)
	suite.Equal(commission_fee.ModelPercentFixed, config.CostModel)
	suite.True(config.StartTime.IsNone())
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := EmptyConfig()

	schema, err := config.GenerateSchemaJSON()
	suite.Require().NoError(err)

	suite.Contains(schema, "initial_capital")
	suite.Contains(schema, "cost_model")
	suite.Contains(schema, "percent_fixed")
}

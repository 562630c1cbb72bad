package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"

	"github.com/stratlab-dev/stratbt/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// DefaultRiskFreeRate is the annual risk-free rate used for the Sharpe
// ratio when the config leaves it unset.
const DefaultRiskFreeRate = 0.01

// SimulationConfig carries the capital, cost and windowing parameters of
// one simulation run. Immutable for the duration of the run.
type SimulationConfig struct {
	InitialCapital  float64                    `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0"`
	SlippagePct     float64                    `yaml:"slippage_pct" json:"slippage_pct" validate:"gte=0" jsonschema:"title=Slippage,description=Fractional execution-price penalty per fill (e.g. 0.0005)"`
	CommissionPct   float64                    `yaml:"commission_pct" json:"commission_pct" validate:"gte=0" jsonschema:"title=Commission Percentage,description=Percentage-of-notional commission (e.g. 0.001)"`
	CommissionFixed float64                    `yaml:"commission_fixed" json:"commission_fixed" validate:"gte=0" jsonschema:"title=Fixed Commission,description=Fixed commission per share"`
	RiskFreeRate    float64                    `yaml:"risk_free_rate" json:"risk_free_rate" validate:"gte=0" jsonschema:"title=Risk Free Rate,description=Annual risk-free rate for the Sharpe ratio"`
	CostModel       commission_fee.Model       `yaml:"cost_model" json:"cost_model" jsonschema:"title=Cost Model,description=The cost model used for commissions and slippage"`
	StartTime       optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start of the simulated date window"`
	EndTime         optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end of the simulated date window"`
}

// UnmarshalYAML implements custom unmarshaling for SimulationConfig
func (c *SimulationConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		InitialCapital  float64              `yaml:"initial_capital"`
		SlippagePct     float64              `yaml:"slippage_pct"`
		CommissionPct   float64              `yaml:"commission_pct"`
		CommissionFixed float64              `yaml:"commission_fixed"`
		RiskFreeRate    *float64             `yaml:"risk_free_rate"`
		CostModel       commission_fee.Model `yaml:"cost_model"`
		StartTime       *time.Time           `yaml:"start_time"`
		EndTime         *time.Time           `yaml:"end_time"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	c.SlippagePct = config.SlippagePct
	c.CommissionPct = config.CommissionPct
	c.CommissionFixed = config.CommissionFixed
	c.RiskFreeRate = DefaultRiskFreeRate
	if config.RiskFreeRate != nil {
		c.RiskFreeRate = *config.RiskFreeRate
	}

	c.CostModel = config.CostModel
	if c.CostModel == "" {
		c.CostModel = commission_fee.ModelPercentFixed
	}

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate rejects malformed configs before any simulation begins.
func (c *SimulationConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid simulation config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeBacktestConfigError, "end_time must not precede start_time")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the SimulationConfig
func (c *SimulationConfig) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}
			if strings.Contains(t.String(), "commission_fee.Model") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllModels,
				}
			}
			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "simulation-config"
	schema.Description = "Configuration schema for the backtest simulator"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates a JSON schema string for the SimulationConfig
func (c *SimulationConfig) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// EmptyConfig returns a SimulationConfig with default values.
func EmptyConfig() SimulationConfig {
	return SimulationConfig{
		InitialCapital:  0,
		SlippagePct:     0,
		CommissionPct:   0,
		CommissionFixed: 0,
		RiskFreeRate:    DefaultRiskFreeRate,
		CostModel:       commission_fee.ModelPercentFixed,
		StartTime:       optional.None[time.Time](),
		EndTime:         optional.None[time.Time](),
	}
}

// TestConfig returns a zero-cost config used throughout the test suites.
func TestConfig(initialCapital float64) SimulationConfig {
	return SimulationConfig{
		InitialCapital:  initialCapital,
		SlippagePct:     0,
		CommissionPct:   0,
		CommissionFixed: 0,
		RiskFreeRate:    DefaultRiskFreeRate,
		CostModel:       commission_fee.ModelZero,
		StartTime:       optional.None[time.Time](),
		EndTime:         optional.None[time.Time](),
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	engine_v1 "github.com/stratlab-dev/stratbt/internal/backtest/engine/engine_v1"
	"github.com/stratlab-dev/stratbt/internal/datasource"
	"github.com/stratlab-dev/stratbt/internal/logger"
	"github.com/stratlab-dev/stratbt/internal/portfolio"
	"github.com/stratlab-dev/stratbt/internal/strategy"
	"github.com/stratlab-dev/stratbt/internal/types"
)

// RunConfig is the YAML file driving one backtest invocation.
type RunConfig struct {
	// Simulation carries capital, costs and the optional date window.
	Simulation engine_v1.SimulationConfig `yaml:"simulation"`
	// Strategy is the registry key of the strategy to run.
	Strategy types.StrategyType `yaml:"strategy"`
	// Params overrides the strategy's default parameters.
	Params types.StrategyParams `yaml:"params"`
	// Symbols restricts the run; empty means every symbol in the data file.
	// Pairs strategies require exactly two symbols.
	Symbols []string `yaml:"symbols"`
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	dataPath := cmd.String("data")
	outputDir := cmd.String("output")

	raw, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read run config: %w", err)
	}

	config := RunConfig{Simulation: engine_v1.EmptyConfig()}
	if err := yaml.Unmarshal(raw, &config); err != nil {
		return fmt.Errorf("failed to parse run config: %w", err)
	}

	log, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	source, err := datasource.NewDuckDBDataSource("", log)
	if err != nil {
		return err
	}
	defer func() { _ = source.Close() }()

	if err := source.Initialize(dataPath); err != nil {
		return err
	}

	registry := strategy.DefaultRegistry()

	def, err := registry.Get(config.Strategy)
	if err != nil {
		return err
	}

	symbols := config.Symbols
	if len(symbols) == 0 {
		if symbols, err = source.Symbols(); err != nil {
			return err
		}
	}

	if len(symbols) == 0 {
		return fmt.Errorf("no symbols found in %s", dataPath)
	}

	instruments, err := loadInstruments(source, symbols, config.Simulation)
	if err != nil {
		return err
	}

	runner, err := portfolio.NewRunner(config.Simulation, registry, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if def.Pairs() {
		if len(instruments) != 2 {
			return fmt.Errorf("strategy %s requires exactly two symbols, got %d", config.Strategy, len(instruments))
		}

		result, err := runner.RunPairs(ctx, instruments[0], instruments[1], config.Strategy, config.Params)
		if err != nil {
			return err
		}

		if err := writeResult(outputDir, "overall", result); err != nil {
			return err
		}

		printSummary([]types.BacktestResult{result})

		return nil
	}

	overall, results, err := runner.Run(ctx, instruments, config.Strategy, config.Params)
	if err != nil {
		return err
	}

	for _, result := range results {
		if err := writeResult(outputDir, result.Symbol, result); err != nil {
			return err
		}
	}

	if err := writeResult(outputDir, "overall", overall); err != nil {
		return err
	}

	printSummary(append(results, overall))

	return nil
}

// loadInstruments fetches every symbol's bars inside the configured window.
func loadInstruments(source datasource.DataSource, symbols []string, config engine_v1.SimulationConfig) ([]portfolio.Instrument, error) {
	bar := progressbar.Default(int64(len(symbols)), "loading bars")

	instruments := make([]portfolio.Instrument, 0, len(symbols))
	for _, symbol := range symbols {
		series, err := source.Bars(symbol, config.StartTime, config.EndTime)
		if err != nil {
			return nil, err
		}

		instruments = append(instruments, portfolio.Instrument{Symbol: symbol, Series: series})

		_ = bar.Add(1)
	}

	_ = bar.Finish()

	return instruments, nil
}

func writeResult(outputDir string, name string, result types.BacktestResult) error {
	path := filepath.Join(outputDir, strings.ReplaceAll(name, "/", "_")+".yaml")

	return types.WriteResult(path, result)
}

func printSummary(results []types.BacktestResult) {
	fmt.Printf("%-12s %14s %14s %10s %10s %8s\n",
		"SYMBOL", "INITIAL", "FINAL", "RETURN%", "MAXDD%", "TRADES")

	for _, r := range results {
		maxDD := "n/a"
		if r.Metrics != nil {
			maxDD = decimal.NewFromFloat(r.Metrics.MaxDrawdown).Round(2).String()
		}

		fmt.Printf("%-12s %14s %14s %10s %10s %8d\n",
			r.Symbol,
			decimal.NewFromFloat(r.InitialCapital).Round(2).String(),
			decimal.NewFromFloat(r.FinalCapital).Round(2).String(),
			decimal.NewFromFloat(r.ReturnPct).Round(2).String(),
			maxDD,
			len(r.Trades),
		)
	}
}

func schemaAction(ctx context.Context, cmd *cli.Command) error {
	config := engine_v1.EmptyConfig()

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func strategiesAction(ctx context.Context, cmd *cli.Command) error {
	registry := strategy.DefaultRegistry()

	names := registry.List()
	slices.Sort(names)

	for _, name := range names {
		def, err := registry.Get(name)
		if err != nil {
			return err
		}

		kind := "single"
		if def.Pairs() {
			kind = "pairs"
		}

		fmt.Printf("%-22s %s\n", name, kind)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run strategy backtests over historical bar data",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a backtest described by a YAML config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the run config YAML",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the market data file (.csv or .parquet)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory for result files",
						Value:   "results",
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the simulation config",
				Action: schemaAction,
			},
			{
				Name:   "strategies",
				Usage:  "List the available strategies",
				Action: strategiesAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

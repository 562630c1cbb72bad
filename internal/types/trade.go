package types

import "time"

// Trade is one closed round trip. PnL and ReturnPct are cost-inclusive
// (slippage applied to both legs). A Trade is created only when a position
// is fully closed, including the forced end-of-series liquidation, and is
// immutable once appended to the ledger.
type Trade struct {
	Symbol     string    `yaml:"symbol"`
	EntryDate  time.Time `yaml:"entry_date"`
	ExitDate   time.Time `yaml:"exit_date"`
	EntryPrice float64   `yaml:"entry_price"`
	ExitPrice  float64   `yaml:"exit_price"`
	PnL        float64   `yaml:"pnl"`
	ReturnPct  float64   `yaml:"return_pct"`
}

// Position is the simulator-internal open position for one instrument.
// Quantity 0 means flat. Exactly one open position per instrument at a time;
// there is no partial scaling in or out.
type Position struct {
	Symbol     string
	Quantity   float64
	EntryPrice float64
	EntryDate  time.Time
}

// Open reports whether the position holds any quantity.
func (p Position) Open() bool {
	return p.Quantity != 0
}

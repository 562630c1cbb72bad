// Package datasource loads bar histories for the backtest host. The engine
// itself consumes in-memory series only; these loaders are the boundary to
// CSV/Parquet files on disk.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/stratlab-dev/stratbt/internal/types"
)

// DataSource supplies ordered bar series per symbol. Implementations must
// return bars with strictly ascending dates so results can feed the
// simulator without re-sorting.
type DataSource interface {
	// Initialize loads market data from the given path. CSV and Parquet
	// files are supported; the file must carry symbol, date, open, high,
	// low, close and volume columns.
	Initialize(path string) error
	// Symbols lists the distinct symbols available, sorted ascending.
	Symbols() ([]string, error)
	// Bars returns the bar series for a symbol, optionally restricted to an
	// inclusive date range.
	Bars(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) (types.Series, error)
	// Count returns the number of bars stored for a symbol.
	Count(symbol string) (int, error)
	// Close releases any underlying resources.
	Close() error
}

package datasource

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"

	"github.com/stratlab-dev/stratbt/internal/types"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// MemoryDataSource serves pre-loaded series from memory. Used in tests and
// by callers that fetch bars elsewhere.
type MemoryDataSource struct {
	series map[string]types.Series
}

// NewMemoryDataSource creates a data source over the given series map.
func NewMemoryDataSource(series map[string]types.Series) *MemoryDataSource {
	if series == nil {
		series = make(map[string]types.Series)
	}

	return &MemoryDataSource{series: series}
}

// Initialize implements DataSource. Memory sources hold their data from
// construction, so there is nothing to load.
func (m *MemoryDataSource) Initialize(path string) error {
	return nil
}

// Symbols implements DataSource.
func (m *MemoryDataSource) Symbols() ([]string, error) {
	symbols := make([]string, 0, len(m.series))
	for symbol := range m.series {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols, nil
}

// Bars implements DataSource.
func (m *MemoryDataSource) Bars(symbol string, start optional.Option[time.Time], end optional.Option[time.Time]) (types.Series, error) {
	series, ok := m.series[symbol]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no data for symbol %s", symbol)
	}

	bars := make(types.Series, 0, len(series))
	for _, bar := range series {
		if start.IsSome() && bar.Date.Before(start.Unwrap()) {
			continue
		}

		if end.IsSome() && bar.Date.After(end.Unwrap()) {
			continue
		}

		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no data for symbol %s in the requested range", symbol)
	}

	return bars, nil
}

// Count implements DataSource.
func (m *MemoryDataSource) Count(symbol string) (int, error) {
	series, ok := m.series[symbol]
	if !ok {
		return 0, errors.Newf(errors.ErrCodeDataNotFound, "no data for symbol %s", symbol)
	}

	return len(series), nil
}

// Close implements DataSource.
func (m *MemoryDataSource) Close() error {
	return nil
}

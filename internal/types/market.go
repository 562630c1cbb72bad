package types

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// Bar is one dated OHLC(V) price observation. Bars are owned by the caller;
// the engine only reads them.
type Bar struct {
	Date   time.Time `yaml:"date" csv:"date"`
	Open   float64   `yaml:"open" csv:"open" validate:"gt=0"`
	High   float64   `yaml:"high" csv:"high" validate:"gt=0"`
	Low    float64   `yaml:"low" csv:"low" validate:"gt=0"`
	Close  float64   `yaml:"close" csv:"close" validate:"gt=0"`
	Volume float64   `yaml:"volume" csv:"volume" validate:"gte=0"`
}

// Series is an ordered bar sequence for a single instrument with unique,
// ascending dates.
type Series []Bar

// Closes returns the closing prices of the series in order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, bar := range s {
		closes[i] = bar.Close
	}

	return closes
}

// Validate checks that the series is non-empty, has strictly ascending dates
// and positive prices. A failed check is an invalid-input condition and must
// reject the invocation before any simulation begins.
func (s Series) Validate() error {
	if len(s) == 0 {
		return errors.New(errors.ErrCodeInvalidSeries, "bar series is empty")
	}

	validate := validator.New()

	for i, bar := range s {
		if err := validate.Struct(bar); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidSeries, err, "invalid bar at index %d", i)
		}

		if i > 0 && !s[i-1].Date.Before(bar.Date) {
			return errors.Newf(errors.ErrCodeInvalidSeries,
				"bar dates must be strictly ascending, got %s after %s",
				bar.Date.Format(time.DateOnly), s[i-1].Date.Format(time.DateOnly))
		}
	}

	return nil
}

// PairBar is one date-aligned close pair for a two-instrument spread.
type PairBar struct {
	Date   time.Time `yaml:"date"`
	Close1 float64   `yaml:"close1"`
	Close2 float64   `yaml:"close2"`
}

// PairSeries is a date-aligned close series for two instruments.
type PairSeries struct {
	Symbol1 string
	Symbol2 string
	Bars    []PairBar
}

// Spread returns Close1 - Close2 at index i.
func (p PairSeries) Spread(i int) float64 {
	return p.Bars[i].Close1 - p.Bars[i].Close2
}

// Validate mirrors Series.Validate for pair series: non-empty, positive
// closes on both legs and strictly ascending dates. Pair series built with
// NewPairSeries always pass; directly constructed ones are checked before
// any simulation begins.
func (p PairSeries) Validate() error {
	if len(p.Bars) == 0 {
		return errors.Newf(errors.ErrCodeInvalidSeries,
			"pair series for %s/%s is empty", p.Symbol1, p.Symbol2)
	}

	for i, bar := range p.Bars {
		if bar.Close1 <= 0 || bar.Close2 <= 0 {
			return errors.Newf(errors.ErrCodeInvalidSeries,
				"pair bar at index %d has a non-positive close (%v, %v)", i, bar.Close1, bar.Close2)
		}

		if i > 0 && !p.Bars[i-1].Date.Before(bar.Date) {
			return errors.Newf(errors.ErrCodeInvalidSeries,
				"pair bar dates must be strictly ascending, got %s after %s",
				bar.Date.Format(time.DateOnly), p.Bars[i-1].Date.Format(time.DateOnly))
		}
	}

	return nil
}

// NewPairSeries aligns two single-instrument series on their date
// intersection. Bars present in one series only are dropped, so both legs
// always price on the same calendar date.
func NewPairSeries(symbol1 string, series1 Series, symbol2 string, series2 Series) (PairSeries, error) {
	if err := series1.Validate(); err != nil {
		return PairSeries{}, err
	}

	if err := series2.Validate(); err != nil {
		return PairSeries{}, err
	}

	pair := PairSeries{
		Symbol1: symbol1,
		Symbol2: symbol2,
		Bars:    nil,
	}

	// Both inputs are sorted ascending, so a two-pointer walk suffices.
	i, j := 0, 0
	for i < len(series1) && j < len(series2) {
		switch {
		case series1[i].Date.Before(series2[j].Date):
			i++
		case series2[j].Date.Before(series1[i].Date):
			j++
		default:
			pair.Bars = append(pair.Bars, PairBar{
				Date:   series1[i].Date,
				Close1: series1[i].Close,
				Close2: series2[j].Close,
			})
			i++
			j++
		}
	}

	if len(pair.Bars) == 0 {
		return PairSeries{}, errors.Newf(errors.ErrCodeInvalidSeries,
			"series for %s and %s share no dates", symbol1, symbol2)
	}

	return pair, nil
}

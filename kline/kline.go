package kline

import (
	"errors"
	"time"
)

var (
	// ErrNoData is returned when an operation requires at least one candle
	ErrNoData = errors.New("no candle data")
	// ErrSeriesLengthMismatch is returned when derived price data does not
	// align with its owning candle series
	ErrSeriesLengthMismatch = errors.New("price series length does not match candle series length")
)

// Bar holds a single OHLCV candle observation
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is an ordered, immutable slice of candles. Timestamps are assumed
// strictly non-decreasing; validation is the data provider's concern
type Series []Bar

// Len returns the candle count
func (s Series) Len() int {
	return len(s)
}

// Opens returns the open price of every candle
func (s Series) Opens() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Open
	}
	return out
}

// Highs returns the high price of every candle
func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].High
	}
	return out
}

// Lows returns the low price of every candle
func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Low
	}
	return out
}

// Closes returns the close price of every candle
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Close
	}
	return out
}

// Volumes returns the traded volume of every candle
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Volume
	}
	return out
}

// PriceSeries holds the derived per-candle price sequences shared by every
// simulation in a sweep. All slices are index-aligned with the owning Series
// and must never be mutated once built
type PriceSeries struct {
	// Decision is the sequence signals are generated from
	Decision []float64
	// Execution is the sequence trades are filled at
	Execution []float64
	// HLC3 is the typical price blend (high+low+close)/3
	HLC3 []float64
	// OHLC4 is the full candle average blend
	OHLC4 []float64
}

// NewPriceSeries derives the shared price sequences from a candle series.
// Decisions are made on the close, fills land mid-candle on (high+low)/2
func NewPriceSeries(s Series) (*PriceSeries, error) {
	if len(s) == 0 {
		return nil, ErrNoData
	}
	p := &PriceSeries{
		Decision:  make([]float64, len(s)),
		Execution: make([]float64, len(s)),
		HLC3:      make([]float64, len(s)),
		OHLC4:     make([]float64, len(s)),
	}
	for i := range s {
		p.Decision[i] = s[i].Close
		p.Execution[i] = (s[i].High + s[i].Low) / 2
		p.HLC3[i] = (s[i].High + s[i].Low + s[i].Close) / 3
		p.OHLC4[i] = (s[i].Open + s[i].High + s[i].Low + s[i].Close) / 4
	}
	return p, nil
}

// Len returns the number of entries in the derived sequences
func (p *PriceSeries) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Decision)
}

// Validate confirms the derived sequences align with the candle series they
// were built from
func (p *PriceSeries) Validate(s Series) error {
	if p == nil || len(s) == 0 {
		return ErrNoData
	}
	if len(p.Decision) != len(s) ||
		len(p.Execution) != len(s) ||
		len(p.HLC3) != len(s) ||
		len(p.OHLC4) != len(s) {
		return ErrSeriesLengthMismatch
	}
	return nil
}

package portfolio

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Denomination selects which side of the pair the starting amount is held in
type Denomination string

// Supported starting denominations
const (
	DenomQuote Denomination = "quote"
	DenomCoin  Denomination = "coin"
)

// Status tracks the simulator lifecycle
type Status int

// Simulator states
const (
	Idle Status = iota
	Simulating
	Completed
	Failed
)

// String implements Stringer for logging
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Simulating:
		return "simulating"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Side is the direction of an executed trade
type Side string

// Trade sides
const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

var (
	// ErrInputLength is returned when the signal sequence does not align
	// with the candle series; raised before any balance mutation
	ErrInputLength = errors.New("signal sequence length does not match candle series length")
	// ErrInvalidSettings is returned for unusable simulator configuration
	ErrInvalidSettings = errors.New("invalid simulator settings")
	// ErrNotCompleted is returned when a summary is requested before a run
	ErrNotCompleted = errors.New("simulation has not completed")
)

// Settings configures one simulator instance. RecordDetail switches on full
// trade-log retention for explicit detail re-runs; sweeps leave it off so
// memory scales with combination count, not bar count
type Settings struct {
	StartingDenomination Denomination
	StartingAmount       decimal.Decimal
	FeeRate              decimal.Decimal
	PositionSize         decimal.Decimal
	RecordDetail         bool
}

// Validate confirms the settings describe a runnable simulation
func (s *Settings) Validate() error {
	if s.StartingDenomination != DenomQuote && s.StartingDenomination != DenomCoin {
		return errors.New("starting denomination must be quote or coin")
	}
	if s.StartingAmount.LessThanOrEqual(decimal.Zero) {
		return errors.New("starting amount must be positive")
	}
	if s.FeeRate.IsNegative() || s.FeeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errors.New("fee rate must be in [0, 1)")
	}
	if s.PositionSize.LessThanOrEqual(decimal.Zero) || s.PositionSize.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("position size must be in (0, 1]")
	}
	return nil
}

// Trade records one executed order within a detail run
type Trade struct {
	Side     Side
	BarIndex int
	Price    decimal.Decimal
	Amount   decimal.Decimal
	Fee      decimal.Decimal
}

// Summary is the immutable outcome of one simulation
type Summary struct {
	InitialValue   decimal.Decimal
	FinalValue     decimal.Decimal
	TotalReturnPct decimal.Decimal
	TotalTrades    int
	WinRate        decimal.Decimal
	MaxDrawdown    decimal.Decimal
	MaxDrawdownPct decimal.Decimal
	TotalFees      decimal.Decimal
	// Trades is populated only when Settings.RecordDetail was set
	Trades []Trade
}

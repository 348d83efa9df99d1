package sweep

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/thrasher-corp/gctsweep/portfolio"
	"github.com/thrasher-corp/gctsweep/strategy"
)

// Default scheduler tuning
const (
	DefaultBatchSize = 50
	DefaultWorkers   = 1
)

// Parameter keys the scheduler itself consumes; when present in a parameter
// set they override the configured portfolio settings for that combination
const (
	PositionSizeKey = "positionSize"
	FeeRateKey      = "feeRate"
)

var (
	// ErrEmptySpace is returned when a sweep is requested over no parameters
	ErrEmptySpace = errors.New("parameter space has no parameters")
	// ErrEmptyValues is returned when a parameter has no candidate values
	ErrEmptyValues = errors.New("parameter has no candidate values")
	// ErrBadDataset is returned when the shared dataset cannot serve any
	// combination; detected before expansion so the sweep fails as a whole
	ErrBadDataset = errors.New("dataset cannot serve any combination")
	// ErrNilGenerator is returned when no strategy generator is configured
	ErrNilGenerator = errors.New("nil strategy generator")
)

// Progress receives completion updates after every batch boundary
type Progress func(completed, total int, fraction float64)

// Settings tunes one scheduler instance
type Settings struct {
	// BatchSize bounds how much work runs between two yield points
	BatchSize int
	// Workers is the number of concurrent simulations within a batch; each
	// worker owns an independent simulator
	Workers int
	// Progress, when set, is invoked after every batch
	Progress Progress
	// Portfolio is the baseline simulator configuration, overridable
	// per-combination via the positionSize and feeRate parameters
	Portfolio portfolio.Settings
}

func (s *Settings) applyDefaults() {
	if s.BatchSize <= 0 {
		s.BatchSize = DefaultBatchSize
	}
	if s.Workers <= 0 {
		s.Workers = DefaultWorkers
	}
}

// Result is the retained outcome of one combination. When Err is set the
// numeric fields are neutral sentinels and must not be read as a genuine
// trading outcome; Err is the authoritative discriminator, never the
// numbers
type Result struct {
	Params         strategy.ParameterSet
	FinalValue     decimal.Decimal
	TotalReturnPct decimal.Decimal
	WinRate        decimal.Decimal
	TotalTrades    int
	MaxDrawdownPct decimal.Decimal
	TotalFees      decimal.Decimal
	Err            error
}

// Failed reports whether this combination errored rather than traded
func (r *Result) Failed() bool {
	return r.Err != nil
}

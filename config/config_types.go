package config

import (
	"errors"

	"github.com/thrasher-corp/gctsweep/portfolio"
	"github.com/thrasher-corp/gctsweep/sweep"
)

// Dataset formats accepted by the candle loader
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Strategy names resolvable without a script file
const (
	StrategyVolAdaptive = "voladaptive"
	StrategyScript      = "script"
)

// Defaults applied to any field the file leaves unset
const (
	DefaultInitialAmount = 10000.0
	DefaultPositionSize  = 1.0
	DefaultTopN          = 10
)

// ErrValidationFailed wraps the individual field failures reported by the
// checker chain
var ErrValidationFailed = errors.New("config validation failed")

// DatasetConfig locates the candle history to replay
type DatasetConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
}

// StrategyConfig selects the signal generator. Script is only consulted when
// Name is "script"
type StrategyConfig struct {
	Name   string `mapstructure:"name"`
	Script string `mapstructure:"script"`
}

// PortfolioConfig is the baseline simulator setup shared by every
// combination in a sweep
type PortfolioConfig struct {
	Denomination  string  `mapstructure:"denomination"`
	InitialAmount float64 `mapstructure:"initialAmount"`
	FeeRate       float64 `mapstructure:"feeRate"`
	PositionSize  float64 `mapstructure:"positionSize"`
}

// SweepConfig tunes scheduler throughput and report size
type SweepConfig struct {
	BatchSize int `mapstructure:"batchSize"`
	Workers   int `mapstructure:"workers"`
	TopN      int `mapstructure:"topN"`
}

// SpaceParam is one swept parameter and its candidate values. Declaration
// order in the file fixes enumeration order
type SpaceParam struct {
	Name   string    `mapstructure:"name"`
	Values []float64 `mapstructure:"values"`
}

// Config is the full sweep definition as loaded from disk
type Config struct {
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Strategy  StrategyConfig  `mapstructure:"strategy"`
	Portfolio PortfolioConfig `mapstructure:"portfolio"`
	Sweep     SweepConfig     `mapstructure:"sweep"`
	Space     []SpaceParam    `mapstructure:"space"`
}

// Defaults returns a config pre-populated with runnable baseline values
func Defaults() Config {
	return Config{
		Strategy: StrategyConfig{Name: StrategyVolAdaptive},
		Portfolio: PortfolioConfig{
			Denomination:  string(portfolio.DenomQuote),
			InitialAmount: DefaultInitialAmount,
			PositionSize:  DefaultPositionSize,
		},
		Sweep: SweepConfig{
			BatchSize: sweep.DefaultBatchSize,
			Workers:   sweep.DefaultWorkers,
			TopN:      DefaultTopN,
		},
	}
}

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kat-co/vala"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/thrasher-corp/gctsweep/log"
	"github.com/thrasher-corp/gctsweep/portfolio"
	"github.com/thrasher-corp/gctsweep/sweep"
)

// Load reads a sweep definition from path. JSON, YAML and TOML are accepted,
// keyed off the file extension. Missing fields fall back to Defaults and the
// result is validated before being returned
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config %s: %w", path, err)
	}

	cfg := Defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debugf(log.ConfigMgr, "Loaded sweep definition from %s: %d swept parameter(s)",
		path, len(cfg.Space))
	return &cfg, nil
}

// Validate confirms every section describes a runnable sweep
func (c *Config) Validate() error {
	checkers := []vala.Checker{
		vala.StringNotEmpty(c.Dataset.Path, "dataset.path"),
		oneOf(c.ResolvedFormat(), "dataset.format", FormatCSV, FormatJSON),
		oneOf(c.Strategy.Name, "strategy.name", StrategyVolAdaptive, StrategyScript),
		oneOf(c.Portfolio.Denomination, "portfolio.denomination",
			string(portfolio.DenomQuote), string(portfolio.DenomCoin)),
		positive(c.Portfolio.InitialAmount, "portfolio.initialAmount"),
		withinRange(c.Portfolio.FeeRate, 0, 1, "portfolio.feeRate"),
		halfOpenRange(c.Portfolio.PositionSize, 0, 1, "portfolio.positionSize"),
		positiveInt(c.Sweep.BatchSize, "sweep.batchSize"),
		positiveInt(c.Sweep.Workers, "sweep.workers"),
		positiveInt(c.Sweep.TopN, "sweep.topN"),
	}
	if c.Strategy.Name == StrategyScript {
		checkers = append(checkers,
			vala.StringNotEmpty(c.Strategy.Script, "strategy.script"))
	}
	for i := range c.Space {
		checkers = append(checkers,
			vala.StringNotEmpty(c.Space[i].Name, fmt.Sprintf("space[%d].name", i)),
			notEmptyValues(c.Space[i].Values, fmt.Sprintf("space[%d].values", i)))
	}
	if err := vala.BeginValidation().Validate(checkers...).Check(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return nil
}

// ResolvedFormat returns the explicit dataset format, or the one implied by
// the dataset path extension when the field is unset
func (c *Config) ResolvedFormat() string {
	if c.Dataset.Format != "" {
		return strings.ToLower(c.Dataset.Format)
	}
	switch strings.ToLower(filepath.Ext(c.Dataset.Path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatCSV
	}
}

// PortfolioSettings converts the portfolio section for the simulator
func (c *Config) PortfolioSettings() portfolio.Settings {
	return portfolio.Settings{
		StartingDenomination: portfolio.Denomination(c.Portfolio.Denomination),
		StartingAmount:       decimal.NewFromFloat(c.Portfolio.InitialAmount),
		FeeRate:              decimal.NewFromFloat(c.Portfolio.FeeRate),
		PositionSize:         decimal.NewFromFloat(c.Portfolio.PositionSize),
	}
}

// SweepSettings converts the sweep section for the scheduler
func (c *Config) SweepSettings() sweep.Settings {
	return sweep.Settings{
		BatchSize: c.Sweep.BatchSize,
		Workers:   c.Sweep.Workers,
		Portfolio: c.PortfolioSettings(),
	}
}

// SweepSpace rebuilds the parameter space preserving declaration order
func (c *Config) SweepSpace() *sweep.Space {
	s := sweep.NewSpace()
	for i := range c.Space {
		s.Add(c.Space[i].Name, c.Space[i].Values...)
	}
	return s
}

func positive(v float64, name string) vala.Checker {
	return func() (bool, string) {
		return v > 0, fmt.Sprintf("%s must be positive", name)
	}
}

func positiveInt(v int, name string) vala.Checker {
	return func() (bool, string) {
		return v > 0, fmt.Sprintf("%s must be positive", name)
	}
}

func withinRange(v, min, max float64, name string) vala.Checker {
	return func() (bool, string) {
		return v >= min && v < max,
			fmt.Sprintf("%s must be within [%v, %v)", name, min, max)
	}
}

func halfOpenRange(v, min, max float64, name string) vala.Checker {
	return func() (bool, string) {
		return v > min && v <= max,
			fmt.Sprintf("%s must be within (%v, %v]", name, min, max)
	}
}

func oneOf(v, name string, allowed ...string) vala.Checker {
	return func() (bool, string) {
		msg := fmt.Sprintf("%s must be one of %v, received %q", name, allowed, v)
		for i := range allowed {
			if v == allowed[i] {
				return true, msg
			}
		}
		return false, msg
	}
}

func notEmptyValues(values []float64, name string) vala.Checker {
	return func() (bool, string) {
		return len(values) > 0, fmt.Sprintf("%s must contain at least one value", name)
	}
}

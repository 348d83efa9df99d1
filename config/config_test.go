package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrasher-corp/gctsweep/portfolio"
	"github.com/thrasher-corp/gctsweep/sweep"
)

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "sweep.yaml", `
dataset:
  path: candles.csv
strategy:
  name: voladaptive
portfolio:
  denomination: coin
  initialAmount: 250
  feeRate: 0.001
sweep:
  batchSize: 25
  workers: 4
space:
  - name: emaFloor
    values: [5, 10]
  - name: emaCeiling
    values: [30]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "candles.csv", cfg.Dataset.Path)
	assert.Equal(t, FormatCSV, cfg.ResolvedFormat())
	assert.Equal(t, "coin", cfg.Portfolio.Denomination)
	assert.Equal(t, 250.0, cfg.Portfolio.InitialAmount)
	assert.Equal(t, 25, cfg.Sweep.BatchSize)
	assert.Equal(t, 4, cfg.Sweep.Workers)
	assert.Equal(t, DefaultTopN, cfg.Sweep.TopN, "unset fields keep defaults")
	assert.Equal(t, DefaultPositionSize, cfg.Portfolio.PositionSize)
	require.Len(t, cfg.Space, 2)
	assert.Equal(t, []string{"emaFloor", "emaCeiling"}, cfg.SweepSpace().Keys())
	assert.Equal(t, 2, cfg.SweepSpace().Size())
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "sweep.json", `{
  "dataset": {"path": "candles.json"},
  "strategy": {"name": "script", "script": "strat.gct"},
  "space": [{"name": "threshold", "values": [1, 2, 3]}]
}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.ResolvedFormat())
	assert.Equal(t, StrategyScript, cfg.Strategy.Name)
	assert.Equal(t, "strat.gct", cfg.Strategy.Script)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	valid := Defaults()
	valid.Dataset.Path = "candles.csv"
	require.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(*Config){
		"missing dataset path": func(c *Config) { c.Dataset.Path = "" },
		"bad format":           func(c *Config) { c.Dataset.Format = "parquet" },
		"bad strategy":         func(c *Config) { c.Strategy.Name = "momentum" },
		"script without path":  func(c *Config) { c.Strategy.Name = StrategyScript },
		"bad denomination":     func(c *Config) { c.Portfolio.Denomination = "fiat" },
		"zero amount":          func(c *Config) { c.Portfolio.InitialAmount = 0 },
		"fee of one":           func(c *Config) { c.Portfolio.FeeRate = 1 },
		"oversize position":    func(c *Config) { c.Portfolio.PositionSize = 1.5 },
		"zero batch":           func(c *Config) { c.Sweep.BatchSize = 0 },
		"zero workers":         func(c *Config) { c.Sweep.Workers = 0 },
		"unnamed parameter":    func(c *Config) { c.Space = []SpaceParam{{Values: []float64{1}}} },
		"empty values":         func(c *Config) { c.Space = []SpaceParam{{Name: "x"}} },
	} {
		cfg := valid
		mutate(&cfg)
		assert.ErrorIs(t, cfg.Validate(), ErrValidationFailed, name)
	}
}

func TestResolvedFormat(t *testing.T) {
	t.Parallel()
	c := Config{Dataset: DatasetConfig{Path: "candles.JSON"}}
	assert.Equal(t, FormatJSON, c.ResolvedFormat())
	c.Dataset.Path = "candles.csv"
	assert.Equal(t, FormatCSV, c.ResolvedFormat())
	c.Dataset.Format = "JSON"
	assert.Equal(t, FormatJSON, c.ResolvedFormat(), "explicit format wins")
}

func TestSettingsConversion(t *testing.T) {
	t.Parallel()
	cfg := Defaults()
	cfg.Portfolio.FeeRate = 0.0025
	ps := cfg.PortfolioSettings()
	assert.Equal(t, portfolio.DenomQuote, ps.StartingDenomination)
	assert.True(t, ps.StartingAmount.Equal(decimal.NewFromInt(10000)))
	assert.True(t, ps.FeeRate.Equal(decimal.NewFromFloat(0.0025)))
	require.NoError(t, ps.Validate())

	ss := cfg.SweepSettings()
	assert.Equal(t, sweep.DefaultBatchSize, ss.BatchSize)
	assert.Equal(t, sweep.DefaultWorkers, ss.Workers)
}

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thrasher-corp/gctsweep/config"
	"github.com/thrasher-corp/gctsweep/gctscript"
	"github.com/thrasher-corp/gctsweep/kline"
	"github.com/thrasher-corp/gctsweep/log"
	"github.com/thrasher-corp/gctsweep/strategy"
	"github.com/thrasher-corp/gctsweep/strategy/voladaptive"
	"github.com/thrasher-corp/gctsweep/sweep"
)

// environment bundles everything a command needs to execute a sweep against
// one dataset
type environment struct {
	cfg       *config.Config
	bars      kline.Series
	prices    *kline.PriceSeries
	generator strategy.Generator
	scheduler *sweep.Scheduler
	space     *sweep.Space
}

func newEnvironment(path string) (*environment, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	var bars kline.Series
	switch cfg.ResolvedFormat() {
	case config.FormatJSON:
		bars, err = kline.LoadJSON(cfg.Dataset.Path)
	default:
		bars, err = kline.LoadCSV(cfg.Dataset.Path)
	}
	if err != nil {
		return nil, err
	}
	log.Infof(log.Global, "Loaded %d candles from %s", bars.Len(), cfg.Dataset.Path)

	prices, err := kline.NewPriceSeries(bars)
	if err != nil {
		return nil, err
	}

	gen, err := newGenerator(cfg, prices)
	if err != nil {
		return nil, err
	}

	settings := cfg.SweepSettings()
	settings.Progress = func(completed, total int, fraction float64) {
		log.Infof(log.SweepMgr, "Simulated %d/%d combinations (%.1f%%)",
			completed, total, fraction*100)
	}

	scheduler, err := sweep.New(gen, bars, prices, settings)
	if err != nil {
		return nil, err
	}

	return &environment{
		cfg:       cfg,
		bars:      bars,
		prices:    prices,
		generator: gen,
		scheduler: scheduler,
		space:     cfg.SweepSpace(),
	}, nil
}

func newGenerator(cfg *config.Config, prices *kline.PriceSeries) (strategy.Generator, error) {
	switch cfg.Strategy.Name {
	case config.StrategyScript:
		return gctscript.NewFromFile(cfg.Strategy.Script, prices, gctscript.Config{Verbose: verbose})
	default:
		return voladaptive.New(), nil
	}
}

// paramString renders a parameter set with stable key ordering so reports
// are comparable between runs
func paramString(params strategy.ParameterSet) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i := range keys {
		parts[i] = fmt.Sprintf("%s=%v", keys[i], params[keys[i]])
	}
	return strings.Join(parts, " ")
}

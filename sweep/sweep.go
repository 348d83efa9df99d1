// Package sweep drives a full parameter sweep: it expands a parameter space
// into its Cartesian product, evaluates every combination against the shared
// dataset in fixed-size batches, isolates per-combination failures, reports
// progress at every batch boundary and returns results ranked by final
// portfolio value
package sweep

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/thrasher-corp/gctsweep/kline"
	"github.com/thrasher-corp/gctsweep/log"
	"github.com/thrasher-corp/gctsweep/portfolio"
	"github.com/thrasher-corp/gctsweep/strategy"
)

// Scheduler runs sweeps for one generator over one dataset. The price series
// is shared read-only across every simulation; each combination gets its own
// freshly reset simulator so no state crosses between parameter sets
type Scheduler struct {
	id     uuid.UUID
	gen    strategy.Generator
	bars   kline.Series
	prices *kline.PriceSeries
	cfg    Settings
}

// New returns a sweep scheduler. Dataset-level failures that would fail
// every combination identically are rejected here, before any expansion
func New(gen strategy.Generator, bars kline.Series, prices *kline.PriceSeries, cfg Settings) (*Scheduler, error) {
	if gen == nil {
		return nil, ErrNilGenerator
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadDataset, kline.ErrNoData)
	}
	if err := prices.Validate(bars); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDataset, err)
	}
	if err := cfg.Portfolio.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		id:     id,
		gen:    gen,
		bars:   bars,
		prices: prices,
		cfg:    cfg,
	}, nil
}

// ID returns the scheduler's run identifier
func (s *Scheduler) ID() uuid.UUID {
	return s.id
}

// Run expands the space and evaluates every combination. Work proceeds in
// batches of cfg.BatchSize; cancellation is checked and progress reported
// only at batch boundaries, so the caller is never blocked for more than one
// batch's worth of work. On cancellation the results produced so far are
// returned alongside ctx.Err(). The returned list is sorted descending by
// final value with ties kept in enumeration order
func (s *Scheduler) Run(ctx context.Context, space *Space) ([]Result, error) {
	combos, err := space.Expand()
	if err != nil {
		return nil, err
	}
	total := len(combos)
	log.Infof(log.SweepMgr, "sweep %v: %d combinations, batch size %d, %d worker(s)",
		s.id, total, s.cfg.BatchSize, s.cfg.Workers)

	results := make([]Result, 0, total)
	for start := 0; start < total; start += s.cfg.BatchSize {
		if ctx.Err() != nil {
			log.Warnf(log.SweepMgr, "sweep %v cancelled after %d/%d combinations",
				s.id, len(results), total)
			return s.ranked(results), ctx.Err()
		}
		end := start + s.cfg.BatchSize
		if end > total {
			end = total
		}
		results = append(results, s.runBatch(combos[start:end])...)

		if s.cfg.Progress != nil {
			s.cfg.Progress(len(results), total, float64(len(results))/float64(total))
		}
	}
	log.Infof(log.SweepMgr, "sweep %v complete: %d combinations", s.id, total)
	return s.ranked(results), nil
}

// runBatch fans one batch across the worker pool. Workers share only the
// read-only dataset; results land at their enumeration offset so parallel
// completion order cannot change the output
func (s *Scheduler) runBatch(combos []strategy.ParameterSet) []Result {
	out := make([]Result, len(combos))
	if s.cfg.Workers == 1 {
		for i := range combos {
			out[i] = s.evaluate(combos[i])
		}
		return out
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := s.cfg.Workers
	if workers > len(combos) {
		workers = len(combos)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = s.evaluate(combos[i])
			}
		}()
	}
	for i := range combos {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}

// evaluate runs one combination in isolation; any failure becomes an error
// result rather than aborting the batch
func (s *Scheduler) evaluate(params strategy.ParameterSet) Result {
	signals, err := strategy.Run(s.gen, s.prices, params)
	if err != nil {
		log.Debugf(log.SweepMgr, "sweep %v: combination %v failed signal generation: %v", s.id, params, err)
		return errorResult(params, err)
	}

	sim, err := portfolio.New(s.portfolioSettings(params, false))
	if err != nil {
		return errorResult(params, err)
	}
	summary, err := sim.Run(s.bars, s.prices, signals)
	if err != nil {
		log.Debugf(log.SweepMgr, "sweep %v: combination %v failed simulation: %v", s.id, params, err)
		return errorResult(params, err)
	}

	// only the lightweight summary fields are retained; the trade log and
	// per-bar values are already gone
	return Result{
		Params:         params,
		FinalValue:     summary.FinalValue,
		TotalReturnPct: summary.TotalReturnPct,
		WinRate:        summary.WinRate,
		TotalTrades:    summary.TotalTrades,
		MaxDrawdownPct: summary.MaxDrawdownPct,
		TotalFees:      summary.TotalFees,
	}
}

// Detail regenerates the full trade log for exactly one previously swept
// combination on demand
func (s *Scheduler) Detail(params strategy.ParameterSet) (*portfolio.Summary, error) {
	signals, err := strategy.Run(s.gen, s.prices, params)
	if err != nil {
		return nil, err
	}
	sim, err := portfolio.New(s.portfolioSettings(params, true))
	if err != nil {
		return nil, err
	}
	return sim.Run(s.bars, s.prices, signals)
}

func (s *Scheduler) portfolioSettings(params strategy.ParameterSet, recordDetail bool) portfolio.Settings {
	cfg := s.cfg.Portfolio
	if v, ok := params[PositionSizeKey]; ok {
		cfg.PositionSize = decimal.NewFromFloat(v)
	}
	if v, ok := params[FeeRateKey]; ok {
		cfg.FeeRate = decimal.NewFromFloat(v)
	}
	cfg.RecordDetail = recordDetail
	return cfg
}

func (s *Scheduler) ranked(results []Result) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalValue.GreaterThan(results[j].FinalValue)
	})
	return results
}

func errorResult(params strategy.ParameterSet, err error) Result {
	return Result{Params: params, Err: err}
}

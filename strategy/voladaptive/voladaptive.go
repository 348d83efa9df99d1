// Package voladaptive implements the default strategy: an EMA differential
// whose averaging period adapts bar-to-bar to recent volatility. Quiet
// markets stretch the period towards the configured ceiling, volatile
// markets compress it towards the floor.
package voladaptive

import (
	"errors"
	"fmt"
	"math"

	"github.com/thrasher-corp/gctsweep/indicators"
	"github.com/thrasher-corp/gctsweep/kline"
	"github.com/thrasher-corp/gctsweep/strategy"
)

// Name is the strategy name
const Name = "voladaptive"

// Parameter keys understood by the strategy
const (
	VolWindowKey         = "volWindow"
	VolFloorKey          = "volFloor"
	VolCeilingKey        = "volCeiling"
	EMAFloorKey          = "emaFloor"
	EMACeilingKey        = "emaCeiling"
	VoltScaleKey         = "voltScale"
	SmoothLengthKey      = "smoothLength"
	ForceBuyThresholdKey = "forceBuyThreshold"
)

// Defaults applied for absent parameters
const (
	DefaultVolWindow    = 20
	DefaultVolFloor     = 0.5
	DefaultVolCeiling   = 3.0
	DefaultEMAFloor     = 5
	DefaultEMACeiling   = 50
	DefaultVoltScale    = 1.0
	DefaultSmoothLength = 3
)

var (
	errVolAnchors = errors.New("volCeiling must exceed volFloor")
	errEMAAnchors = errors.New("emaCeiling must be at least emaFloor, both positive")
	errWindow     = errors.New("volWindow and smoothLength must be positive")
)

// Strategy satisfies strategy.Generator
type Strategy struct{}

// New returns the reference strategy
func New() *Strategy {
	return &Strategy{}
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

type settings struct {
	volWindow    int
	volFloor     float64
	volCeiling   float64
	emaFloor     int
	emaCeiling   int
	voltScale    float64
	smoothLength int
	forceBuy     float64
}

func parseSettings(params strategy.ParameterSet) (*settings, error) {
	c := &settings{
		volWindow:    params.Int(VolWindowKey, DefaultVolWindow),
		volFloor:     params.Value(VolFloorKey, DefaultVolFloor),
		volCeiling:   params.Value(VolCeilingKey, DefaultVolCeiling),
		emaFloor:     params.Int(EMAFloorKey, DefaultEMAFloor),
		emaCeiling:   params.Int(EMACeilingKey, DefaultEMACeiling),
		voltScale:    params.Value(VoltScaleKey, DefaultVoltScale),
		smoothLength: params.Int(SmoothLengthKey, DefaultSmoothLength),
		forceBuy:     params.Value(ForceBuyThresholdKey, math.Inf(-1)),
	}
	if c.volWindow < 1 || c.smoothLength < 1 {
		return nil, errWindow
	}
	if c.volCeiling <= c.volFloor {
		return nil, fmt.Errorf("%w: floor %v ceiling %v", errVolAnchors, c.volFloor, c.volCeiling)
	}
	if c.emaFloor < 1 || c.emaCeiling < c.emaFloor {
		return nil, fmt.Errorf("%w: floor %v ceiling %v", errEMAAnchors, c.emaFloor, c.emaCeiling)
	}
	return c, nil
}

// Generate maps the decision price sequence to one signal per bar
func (s *Strategy) Generate(prices *kline.PriceSeries, params strategy.ParameterSet) ([]strategy.Signal, error) {
	cfg, err := parseSettings(params)
	if err != nil {
		return nil, err
	}

	decision := prices.Decision
	volPct := volatilityPercent(decision, cfg.volWindow)
	periods := mapPeriods(volPct, cfg)
	ema := adaptiveEMA(decision, periods)
	raw := differential(decision, ema, cfg.voltScale)
	smoothed := smooth(raw, cfg.smoothLength)

	signals := make([]strategy.Signal, len(decision))
	for i := range smoothed {
		v := smoothed[i]
		switch {
		case !indicators.Valid(v):
			signals[i] = strategy.Hold
		case v > 0 || v <= cfg.forceBuy:
			signals[i] = strategy.Buy
		case v < 0:
			signals[i] = strategy.Sell
		default:
			signals[i] = strategy.Hold
		}
	}
	return signals, nil
}

// volatilityPercent is the rolling standard deviation expressed as a
// percentage of price at each bar
func volatilityPercent(decision []float64, window int) []float64 {
	dev := indicators.StdDev(decision, window)
	out := make([]float64, len(decision))
	for i := range out {
		if !indicators.Valid(dev[i]) || decision[i] <= 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = dev[i] / decision[i] * 100
	}
	return out
}

// mapPeriods converts per-bar volatility into a target averaging period by
// inverse linear interpolation between (volFloor -> emaCeiling) and
// (volCeiling -> emaFloor). Undefined volatility defaults to the ceiling,
// the most conservative period
func mapPeriods(volPct []float64, cfg *settings) []int {
	out := make([]int, len(volPct))
	span := cfg.volCeiling - cfg.volFloor
	for i := range volPct {
		v := volPct[i]
		switch {
		case !indicators.Valid(v), v <= cfg.volFloor:
			out[i] = cfg.emaCeiling
		case v >= cfg.volCeiling:
			out[i] = cfg.emaFloor
		default:
			t := (v - cfg.volFloor) / span
			p := float64(cfg.emaCeiling) + t*float64(cfg.emaFloor-cfg.emaCeiling)
			out[i] = int(math.Round(p))
		}
	}
	return out
}

// adaptiveEMA recomputes an exponential average at each bar restricted to
// the most recent periods[i] samples. Bars without a full window fall back
// to a single global EMA taken at the maximum mapped period
func adaptiveEMA(decision []float64, periods []int) []float64 {
	maxPeriod := 0
	for i := range periods {
		if periods[i] > maxPeriod {
			maxPeriod = periods[i]
		}
	}
	global := indicators.EMA(decision, maxPeriod)

	out := make([]float64, len(decision))
	for i := range decision {
		p := periods[i]
		if i+1 < p {
			out[i] = global[i]
			continue
		}
		out[i] = windowEMA(decision[i+1-p : i+1])
	}
	return out
}

// windowEMA runs the exponential recursion across exactly the supplied
// window, seeded with its first sample
func windowEMA(window []float64) float64 {
	alpha := 2 / (float64(len(window)) + 1)
	e := window[0]
	for i := 1; i < len(window); i++ {
		e = (window[i]-e)*alpha + e
	}
	return e
}

// differential is the percentage distance of price from its adaptive
// average, undefined wherever the average is undefined or non-positive
func differential(decision, ema []float64, voltScale float64) []float64 {
	out := make([]float64, len(decision))
	for i := range out {
		if !indicators.Valid(ema[i]) || ema[i] <= 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (decision[i] - ema[i]) / ema[i] * 100 * voltScale
	}
	return out
}

// smooth applies a short EMA across the contiguous defined run of the raw
// differential and re-expands it to full length, leaving undefined bars
// undefined
func smooth(raw []float64, length int) []float64 {
	out := make([]float64, len(raw))
	for i := range out {
		out[i] = math.NaN()
	}

	start := -1
	for i := range raw {
		if indicators.Valid(raw[i]) {
			start = i
			break
		}
	}
	if start < 0 {
		return out
	}
	end := len(raw)
	for i := start; i < len(raw); i++ {
		if !indicators.Valid(raw[i]) {
			end = i
			break
		}
	}

	run := raw[start:end]
	if len(run) < length {
		return out
	}
	smoothed := indicators.EMA(run, length)
	copy(out[start:end], smoothed)
	return out
}

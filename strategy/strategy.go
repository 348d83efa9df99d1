// Package strategy defines the signal generation contract: a pluggable
// generator maps the shared price series and one parameter set to a per-bar
// signal sequence, which is validated in full before it may reach the
// portfolio simulator.
package strategy

import (
	"errors"
	"fmt"

	"github.com/thrasher-corp/gctsweep/kline"
)

// Signal is a per-bar trading decision
type Signal int8

// Valid signal values
const (
	Sell Signal = -1
	Hold Signal = 0
	Buy  Signal = 1
)

// ErrNilGenerator is returned when no generator has been supplied
var ErrNilGenerator = errors.New("nil signal generator")

// ParameterSet maps parameter names to the single value used for one
// simulation. Treated as immutable once handed to the contract
type ParameterSet map[string]float64

// Clone returns an independent copy of the parameter set
func (p ParameterSet) Clone() ParameterSet {
	c := make(ParameterSet, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Value returns the named parameter, or def when absent
func (p ParameterSet) Value(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Int returns the named parameter rounded to the nearest integer, or def
// when absent
func (p ParameterSet) Int(name string, def int) int {
	if v, ok := p[name]; ok {
		return int(v + 0.5)
	}
	return def
}

// Generator is the pluggable strategy contract. Implementations must be pure
// with respect to their inputs: no I/O, no timers and no shared mutable
// state. The price series is shared across the whole sweep and must never be
// written to
type Generator interface {
	Name() string
	Generate(prices *kline.PriceSeries, params ParameterSet) ([]Signal, error)
}

// ValidationError reports generator output that breaks the contract, either
// a wrong-length sequence or an out-of-domain element
type ValidationError struct {
	// Index is the offending element position, or -1 for a length violation
	Index int
	Value Signal
	Got   int
	Want  int
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("signal validation: sequence length %d, want %d", e.Got, e.Want)
	}
	return fmt.Sprintf("signal validation: value %d at index %d not in {-1,0,1}", e.Value, e.Index)
}

// ExecutionError wraps a failure raised inside a generator, tagged with the
// parameter set that triggered it
type ExecutionError struct {
	Generator string
	Params    ParameterSet
	Cause     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("strategy %q failed for %v: %v", e.Generator, e.Params, e.Cause)
}

// Unwrap returns e.Cause meeting errors interface requirements
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Run invokes the generator for one parameter set and validates its output
// eagerly: the whole sequence is checked before any value may be consumed
// downstream. Panics inside the generator are contained and surfaced as an
// ExecutionError
func Run(g Generator, prices *kline.PriceSeries, params ParameterSet) (signals []Signal, err error) {
	if g == nil {
		return nil, ErrNilGenerator
	}
	if prices.Len() == 0 {
		return nil, kline.ErrNoData
	}

	defer func() {
		if r := recover(); r != nil {
			signals = nil
			err = &ExecutionError{
				Generator: g.Name(),
				Params:    params,
				Cause:     fmt.Errorf("panic: %v", r),
			}
		}
	}()

	out, err := g.Generate(prices, params)
	if err != nil {
		return nil, &ExecutionError{Generator: g.Name(), Params: params, Cause: err}
	}
	if len(out) != prices.Len() {
		return nil, &ValidationError{Index: -1, Got: len(out), Want: prices.Len()}
	}
	for i := range out {
		switch out[i] {
		case Sell, Hold, Buy:
		default:
			return nil, &ValidationError{Index: i, Value: out[i]}
		}
	}
	return out, nil
}

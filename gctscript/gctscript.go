// Package gctscript hosts untrusted, user-authored strategy scripts on the
// tengo VM and adapts them to the strategy.Generator contract. Scripts see
// only the injected price sequences, their parameters and a technical
// analysis module; no file, network or host access is granted. Output shape
// and value domain are enforced downstream by the signal generation
// contract, the same as for built-in strategies
package gctscript

import (
	"context"
	"errors"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/gofrs/uuid"

	tamodule "github.com/thrasher-corp/gctsweep/gctscript/indicators"
	"github.com/thrasher-corp/gctsweep/kline"
	"github.com/thrasher-corp/gctsweep/log"
	"github.com/thrasher-corp/gctsweep/strategy"
)

// safeModules is the stdlib subset scripts may import; notably no os and no
// rand, keeping scripts pure with respect to their declared inputs
var safeModules = []string{"math", "text", "fmt", "json", "enum"}

var (
	errEmptyScript = errors.New("empty script source")
	errNoSignals   = errors.New("script did not assign the signals global")
	errBadSignals  = errors.New("signals global is not an array of integers")
)

// New compiles a strategy script once for reuse across a whole sweep. The
// shared price sequences are baked in at compile time; only the parameter
// set changes per invocation
func New(name string, source []byte, prices *kline.PriceSeries, cfg Config) (*VM, error) {
	if len(source) == 0 {
		return nil, &Error{Action: "New", Script: name, Cause: errEmptyScript}
	}
	if prices.Len() == 0 {
		return nil, &Error{Action: "New", Script: name, Cause: kline.ErrNoData}
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript(source)
	mods := stdlib.GetModuleMap(safeModules...)
	mods.AddBuiltinModule("ta", tamodule.Module)
	script.SetImports(mods)
	script.SetMaxAllocs(DefaultMaxAllocs)
	script.EnableFileImport(cfg.AllowImports)

	if err = script.Add(pricesGlobal, floatsToObjects(prices.Decision)); err != nil {
		return nil, &Error{Action: "New: Add", Script: name, Cause: err}
	}
	if err = script.Add(executionGlobal, floatsToObjects(prices.Execution)); err != nil {
		return nil, &Error{Action: "New: Add", Script: name, Cause: err}
	}
	if err = script.Add(paramsGlobal, map[string]interface{}{}); err != nil {
		return nil, &Error{Action: "New: Add", Script: name, Cause: err}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, &Error{Action: "New: Compile", Script: name, Cause: err}
	}

	if cfg.Verbose {
		log.Debugf(log.ScriptMgr, "compiled script %s id %v over %d bars", name, id, prices.Len())
	}
	return &VM{
		ID:       id,
		name:     name,
		cfg:      cfg,
		compiled: compiled,
	}, nil
}

// NewFromFile compiles a strategy script loaded from disk
func NewFromFile(path string, prices *kline.PriceSeries, cfg Config) (*VM, error) {
	source, err := readScript(path)
	if err != nil {
		return nil, err
	}
	return New(scriptName(path), source, prices, cfg)
}

// Name returns the script's short name, satisfying strategy.Generator
func (vm *VM) Name() string {
	return vm.name
}

// Generate runs the compiled script for one parameter set and returns the
// raw signal sequence it produced. The clone keeps concurrent invocations
// isolated from each other
func (vm *VM) Generate(_ *kline.PriceSeries, params strategy.ParameterSet) ([]strategy.Signal, error) {
	c := vm.compiled.Clone()
	if err := c.Set(paramsGlobal, paramsToMap(params)); err != nil {
		return nil, &Error{Action: "Generate: Set", Script: vm.name, Cause: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), vm.cfg.timeout())
	defer cancel()
	if vm.cfg.Verbose {
		log.Debugf(log.ScriptMgr, "running script %s id %v for %v", vm.name, vm.ID, params)
	}
	if err := c.RunContext(ctx); err != nil {
		return nil, &Error{Action: "Generate: Run", Script: vm.name, Cause: err}
	}

	return extractSignals(c)
}

func extractSignals(c *tengo.Compiled) ([]strategy.Signal, error) {
	v := c.Get(signalsGlobal)
	if v == nil || v.IsUndefined() {
		return nil, errNoSignals
	}

	var elems []tengo.Object
	switch arr := v.Object().(type) {
	case *tengo.Array:
		elems = arr.Value
	case *tengo.ImmutableArray:
		elems = arr.Value
	default:
		return nil, errBadSignals
	}

	out := make([]strategy.Signal, len(elems))
	for i := range elems {
		n, ok := tengo.ToInt64(elems[i])
		if !ok {
			return nil, errBadSignals
		}
		if n < -128 || n > 127 {
			// preserve "out of domain" through the int8 narrowing so the
			// contract can still reject it by value
			n = 127
		}
		out[i] = strategy.Signal(n)
	}
	return out, nil
}

func floatsToObjects(values []float64) []interface{} {
	out := make([]interface{}, len(values))
	for i := range values {
		out[i] = values[i]
	}
	return out
}

func paramsToMap(params strategy.ParameterSet) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

package gctscript

import (
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/gofrs/uuid"
)

const (
	// DefaultTimeoutValue default timeout for a single script invocation
	DefaultTimeoutValue = 30 * time.Second
	// DefaultMaxAllocs bounds object allocation inside the script VM
	DefaultMaxAllocs = 512 * 1024

	// Globals the host injects into every script
	pricesGlobal    = "prices"
	executionGlobal = "execution"
	paramsGlobal    = "params"
	// Global the script must assign its per-bar output to
	signalsGlobal = "signals"
)

// Config controls script host behaviour for every VM it creates
type Config struct {
	// ScriptTimeout bounds one invocation; zero selects DefaultTimeoutValue
	ScriptTimeout time.Duration
	// AllowImports enables file imports inside scripts; disabled by
	// default as user scripts are untrusted
	AllowImports bool
	Verbose      bool
}

func (c *Config) timeout() time.Duration {
	if c.ScriptTimeout <= 0 {
		return DefaultTimeoutValue
	}
	return c.ScriptTimeout
}

// VM wraps one compiled strategy script. The script is compiled once and
// cloned per invocation, so a single VM may serve a whole sweep, including
// concurrent workers
type VM struct {
	ID       uuid.UUID
	name     string
	cfg      Config
	compiled *tengo.Compiled
}

// Error is the script host error type
type Error struct {
	Action string
	Script string
	Cause  error
}

func (e *Error) Error() string {
	var script, action string
	if e.Script != "" {
		script = fmt.Sprintf("(SCRIPT) %s ", e.Script)
	}
	if e.Action != "" {
		action = fmt.Sprintf("(ACTION) %s ", e.Action)
	}
	return fmt.Sprintf("gctscript: %s%s%v", action, script, e.Cause)
}

// Unwrap returns e.Cause meeting errors interface requirements
func (e *Error) Unwrap() error {
	return e.Cause
}

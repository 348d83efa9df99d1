package log

import (
	"io"
	"os"
	"sync"
)

const (
	timestampFormat = "02/01/2006 15:04:05"

	infoHeader  = "[INFO]"
	debugHeader = "[DEBUG]"
	warnHeader  = "[WARN]"
	errorHeader = "[ERROR]"
)

// Global vars related to the logger package
var (
	mu         sync.RWMutex
	subLoggers = map[string]*SubLogger{}

	Global       *SubLogger
	SweepMgr     *SubLogger
	ScriptMgr    *SubLogger
	PortfolioSim *SubLogger
	ConfigMgr    *SubLogger
)

// Levels flags each log level on or off for a sublogger
type Levels struct {
	Info, Debug, Warn, Error bool
}

// SubLogger defines an independently switchable logging entity with its own
// output and level set
type SubLogger struct {
	name   string
	levels Levels
	output io.Writer
}

// logFields is used to store sublogger state in a non-global and thread-safe
// manner so logs cannot be modified mid-log causing a data-race issue
type logFields struct {
	info   bool
	warn   bool
	debug  bool
	error  bool
	name   string
	output io.Writer
}

func init() {
	Global = registerNewSubLogger("LOG")
	SweepMgr = registerNewSubLogger("SWEEP")
	ScriptMgr = registerNewSubLogger("SCRIPT")
	PortfolioSim = registerNewSubLogger("PORTFOLIO")
	ConfigMgr = registerNewSubLogger("CONFIG")
}

func registerNewSubLogger(name string) *SubLogger {
	sl := &SubLogger{
		name:   name,
		levels: Levels{Info: true, Warn: true, Error: true},
		output: os.Stdout,
	}
	mu.Lock()
	subLoggers[name] = sl
	mu.Unlock()
	return sl
}

// NewSubLogger registers a new sublogger under a unique name
func NewSubLogger(name string) (*SubLogger, error) {
	if name == "" {
		return nil, errEmptyLoggerName
	}
	mu.RLock()
	_, ok := subLoggers[name]
	mu.RUnlock()
	if ok {
		return nil, errSubLoggerAlreadyRegistered
	}
	return registerNewSubLogger(name), nil
}

// SetGlobalLevels applies the same level set to every registered sublogger
func SetGlobalLevels(l Levels) {
	mu.Lock()
	for _, sl := range subLoggers {
		sl.levels = l
	}
	mu.Unlock()
}

// SetOutput overrides the sublogger output writer
func (sl *SubLogger) SetOutput(w io.Writer) {
	mu.Lock()
	sl.output = w
	mu.Unlock()
}

// SetLevels overrides the enabled log levels for the sublogger
func (sl *SubLogger) SetLevels(l Levels) {
	mu.Lock()
	sl.levels = l
	mu.Unlock()
}

func (sl *SubLogger) getFields() *logFields {
	if sl == nil {
		return nil
	}
	mu.RLock()
	defer mu.RUnlock()
	return &logFields{
		info:   sl.levels.Info,
		warn:   sl.levels.Warn,
		debug:  sl.levels.Debug,
		error:  sl.levels.Error,
		name:   sl.name,
		output: sl.output,
	}
}

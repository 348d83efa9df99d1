package log

import (
	"errors"
	"fmt"
	"log"
	"time"
)

var (
	errEmptyLoggerName            = errors.New("cannot have empty logger name")
	errSubLoggerAlreadyRegistered = errors.New("sub logger already registered")
)

// Info takes a pointer subLogger struct and string sends to stage
func Info(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(infoHeader, data)
}

// Infoln takes a pointer subLogger struct and interface sends to stage
func Infoln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(infoHeader, fmt.Sprintln(v...))
}

// Infof takes a pointer subLogger struct, string and interface formats sends to stage
func Infof(sl *SubLogger, data string, v ...interface{}) {
	Info(sl, fmt.Sprintf(data, v...))
}

// Debug takes a pointer subLogger struct and string sends to stage
func Debug(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(debugHeader, data)
}

// Debugln takes a pointer subLogger struct and interface sends to stage
func Debugln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(debugHeader, fmt.Sprintln(v...))
}

// Debugf takes a pointer subLogger struct, string and interface formats sends to stage
func Debugf(sl *SubLogger, data string, v ...interface{}) {
	Debug(sl, fmt.Sprintf(data, v...))
}

// Warn takes a pointer subLogger struct & string and sends to stage
func Warn(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(warnHeader, data)
}

// Warnln takes a pointer subLogger struct & interface and sends to stage
func Warnln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(warnHeader, fmt.Sprintln(v...))
}

// Warnf takes a pointer subLogger struct, string and interface formats sends to stage
func Warnf(sl *SubLogger, data string, v ...interface{}) {
	Warn(sl, fmt.Sprintf(data, v...))
}

// Error takes a pointer subLogger struct & interface and sends to stage
func Error(sl *SubLogger, data interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(errorHeader, fmt.Sprint(data))
}

// Errorln takes a pointer subLogger struct, string & interface and sends to stage
func Errorln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(errorHeader, fmt.Sprintln(v...))
}

// Errorf takes a pointer subLogger struct, string and interface formats sends to stage
func Errorf(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	sl.getFields().stage(errorHeader, fmt.Sprintf(data, v...))
}

func (l *logFields) enabled(header string) bool {
	if l == nil {
		return false
	}
	switch header {
	case infoHeader:
		return l.info
	case debugHeader:
		return l.debug
	case warnHeader:
		return l.warn
	case errorHeader:
		return l.error
	}
	return false
}

func (l *logFields) stage(header, data string) {
	if !l.enabled(header) {
		return
	}
	_, err := fmt.Fprintf(l.output, "%s %s %s %s\n",
		time.Now().Format(timestampFormat),
		header,
		l.name,
		data)
	displayError(err)
}

func displayError(err error) {
	if err != nil {
		log.Printf("Logger write error: %v\n", err)
	}
}

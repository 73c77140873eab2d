package winsec

import (
	"sync"
	"sync/atomic"
)

// Logger lets the package report errors from best-effort cleanup paths
// (privilege reverts, handle closes) to any external logging system.
//
// Implementers should implement this simple interface and call SetLogger
// to enable error logging of the winsec package.
type Logger interface {
	Error(err error, msg string)
	Logf(format string, args ...interface{})
}

var globalLoggerLock sync.Mutex
var globalLogger atomic.Value

// SetLogger sets the logger used by the winsec package for errors and warnings.
func SetLogger(l Logger) {
	globalLoggerLock.Lock()
	defer globalLoggerLock.Unlock()
	globalLogger.Store(&l)
}

func init() {
	SetLogger(noopLogger{})
}

func logger() Logger {
	v := globalLogger.Load()
	return *v.(*Logger)
}

// Logf writes a formatted entry to the package logger.
func Logf(format string, v ...interface{}) {
	logger().Logf(format, v...)
}

// LogError reports err to the package logger if it is non-nil.
func LogError(err error, msg string) {
	if err != nil {
		logger().Error(err, msg)
	}
}

// noopLogger silently discards logs
type noopLogger struct{}

func (n noopLogger) Logf(format string, v ...interface{}) {}

func (n noopLogger) Error(err error, msg string) {}

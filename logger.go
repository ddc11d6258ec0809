package deencode

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the package logger: the one given to SetLogger, or a
// no-op logger. WithLogger overrides it for a single Deencode call.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger replaces the package logger. nil restores the no-op default.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

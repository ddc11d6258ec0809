package engine

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the logger used by engines, a no-op logger unless
// SetLogger was called. Plugin engines log call failures at warn level.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger replaces the engine logger. Engines may log from any goroutine,
// so the swap is atomic. A nil logger restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l != nil {
		l = l.Named("engine")
	}
	logger.Store(l)
}

package sfr

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the sfr package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the sfr package's logger.
// This must be called before any model building.
func SetLogger(l *zap.Logger) {
	logger = l
}

func logDiagnostic(d Diagnostic) {
	Logger().Warn("diagnostic",
		zap.String("kind", string(d.Kind)),
		zap.String("register", d.Name),
		zap.Uint32("addr", d.Addr),
		zap.String("detail", d.Detail),
	)
}

package docmap

import (
	"go.uber.org/zap"
)

// Logger returns the process-wide configured logger. Descriptors and
// documents expose the same instance through their own Logger methods.
func Logger() *zap.Logger { return zap.L() }

// SetLogger installs the process-wide logger used by the mapping layer.
func SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	zap.ReplaceGlobals(l)
}

package kit

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogConfig struct {
	Level       string
	Development bool
}

// NewLogger builds a JSON production logger, or a console logger when
// Development is set. An unparsable level falls back to info.
func NewLogger(service string, cfg LogConfig) *zap.Logger {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.InitialFields = map[string]any{"service": service}

	l, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

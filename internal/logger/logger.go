// Package logger builds the zap logger the ledger services log through.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New selects the logger config from APP_ENV: "production" gets JSON output
// at info level, anything else a colored development logger at debug level.
// LOG_LEVEL overrides the level either way. Errors always carry stacktraces
// so a failed position write can be traced to its caller.
func New() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)

	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsed, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", lvl, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	return cfg.Build(zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

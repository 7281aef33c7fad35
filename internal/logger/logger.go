// Package logger builds the zap logger injected into the pipelines.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tunedex/pkg/config"
)

var logLevels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// New creates a sugared logger from the log config. Console encoding is the
// default; json is available for machine consumption of run audits.
func New(cfg config.LogConfig) (*zap.SugaredLogger, error) {
	level, ok := logLevels[cfg.Level]
	if !ok {
		if cfg.Level != "" {
			return nil, fmt.Errorf("unknown log level %q", cfg.Level)
		}
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Encoding = "console"
	if cfg.Encoding == "json" {
		zapCfg.Encoding = "json"
	}
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zapCfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	zapCfg.DisableStacktrace = true

	log, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return log.Sugar(), nil
}

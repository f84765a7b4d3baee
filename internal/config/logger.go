package config

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Format picks the encoder, Level picks
// the threshold; the two are independent.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	return loggerConfig(cfg).Build()
}

func loggerConfig(cfg LogConfig) zap.Config {
	level := parseLogLevel(cfg.Level)
	console := strings.EqualFold(cfg.Format, "console")

	zc := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       console,
		DisableStacktrace: !console,
		Encoding:          "json",
		EncoderConfig:     encoderConfig(console),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	if console {
		zc.Encoding = "console"
	} else {
		zc.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}
	return zc
}

func encoderConfig(console bool) zapcore.EncoderConfig {
	if console {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeCaller = zapcore.ShortCallerEncoder
		return ec
	}

	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.MillisDurationEncoder
	ec.EncodeCaller = zapcore.ShortCallerEncoder
	return ec
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

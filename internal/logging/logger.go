// Package logging builds the diagnostics logger for the bargain CLI.
//
// Log lines go to a JSON file under ~/.bargain/logs so that a failing
// request can be inspected after the fact; --debug additionally echoes a
// console-formatted copy to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls logger initialization.
type Config struct {
	// Level is debug, info, warn or error. Defaults to info.
	Level string

	// File is the JSON log destination. Empty disables the file sink.
	File string

	// Debug tees console output to Console (stderr if nil) at debug level.
	Debug   bool
	Console io.Writer
}

// New creates a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	var cores []zapcore.Core

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		level := parseLevel(cfg.Level)
		if cfg.Debug {
			level = zapcore.DebugLevel
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), level))
	}

	if cfg.Debug {
		console := cfg.Console
		if console == nil {
			console = os.Stderr
		}
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(console), zapcore.DebugLevel))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// DebugFunc adapts a logger to the printf-style callback the API client and
// state machines accept. Arguments are redacted before formatting.
func DebugFunc(logger *zap.Logger) func(format string, args ...any) {
	sugar := logger.Sugar()
	return func(format string, args ...any) {
		sugar.Debug(Redact(fmt.Sprintf(format, args...)))
	}
}

// LogFunc adapts a logger to the (level, msg) callback used by background
// fetchers.
func LogFunc(logger *zap.Logger) func(level, msg string) {
	return func(level, msg string) {
		msg = Redact(msg)
		switch parseLevel(level) {
		case zapcore.DebugLevel:
			logger.Debug(msg)
		case zapcore.WarnLevel:
			logger.Warn(msg)
		case zapcore.ErrorLevel:
			logger.Error(msg)
		default:
			logger.Info(msg)
		}
	}
}

func parseLevel(level string) zapcore.Level {
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

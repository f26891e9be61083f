// Package logging builds the structured logger shared by all commands.
package logging

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing JSON lines to logFile. verbose lowers the
// level to debug and mirrors records to stderr in console format. With no
// file and no verbose flag the logger discards everything.
func New(verbose bool, logFile string) (*zap.Logger, error) {
	if logFile == "" && !verbose {
		return zap.NewNop(), nil
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(f),
			level,
		))
	}
	if verbose {
		consoleConfig := encoderConfig
		consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleConfig),
			zapcore.Lock(os.Stderr),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// WithRun tags every record of a command run with a fresh run id
func WithRun(logger *zap.Logger, command string) (*zap.Logger, string) {
	runID := uuid.NewString()
	return logger.With(zap.String("run_id", runID), zap.String("command", command)), runID
}

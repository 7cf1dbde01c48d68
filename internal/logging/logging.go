package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a sugared zap logger writing to stderr, so stdout stays free for
// subtitle output.
type Logger struct {
	*zap.SugaredLogger
}

func NewLogger(verbose bool) *Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderCfg.TimeKey = ""
	encoderCfg.CallerKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level),
	)

	return &Logger{SugaredLogger: zap.New(core).Sugar()}
}

// discards everything
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

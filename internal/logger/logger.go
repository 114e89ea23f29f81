package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op until Init runs, so library code and tests may log freely.
var Log = zap.NewNop().Sugar()

// Init points Log at logPath (truncated) or, when logPath is empty, at
// stderr so command output stays pipeable. Colors are only used on stderr.
func Init(verbose bool, logPath string) {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	var openErr error
	sink := zapcore.Lock(os.Stderr)
	color := true
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			openErr = err
		} else {
			sink, color = zapcore.AddSync(f), false
		}
	}

	Log = zap.New(zapcore.NewCore(consoleEncoder(color), sink, level)).Sugar()
	if openErr != nil {
		Log.Warnf("Cannot write log file, logging to stderr: %v", openErr)
	}
}

func consoleEncoder(color bool) zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeCaller = nil
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}

package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables configuring the log file path and level.
const (
	envLogPath  = "CACHEKIT_LOG"
	envLogLevel = "CACHEKIT_LOG_LEVEL"
)

var (
	std           *zap.Logger
	sugar         *zap.SugaredLogger
	logFile       *os.File
	isInitialized bool
)

// InitFromEnv initializes the logger using CACHEKIT_LOG or a default path.
func InitFromEnv() error {
	path := os.Getenv(envLogPath)
	if path == "" {
		// Default to the directory where the executable is located
		if exePath, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(exePath), "cachekit.log")
		} else {
			path = "./cachekit.log"
		}
	}
	return Init(path, os.Getenv(envLogLevel))
}

// Init initializes the logger to write to the provided file path at the given
// level ("debug", "info", "warn", "error"; empty means info).
// It creates parent directories if needed and opens the file in append mode.
func Init(path, level string) error {
	if isInitialized {
		return nil
	}
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return err
		}
		lvl = parsed
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	logFile = f
	setCore(zapcore.AddSync(f), lvl)
	isInitialized = true
	return nil
}

func setCore(ws zapcore.WriteSyncer, lvl zapcore.Level) {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	std = zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(enc), ws, lvl))
	sugar = std.Sugar()
}

// L returns the process logger, or a no-op logger before Init.
func L() *zap.Logger {
	if std == nil {
		return zap.NewNop()
	}
	return std
}

// Close flushes and closes the underlying log file, if open. A later log call
// initializes the logger again from the environment.
func Close() error {
	if std != nil {
		_ = std.Sync()
	}
	std, sugar, isInitialized = nil, nil, false
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// Infof logs informational messages.
func Infof(format string, args ...any) { write(zapcore.InfoLevel, format, args...) }

// Warnf logs warnings.
func Warnf(format string, args ...any) { write(zapcore.WarnLevel, format, args...) }

// Errorf logs errors.
func Errorf(format string, args ...any) { write(zapcore.ErrorLevel, format, args...) }

func write(level zapcore.Level, format string, args ...any) {
	if sugar == nil {
		// Fallback: initialize with default if not already.
		_ = InitFromEnv()
	}
	if sugar == nil {
		return
	}
	switch level {
	case zapcore.WarnLevel:
		sugar.Warnf(format, args...)
	case zapcore.ErrorLevel:
		sugar.Errorf(format, args...)
	default:
		sugar.Infof(format, args...)
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Package logger provides structured logging for ip2k using zap.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global logger instance.
	Log *zap.Logger
	// Sugar is the sugared logger for printf-style logging.
	Sugar *zap.SugaredLogger
)

func init() {
	Log = zap.NewNop()
	Sugar = Log.Sugar()
}

// Console selects where console log lines go.
type Console int

const (
	// ConsoleOff disables console output; only the file receives logs.
	ConsoleOff Console = iota
	// ConsoleStdout writes every enabled level to stdout.
	ConsoleStdout
	// ConsoleStderrWarn writes warnings and errors to stderr. Used while the
	// terminal surface owns stdout.
	ConsoleStderrWarn
)

// FileConfig holds log file rotation settings.
type FileConfig struct {
	Path       string // Log file path (empty = no file logging)
	MaxSizeMB  int    // Max size in MB before rotation
	MaxBackups int    // Number of old files to keep
	MaxAgeDays int    // Max days to retain old files
	Compress   bool   // Compress rotated files
}

// DefaultFileConfig returns sensible defaults for log rotation.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Init initializes the global logger writing to stdout.
func Init(level string) error {
	return InitWithFileConfig(level, FileConfig{}, ConsoleStdout)
}

// InitWithFileConfig initializes the logger with file rotation and the
// chosen console sink.
func InitWithFileConfig(level string, fileCfg FileConfig, console Console) error {
	zapLevel := parseLevel(level)
	var cores []zapcore.Core

	if core := consoleCore(zapLevel, console); core != nil {
		cores = append(cores, core)
	}

	if fileCfg.Path != "" {
		fileEncoderConfig := zap.NewProductionEncoderConfig()
		fileEncoderConfig.TimeKey = "time"
		fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		fileEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

		rotator := &lumberjack.Logger{
			Filename:   fileCfg.Path,
			MaxSize:    fileCfg.MaxSizeMB,
			MaxBackups: fileCfg.MaxBackups,
			MaxAge:     fileCfg.MaxAgeDays,
			Compress:   fileCfg.Compress,
		}

		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(fileEncoderConfig),
			zapcore.AddSync(rotator),
			zapLevel,
		))
	}

	if len(cores) == 0 {
		Log = zap.NewNop()
	} else {
		Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	}
	Sugar = Log.Sugar()
	return nil
}

func consoleCore(level zapcore.Level, console Console) zapcore.Core {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	switch console {
	case ConsoleStdout:
		return zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stdout),
			level,
		)
	case ConsoleStderrWarn:
		floor := level
		if floor < zapcore.WarnLevel {
			floor = zapcore.WarnLevel
		}
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.Lock(os.Stderr),
			floor,
		)
	default:
		return nil
	}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Named returns a child of the global logger for a component.
func Named(name string) *zap.Logger {
	return Log.WithOptions(zap.AddCallerSkip(-1)).Named(name)
}

// Sync flushes any buffered log entries.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}

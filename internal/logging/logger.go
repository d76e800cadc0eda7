package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity of a log entry.
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// LogEntry is a single buffered log line. CorrelationID, when non-empty,
// ties the entry to the executor run or gesture event that produced it
// so a failure can be traced across the keydown, traffic-controller,
// and execution log lines it touched.
type LogEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Level         LogLevel  `json:"level"`
	Message       string    `json:"message"`
	Source        string    `json:"source,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// Logger wraps a zap logger with a bounded in-memory ring buffer of
// recent entries, queryable by correlation id for post-mortem tracing
// of a single macro run.
type Logger struct {
	zap        *zap.Logger
	sugar      *zap.SugaredLogger
	entries    []LogEntry
	maxEntries int
	mu         sync.RWMutex
	enabled    bool
	logFile    *os.File
}

// Config holds logger configuration.
type Config struct {
	Enabled    bool
	MaxEntries int
	Level      LogLevel
	Role       string // component name, used for log file naming
	LogToFile  bool
}

// NewLogger creates a new logger instance.
func NewLogger(cfg Config) (*Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case LevelDebug:
		level = zapcore.DebugLevel
	case LevelInfo:
		level = zapcore.InfoLevel
	case LevelWarn:
		level = zapcore.WarnLevel
	case LevelError:
		level = zapcore.ErrorLevel
	default:
		level = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var logFile *os.File
	var cores []zapcore.Core

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)
	cores = append(cores, consoleCore)

	if cfg.LogToFile {
		exePath, err := os.Executable()
		if err == nil {
			exeDir := filepath.Dir(exePath)
			if filepath.Base(filepath.Dir(exeDir)) == "Contents" {
				exeDir = filepath.Dir(filepath.Dir(filepath.Dir(exeDir)))
			}

			role := cfg.Role
			if role == "" {
				role = "app"
			}

			dateStr := time.Now().Format("2006-01-02_15-04-05")
			logFileName := fmt.Sprintf("logs_%s_%s.txt", role, dateStr)
			logPath := filepath.Join(exeDir, logFileName)

			logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				fileEncoder := zapcore.NewConsoleEncoder(encoderConfig)
				fileCore := zapcore.NewCore(fileEncoder, zapcore.AddSync(logFile), zapcore.DebugLevel)
				cores = append(cores, fileCore)
			}
		}
	}

	core := zapcore.NewTee(cores...)
	zapLogger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 1000
	}

	return &Logger{
		zap:        zapLogger,
		sugar:      zapLogger.Sugar(),
		entries:    make([]LogEntry, 0, maxEntries),
		maxEntries: maxEntries,
		enabled:    cfg.Enabled,
		logFile:    logFile,
	}, nil
}

// addEntry appends a log entry to the ring buffer, evicting the oldest
// entry once maxEntries is reached.
func (l *Logger) addEntry(level LogLevel, id uuid.UUID, source, message string) {
	if !l.enabled {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Source:    source,
	}
	if id != uuid.Nil {
		entry.CorrelationID = id.String()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) >= l.maxEntries {
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, entry)
}

func (l *Logger) log(level LogLevel, id uuid.UUID, source, formatted string) {
	if id == uuid.Nil {
		switch level {
		case LevelDebug:
			l.sugar.Debugw(formatted, "source", source)
		case LevelInfo:
			l.sugar.Infow(formatted, "source", source)
		case LevelWarn:
			l.sugar.Warnw(formatted, "source", source)
		case LevelError:
			l.sugar.Errorw(formatted, "source", source)
		}
	} else {
		switch level {
		case LevelDebug:
			l.sugar.Debugw(formatted, "source", source, "correlation_id", id)
		case LevelInfo:
			l.sugar.Infow(formatted, "source", source, "correlation_id", id)
		case LevelWarn:
			l.sugar.Warnw(formatted, "source", source, "correlation_id", id)
		case LevelError:
			l.sugar.Errorw(formatted, "source", source, "correlation_id", id)
		}
	}
	l.addEntry(level, id, source, formatted)
}

// Debug logs a debug message.
func (l *Logger) Debug(source, msg string, args ...interface{}) {
	l.log(LevelDebug, uuid.Nil, source, fmt.Sprintf(msg, args...))
}

// Info logs an info message.
func (l *Logger) Info(source, msg string, args ...interface{}) {
	l.log(LevelInfo, uuid.Nil, source, fmt.Sprintf(msg, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(source, msg string, args ...interface{}) {
	l.log(LevelWarn, uuid.Nil, source, fmt.Sprintf(msg, args...))
}

// Error logs an error message.
func (l *Logger) Error(source, msg string, args ...interface{}) {
	l.log(LevelError, uuid.Nil, source, fmt.Sprintf(msg, args...))
}

// DebugC logs a debug message correlated with id, e.g. an
// executor.ExecutionEvent.ID, so every log line belonging to one macro
// run can be pulled back out of the ring buffer together.
func (l *Logger) DebugC(id uuid.UUID, source, msg string, args ...interface{}) {
	l.log(LevelDebug, id, source, fmt.Sprintf(msg, args...))
}

// InfoC logs an info message correlated with id.
func (l *Logger) InfoC(id uuid.UUID, source, msg string, args ...interface{}) {
	l.log(LevelInfo, id, source, fmt.Sprintf(msg, args...))
}

// WarnC logs a warning message correlated with id.
func (l *Logger) WarnC(id uuid.UUID, source, msg string, args ...interface{}) {
	l.log(LevelWarn, id, source, fmt.Sprintf(msg, args...))
}

// ErrorC logs an error message correlated with id.
func (l *Logger) ErrorC(id uuid.UUID, source, msg string, args ...interface{}) {
	l.log(LevelError, id, source, fmt.Sprintf(msg, args...))
}

// EntriesByCorrelation returns every buffered entry tagged with id, in
// the order they were logged, for tracing one run after the fact.
func (l *Logger) EntriesByCorrelation(id uuid.UUID) []LogEntry {
	if id == uuid.Nil {
		return nil
	}
	want := id.String()

	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []LogEntry
	for _, e := range l.entries {
		if e.CorrelationID == want {
			out = append(out, e)
		}
	}
	return out
}

// Close syncs and closes the logger.
func (l *Logger) Close() error {
	err := l.zap.Sync()
	if l.logFile != nil {
		l.logFile.Close()
	}
	return err
}

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/perfeval/backend/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Logger     *logrus.Logger // Main logger instance
	FileLogger *logrus.Logger // File logger for application logs
)

// Initialize sets up the loggers with proper configuration
func Initialize(cfg config.LoggingConfig) {
	FileLogger = logrus.New()

	var level logrus.Level
	switch strings.ToUpper(cfg.Level) {
	case "DEBUG":
		level = logrus.DebugLevel
	case "INFO":
		level = logrus.InfoLevel
	case "WARN":
		level = logrus.WarnLevel
	case "ERROR":
		level = logrus.ErrorLevel
	default:
		level = logrus.InfoLevel
	}

	FileLogger.SetLevel(level)
	FileLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		ForceColors:     false,
		DisableColors:   true,
	})

	Logger = FileLogger

	// "-" keeps application logs on stdout (containers, tests)
	if cfg.File == "" || cfg.File == "-" {
		FileLogger.SetOutput(os.Stdout)
		return
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		fmt.Printf("Failed to create logs directory: %v\n", err)
		FileLogger.SetOutput(os.Stdout)
		return
	}

	FileLogger.SetOutput(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	})
	FileLogger.SetReportCaller(true)

	Logger.WithFields(logrus.Fields{
		"api_logs":  "stdout (simple text)",
		"app_logs":  "file",
		"log_level": level.String(),
		"log_file":  cfg.File,
	}).Info("Logging system initialized")
}

// GetLogger returns the configured main logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		Logger = logrus.New()
		Logger.SetOutput(io.Discard)
	}
	return Logger
}

// WithContext creates a logger with additional context fields
func WithContext(fields map[string]interface{}) *logrus.Entry {
	return GetLogger().WithFields(fields)
}

// WithEmployee creates a logger scoped to one evaluation request
func WithEmployee(employeeID, runID string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"employee_id": employeeID,
		"run_id":      runID,
		"component":   "evaluation_service",
	})
}

// WithLLM creates a logger with LLM client context
func WithLLM(provider, model string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"component": "llm",
		"provider":  provider,
		"model":     model,
	})
}

// WithVectorStore creates a logger with vector store context
func WithVectorStore(backend, namespace string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"component": "vectorstore",
		"backend":   backend,
		"namespace": namespace,
	})
}

// WithError creates a logger with error context
func WithError(err error, component string) *logrus.Entry {
	fields := logrus.Fields{
		"error":     err.Error(),
		"component": component,
	}

	if GetLogger().GetLevel() >= logrus.DebugLevel {
		fields["stack_trace"] = getStackTrace()
	}

	return GetLogger().WithFields(fields)
}

func getStackTrace() string {
	var stack []string
	for i := 1; i < 10; i++ {
		if pc, file, line, ok := runtime.Caller(i); ok {
			fn := runtime.FuncForPC(pc)
			stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		}
	}
	return strings.Join(stack, "\n")
}

func Debug(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Debug(msg)
}

func Info(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Info(msg)
}

func Warn(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Warn(msg)
}

func Error(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Error(msg)
}

func Fatal(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Fatal(msg)
}

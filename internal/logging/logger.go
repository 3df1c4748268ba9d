// Package logging provides config-driven categorized file-based logging.
// Logs are written to .veribench/logs/ with one file per category.
// Logging is controlled by the logging section of .veribench/config.yaml;
// when debug is false, no logs are written.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Category represents a log category.
type Category string

const (
	// CategoryBoot covers startup and CLI wiring.
	CategoryBoot Category = "boot"

	// CategoryTools covers tool registry and adapter activity.
	CategoryTools Category = "tools"

	// CategoryExec covers subprocess execution.
	CategoryExec Category = "exec"

	// CategoryRunner covers end-to-end benchmark runs.
	CategoryRunner Category = "runner"
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// loggingConfig mirrors the logging section of config.Config to avoid a
// circular import.
type loggingConfig struct {
	Debug      bool            `yaml:"debug"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

type configFile struct {
	Logging loggingConfig `yaml:"logging"`
}

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	config    loggingConfig
	configMu  sync.RWMutex
	logLevel  int
)

// Initialize sets up the logging directory and loads the logging section of
// the workspace config. Call once at startup.
func Initialize(workspace string) error {
	if workspace == "" {
		return fmt.Errorf("workspace path required")
	}

	logsDir = filepath.Join(workspace, ".veribench", "logs")

	if err := loadConfig(workspace); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] warning: could not load config: %v\n", err)
		config.Debug = false
	}

	// Silent no-op when debug logging is off.
	if !config.Debug {
		return nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== veribench logging initialized ===")
	boot.Info("Logs directory: %s", logsDir)
	boot.Info("Log level: %s", config.Level)
	return nil
}

func loadConfig(workspace string) error {
	configMu.Lock()
	defer configMu.Unlock()

	configPath := filepath.Join(workspace, ".veribench", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config means no logging.
			config = loggingConfig{}
			return nil
		}
		return err
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	config = cf.Logging

	switch config.Level {
	case "debug":
		logLevel = LevelDebug
	case "info", "":
		logLevel = LevelInfo
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	return nil
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if !config.Debug {
		return false
	}
	if config.Categories == nil {
		return true
	}
	enabled, exists := config.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if logging is disabled for the category.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Double-check after acquiring the write lock.
	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// CloseAll closes all open log files (call at shutdown).
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Boot logs to the boot category.
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootDebug logs debug to the boot category.
func BootDebug(format string, args ...interface{}) {
	Get(CategoryBoot).Debug(format, args...)
}

// Tools logs to the tools category.
func Tools(format string, args ...interface{}) {
	Get(CategoryTools).Info(format, args...)
}

// ToolsDebug logs debug to the tools category.
func ToolsDebug(format string, args ...interface{}) {
	Get(CategoryTools).Debug(format, args...)
}

// ToolsWarn logs warning to the tools category.
func ToolsWarn(format string, args ...interface{}) {
	Get(CategoryTools).Warn(format, args...)
}

// Exec logs to the exec category.
func Exec(format string, args ...interface{}) {
	Get(CategoryExec).Info(format, args...)
}

// ExecDebug logs debug to the exec category.
func ExecDebug(format string, args ...interface{}) {
	Get(CategoryExec).Debug(format, args...)
}

// ExecWarn logs warning to the exec category.
func ExecWarn(format string, args ...interface{}) {
	Get(CategoryExec).Warn(format, args...)
}

// Runner logs to the runner category.
func Runner(format string, args ...interface{}) {
	Get(CategoryRunner).Info(format, args...)
}

// RunnerDebug logs debug to the runner category.
func RunnerDebug(format string, args ...interface{}) {
	Get(CategoryRunner).Debug(format, args...)
}

// RunnerError logs error to the runner category.
func RunnerError(format string, args ...interface{}) {
	Get(CategoryRunner).Error(format, args...)
}

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LevelFromString converts a level name to a LogLevel, defaulting to INFO
// for anything unrecognized.
func LevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// FileConfig mirrors the logging block of pkg/config's YAML schema.
type FileConfig struct {
	Level         string `yaml:"level"`
	EnableConsole bool   `yaml:"enable_console"`
	EnableFile    bool   `yaml:"enable_file"`
	LogFile       string `yaml:"log_file"`
	LogDir        string `yaml:"log_dir"`
	BufferSize    int    `yaml:"buffer_size"`
}

// InitializeFromConfig builds a Logger from a YAML-sourced FileConfig,
// creating the log directory if needed.
func InitializeFromConfig(name string, fc FileConfig) (*Logger, error) {
	if fc.LogDir != "" {
		if err := os.MkdirAll(fc.LogDir, 0755); err != nil {
			return nil, fmt.Errorf("logging: failed to create log directory: %w", err)
		}
	}

	logFile := fc.LogFile
	if logFile == "" && fc.EnableFile {
		if fc.LogDir != "" {
			logFile = filepath.Join(fc.LogDir, fmt.Sprintf("%s.log", name))
		} else {
			logFile = fmt.Sprintf("%s.log", name)
		}
	}

	return New(Config{
		Level:         LevelFromString(fc.Level),
		LogFile:       logFile,
		EnableConsole: fc.EnableConsole,
		EnableFile:    fc.EnableFile,
		BufferSize:    fc.BufferSize,
	}), nil
}

// Component names used in structured log entries throughout this repository.
const (
	ComponentBuilder = "builder"
	ComponentFilter  = "filter"
	ComponentTable   = "table"
	ComponentConfig  = "config"
	ComponentCache   = "cache"
	ComponentMain    = "main"
)

// Action names used in structured log entries throughout this repository.
const (
	ActionBuild      = "build"
	ActionKick       = "kick"
	ActionEvict      = "evict"
	ActionAdd        = "add"
	ActionLookup     = "lookup"
	ActionRemove     = "remove"
	ActionStart      = "start"
	ActionValidation = "validation"
)

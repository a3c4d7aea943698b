package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appDir     = ".sheetboard"
	configFile = "config.yaml"
)

// Config holds application preferences. Spreadsheet credentials are user
// settings and live in the settings store, not here.
type Config struct {
	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging

	DBPath string `yaml:"db_path" json:"db_path"` // Local settings database

	// Sheet tabs for the secondary datasets
	CourseRange string `yaml:"course_range" json:"course_range"`
	TodoRange   string `yaml:"todo_range" json:"todo_range"`

	// DiscardStale drops fetch results that resolve after a newer one was applied.
	DiscardStale bool `yaml:"discard_stale" json:"discard_stale"`
	// FetchTimeout bounds a single spreadsheet request; zero means no limit.
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
	// VerboseLabels renders "3일 남음" instead of "D-3".
	VerboseLabels bool `yaml:"verbose_labels" json:"verbose_labels"`
}

// Dir returns ~/.sheetboard
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDir), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	logPath := ""
	dbPath := ""
	if dir, err := Dir(); err == nil {
		logPath = filepath.Join(dir, "logs", "sheetboard.log")
		dbPath = filepath.Join(dir, "sheetboard.db")
	}

	return &Config{
		LogLevel:    getEnv("SHEETBOARD_LOG_LEVEL", "INFO"),
		LogFile:     getEnv("SHEETBOARD_LOG_FILE", logPath),
		LogConsole:  getEnv("SHEETBOARD_LOG_CONSOLE", "false") == "true",
		DBPath:      getEnv("SHEETBOARD_DB", dbPath),
		CourseRange: "시트2!A:E",
		TodoRange:   "시트3!A:C",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Path returns the config file location
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load loads config from ~/.sheetboard/config.yaml
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads config from path, falling back to defaults when the file
// does not exist. Fields missing from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves config to ~/.sheetboard/config.yaml
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config as YAML to path
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Storage backends selectable for the durable store.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config holds user preferences
type Config struct {
	Storage       string `yaml:"storage" json:"storage"`               // Durable store backend: file or sqlite
	DataDir       string `yaml:"data_dir" json:"data_dir"`             // Data directory for the file backend
	ConfirmDelete bool   `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for delete

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	logPath := ""
	dataDir := ""
	if home != "" {
		logPath = filepath.Join(home, ".quicklist", "logs", "quicklist.log")
		dataDir = filepath.Join(home, ".quicklist", "data")
	}

	return &Config{
		Storage:       getEnv("QUICKLIST_STORAGE", StorageFile),
		DataDir:       getEnv("QUICKLIST_DATA_DIR", dataDir),
		ConfirmDelete: true,
		LogLevel:      getEnv("QUICKLIST_LOG_LEVEL", "INFO"),
		LogFile:       getEnv("QUICKLIST_LOG_FILE", logPath),
		LogConsole:    getEnv("QUICKLIST_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".quicklist", "config.yaml"), nil
}

// Load loads config from ~/.quicklist/config.yaml
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

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

// Save saves config to ~/.quicklist/config.yaml
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

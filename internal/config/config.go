package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendMongo  = "mongo"
)

// Config holds application configuration.
// Follows Single Responsibility - only holds configuration data.
type Config struct {
	Port  int         `yaml:"port"`
	Store StoreConfig `yaml:"store"`
	Mongo MongoConfig `yaml:"mongo"`
}

// StoreConfig selects and tunes the issue store.
type StoreConfig struct {
	Backend        string `yaml:"backend"`
	FilePath       string `yaml:"file_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port: 8080,
		Store: StoreConfig{
			Backend:        BackendMemory,
			FilePath:       "data/issues.json",
			TimeoutSeconds: 10,
		},
		Mongo: MongoConfig{
			Database:   "issuetracker",
			Collection: "issues",
		},
	}
}

// Load builds configuration from defaults, then the YAML file named by
// CONFIG_FILE (if set), then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			c.Port = p
		}
	}
	if timeoutStr := os.Getenv("STORE_TIMEOUT_SECONDS"); timeoutStr != "" {
		if t, err := strconv.Atoi(timeoutStr); err == nil && t > 0 {
			c.Store.TimeoutSeconds = t
		}
	}

	c.Store.Backend = getEnvOrDefault("STORE_BACKEND", c.Store.Backend)
	c.Store.FilePath = getEnvOrDefault("STORE_FILE", c.Store.FilePath)
	c.Mongo.URI = getEnvOrDefault("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = getEnvOrDefault("MONGO_DATABASE", c.Mongo.Database)
	c.Mongo.Collection = getEnvOrDefault("MONGO_COLLECTION", c.Mongo.Collection)
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.FilePath == "" {
			return fmt.Errorf("store backend %q requires a file path", BackendFile)
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("store backend %q requires MONGO_URI", BackendMongo)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

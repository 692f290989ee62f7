// Package config provides configuration loading and structs for the Concierge server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application. Secrets (API keys,
// bearer tokens) are never part of the YAML file; they are read from the
// environment by LoadSecrets.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Vector    VectorConfig    `yaml:"vector"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chat      ChatConfig      `yaml:"chat"`
	Booking   BookingConfig   `yaml:"booking"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Session   SessionConfig   `yaml:"session"`
	Rooms     RoomsConfig     `yaml:"rooms"`
	Storage   StorageConfig   `yaml:"storage"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// VectorConfig holds the Qdrant connection and collection settings.
type VectorConfig struct {
	URL        string `yaml:"url"`
	Collection string `yaml:"collection"`
	Dimensions int    `yaml:"dimensions"`
}

// EmbeddingConfig holds the hosted embedding-inference settings.
type EmbeddingConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	Dimensions  int    `yaml:"dimensions"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChatModelConfig holds decoding parameters for one answer mode.
// Temperature is a pointer so an explicit 0 survives defaulting.
type ChatModelConfig struct {
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
}

// TemperatureOrZero returns the configured temperature, 0 when unset.
func (c ChatModelConfig) TemperatureOrZero() float64 {
	if c.Temperature != nil {
		return *c.Temperature
	}
	return 0
}

// ChatConfig holds the chat-completion settings for both answer modes.
type ChatConfig struct {
	BaseURL     string          `yaml:"base_url"`
	TimeoutSecs int             `yaml:"timeout_secs"`
	RAG         ChatModelConfig `yaml:"rag"`
	NoRAG       ChatModelConfig `yaml:"no_rag"`
}

// BookingConfig holds the room-availability API settings.
type BookingConfig struct {
	URL         string `yaml:"url"`
	HotelID     string `yaml:"hotel_id"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// IngestConfig holds chunking and retrieval parameters.
type IngestConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	TopK         int `yaml:"top_k"`
}

// SessionConfig holds conversation-state storage settings.
// Store is "memory", "redis", or "" (sessions disabled).
type SessionConfig struct {
	Store     string `yaml:"store"`
	RedisAddr string `yaml:"redis_addr"`
	TTLHours  int    `yaml:"ttl_hours"`
}

// RoomsConfig holds the local availability spreadsheet path.
type RoomsConfig struct {
	SpreadsheetPath string `yaml:"spreadsheet_path"`
}

// StorageConfig holds the local ingest-log database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// WatchConfig holds directory watch settings for auto-ingestion.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// Secrets holds credentials read from the environment. A .env file in the
// working directory is honored in development (godotenv); deployments set
// the variables directly.
type Secrets struct {
	HFToken      string
	QdrantAPIKey string
	BookingToken string
}

// LoadSecrets reads credentials from the environment, loading .env first if
// present. Only HFToken is mandatory; the others guard optional collaborators.
func LoadSecrets() (Secrets, error) {
	_ = godotenv.Load()
	s := Secrets{
		HFToken:      os.Getenv("HF_TOKEN"),
		QdrantAPIKey: os.Getenv("QDRANT_API_KEY"),
		BookingToken: os.Getenv("BOOKING_API_TOKEN"),
	}
	if s.HFToken == "" {
		return s, fmt.Errorf("HF_TOKEN is not set")
	}
	return s, nil
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Rooms.SpreadsheetPath != "" {
		cfg.Rooms.SpreadsheetPath = expandPath(cfg.Rooms.SpreadsheetPath, configDir)
	}
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

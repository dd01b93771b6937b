// Package config provides configuration loading and structs for the rdrag service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Backend   BackendConfig   `yaml:"backend"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the corpus, index cache, and feedback log paths.
type StorageConfig struct {
	CorpusPath   string `yaml:"corpus_path"`
	IndexPath    string `yaml:"index_path"`
	FeedbackPath string `yaml:"feedback_path"`
}

// BackendConfig holds settings for the local inference endpoint. Temperature
// is a pointer so that an explicit 0 (deterministic decoding) can be told
// apart from an unset value.
type BackendConfig struct {
	URL            string   `yaml:"url"`
	Model          string   `yaml:"model"`
	Temperature    *float64 `yaml:"temperature"`
	NumCtx         int      `yaml:"num_ctx"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// TemperatureOrDefault returns the configured temperature, defaulting to 0.3.
func (b *BackendConfig) TemperatureOrDefault() float64 {
	if b.Temperature != nil {
		return *b.Temperature
	}
	return 0.3
}

// RetrievalConfig holds retrieval settings. MinScore is a pointer so that an
// explicit 0 (no floor) can be told apart from an unset value.
type RetrievalConfig struct {
	TopK     int      `yaml:"top_k"`
	MinScore *float64 `yaml:"min_score"`
}

// MinScoreOrDefault returns the configured relevance floor, defaulting to 0.05.
func (r *RetrievalConfig) MinScoreOrDefault() float64 {
	if r.MinScore != nil {
		return *r.MinScore
	}
	return 0.05
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
	cfg.Storage.CorpusPath = expandPath(cfg.Storage.CorpusPath, configDir)
	cfg.Storage.IndexPath = expandPath(cfg.Storage.IndexPath, configDir)
	cfg.Storage.FeedbackPath = expandPath(cfg.Storage.FeedbackPath, configDir)

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

package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Search      SearchConfig    `toml:"search"`
	Resolver    ResolverConfig  `toml:"resolver"`
	Corpus      CorpusConfig    `toml:"corpus"`
	RateLimit   RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	SQLite SQLiteConfig `toml:"sqlite"`
}

// SQLiteConfig represents SQLite-specific configuration
type SQLiteConfig struct {
	Path          string `toml:"path"`            // Database file path
	CacheSizeMB   int    `toml:"cache_size_mb"`   // Page cache size in MB
	BusyTimeoutMS int    `toml:"busy_timeout_ms"` // Lock wait timeout in milliseconds
	WALMode       bool   `toml:"wal_mode"`        // Enable write-ahead logging
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// SearchConfig contains configuration for lexical search behavior
type SearchConfig struct {
	Enabled      bool     `toml:"enabled"`       // When false the search service reports ErrIndexUnavailable
	DefaultLimit int      `toml:"default_limit"` // Result limit when the caller passes zero
	MaxLimit     int      `toml:"max_limit"`     // Hard cap on requested limits
	Stopwords    []string `toml:"stopwords"`     // Terms removed from query tokenization. Empty by default: legal stopwords like "shall" carry meaning
}

// ResolverConfig contains configuration for cross-reference resolution
type ResolverConfig struct {
	MaxDepth int `toml:"max_depth"` // Default closure depth bound (kept small; unbounded following is the documented failure mode)
	TopK     int `toml:"top_k"`     // Default number of primary candidates per query
}

// CorpusConfig contains configuration for corpus manifest loading
type CorpusConfig struct {
	Dir        string   `toml:"dir"`        // Directory containing corpus manifest files
	Extensions []string `toml:"extensions"` // File extensions to scan (default: [".yaml", ".yml"])
}

// RateLimitConfig contains configuration for the HTTP rate limiter
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// NewDefaultConfig returns configuration defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			SQLite: SQLiteConfig{
				Path:          "./data/lexquery.db",
				CacheSizeMB:   64,
				BusyTimeoutMS: 5000,
				WALMode:       true,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Search: SearchConfig{
			Enabled:      true,
			DefaultLimit: 10,
			MaxLimit:     100,
			Stopwords:    []string{}, // Intentionally empty - "shall" and "may" are load-bearing in statute text
		},
		Resolver: ResolverConfig{
			MaxDepth: 2,
			TopK:     10,
		},
		Corpus: CorpusConfig{
			Dir:        "./corpus",
			Extensions: []string{".yaml", ".yml"},
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 50,
			Burst:             100,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LEXQUERY_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("LEXQUERY_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LEXQUERY_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if path := os.Getenv("LEXQUERY_SQLITE_PATH"); path != "" {
		config.Storage.SQLite.Path = path
	}

	if level := os.Getenv("LEXQUERY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("LEXQUERY_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if dir := os.Getenv("LEXQUERY_CORPUS_DIR"); dir != "" {
		config.Corpus.Dir = dir
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

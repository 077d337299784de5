package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog source kinds.
const (
	SourceFile   = "file"
	SourceRedis  = "redis"
	SourceSQLite = "sqlite"
)

// Encoder providers.
const (
	ProviderHashing = "hashing"
	ProviderOpenAI  = "openai"
)

// Config holds the recommender service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Database  DatabaseConfig  `yaml:"database"`
	Encoder   EncoderConfig   `yaml:"encoder"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig selects where products are loaded from.
type CatalogConfig struct {
	Source      string `yaml:"source"`       // file, redis, sqlite (default: file)
	Path        string `yaml:"path"`         // file source: .json, .yaml or .yml
	RedisKey    string `yaml:"redis_key"`    // redis source
	SeedPath    string `yaml:"seed_path"`    // redis source: file written to redis_key at startup
	SQLiteDSN   string `yaml:"sqlite_dsn"`   // sqlite source
	SQLiteTable string `yaml:"sqlite_table"` // sqlite source (default: products)
}

// DatabaseConfig holds Redis connection settings for the redis catalog source.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EncoderConfig selects and tunes the text encoder.
type EncoderConfig struct {
	Provider            string       `yaml:"provider"` // hashing, openai (default: hashing)
	Dimensions          int          `yaml:"dimensions"`
	Serialize           bool         `yaml:"serialize"` // guard a non-reentrant encoder with a mutex
	DocumentInstruction string       `yaml:"document_instruction"`
	QueryInstruction    string       `yaml:"query_instruction"`
	OpenAI              OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig holds settings for an OpenAI-compatible embeddings API.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// RetrievalConfig holds ranking limits and index build settings.
type RetrievalConfig struct {
	DefaultTopK      int `yaml:"default_top_k"`
	MaxTopK          int `yaml:"max_top_k"`
	BuildConcurrency int `yaml:"build_concurrency"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = SourceFile
	}
	if c.Catalog.RedisKey == "" {
		c.Catalog.RedisKey = "recommender:catalog"
	}
	if c.Catalog.SQLiteTable == "" {
		c.Catalog.SQLiteTable = "products"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Encoder.Provider == "" {
		c.Encoder.Provider = ProviderHashing
	}
	if c.Encoder.Dimensions <= 0 && c.Encoder.Provider == ProviderHashing {
		c.Encoder.Dimensions = 384
	}
	if c.Encoder.OpenAI.Model == "" {
		c.Encoder.OpenAI.Model = "text-embedding-3-small"
	}
	if c.Retrieval.DefaultTopK <= 0 {
		c.Retrieval.DefaultTopK = 5
	}
	if c.Retrieval.MaxTopK <= 0 {
		c.Retrieval.MaxTopK = 100
	}
	if c.Retrieval.BuildConcurrency <= 0 {
		c.Retrieval.BuildConcurrency = 4
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Catalog.Source {
	case SourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for the file source")
		}
	case SourceRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the redis source")
		}
	case SourceSQLite:
		if c.Catalog.SQLiteDSN == "" {
			return fmt.Errorf("catalog.sqlite_dsn is required for the sqlite source")
		}
	default:
		return fmt.Errorf("catalog.source must be \"file\", \"redis\" or \"sqlite\", got %q", c.Catalog.Source)
	}

	switch c.Encoder.Provider {
	case ProviderHashing:
	case ProviderOpenAI:
		if c.Encoder.OpenAI.APIKey == "" {
			return fmt.Errorf("encoder.openai.api_key is required for the openai provider")
		}
	default:
		return fmt.Errorf("encoder.provider must be \"hashing\" or \"openai\", got %q", c.Encoder.Provider)
	}

	if c.Retrieval.DefaultTopK > c.Retrieval.MaxTopK {
		return fmt.Errorf("retrieval.default_top_k (%d) exceeds retrieval.max_top_k (%d)",
			c.Retrieval.DefaultTopK, c.Retrieval.MaxTopK)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

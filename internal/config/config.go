// Package config loads application configuration from a TOML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Storage backend names.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Storage   StorageConfig   `toml:"storage"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Ingest    IngestConfig    `toml:"ingest"`
	Ask       AskConfig       `toml:"ask"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Backend     string `toml:"backend"`
	PostgresDSN string `toml:"postgres_dsn"`
	SQLitePath  string `toml:"sqlite_path"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Provider          string  `toml:"provider"`
	APIKey            string  `toml:"api_key"`
	Model             string  `toml:"model"`
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LLMConfig configures the answer-generation provider.
type LLMConfig struct {
	Provider     string `toml:"provider"`
	APIKey       string `toml:"api_key"`
	Model        string `toml:"model"`
	RewriteModel string `toml:"rewrite_model"`
	BaseURL      string `toml:"base_url"`
}

// IngestConfig configures the chunking pipeline.
type IngestConfig struct {
	ChunkSize int `toml:"chunk_size"`
	Overlap   int `toml:"overlap"`
}

// AskConfig configures retrieval.
type AskConfig struct {
	TopK     int     `toml:"top_k"`
	MinScore float64 `toml:"min_score"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			SQLitePath: "documentor.db",
		},
		Embedding: EmbeddingConfig{
			Provider: ProviderOpenAI,
		},
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
		},
		Ingest: IngestConfig{
			ChunkSize: 500,
			Overlap:   50,
		},
		Ask: AskConfig{
			TopK:     5,
			MinScore: 0.3,
		},
	}
}

// Load reads configuration from the given TOML file, if it exists, then
// applies DOCUMENTOR_* environment overrides on top. A missing file is not
// an error; defaults fill the gaps.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %q: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendPostgres && c.Storage.PostgresDSN == "" {
		return fmt.Errorf("postgres backend requires a DSN")
	}
	if c.Embedding.Provider != ProviderOpenAI {
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.Ingest.Overlap < 0 {
		return fmt.Errorf("overlap must not be negative")
	}
	if c.Ask.TopK <= 0 {
		return fmt.Errorf("top_k must be positive")
	}
	if c.Ask.MinScore < 0 || c.Ask.MinScore > 1 {
		return fmt.Errorf("min_score must be between 0 and 1")
	}
	return nil
}

// Addr returns the host:port the API server binds to.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "DOCUMENTOR_SERVER_HOST")
	setInt(&cfg.Server.Port, "DOCUMENTOR_SERVER_PORT")

	setString(&cfg.Storage.Backend, "DOCUMENTOR_STORAGE_BACKEND")
	setString(&cfg.Storage.PostgresDSN, "DOCUMENTOR_POSTGRES_DSN")
	setString(&cfg.Storage.SQLitePath, "DOCUMENTOR_SQLITE_PATH")

	setString(&cfg.Embedding.Provider, "DOCUMENTOR_EMBEDDING_PROVIDER")
	setString(&cfg.Embedding.APIKey, "DOCUMENTOR_EMBEDDING_API_KEY")
	setString(&cfg.Embedding.Model, "DOCUMENTOR_EMBEDDING_MODEL")
	setString(&cfg.Embedding.BaseURL, "DOCUMENTOR_EMBEDDING_BASE_URL")
	setFloat(&cfg.Embedding.RequestsPerSecond, "DOCUMENTOR_EMBEDDING_RPS")

	setString(&cfg.LLM.Provider, "DOCUMENTOR_LLM_PROVIDER")
	setString(&cfg.LLM.APIKey, "DOCUMENTOR_LLM_API_KEY")
	setString(&cfg.LLM.Model, "DOCUMENTOR_LLM_MODEL")
	setString(&cfg.LLM.RewriteModel, "DOCUMENTOR_LLM_REWRITE_MODEL")
	setString(&cfg.LLM.BaseURL, "DOCUMENTOR_LLM_BASE_URL")

	setInt(&cfg.Ingest.ChunkSize, "DOCUMENTOR_CHUNK_SIZE")
	setInt(&cfg.Ingest.Overlap, "DOCUMENTOR_CHUNK_OVERLAP")

	setInt(&cfg.Ask.TopK, "DOCUMENTOR_TOP_K")
	setFloat(&cfg.Ask.MinScore, "DOCUMENTOR_MIN_SCORE")

	// OPENAI_API_KEY and ANTHROPIC_API_KEY fill in provider keys when the
	// DOCUMENTOR_* variants are absent.
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case ProviderAnthropic:
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		default:
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server needs at startup.
type Config struct {
	Server      ServerConfig
	Logging     LoggingConfig
	Pipeline    PipelineConfig
	VectorStore VectorStoreConfig
	LLM         LLMConfig
	Database    DatabaseConfig
	Admin       AdminConfig
}

type ServerConfig struct {
	Port            string
	GinMode         string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type LoggingConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type PipelineConfig struct {
	ConsistencyDelay time.Duration
	RetrievalTopK    int
}

type VectorStoreConfig struct {
	Backend string // pinecone, pgvector, bolt

	PineconeAPIKey          string
	PineconeIndexName       string
	PineconeIndexHost       string
	PineconeAPIVersion      string
	PineconeControlPlaneURL string

	BoltPath string
	Timeout  time.Duration
}

type LLMConfig struct {
	Provider string // gemini, ollama

	GoogleAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	OllamaURL        string
	OllamaModel      string
	OllamaEmbedModel string

	Timeout time.Duration
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Enabled reports whether any database connection settings were provided.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != "" || d.Host != ""
}

// DSN returns the connection string, preferring DATABASE_URL.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type AdminConfig struct {
	JWTSecret    string
	PasswordHash string
	TokenTTL     time.Duration
}

// Enabled reports whether the admin login can issue tokens.
func (a AdminConfig) Enabled() bool {
	return a.JWTSecret != "" && a.PasswordHash != ""
}

// Load reads the configuration from the process environment and validates it.
// Callers load any .env file beforehand.
func Load() (*Config, error) {
	cfg := Read()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads the configuration without validating provider credentials, for
// tools that only need part of it.
func Read() *Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			GinMode:         v.GetString("GIN_MODE"),
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Logging: LoggingConfig{
			Level:      strings.ToUpper(v.GetString("LOG_LEVEL")),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Pipeline: PipelineConfig{
			ConsistencyDelay: v.GetDuration("CONSISTENCY_DELAY"),
			RetrievalTopK:    v.GetInt("RETRIEVAL_TOP_K"),
		},
		VectorStore: VectorStoreConfig{
			Backend:                 strings.ToLower(v.GetString("VECTOR_STORE")),
			PineconeAPIKey:          v.GetString("PINECONE_API_KEY"),
			PineconeIndexName:       v.GetString("PINECONE_INDEX_NAME"),
			PineconeIndexHost:       v.GetString("PINECONE_INDEX_HOST"),
			PineconeAPIVersion:      v.GetString("PINECONE_API_VERSION"),
			PineconeControlPlaneURL: v.GetString("PINECONE_CONTROL_PLANE_URL"),
			BoltPath:                v.GetString("BOLT_PATH"),
			Timeout:                 time.Duration(v.GetInt("VECTOR_STORE_TIMEOUT_SECONDS")) * time.Second,
		},
		LLM: LLMConfig{
			Provider:         strings.ToLower(v.GetString("LLM_PROVIDER")),
			GoogleAPIKey:     v.GetString("GOOGLE_API_KEY"),
			GeminiModel:      v.GetString("GEMINI_MODEL"),
			GeminiBaseURL:    v.GetString("GEMINI_BASE_URL"),
			OllamaURL:        v.GetString("OLLAMA_URL"),
			OllamaModel:      v.GetString("OLLAMA_MODEL"),
			OllamaEmbedModel: v.GetString("OLLAMA_EMBED_MODEL"),
			Timeout:          time.Duration(v.GetInt("LLM_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Admin: AdminConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
			TokenTTL:     v.GetDuration("JWT_TTL"),
		},
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")

	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("LOG_FILE", "logs/perfeval.log")
	v.SetDefault("LOG_MAX_SIZE_MB", 50)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)

	v.SetDefault("CONSISTENCY_DELAY", "20s")
	v.SetDefault("RETRIEVAL_TOP_K", 3)

	v.SetDefault("VECTOR_STORE", "pinecone")
	v.SetDefault("PINECONE_INDEX_NAME", "automated-performance-evaluator-logs")
	v.SetDefault("PINECONE_API_VERSION", "2025-01")
	v.SetDefault("PINECONE_CONTROL_PLANE_URL", "https://api.pinecone.io")
	v.SetDefault("BOLT_PATH", "data/segments.db")
	v.SetDefault("VECTOR_STORE_TIMEOUT_SECONDS", 30)

	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("OLLAMA_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "llama2:13b")
	v.SetDefault("OLLAMA_EMBED_MODEL", "nomic-embed-text")
	v.SetDefault("LLM_TIMEOUT_SECONDS", 300)

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("JWT_TTL", "12h")
}

// Validate checks provider selections and their credentials.
func (c *Config) Validate() error {
	var errs []error

	switch c.VectorStore.Backend {
	case "pinecone":
		if c.VectorStore.PineconeAPIKey == "" {
			errs = append(errs, errors.New("PINECONE_API_KEY is required for the pinecone vector store"))
		}
		if c.VectorStore.PineconeIndexHost == "" && c.VectorStore.PineconeIndexName == "" {
			errs = append(errs, errors.New("PINECONE_INDEX_HOST or PINECONE_INDEX_NAME is required"))
		}
	case "pgvector":
		if !c.Database.Enabled() {
			errs = append(errs, errors.New("the pgvector vector store requires DATABASE_URL or DB_HOST"))
		}
	case "bolt":
		if c.VectorStore.BoltPath == "" {
			errs = append(errs, errors.New("BOLT_PATH is required for the bolt vector store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown VECTOR_STORE %q", c.VectorStore.Backend))
	}

	switch c.LLM.Provider {
	case "gemini":
		if c.LLM.GoogleAPIKey == "" {
			errs = append(errs, errors.New("GOOGLE_API_KEY is required for the gemini provider"))
		}
	case "ollama":
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider))
	}

	if c.Pipeline.ConsistencyDelay < 0 {
		errs = append(errs, errors.New("CONSISTENCY_DELAY must not be negative"))
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package config loads service configuration from an optional YAML file and
// CIVREG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "CIVREG"

type Config struct {
	Server       Server       `mapstructure:"server"`
	Log          Log          `mapstructure:"log"`
	Database     Database     `mapstructure:"database"`
	Redis        RedisConfig  `mapstructure:"redis"`
	Kafka        Kafka        `mapstructure:"kafka"`
	Audit        Audit        `mapstructure:"audit"`
	Registration Registration `mapstructure:"registration"`
	Knowledge    Knowledge    `mapstructure:"knowledge"`
	Reasoning    Reasoning    `mapstructure:"reasoning"`
	OCR          OCR          `mapstructure:"ocr"`
	Certificate  Certificate  `mapstructure:"certificate"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Database is empty-URL for the in-memory store.
type Database struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig is empty-URL when Redis is not configured.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Kafka enables the audit outbox relay when Brokers is non-empty.
type Kafka struct {
	Brokers         []string      `mapstructure:"brokers"`
	Topic           string        `mapstructure:"topic"`
	PublishInterval time.Duration `mapstructure:"publish_interval"`
	BatchSize       int           `mapstructure:"batch_size"`
}

// Audit selects inline (0) or buffered audit emission. A full buffer drops
// the event and logs it.
type Audit struct {
	AsyncBuffer int `mapstructure:"async_buffer"`
}

type Registration struct {
	// Fallback is "placeholder" or "none".
	Fallback     string        `mapstructure:"fallback"`
	ExtraMarkers []string      `mapstructure:"extra_markers"`
	RunTimeout   time.Duration `mapstructure:"run_timeout"`
	DocumentsDir string        `mapstructure:"documents_dir"`
}

type Knowledge struct {
	SourcePath       string        `mapstructure:"source_path"`
	IndexPath        string        `mapstructure:"index_path"`
	ChunkSize        int           `mapstructure:"chunk_size"`
	ChunkOverlap     int           `mapstructure:"chunk_overlap"`
	TopK             int           `mapstructure:"top_k"`
	EmbeddingAPIKey  string        `mapstructure:"embedding_api_key"`
	EmbeddingBaseURL string        `mapstructure:"embedding_base_url"`
	EmbeddingModel   string        `mapstructure:"embedding_model"`
	// CacheBackend is "memory", "redis" or "none".
	CacheBackend string        `mapstructure:"cache_backend"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

type Reasoning struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
	// BreakerFailures consecutive provider failures open the circuit for
	// BreakerCooldown. Zero disables the breaker.
	BreakerFailures int           `mapstructure:"breaker_failures"`
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown"`
}

type OCR struct {
	Language  string `mapstructure:"language"`
	Tesseract string `mapstructure:"tesseract"`
	Pdftoppm  string `mapstructure:"pdftoppm"`
}

type Certificate struct {
	Prefix    string `mapstructure:"prefix"`
	OutputDir string `mapstructure:"output_dir"`
}

var defaults = map[string]any{
	"server.addr":             ":8080",
	"server.shutdown_timeout": 10 * time.Second,
	"server.max_upload_bytes": int64(32 << 20),

	"log.level":  "info",
	"log.format": "json",

	"database.url":               "",
	"database.max_open_conns":    10,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": 30 * time.Minute,

	"redis.url":            "",
	"redis.pool_size":      10,
	"redis.min_idle_conns": 2,
	"redis.dial_timeout":   5 * time.Second,
	"redis.read_timeout":   3 * time.Second,
	"redis.write_timeout":  3 * time.Second,

	"kafka.brokers":          []string{},
	"kafka.topic":            "civreg.audit",
	"kafka.publish_interval": 2 * time.Second,
	"kafka.batch_size":       100,

	"audit.async_buffer": 0,

	"registration.fallback":      "placeholder",
	"registration.extra_markers": []string{},
	"registration.run_timeout":   2 * time.Minute,
	"registration.documents_dir": "documents",

	"knowledge.source_path":        "knowledge_base/death_rules.json",
	"knowledge.index_path":         "knowledge_base/death_index.json",
	"knowledge.chunk_size":         500,
	"knowledge.chunk_overlap":      50,
	"knowledge.top_k":              3,
	"knowledge.embedding_api_key":  "",
	"knowledge.embedding_base_url": "",
	"knowledge.embedding_model":    "text-embedding-3-small",
	"knowledge.cache_backend":      "memory",
	"knowledge.cache_ttl":          10 * time.Minute,

	"reasoning.api_key":             "",
	"reasoning.base_url":            "https://api.groq.com/openai/v1",
	"reasoning.model":               "llama-3.1-8b-instant",
	"reasoning.max_tokens":          500,
	"reasoning.requests_per_second": 0.0,
	"reasoning.timeout":             30 * time.Second,
	"reasoning.breaker_failures":    5,
	"reasoning.breaker_cooldown":    30 * time.Second,

	// Other languages need their tesseract traineddata installed, e.g. amh.
	"ocr.language":  "eng",
	"ocr.tesseract": "tesseract",
	"ocr.pdftoppm":  "pdftoppm",

	"certificate.prefix":     "DC",
	"certificate.output_dir": "certificates",
}

// New returns a viper instance with defaults and environment binding set
// up. Keys map to CIVREG_SECTION_KEY; the provider API keys also accept
// GROQ_API_KEY and OPENAI_API_KEY.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("reasoning.api_key", EnvPrefix+"_REASONING_API_KEY", "GROQ_API_KEY")
	_ = v.BindEnv("knowledge.embedding_api_key", EnvPrefix+"_KNOWLEDGE_EMBEDDING_API_KEY", "OPENAI_API_KEY")
	return v
}

// Load reads path when given, then overlays the environment.
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates an already prepared viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Registration.Fallback {
	case "placeholder", "none":
	default:
		errs = append(errs, fmt.Errorf("registration.fallback must be placeholder or none, got %q", c.Registration.Fallback))
	}
	switch c.Knowledge.CacheBackend {
	case "memory", "redis", "none":
	default:
		errs = append(errs, fmt.Errorf("knowledge.cache_backend must be memory, redis or none, got %q", c.Knowledge.CacheBackend))
	}
	if c.Knowledge.CacheBackend == "redis" && c.Redis.URL == "" {
		errs = append(errs, errors.New("knowledge.cache_backend redis requires redis.url"))
	}
	if c.Knowledge.TopK <= 0 {
		errs = append(errs, errors.New("knowledge.top_k must be positive"))
	}
	if c.Knowledge.ChunkSize <= 0 || c.Knowledge.ChunkOverlap < 0 || c.Knowledge.ChunkOverlap >= c.Knowledge.ChunkSize {
		errs = append(errs, errors.New("knowledge chunking requires 0 <= chunk_overlap < chunk_size"))
	}
	if c.Certificate.Prefix == "" {
		errs = append(errs, errors.New("certificate.prefix is required"))
	}
	if c.Reasoning.BreakerFailures < 0 {
		errs = append(errs, errors.New("reasoning.breaker_failures must not be negative"))
	}
	if c.Reasoning.BreakerFailures > 0 && c.Reasoning.BreakerCooldown <= 0 {
		errs = append(errs, errors.New("reasoning.breaker_cooldown must be positive when the breaker is enabled"))
	}
	if c.Audit.AsyncBuffer < 0 {
		errs = append(errs, errors.New("audit.async_buffer must not be negative"))
	}
	if c.Registration.RunTimeout <= 0 {
		errs = append(errs, errors.New("registration.run_timeout must be positive"))
	}
	return errors.Join(errs...)
}

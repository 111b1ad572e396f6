package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the search service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Logging    LoggingConfig    `yaml:"logging"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Redis      RedisConfig      `yaml:"redis"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	Search     SearchConfig     `yaml:"search"`
	Auth       AuthConfig       `yaml:"auth"`
}

// AuthConfig holds API keys for the upload and image search endpoints.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"` // empty = auth disabled
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	MaxUploadMB     int `yaml:"max_upload_mb"`
}

// OpenAIConfig holds vision and embedding model settings.
type OpenAIConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	VisionModel    string `yaml:"vision_model"`
	EmbeddingModel string `yaml:"embedding_model"`
	Dimensions     int    `yaml:"dimensions"` // 0 = model default
	Prompt         string `yaml:"prompt"`
}

// CatalogConfig holds the two catalog sources.
type CatalogConfig struct {
	Products   SourceConfig `yaml:"products"`
	Embeddings SourceConfig `yaml:"embeddings"`
}

// SourceConfig locates one catalog. Locations are http(s) URLs, redis://<key> or file paths.
type SourceConfig struct {
	Index     string   `yaml:"index"`
	Fragments []string `yaml:"fragments"`
	TTLSec    int      `yaml:"ttl_sec"` // negative = load once; embeddings default to 600
}

// FetchConfig tunes outbound HTTP and fragment downloads.
type FetchConfig struct {
	RetryMax        int `yaml:"retry_max"`
	RetryWaitMaxSec int `yaml:"retry_wait_max_sec"`
	TimeoutSec      int `yaml:"timeout_sec"`
	Workers         int `yaml:"workers"`
}

// RedisConfig holds the optional Redis fragment source and embedding cache.
// Empty addrs disables both.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	EmbeddingTTLSec  int      `yaml:"embedding_cache_ttl_sec"` // negative = no expiry
}

// CloudinaryConfig holds image upload settings.
type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
	BaseURL   string `yaml:"base_url"`
}

// SearchConfig holds ranking settings.
type SearchConfig struct {
	ImageTopK      int     `yaml:"image_top_k"`
	HashTopK       int     `yaml:"hash_top_k"`
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
	DefaultPerPage int     `yaml:"default_per_page"`
}

// DefaultPrompt is the vision instruction used when none is configured.
const DefaultPrompt = "Describe este producto de forma breve y comercial, indicando tipo, material y uso."

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = 10
	}
	if c.OpenAI.VisionModel == "" {
		c.OpenAI.VisionModel = "gpt-4.1-mini"
	}
	if c.OpenAI.EmbeddingModel == "" {
		c.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if c.OpenAI.Prompt == "" {
		c.OpenAI.Prompt = DefaultPrompt
	}
	if c.Catalog.Embeddings.TTLSec == 0 {
		c.Catalog.Embeddings.TTLSec = 600
	}
	if c.Fetch.RetryMax <= 0 {
		c.Fetch.RetryMax = 3
	}
	if c.Fetch.RetryWaitMaxSec <= 0 {
		c.Fetch.RetryWaitMaxSec = 5
	}
	if c.Fetch.TimeoutSec <= 0 {
		c.Fetch.TimeoutSec = 30
	}
	if c.Fetch.Workers <= 0 {
		c.Fetch.Workers = 8
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.Redis.EmbeddingTTLSec == 0 {
		c.Redis.EmbeddingTTLSec = 7 * 24 * 3600
	}
	if c.Cloudinary.BaseURL == "" {
		c.Cloudinary.BaseURL = "https://api.cloudinary.com/v1_1"
	}
	if c.Search.ImageTopK <= 0 {
		c.Search.ImageTopK = 10
	}
	if c.Search.HashTopK <= 0 {
		c.Search.HashTopK = 16
	}
	if c.Search.FuzzyThreshold <= 0 {
		c.Search.FuzzyThreshold = 0.34
	}
	if c.Search.DefaultPerPage <= 0 {
		c.Search.DefaultPerPage = 24
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if err := c.Catalog.Products.validate("catalog.products"); err != nil {
		return err
	}
	if err := c.Catalog.Embeddings.validate("catalog.embeddings"); err != nil {
		return err
	}
	for _, src := range []SourceConfig{c.Catalog.Products, c.Catalog.Embeddings} {
		if src.usesRedis() && len(c.Redis.Addrs) == 0 {
			return fmt.Errorf("redis.addrs is required for redis:// catalog locations")
		}
	}
	if c.Search.HashTopK < 10 || c.Search.HashTopK > 20 {
		return fmt.Errorf("search.hash_top_k must be between 10 and 20, got %d", c.Search.HashTopK)
	}
	if c.Search.FuzzyThreshold >= 1 {
		return fmt.Errorf("search.fuzzy_threshold must be below 1, got %v", c.Search.FuzzyThreshold)
	}
	if c.Search.DefaultPerPage < 5 || c.Search.DefaultPerPage > 100 {
		return fmt.Errorf("search.default_per_page must be between 5 and 100, got %d", c.Search.DefaultPerPage)
	}
	return nil
}

// UploadsEnabled reports whether Cloudinary credentials are configured.
func (c *Config) UploadsEnabled() bool {
	return c.Cloudinary.CloudName != "" && c.Cloudinary.APIKey != "" && c.Cloudinary.APISecret != ""
}

// EmbeddingTTL returns the embedding cache lifetime; zero means no expiry.
func (r RedisConfig) EmbeddingTTL() time.Duration {
	if r.EmbeddingTTLSec < 0 {
		return 0
	}
	return time.Duration(r.EmbeddingTTLSec) * time.Second
}

// TTL returns the snapshot lifetime; non-positive means the snapshot never expires.
func (s SourceConfig) TTL() time.Duration {
	return time.Duration(s.TTLSec) * time.Second
}

func (s SourceConfig) validate(name string) error {
	if s.Index == "" && len(s.Fragments) == 0 {
		return fmt.Errorf("%s needs an index or at least one fragment", name)
	}
	return nil
}

func (s SourceConfig) usesRedis() bool {
	if strings.HasPrefix(s.Index, "redis://") {
		return true
	}
	for _, f := range s.Fragments {
		if strings.HasPrefix(f, "redis://") {
			return true
		}
	}
	return false
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

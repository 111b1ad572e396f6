package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{
			Products:   SourceConfig{Fragments: []string{"productos.json"}},
			Embeddings: SourceConfig{Index: "https://cdn.example.com/clusters/index.json"},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_CatalogWithoutLocations(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.Embeddings = SourceConfig{TTLSec: 600}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty catalog source")
	}
	if !strings.Contains(err.Error(), "catalog.embeddings") {
		t.Errorf("error should name the source, got %q", err.Error())
	}
}

func TestValidate_RedisLocationNeedsAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.Products.Fragments = append(cfg.Catalog.Products.Fragments, "redis://catalog:productos:2")

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for redis location without redis.addrs")
	}

	cfg.Redis.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_HashTopKRange(t *testing.T) {
	for _, k := range []int{9, 21} {
		cfg := validConfig()
		cfg.Search.HashTopK = k
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for hash_top_k=%d", k)
		}
	}
}

func TestValidate_DefaultPerPageRange(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultPerPage = 500

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default_per_page out of range")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.MaxUploadMB != 10 {
		t.Errorf("expected MaxUploadMB=10, got %d", cfg.HTTP.MaxUploadMB)
	}
	if cfg.OpenAI.VisionModel != "gpt-4.1-mini" {
		t.Errorf("expected VisionModel=gpt-4.1-mini, got %q", cfg.OpenAI.VisionModel)
	}
	if cfg.OpenAI.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("expected EmbeddingModel=text-embedding-3-small, got %q", cfg.OpenAI.EmbeddingModel)
	}
	if cfg.OpenAI.Prompt != DefaultPrompt {
		t.Errorf("expected default prompt, got %q", cfg.OpenAI.Prompt)
	}
	if cfg.Catalog.Embeddings.TTL() != 10*time.Minute {
		t.Errorf("expected embeddings TTL 10m, got %v", cfg.Catalog.Embeddings.TTL())
	}
	if cfg.Catalog.Products.TTL() != 0 {
		t.Errorf("expected products to load once, got %v", cfg.Catalog.Products.TTL())
	}
	if cfg.Fetch.Workers != 8 {
		t.Errorf("expected Workers=8, got %d", cfg.Fetch.Workers)
	}
	if cfg.Search.ImageTopK != 10 || cfg.Search.HashTopK != 16 {
		t.Errorf("expected top-k 10/16, got %d/%d", cfg.Search.ImageTopK, cfg.Search.HashTopK)
	}
	if cfg.Search.FuzzyThreshold != 0.34 {
		t.Errorf("expected FuzzyThreshold=0.34, got %v", cfg.Search.FuzzyThreshold)
	}
	if cfg.Search.DefaultPerPage != 24 {
		t.Errorf("expected DefaultPerPage=24, got %d", cfg.Search.DefaultPerPage)
	}
	if cfg.Cloudinary.BaseURL != "https://api.cloudinary.com/v1_1" {
		t.Errorf("unexpected Cloudinary base URL %q", cfg.Cloudinary.BaseURL)
	}
	if cfg.Redis.EmbeddingTTL() != 7*24*time.Hour {
		t.Errorf("expected embedding cache TTL 168h, got %v", cfg.Redis.EmbeddingTTL())
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 90, ShutdownSec: 5},
		OpenAI:  OpenAIConfig{VisionModel: "gpt-4o", Prompt: "Describe"},
		Catalog: CatalogConfig{Embeddings: SourceConfig{TTLSec: -1}},
		Search:  SearchConfig{HashTopK: 12},
		Redis:   RedisConfig{EmbeddingTTLSec: -1},
	}
	cfg.ApplyDefaults()

	if cfg.Redis.EmbeddingTTL() != 0 {
		t.Errorf("expected negative embedding TTL to disable expiry, got %v", cfg.Redis.EmbeddingTTL())
	}

	if cfg.HTTP.WriteTimeoutSec != 90 {
		t.Errorf("expected WriteTimeoutSec=90, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.OpenAI.VisionModel != "gpt-4o" || cfg.OpenAI.Prompt != "Describe" {
		t.Errorf("openai settings overridden: %+v", cfg.OpenAI)
	}
	if cfg.Catalog.Embeddings.TTLSec != -1 {
		t.Errorf("expected TTLSec=-1 to be kept, got %d", cfg.Catalog.Embeddings.TTLSec)
	}
	if cfg.Search.HashTopK != 12 {
		t.Errorf("expected HashTopK=12, got %d", cfg.Search.HashTopK)
	}
}

func TestUploadsEnabled(t *testing.T) {
	cfg := validConfig()
	if cfg.UploadsEnabled() {
		t.Error("uploads must be disabled without credentials")
	}
	cfg.Cloudinary = CloudinaryConfig{CloudName: "demo", APIKey: "k", APISecret: "s"}
	if !cfg.UploadsEnabled() {
		t.Error("uploads must be enabled with credentials")
	}
}

func TestLoadFile_ExpandsEnv(t *testing.T) {
	t.Setenv("BUSCADOR_TEST_KEY", "sk-test")

	path := filepath.Join(t.TempDir(), "test.yaml")
	yaml := `
http:
  port: ${BUSCADOR_TEST_PORT:-9090}
openai:
  api_key: ${BUSCADOR_TEST_KEY}
catalog:
  products:
    fragments: ["productos.json"]
  embeddings:
    index: https://cdn.example.com/index.json
    ttl_sec: 120
auth:
  api_keys: ["${BUSCADOR_TEST_KEY}"]
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected default port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("expected api key from env, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.Catalog.Embeddings.TTL() != 2*time.Minute {
		t.Errorf("expected TTL 2m, got %v", cfg.Catalog.Embeddings.TTL())
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "sk-test" {
		t.Errorf("expected expanded api key, got %v", cfg.Auth.APIKeys)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 8080\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected validation error for config without catalogs")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

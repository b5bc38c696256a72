package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Qdrant.URL != "http://localhost:6333" || cfg.Qdrant.Collection != "contracts" {
		t.Errorf("unexpected defaults %+v", cfg.Qdrant)
	}
	if cfg.Embedding.Provider != "none" {
		t.Errorf("expected embedding disabled by default, got %q", cfg.Embedding.Provider)
	}
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexora.yaml")
	content := `
qdrant:
  collection: contracts_test
  vector_size: 8
inputs:
  markdown_dir: /tmp/md
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Qdrant.Collection != "contracts_test" || cfg.Qdrant.VectorSize != 8 {
		t.Errorf("expected file values, got %+v", cfg.Qdrant)
	}
	if cfg.Qdrant.URL != "http://localhost:6333" {
		t.Errorf("expected untouched defaults kept, got %q", cfg.Qdrant.URL)
	}
	if cfg.Inputs.MarkdownDir != "/tmp/md" {
		t.Errorf("unexpected markdown dir %q", cfg.Inputs.MarkdownDir)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("QDRANT_URL", "http://qdrant.internal:6333")
	t.Setenv("QDRANT_API_KEY", "secret")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Qdrant.URL != "http://qdrant.internal:6333" || cfg.Qdrant.APIKey != "secret" {
		t.Errorf("expected environment overrides, got %+v", cfg.Qdrant)
	}
	if cfg.Embedding.APIKey != "sk-test" {
		t.Errorf("expected the OpenAI key picked up, got %q", cfg.Embedding.APIKey)
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexora.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("emitted config does not parse: %v", err)
	}
	if cfg.Qdrant.Collection != "contracts" || cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected emitted config %+v", cfg)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Qdrant.VectorSize != 3072 {
		t.Errorf("unexpected vector size %d", loaded.Qdrant.VectorSize)
	}
}

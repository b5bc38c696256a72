package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = "lexora.yaml"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Inputs: InputsConfig{
			RecordExport:      "data/record_export.json",
			CustomerExplosion: "data/customer_explosion.json",
			MarkdownDir:       "data/markdown",
		},
		Outputs: OutputsConfig{
			PayloadFile: "out/payload.json",
			AuditDB:     "out/audit.db",
		},
		Qdrant: QdrantConfig{
			URL:        "http://localhost:6333",
			Collection: "contracts",
			VectorSize: 3072,
			BatchSize:  100,
		},
		Embedding: EmbeddingConfig{
			Provider: "none",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads the configuration: defaults, then the config file (when
// present), then environment variables. A .env file in the working
// directory is loaded first so credentials can live outside the config.
// Environment overrides use the LEXORA_ prefix with underscores for
// nesting (LEXORA_QDRANT_URL); the bare QDRANT_URL, QDRANT_API_KEY and
// OPENAI_API_KEY names are honored as well.
func Load(path string) (*Config, error) {
	godotenv.Load()

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LEXORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultConfigFile
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		// No config file is fine; defaults plus environment apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if url := os.Getenv("QDRANT_URL"); url != "" {
		cfg.Qdrant.URL = url
	}
	if key := os.Getenv("QDRANT_API_KEY"); key != "" {
		cfg.Qdrant.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Embedding.APIKey = key
	}

	return cfg, nil
}

// WriteDefault writes a commented starter configuration to a file
func WriteDefault(path string) error {
	content := `# Lexora pipeline configuration
version: "1"

inputs:
  record_export: data/record_export.json
  customer_explosion: data/customer_explosion.json
  markdown_dir: data/markdown

outputs:
  payload_file: out/payload.json
  audit_db: out/audit.db

qdrant:
  url: http://localhost:6333
  collection: contracts
  vector_size: 3072
  batch_size: 100

# provider: none | openai | local
embedding:
  provider: none
  model: text-embedding-3-large

server:
  addr: :8080
`
	return os.WriteFile(path, []byte(content), 0o644)
}

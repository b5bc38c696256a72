// Package config loads the pipeline configuration from lexora.yaml and
// the environment.
package config

// Config represents the full pipeline configuration
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// Input artifact paths
	Inputs InputsConfig `yaml:"inputs" mapstructure:"inputs"`

	// Output artifact paths
	Outputs OutputsConfig `yaml:"outputs" mapstructure:"outputs"`

	// Search index connection
	Qdrant QdrantConfig `yaml:"qdrant" mapstructure:"qdrant"`

	// Embedding generation
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`

	// Review web server
	Server ServerConfig `yaml:"server" mapstructure:"server"`
}

// InputsConfig locates the batch input artifacts.
type InputsConfig struct {
	RecordExport      string `yaml:"record_export" mapstructure:"record_export"`
	CustomerExplosion string `yaml:"customer_explosion" mapstructure:"customer_explosion"`
	MarkdownDir       string `yaml:"markdown_dir" mapstructure:"markdown_dir"`
}

// OutputsConfig locates the batch output artifacts.
type OutputsConfig struct {
	PayloadFile string `yaml:"payload_file" mapstructure:"payload_file"`
	AuditDB     string `yaml:"audit_db" mapstructure:"audit_db"`
}

// QdrantConfig configures the index boundary
type QdrantConfig struct {
	URL        string `yaml:"url" mapstructure:"url"`
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	Collection string `yaml:"collection" mapstructure:"collection"`
	VectorSize int    `yaml:"vector_size" mapstructure:"vector_size"`
	BatchSize  int    `yaml:"batch_size" mapstructure:"batch_size"`
}

// EmbeddingConfig configures vector generation. Provider is "none",
// "openai" or "local".
type EmbeddingConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" mapstructure:"model"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
}

// ServerConfig configures the review web server
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

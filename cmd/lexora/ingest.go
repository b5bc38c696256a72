package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/indexedakki/vectors-medtech/internal/config"
	"github.com/indexedakki/vectors-medtech/internal/embedding"
	"github.com/indexedakki/vectors-medtech/internal/payload"
	"github.com/indexedakki/vectors-medtech/internal/qdrant"
	"github.com/indexedakki/vectors-medtech/pkg/logger"
)

var ingestFile string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load a payload bundle into the search index",
	Long: `Load a payload bundle into Qdrant: ensure the collection and its
payload indexes exist, optionally embed document text, and upsert every
envelope in batches.

Examples:
  lexora ingest
  lexora ingest --file out/payload.json`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "payload bundle file (overrides config)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ingestFile != "" {
		cfg.Outputs.PayloadFile = ingestFile
	}

	bundle, err := payload.Load(cfg.Outputs.PayloadFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	log := logger.Get()

	if emb := newEmbedder(cfg); emb != nil {
		n, err := embedding.EmbedBundle(ctx, emb, bundle)
		if err != nil {
			return err
		}
		log.Info("embedded payload text", zap.Int("envelopes", n))
	}

	client := qdrant.NewClient(qdrant.Config{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
		VectorSize: cfg.Qdrant.VectorSize,
		BatchSize:  cfg.Qdrant.BatchSize,
	})

	if err := client.EnsureCollection(ctx); err != nil {
		return err
	}
	if err := client.CreatePayloadIndexes(ctx); err != nil {
		return err
	}

	loaded, err := client.Upsert(ctx, bundle.All())
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d envelopes into %s\n", loaded, cfg.Qdrant.Collection)
	return nil
}

func newEmbedder(cfg *config.Config) embedding.Embedder {
	switch cfg.Embedding.Provider {
	case "openai":
		return embedding.NewOpenAIClient(cfg.Embedding.APIKey, cfg.Embedding.Model)
	case "local":
		return embedding.NewLocalClient(cfg.Embedding.BaseURL, cfg.Embedding.Model)
	default:
		return nil
	}
}

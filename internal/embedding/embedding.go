// Package embedding generates text embeddings for payload envelopes before
// indexing. The vectors stay zero placeholders unless a client is
// configured.
package embedding

import (
	"context"
	"fmt"

	"github.com/indexedakki/vectors-medtech/internal/payload"
)

// Embedder turns document texts into vectors.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedBundle fills the vector of every envelope that carries embeddable
// text. Clause envelopes embed their clause text; agreements and
// amendments embed their title. Customers and metadata facts keep
// placeholder vectors, they are filter-only. Returns the number of
// envelopes embedded.
func EmbedBundle(ctx context.Context, emb Embedder, b *payload.Bundle) (int, error) {
	var targets []*payload.Envelope
	var texts []string

	collect := func(envs []payload.Envelope, field string) {
		for i := range envs {
			text, _ := envs[i].Payload[field].(string)
			if text == "" {
				continue
			}
			targets = append(targets, &envs[i])
			texts = append(texts, text)
		}
	}
	collect(b.Agreements, "title")
	collect(b.Amendments, "title")
	collect(b.Clauses, "text")

	if len(texts) == 0 {
		return 0, nil
	}

	vectors, err := emb.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("expected %d vectors, got %d", len(texts), len(vectors))
	}

	for i, env := range targets {
		vec := make([]float64, len(vectors[i]))
		for j, v := range vectors[i] {
			vec[j] = float64(v)
		}
		env.Vector = vec
	}
	return len(targets), nil
}

package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

const (
	defaultLocalBaseURL = "http://localhost:11434/api/embed"
	defaultLocalModel   = "nomic-embed-text"
	localMaxRetries     = 3
	localInitialDelay   = 1 * time.Second
)

// LocalClient embeds texts through an Ollama-compatible API, for running
// the pipeline without an OpenAI key.
type LocalClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewLocalClient creates a local embedding client. Defaults to
// localhost:11434 with nomic-embed-text.
func NewLocalClient(baseURL, model string) *LocalClient {
	if baseURL == "" {
		baseURL = defaultLocalBaseURL
	}
	if model == "" {
		model = defaultLocalModel
	}
	return &LocalClient{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// EmbedDocuments embeds texts for indexing.
func (c *LocalClient) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	body, err := json.Marshal(ollamaEmbedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < localMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * localInitialDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("local embedding request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("local embedding error (%d): %s", resp.StatusCode, string(respBody))
			if resp.StatusCode >= 500 {
				continue
			}
			return nil, lastErr
		}

		var parsed ollamaEmbedResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if len(parsed.Embeddings) != len(texts) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(parsed.Embeddings))
		}
		return parsed.Embeddings, nil
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", localMaxRetries, lastErr)
}

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
	openaiBaseURL      = "https://api.openai.com/v1/embeddings"
	openaiBatchSize    = 2048
	openaiMaxRetries   = 3
	openaiInitialDelay = 1 * time.Second
)

// OpenAIClient embeds texts through the OpenAI embeddings API.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIClient creates an OpenAI embedding client.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = "text-embedding-3-large"
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: openaiBaseURL,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type openaiRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type openaiResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

type openaiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// EmbedDocuments embeds texts for indexing, batching above the API's batch
// size limit.
func (c *OpenAIClient) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	var all [][]float32
	for i := 0; i < len(texts); i += openaiBatchSize {
		end := i + openaiBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		embeddings, err := c.embed(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d failed: %w", i, end, err)
		}
		all = append(all, embeddings...)
	}
	return all, nil
}

func (c *OpenAIClient) embed(ctx context.Context, texts []string) ([][]float32, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}

	body, err := json.Marshal(openaiRequest{Input: texts, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < openaiMaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * openaiInitialDelay
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
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr openaiError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
				lastErr = fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
			} else {
				lastErr = fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode, string(respBody))
			}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return nil, lastErr
		}

		var parsed openaiResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if len(parsed.Data) != len(texts) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(parsed.Data))
		}

		embeddings := make([][]float32, len(parsed.Data))
		for _, d := range parsed.Data {
			if d.Index < 0 || d.Index >= len(embeddings) {
				return nil, fmt.Errorf("invalid embedding index: %d", d.Index)
			}
			embeddings[d.Index] = d.Embedding
		}
		return embeddings, nil
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", openaiMaxRetries, lastErr)
}

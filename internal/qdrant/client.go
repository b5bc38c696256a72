// Package qdrant is the index-loader boundary: a REST client for the
// Qdrant vector store that manages the collection, bulk-upserts payload
// envelopes and exposes a filtered scroll for review queries.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/indexedakki/vectors-medtech/internal/payload"
)

const (
	defaultBatchSize = 100
	maxRetries       = 3
	initialDelay     = 1 * time.Second
)

// pointNamespace seeds deterministic point ids, so re-upserting the same
// envelope overwrites its point instead of duplicating it.
var pointNamespace = uuid.MustParse("8f1c9d2e-4b37-4a11-9c55-0d6e1f3a7b42")

// Config holds the connection settings for the index.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize int
	BatchSize  int
}

// Client talks to the Qdrant REST API.
type Client struct {
	cfg        Config
	client     *http.Client
	retryDelay time.Duration
}

// NewClient creates an index client. BatchSize defaults to 100.
func NewClient(cfg Config) *Client {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return &Client{
		cfg:        cfg,
		client:     &http.Client{Timeout: 60 * time.Second},
		retryDelay: initialDelay,
	}
}

// EnsureCollection creates the collection when it does not exist, with a
// cosine-distance vector space of the configured size.
func (c *Client) EnsureCollection(ctx context.Context) error {
	status, _, err := c.do(ctx, "GET", "/collections/"+c.cfg.Collection, nil)
	if err == nil && status == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     c.cfg.VectorSize,
			"distance": "Cosine",
		},
	}
	status, respBody, err := c.do(ctx, "PUT", "/collections/"+c.cfg.Collection, body)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("failed to create collection: status %d: %s", status, respBody)
	}
	return nil
}

// indexedFields lists the payload fields the query surface filters on.
var indexedFields = []struct {
	name   string
	schema string
}{
	{"doc_type", "keyword"},
	{"customer_id", "keyword"},
	{"customer_name", "keyword"},
	{"agreement_id", "keyword"},
	{"amendment_id", "keyword"},
	{"clause_id", "keyword"},
	{"clause_title", "keyword"},
	{"meta_field", "keyword"},
	{"is_current", "bool"},
	{"meta_value_ts", "integer"},
	{"meta_value_iso", "datetime"},
	{"text", "text"},
	{"product_lines", "text"},
}

// CreatePayloadIndexes creates the payload field indexes backing filtered
// queries. Existing indexes are left in place.
func (c *Client) CreatePayloadIndexes(ctx context.Context) error {
	for _, field := range indexedFields {
		body := map[string]any{
			"field_name":   field.name,
			"field_schema": field.schema,
		}
		status, respBody, err := c.do(ctx, "PUT", "/collections/"+c.cfg.Collection+"/index", body)
		if err != nil {
			return fmt.Errorf("failed to index field %s: %w", field.name, err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("failed to index field %s: status %d: %s", field.name, status, respBody)
		}
	}
	return nil
}

// Upsert loads envelopes into the collection in fixed-size batches. Point
// ids are derived deterministically from the envelope's composite id, so
// repeated loads of the same bundle are idempotent. List-valued payload
// fields are flattened to comma-joined strings for keyword filtering.
func (c *Client) Upsert(ctx context.Context, envelopes []payload.Envelope) (int, error) {
	loaded := 0
	for start := 0; start < len(envelopes); start += c.cfg.BatchSize {
		end := start + c.cfg.BatchSize
		if end > len(envelopes) {
			end = len(envelopes)
		}

		points := make([]map[string]any, 0, end-start)
		for _, env := range envelopes[start:end] {
			points = append(points, map[string]any{
				"id":      uuid.NewSHA1(pointNamespace, []byte(env.ID)).String(),
				"vector":  env.Vector,
				"payload": flattenPayload(env),
			})
		}

		body := map[string]any{"points": points}
		status, respBody, err := c.do(ctx, "PUT", "/collections/"+c.cfg.Collection+"/points?wait=true", body)
		if err != nil {
			return loaded, fmt.Errorf("failed to upsert batch at %d: %w", start, err)
		}
		if status != http.StatusOK {
			return loaded, fmt.Errorf("failed to upsert batch at %d: status %d: %s", start, status, respBody)
		}
		loaded += end - start
	}
	return loaded, nil
}

// flattenPayload copies an envelope payload with list values joined to
// comma-separated strings, keeping the composite envelope id alongside.
func flattenPayload(env payload.Envelope) map[string]any {
	out := make(map[string]any, len(env.Payload)+1)
	out["envelope_id"] = env.ID
	for k, v := range env.Payload {
		switch val := v.(type) {
		case []string:
			out[k] = strings.Join(val, ", ")
		default:
			out[k] = v
		}
	}
	return out
}

// Condition is one filter clause for Scroll.
type Condition struct {
	Field string
	// Exactly one of the following is set.
	Match     any    // exact keyword/bool match
	MatchText string // full-text match
	GTE       any    // range lower bound
	LTE       any    // range upper bound
}

// ScrollResult is one point returned by Scroll.
type ScrollResult struct {
	ID      string         `json:"id"`
	Payload map[string]any `json:"payload"`
}

// Scroll returns up to limit points matching all given conditions in a
// single request; it does not follow next_page_offset.
func (c *Client) Scroll(ctx context.Context, conditions []Condition, limit int) ([]ScrollResult, error) {
	if limit <= 0 {
		limit = 100
	}

	must := make([]map[string]any, 0, len(conditions))
	for _, cond := range conditions {
		clause := map[string]any{"key": cond.Field}
		switch {
		case cond.MatchText != "":
			clause["match"] = map[string]any{"text": cond.MatchText}
		case cond.Match != nil:
			clause["match"] = map[string]any{"value": cond.Match}
		default:
			r := map[string]any{}
			if cond.GTE != nil {
				r["gte"] = cond.GTE
			}
			if cond.LTE != nil {
				r["lte"] = cond.LTE
			}
			clause["range"] = r
		}
		must = append(must, clause)
	}

	body := map[string]any{
		"limit":        limit,
		"with_payload": true,
	}
	if len(must) > 0 {
		body["filter"] = map[string]any{"must": must}
	}

	status, respBody, err := c.do(ctx, "POST", "/collections/"+c.cfg.Collection+"/points/scroll", body)
	if err != nil {
		return nil, fmt.Errorf("scroll failed: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("scroll failed: status %d: %s", status, respBody)
	}

	var parsed struct {
		Result struct {
			Points []struct {
				ID      any            `json:"id"`
				Payload map[string]any `json:"payload"`
			} `json:"points"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode scroll response: %w", err)
	}

	results := make([]ScrollResult, 0, len(parsed.Result.Points))
	for _, p := range parsed.Result.Points {
		results = append(results, ScrollResult{ID: fmt.Sprint(p.ID), Payload: p.Payload})
	}
	return results, nil
}

// Count returns the number of points in the collection.
func (c *Client) Count(ctx context.Context) (int, error) {
	status, respBody, err := c.do(ctx, "POST", "/collections/"+c.cfg.Collection+"/points/count", map[string]any{"exact": true})
	if err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("count failed: status %d: %s", status, respBody)
	}

	var parsed struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}
	return parsed.Result.Count, nil
}

// DeleteAll removes every point from the collection, leaving the collection
// and its indexes in place.
func (c *Client) DeleteAll(ctx context.Context) error {
	body := map[string]any{
		"filter": map[string]any{},
	}
	status, respBody, err := c.do(ctx, "POST", "/collections/"+c.cfg.Collection+"/points/delete?wait=true", body)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("purge failed: status %d: %s", status, respBody)
	}
	return nil
}

// do issues one request with bounded exponential backoff on transport
// errors, 429 and 5xx responses.
func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var payloadBytes []byte
	if body != nil {
		var err error
		payloadBytes, err = json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt))) * c.retryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.URL+path, bytes.NewReader(payloadBytes))
		if err != nil {
			return 0, nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			req.Header.Set("api-key", c.cfg.APIKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, respBody)
			continue
		}

		return resp.StatusCode, respBody, nil
	}

	return 0, nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

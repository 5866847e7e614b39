package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	NERName    = "ner-http"
	NERBaseURL = "https://api-inference.huggingface.co/models/dslim/bert-base-NER"

	// nerMaxInputBytes truncates very long documents before inference;
	// token-classification backends reject oversized inputs.
	nerMaxInputBytes = 8192
)

// NERConfig holds configuration for the token-classification client.
type NERConfig struct {
	// URL is the model endpoint (default: hosted dslim/bert-base-NER).
	URL string
	// APIKey is sent as a bearer token when non-empty.
	APIKey string
	// Timeout bounds each inference call.
	Timeout time.Duration
	// RateLimit in requests per second.
	RateLimit float64
	// HTTPClient is optional (tests).
	HTTPClient *http.Client
}

// NERClient implements EntityProvider against a HuggingFace-style
// token-classification inference endpoint.
type NERClient struct {
	url     string
	apiKey  string
	client  *http.Client
	limiter *RateLimiter
}

// NewNERClient creates a token-classification client.
func NewNERClient(cfg NERConfig) *NERClient {
	if cfg.URL == "" {
		cfg.URL = NERBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 2.0
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &NERClient{
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		client:  client,
		limiter: NewRateLimiter(int(cfg.RateLimit * 60)),
	}
}

// Name returns the provider identifier.
func (c *NERClient) Name() string {
	return NERName
}

// ExtractEntities runs token classification over text and returns labeled
// spans. The endpoint returns either a flat span list or a batch of lists;
// both shapes are accepted.
func (c *NERClient) ExtractEntities(ctx context.Context, text string) ([]EntitySpan, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if len(text) > nerMaxInputBytes {
		text = text[:nerMaxInputBytes]
	}

	reqBody, err := json.Marshal(nerRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token classification error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return parseSpans(respBody)
}

// nerRequest is the inference request body.
type nerRequest struct {
	Inputs string `json:"inputs"`
}

// nerSpan tolerates both the aggregated ("entity_group") and raw ("entity")
// response shapes.
type nerSpan struct {
	Entity      string  `json:"entity"`
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

func (s nerSpan) toEntitySpan() EntitySpan {
	label := s.Entity
	if label == "" {
		label = s.EntityGroup
	}
	return EntitySpan{
		Label: label,
		Text:  s.Word,
		Score: s.Score,
		Start: s.Start,
		End:   s.End,
	}
}

func parseSpans(raw []byte) ([]EntitySpan, error) {
	var flat []nerSpan
	if err := json.Unmarshal(raw, &flat); err == nil {
		spans := make([]EntitySpan, 0, len(flat))
		for _, s := range flat {
			spans = append(spans, s.toEntitySpan())
		}
		return spans, nil
	}

	var batched [][]nerSpan
	if err := json.Unmarshal(raw, &batched); err == nil {
		var spans []EntitySpan
		for _, group := range batched {
			for _, s := range group {
				spans = append(spans, s.toEntitySpan())
			}
		}
		return spans, nil
	}

	return nil, fmt.Errorf("failed to unmarshal span response: %s", string(raw))
}

package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIEntityName         = "openai"
	openAIEntityDefaultModel = "gpt-4o-mini"
)

const entitySystemPrompt = `You are a named-entity recognition engine for exam
application forms. Given raw form text, return a JSON array of entity spans.
Each span is an object: {"entity": "<LABEL>", "word": "<surface text>",
"score": <0..1>, "start": <offset>, "end": <offset>}. Use labels such as PER,
LOC, DATE, ORG, MISC. Return only the JSON array, nothing else.`

// OpenAIEntityConfig holds configuration for the LLM-backed entity client.
type OpenAIEntityConfig struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	RateLimit  float64
	BaseURL    string       // Optional (tests)
	HTTPClient *http.Client // Optional (tests)
}

// OpenAIEntityClient implements EntityProvider over the OpenAI chat API,
// prompting the model to emit entity spans as JSON. Alternative backend for
// deployments without a token-classification endpoint.
type OpenAIEntityClient struct {
	model   string
	client  openai.Client
	limiter *RateLimiter
}

// NewOpenAIEntityClient creates an LLM-backed entity client.
func NewOpenAIEntityClient(cfg OpenAIEntityConfig) *OpenAIEntityClient {
	if cfg.Model == "" {
		cfg.Model = openAIEntityDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1.0
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIEntityClient{
		model:   cfg.Model,
		client:  openai.NewClient(opts...),
		limiter: NewRateLimiter(int(cfg.RateLimit * 60)),
	}
}

// Name returns the provider identifier.
func (c *OpenAIEntityClient) Name() string {
	return OpenAIEntityName
}

// ExtractEntities asks the model for entity spans over text.
func (c *OpenAIEntityClient) ExtractEntities(ctx context.Context, text string) ([]EntitySpan, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if len(text) > nerMaxInputBytes {
		text = text[:nerMaxInputBytes]
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(entitySystemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}

	content := extractJSONArray(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("no JSON array in completion response")
	}

	var raw []nerSpan
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal span response: %w", err)
	}

	spans := make([]EntitySpan, 0, len(raw))
	for _, s := range raw {
		spans = append(spans, s.toEntitySpan())
	}
	return spans, nil
}

// extractJSONArray pulls the outermost JSON array out of a completion that
// may be wrapped in prose or a markdown fence.
func extractJSONArray(content string) string {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start < 0 || end < start {
		return ""
	}
	return trimmed[start : end+1]
}

// Package providers holds the OCR and entity-inference clients the pipeline
// can be wired with, a config-driven registry, and a shared rate limiter.
package providers

import (
	"context"
	"time"
)

// OCRProvider recognizes text in a rasterized page image.
// Separate from entity inference because it has different rate limiting,
// retry patterns, and result handling.
type OCRProvider interface {
	// Name returns the provider identifier (e.g. "tesseract").
	Name() string

	// ProcessImage extracts text from a page image.
	ProcessImage(ctx context.Context, image []byte) (*OCRResult, error)

	// Rate limiting properties
	RequestsPerSecond() float64
	MaxRetries() int
	RetryDelayBase() time.Duration
}

// EntityProvider runs token classification over raw text and returns labeled
// entity spans.
type EntityProvider interface {
	// Name returns the provider identifier (e.g. "ner-http", "openai").
	Name() string

	// ExtractEntities returns labeled spans with scores in [0,1].
	ExtractEntities(ctx context.Context, text string) ([]EntitySpan, error)
}

// OCRResult is the outcome of a single OCR pass.
type OCRResult struct {
	// Text is the recognized text (markdown-ish plain text).
	Text string `json:"text"`

	// Confidence is the engine's mean word confidence in [0,100].
	Confidence float64 `json:"confidence"`

	// Timing and tracking
	ExecutionTime time.Duration `json:"execution_time"`
	RequestID     string        `json:"request_id"`

	// Success/error
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// EntitySpan is a labeled substring produced by token classification.
// Labels may carry BIO prefixes ("B-PER", "I-LOC"); the inference engine
// strips them when deriving canonical field names.
type EntitySpan struct {
	Label string  `json:"entity"`
	Text  string  `json:"word"`
	Score float64 `json:"score"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// Package pipeline orchestrates the extraction stages: fetch, text-layer
// read, OCR fallback, entity inference, coverage-driven merge, and
// validation. Failures in optional stages degrade; only fetch and the
// initial text extraction are fatal.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/AbhinavPrakashCoading/dockit/internal/extract"
	"github.com/AbhinavPrakashCoading/dockit/internal/ocr"
	"github.com/AbhinavPrakashCoading/dockit/internal/patterns"
	"github.com/AbhinavPrakashCoading/dockit/internal/schema"
)

// Fetcher retrieves document bytes by URL. Implemented by fetch.Gateway.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// TextExtractor reads the embedded text layer. Implemented by
// extract.Extractor.
type TextExtractor interface {
	Extract(data []byte) (*extract.Result, error)
}

// Recognizer runs the OCR fallback. Implemented by ocr.Engine.
type Recognizer interface {
	Recognize(ctx context.Context, document []byte) ocr.Result
}

// EntityInferrer maps text onto canonical fields. Implemented by
// entities.Service.
type EntityInferrer interface {
	Infer(ctx context.Context, text string) schema.FieldMap
}

// Result is what a single document run produces.
type Result struct {
	RawText       string          `json:"rawText"`
	PageCount     int             `json:"pageCount"`
	IsScanned     bool            `json:"isScanned"`
	OCRConfidence *float64        `json:"ocrConfidence,omitempty"`
	Fields        schema.FieldMap `json:"schemaFields"`
	Coverage      float64         `json:"coverage"`
	Issues        []string        `json:"issues"`

	// Lines is the free-text last resort, populated only when no structured
	// fields could be produced at all.
	Lines []string `json:"lines,omitempty"`
}

// Config wires the engine's collaborators. Fetcher is optional when only
// ProcessBytes is used; everything else is required.
type Config struct {
	Fetcher            Fetcher
	Extractor          TextExtractor
	OCR                Recognizer
	Entities           EntityInferrer
	Patterns           *patterns.Extractor
	ExpectedFieldCount int
	Logger             *slog.Logger
}

// Engine is the per-document extraction pipeline. Single-flow per document:
// no internal parallelism across pages or stages.
type Engine struct {
	fetcher   Fetcher
	extractor TextExtractor
	ocr       Recognizer
	entities  EntityInferrer
	patterns  *patterns.Extractor
	resolver  *schema.Resolver
	logger    *slog.Logger
}

// New creates a pipeline engine.
func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Patterns == nil {
		cfg.Patterns = patterns.New()
	}
	if cfg.Extractor == nil {
		cfg.Extractor = &extract.Extractor{}
	}
	return &Engine{
		fetcher:   cfg.Fetcher,
		extractor: cfg.Extractor,
		ocr:       cfg.OCR,
		entities:  cfg.Entities,
		patterns:  cfg.Patterns,
		resolver: &schema.Resolver{
			Patterns:           cfg.Patterns,
			ExpectedFieldCount: cfg.ExpectedFieldCount,
			Logger:             cfg.Logger,
		},
		logger: cfg.Logger,
	}
}

// ProcessURL fetches the document and runs the pipeline over its bytes.
// Fetch exhaustion is fatal and surfaces to the caller.
func (e *Engine) ProcessURL(ctx context.Context, url string) (*Result, error) {
	data, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return e.ProcessBytes(ctx, data)
}

// ProcessBytes runs the full pipeline over raw document bytes.
func (e *Engine) ProcessBytes(ctx context.Context, data []byte) (*Result, error) {
	ext, err := e.extractor.Extract(data)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RawText:   ext.RawText,
		PageCount: ext.PageCount,
		IsScanned: ext.IsScanned,
	}

	text := ext.RawText
	ocrFailed := false

	if ext.IsScanned {
		rec := e.recognize(ctx, data)
		result.Issues = append(result.Issues, rec.Issues...)
		confidence := rec.Confidence
		result.OCRConfidence = &confidence

		if rec.Text != "" {
			text = rec.Text
		} else if rec.Confidence == 0 {
			// Total OCR failure: the best available text is the thin
			// pre-OCR layer, formatted through the pattern extractor as a
			// best-effort baseline. Entity inference is pointless here.
			ocrFailed = true
		}
	}

	if ocrFailed {
		result.Fields = e.patterns.Extract(text)
		result.Coverage = schema.Coverage(result.Fields, e.resolver.ExpectedFieldCount)
	} else {
		entityFields := e.inferEntities(ctx, text)
		resolved := e.resolver.Resolve(entityFields, text)
		result.Fields = resolved.Fields
		result.Coverage = resolved.Coverage
		result.Issues = append(result.Issues, resolved.Issues...)
	}

	if v := schema.Validate(result.Fields); !v.OK {
		result.Issues = append(result.Issues, v.Issues...)
	}

	if len(result.Fields) == 0 {
		result.Lines = e.patterns.ExtractLines(text)
	}

	e.logger.Info("pipeline complete",
		"pages", result.PageCount,
		"scanned", result.IsScanned,
		"fields", len(result.Fields),
		"coverage", result.Coverage,
		"issues", len(result.Issues))
	return result, nil
}

// recognize runs the OCR engine, tolerating a nil engine (treated as total
// failure, same as a provider error).
func (e *Engine) recognize(ctx context.Context, data []byte) ocr.Result {
	if e.ocr == nil {
		return ocr.Result{Issues: []string{ocr.IssueFailed}}
	}
	return e.ocr.Recognize(ctx, data)
}

// inferEntities runs entity inference, tolerating a nil service.
func (e *Engine) inferEntities(ctx context.Context, text string) schema.FieldMap {
	if e.entities == nil {
		return schema.FieldMap{}
	}
	return e.entities.Infer(ctx, text)
}

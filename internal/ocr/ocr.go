// Package ocr recognizes text in scanned documents. It rasterizes a
// representative page and runs the configured OCR provider under a hard
// timeout; failures degrade to regex extraction upstream, never abort.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/AbhinavPrakashCoading/dockit/internal/providers"
)

// Issue strings surfaced by the engine. Displayed verbatim downstream.
const (
	IssueLowConfidence = "Low OCR confidence—manual review recommended"
	IssueFailed        = "OCR processing failed—using regex fallback"
)

const (
	// DefaultTimeout is the hard bound on a recognition pass. The rasterize
	// step and the provider call share it; cancellation propagates so the
	// losing work actually stops.
	DefaultTimeout = 10 * time.Second

	// DefaultMinConfidence is the score below which recognized text is
	// flagged for manual review (scale 0-100).
	DefaultMinConfidence = 70

	// DefaultScale is the raster scale factor over the PDF's native 72 DPI.
	DefaultScale = 1.5
)

// Result is the outcome of a recognition pass. Text may be empty and
// Confidence zero on failure; the caller falls through to regex extraction
// over whatever text it already has.
type Result struct {
	Text       string
	Confidence float64
	Issues     []string
}

// Config holds engine settings. Zero values fall back to defaults.
type Config struct {
	Provider      providers.OCRProvider
	Timeout       time.Duration
	MinConfidence float64
	Scale         float64
	Logger        *slog.Logger
}

// Engine runs the OCR fallback for scanned documents.
type Engine struct {
	provider      providers.OCRProvider
	timeout       time.Duration
	minConfidence float64
	scale         float64
	logger        *slog.Logger

	// rasterize is swappable in tests.
	rasterize func(ctx context.Context, document []byte) ([]byte, error)
}

// New creates an OCR engine. Provider may be nil, in which case every
// recognition degrades immediately.
func New(cfg Config) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = DefaultMinConfidence
	}
	if cfg.Scale <= 0 {
		cfg.Scale = DefaultScale
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	e := &Engine{
		provider:      cfg.Provider,
		timeout:       cfg.Timeout,
		minConfidence: cfg.MinConfidence,
		scale:         cfg.Scale,
		logger:        cfg.Logger,
	}
	e.rasterize = e.rasterizeFirstPage
	return e
}

// Recognize rasterizes the first page of the document and runs OCR against
// the raster. The whole pass runs under the engine timeout; on any error or
// timeout it returns empty text, confidence 0, and the failure issue.
func (e *Engine) Recognize(ctx context.Context, document []byte) Result {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if e.provider == nil {
		e.logger.Warn("no OCR provider configured")
		return Result{Issues: []string{IssueFailed}}
	}

	image, err := e.rasterize(ctx, document)
	if err != nil {
		e.logger.Warn("rasterization failed", "error", err)
		return Result{Issues: []string{IssueFailed}}
	}

	ocrResult, err := e.provider.ProcessImage(ctx, image)
	if err != nil || !ocrResult.Success {
		if err == nil {
			err = errors.New(ocrResult.ErrorMessage)
		}
		e.logger.Warn("OCR pass failed", "provider", e.provider.Name(), "error", err)
		return Result{Issues: []string{IssueFailed}}
	}

	result := Result{
		Text:       ocrResult.Text,
		Confidence: ocrResult.Confidence,
	}
	if ocrResult.Confidence < e.minConfidence {
		result.Issues = append(result.Issues, IssueLowConfidence)
	}

	e.logger.Info("OCR pass complete",
		"provider", e.provider.Name(),
		"confidence", ocrResult.Confidence,
		"chars", len(ocrResult.Text),
		"duration", ocrResult.ExecutionTime)
	return result
}

// rasterizeFirstPage renders page 1 to a PNG using pdftoppm (poppler-utils).
// The scale factor multiplies the PDF's native 72 DPI.
func (e *Engine) rasterizeFirstPage(ctx context.Context, document []byte) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "dockit-raster-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(pdfPath, document, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	dpi := int(72 * e.scale)
	outputPrefix := filepath.Join(tmpDir, "page")

	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-png",
		"-f", "1",
		"-l", "1",
		"-r", fmt.Sprintf("%d", dpi),
		"-singlefile",
		pdfPath,
		outputPrefix,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	image, err := os.ReadFile(outputPrefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}
	return image, nil
}

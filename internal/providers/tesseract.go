package providers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TesseractName            = "tesseract"
	tesseractDefaultLanguage = "eng"
)

// TesseractConfig holds configuration for the local tesseract engine.
type TesseractConfig struct {
	// Binary is the tesseract executable (default: "tesseract" from PATH).
	Binary string
	// Language is the recognition language (default: "eng").
	Language string
	// RateLimit in requests per second. Local CPU work; default 2.0.
	RateLimit float64
}

// TesseractClient implements OCRProvider by executing the tesseract binary
// with TSV output, which carries per-word confidences. Confidence is the
// mean word confidence in [0,100].
type TesseractClient struct {
	binary    string
	language  string
	rateLimit float64
}

// NewTesseractClient creates a tesseract OCR client.
func NewTesseractClient(cfg TesseractConfig) *TesseractClient {
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = tesseractDefaultLanguage
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 2.0
	}
	return &TesseractClient{
		binary:    cfg.Binary,
		language:  cfg.Language,
		rateLimit: cfg.RateLimit,
	}
}

// Name returns the provider identifier.
func (c *TesseractClient) Name() string {
	return TesseractName
}

// RequestsPerSecond returns the rate limit.
func (c *TesseractClient) RequestsPerSecond() float64 {
	return c.rateLimit
}

// MaxRetries returns the maximum retry attempts.
func (c *TesseractClient) MaxRetries() int {
	return 1
}

// RetryDelayBase returns the base delay for backoff.
func (c *TesseractClient) RetryDelayBase() time.Duration {
	return time.Second
}

// ProcessImage recognizes text in a page image. The context deadline is
// honored: tesseract is killed when the context is cancelled.
func (c *TesseractClient) ProcessImage(ctx context.Context, image []byte) (*OCRResult, error) {
	start := time.Now()
	requestID := uuid.New().String()

	tmpDir, err := os.MkdirTemp("", "dockit-ocr-*")
	if err != nil {
		return c.failure(start, requestID, fmt.Errorf("failed to create temp dir: %w", err))
	}
	defer os.RemoveAll(tmpDir)

	imgPath := filepath.Join(tmpDir, "page.png")
	if err := os.WriteFile(imgPath, image, 0o644); err != nil {
		return c.failure(start, requestID, fmt.Errorf("failed to write page image: %w", err))
	}

	// "tsv" output lists one recognized word per row with its confidence.
	cmd := exec.CommandContext(ctx, c.binary, imgPath, "stdout", "-l", c.language, "tsv")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return c.failure(start, requestID, fmt.Errorf("tesseract failed: %w (stderr: %s)", err, stderr.String()))
	}

	text, confidence := parseTSV(stdout.String())

	return &OCRResult{
		Text:          text,
		Confidence:    confidence,
		ExecutionTime: time.Since(start),
		RequestID:     requestID,
		Success:       true,
	}, nil
}

func (c *TesseractClient) failure(start time.Time, requestID string, err error) (*OCRResult, error) {
	return &OCRResult{
		Success:       false,
		ErrorMessage:  err.Error(),
		ExecutionTime: time.Since(start),
		RequestID:     requestID,
	}, err
}

// parseTSV reconstructs text from tesseract TSV output and computes the mean
// word confidence. TSV columns: level page block par line word left top width
// height conf text; word rows have level 5 and conf >= 0.
func parseTSV(tsv string) (string, float64) {
	var (
		words    []string
		confSum  float64
		confN    int
		lastLine string
	)

	for _, row := range strings.Split(tsv, "\n") {
		cols := strings.Split(row, "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}

		// New line within the page: separate with newline instead of space.
		lineKey := strings.Join(cols[1:5], ":")
		if lastLine != "" && lineKey != lastLine {
			words = append(words, "\n"+word)
		} else {
			words = append(words, word)
		}
		lastLine = lineKey

		confSum += conf
		confN++
	}

	if confN == 0 {
		return "", 0
	}

	text := strings.Join(words, " ")
	text = strings.ReplaceAll(text, " \n", "\n")
	return text, confSum / float64(confN)
}

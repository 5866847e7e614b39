// Package extract reads the embedded text layer of a PDF and classifies the
// document as scanned or digital-native.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrUnreadable is returned when the document cannot be opened as a PDF.
// Fatal to the pipeline.
var ErrUnreadable = errors.New("document unreadable")

// ScannedTextThreshold is the trimmed text-layer length below which a
// document is classified as scanned. Intentionally coarse; it is the sole
// decision point for invoking OCR.
const ScannedTextThreshold = 1000

// Result describes the text layer of a document. Immutable after the stage
// that produced it; OCRConfidence is nil until the OCR stage runs.
type Result struct {
	RawText       string   `json:"rawText"`
	PageCount     int      `json:"pageCount"`
	IsScanned     bool     `json:"isScanned"`
	OCRConfidence *float64 `json:"ocrConfidence,omitempty"`
}

// Extractor reads text layers. Threshold of zero falls back to
// ScannedTextThreshold.
type Extractor struct {
	Threshold int
}

// Extract opens the document, walks pages in order, and concatenates the
// embedded text: items on a page joined by single spaces, pages joined by
// newlines. Page 1 text always precedes page 2 text.
func (e *Extractor) Extract(data []byte) (*Result, error) {
	threshold := e.Threshold
	if threshold <= 0 {
		threshold = ScannedTextThreshold
	}

	// pdfcpu validates the document structure and gives an authoritative
	// page count even when the text layer is empty.
	pageCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var pages []string
	for num := 1; num <= reader.NumPage(); num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText(page))
	}

	raw := strings.Join(pages, "\n")

	return &Result{
		RawText:   raw,
		PageCount: pageCount,
		IsScanned: len(strings.TrimSpace(raw)) < threshold,
	}, nil
}

// pageText joins the embedded text items of a single page with spaces.
// ledongthuc/pdf panics on some malformed content streams; a bad page
// contributes empty text rather than killing the pipeline.
func pageText(page pdf.Page) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	content := page.Content()
	items := make([]string, 0, len(content.Text))
	for _, t := range content.Text {
		items = append(items, t.S)
	}
	return strings.Join(items, " ")
}

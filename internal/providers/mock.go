package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockOCR is an OCRProvider for testing.
type MockOCR struct {
	// Configurable behavior
	Latency    time.Duration
	ShouldFail bool
	Text       string
	Confidence float64

	// State
	requestCount atomic.Int64
}

// NewMockOCR creates a mock OCR provider with sensible defaults.
func NewMockOCR() *MockOCR {
	return &MockOCR{
		Text:       "mock recognized text",
		Confidence: 95,
	}
}

// Name returns the provider identifier.
func (m *MockOCR) Name() string { return MockName }

// RequestsPerSecond returns a permissive test rate limit.
func (m *MockOCR) RequestsPerSecond() float64 { return 100 }

// MaxRetries returns the maximum retry attempts.
func (m *MockOCR) MaxRetries() int { return 1 }

// RetryDelayBase returns the base retry delay.
func (m *MockOCR) RetryDelayBase() time.Duration { return time.Millisecond }

// Calls reports how many recognitions ran.
func (m *MockOCR) Calls() int64 { return m.requestCount.Load() }

// ProcessImage returns the configured text and confidence, honoring Latency
// and context cancellation.
func (m *MockOCR) ProcessImage(ctx context.Context, image []byte) (*OCRResult, error) {
	start := time.Now()
	count := m.requestCount.Add(1)

	if m.Latency > 0 {
		select {
		case <-ctx.Done():
			return &OCRResult{Success: false, ErrorMessage: ctx.Err().Error()}, ctx.Err()
		case <-time.After(m.Latency):
		}
	}

	if m.ShouldFail {
		err := fmt.Errorf("mock OCR failure")
		return &OCRResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			ExecutionTime: time.Since(start),
			RequestID:     fmt.Sprintf("mock-%d", count),
		}, err
	}

	return &OCRResult{
		Success:       true,
		Text:          m.Text,
		Confidence:    m.Confidence,
		ExecutionTime: time.Since(start),
		RequestID:     fmt.Sprintf("mock-%d", count),
	}, nil
}

// MockEntity is an EntityProvider for testing.
type MockEntity struct {
	Spans      []EntitySpan
	ShouldFail bool
	Latency    time.Duration

	requestCount atomic.Int64
}

// Name returns the provider identifier.
func (m *MockEntity) Name() string { return MockName }

// Calls reports how many inference calls ran.
func (m *MockEntity) Calls() int64 { return m.requestCount.Load() }

// ExtractEntities returns the configured spans.
func (m *MockEntity) ExtractEntities(ctx context.Context, text string) ([]EntitySpan, error) {
	m.requestCount.Add(1)

	if m.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Latency):
		}
	}

	if m.ShouldFail {
		return nil, fmt.Errorf("mock entity failure")
	}
	return m.Spans, nil
}

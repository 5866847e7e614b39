// Package entities maps token-classification output onto canonical form
// fields. The model handle is owned by the service and initialized exactly
// once, however many goroutines race the first call.
package entities

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/AbhinavPrakashCoading/dockit/internal/providers"
	"github.com/AbhinavPrakashCoading/dockit/internal/schema"
)

// DefaultScoreFloor is the span score at or below which spans are discarded.
const DefaultScoreFloor = 0.7

var (
	dateRe  = regexp.MustCompile(`^\d{1,4}[\-/.]\d{1,2}[\-/.]\d{1,4}$`)
	digitRe = regexp.MustCompile(`^\d+$`)
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
)

// ModelHandle resolves the entity provider on first use. Construction can be
// expensive (remote model warm-up), so it is deferred and guarded.
type ModelHandle struct {
	once     sync.Once
	provider providers.EntityProvider
	err      error
	factory  func() (providers.EntityProvider, error)
}

// NewModelHandle wraps an already-constructed provider.
func NewModelHandle(p providers.EntityProvider) *ModelHandle {
	return &ModelHandle{provider: p}
}

// LazyModelHandle defers provider construction to the first inference call.
// Concurrent first-callers share one initialization.
func LazyModelHandle(factory func() (providers.EntityProvider, error)) *ModelHandle {
	return &ModelHandle{factory: factory}
}

// Provider returns the underlying provider, constructing it once if lazy.
func (h *ModelHandle) Provider() (providers.EntityProvider, error) {
	if h.factory != nil {
		h.once.Do(func() {
			h.provider, h.err = h.factory()
		})
	}
	return h.provider, h.err
}

// Config holds inference service settings.
type Config struct {
	Model      *ModelHandle
	ScoreFloor float64 // defaults to DefaultScoreFloor when zero
	Logger     *slog.Logger
}

// Service runs entity inference and field mapping. Infer never returns an
// error; internal failures yield an empty map, which the merge policy treats
// as "tokenization failed".
type Service struct {
	model      *ModelHandle
	scoreFloor float64
	logger     *slog.Logger
}

// NewService creates the inference service.
func NewService(cfg Config) *Service {
	if cfg.ScoreFloor <= 0 {
		cfg.ScoreFloor = DefaultScoreFloor
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		model:      cfg.Model,
		scoreFloor: cfg.ScoreFloor,
		logger:     cfg.Logger,
	}
}

// Infer runs token classification over text and maps retained spans onto
// canonical fields. Only the first span mapping to a given canonical name is
// kept; later spans are ignored regardless of score.
func (s *Service) Infer(ctx context.Context, text string) schema.FieldMap {
	if s.model == nil {
		return schema.FieldMap{}
	}

	provider, err := s.model.Provider()
	if err != nil || provider == nil {
		s.logger.Warn("entity model unavailable", "error", err)
		return schema.FieldMap{}
	}

	spans, err := provider.ExtractEntities(ctx, text)
	if err != nil {
		s.logger.Warn("entity inference failed", "provider", provider.Name(), "error", err)
		return schema.FieldMap{}
	}

	fields := make(schema.FieldMap)
	for _, span := range spans {
		if span.Score <= s.scoreFloor {
			continue
		}

		name, field := mapSpan(span)
		if name == "" {
			continue
		}
		if _, exists := fields[name]; exists {
			continue
		}
		fields[name] = field
	}

	s.logger.Debug("entity inference complete", "spans", len(spans), "fields", len(fields))
	return fields
}

// mapSpan derives the canonical field name and field for one entity span.
func mapSpan(span providers.EntitySpan) (string, schema.Field) {
	label := strings.TrimPrefix(strings.TrimPrefix(span.Label, "B-"), "I-")
	if label == "" {
		return "", schema.Field{}
	}
	name := strings.ToLower(label)

	field := schema.Field{
		Type:        inferType(span.Text),
		Confidence:  span.Score,
		Description: "Derived from " + label + " entity",
	}
	switch field.Type {
	case schema.TypeString:
		surface := strings.TrimSpace(span.Text)
		if dateRe.MatchString(surface) {
			field.Format = "date"
		} else if emailRe.MatchString(surface) {
			field.Format = "email"
		}
	}

	// Domain relabeling: generic NER labels map onto the exam-form
	// vocabulary the rest of the pipeline speaks.
	switch name {
	case "per", "person":
		name = "name"
	case "loc", "location":
		name = "address"
	case "date":
		name = "dob"
		field.Format = "date"
		field.Type = schema.TypeString
	}

	return name, field
}

// inferType guesses a field type from a span's surface text.
func inferType(surface string) schema.FieldType {
	trimmed := strings.TrimSpace(surface)
	switch {
	case dateRe.MatchString(trimmed):
		return schema.TypeString
	case digitRe.MatchString(trimmed):
		return schema.TypeNumber
	case isBooleanLiteral(trimmed):
		return schema.TypeBoolean
	default:
		return schema.TypeString
	}
}

func isBooleanLiteral(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

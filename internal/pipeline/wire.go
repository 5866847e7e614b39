package pipeline

import (
	"log/slog"
	"time"

	"github.com/AbhinavPrakashCoading/dockit/internal/config"
	"github.com/AbhinavPrakashCoading/dockit/internal/entities"
	"github.com/AbhinavPrakashCoading/dockit/internal/extract"
	"github.com/AbhinavPrakashCoading/dockit/internal/fetch"
	"github.com/AbhinavPrakashCoading/dockit/internal/ocr"
	"github.com/AbhinavPrakashCoading/dockit/internal/providers"
)

// FromConfig assembles an engine from config and a provider registry. The
// entity provider is resolved lazily on first inference, so construction
// succeeds even before model credentials are validated.
func FromConfig(c *config.Config, registry *providers.Registry, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	ocrProvider, err := registry.GetOCR(c.OCR.Provider)
	if err != nil {
		logger.Warn("OCR provider unavailable, scanned documents will use regex fallback",
			"provider", c.OCR.Provider, "error", err)
	}

	entityName := c.Entity.Provider
	model := entities.LazyModelHandle(func() (providers.EntityProvider, error) {
		return registry.GetEntity(entityName)
	})

	return New(Config{
		Fetcher: fetch.New(fetch.Config{
			Attempts:       c.Fetch.Attempts,
			AttemptTimeout: time.Duration(c.Fetch.AttemptTimeoutSeconds) * time.Second,
			RetryDelay:     time.Duration(c.Fetch.RetryDelaySeconds) * time.Second,
			CacheCapacity:  c.Fetch.CacheCapacity,
			Logger:         logger,
		}),
		Extractor: &extract.Extractor{Threshold: c.Pipeline.ScannedTextThreshold},
		OCR: ocr.New(ocr.Config{
			Provider:      ocrProvider,
			Timeout:       time.Duration(c.OCR.TimeoutSeconds) * time.Second,
			MinConfidence: c.OCR.MinConfidence,
			Scale:         c.OCR.Scale,
			Logger:        logger,
		}),
		Entities: entities.NewService(entities.Config{
			Model:      model,
			ScoreFloor: c.Pipeline.EntityScoreFloor,
			Logger:     logger,
		}),
		ExpectedFieldCount: c.Pipeline.ExpectedFieldCount,
		Logger:             logger,
	})
}

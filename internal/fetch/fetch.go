// Package fetch retrieves document bytes over HTTP with bounded retries and
// memoizes results by URL in a capacity-bounded cache.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/singleflight"
)

// ErrExhausted is returned after all fetch attempts fail. Fatal to the
// pipeline; there is nothing to extract without bytes.
var ErrExhausted = errors.New("fetch attempts exhausted")

const (
	// DefaultAttempts is the total number of tries per URL (1 initial + 2 retries).
	DefaultAttempts = 3

	// DefaultAttemptTimeout bounds each individual attempt.
	DefaultAttemptTimeout = 5 * time.Second

	// DefaultRetryDelay is the fixed pause between attempts.
	DefaultRetryDelay = 1 * time.Second

	// DefaultCacheCapacity is the number of documents held in the cache.
	DefaultCacheCapacity = 64

	// maxDocumentSize caps a single download at 50 MB.
	maxDocumentSize = 50 << 20
)

// Config holds gateway settings. Zero values fall back to the defaults above.
type Config struct {
	Attempts       int
	AttemptTimeout time.Duration
	RetryDelay     time.Duration
	CacheCapacity  int
	HTTPClient     *http.Client // optional (tests)
	Logger         *slog.Logger
}

// Gateway fetches documents and serves repeats from cache. Concurrent
// requests for the same uncached URL are collapsed into a single fetch, so
// the cache gives an at-most-once-per-URL guarantee for its lifetime.
type Gateway struct {
	attempts       int
	attemptTimeout time.Duration
	retryDelay     time.Duration
	client         *http.Client
	cache          *lruCache
	group          singleflight.Group
	logger         *slog.Logger
}

// New creates a fetch gateway.
func New(cfg Config) *Gateway {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = DefaultAttemptTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Gateway{
		attempts:       cfg.Attempts,
		attemptTimeout: cfg.AttemptTimeout,
		retryDelay:     cfg.RetryDelay,
		client:         cfg.HTTPClient,
		cache:          newLRUCache(cfg.CacheCapacity),
		logger:         cfg.Logger,
	}
}

// Fetch returns the document bytes for url, from cache when possible.
// A miss triggers up to Attempts network tries with a fixed delay between
// them; each try is aborted after AttemptTimeout. Exhaustion returns an
// error wrapping ErrExhausted.
func (g *Gateway) Fetch(ctx context.Context, url string) ([]byte, error) {
	if data, ok := g.cache.get(url); ok {
		g.logger.Debug("cache hit", "url", url, "bytes", len(data))
		return data, nil
	}

	v, err, shared := g.group.Do(url, func() (any, error) {
		// Another caller may have populated the cache while we queued.
		if data, ok := g.cache.get(url); ok {
			return data, nil
		}
		data, err := g.download(ctx, url)
		if err != nil {
			return nil, err
		}
		g.cache.put(url, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		g.logger.Debug("fetch deduplicated", "url", url)
	}
	return v.([]byte), nil
}

// CacheLen reports the number of cached documents.
func (g *Gateway) CacheLen() int {
	return g.cache.len()
}

func (g *Gateway) download(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
			defer cancel()

			req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}

			resp, err := g.client.Do(req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d", resp.StatusCode)
			}

			body, err = io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
			if err != nil {
				return fmt.Errorf("failed to read body: %w", err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(g.attempts)),
		retry.Delay(g.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Warn("fetch attempt failed", "url", url, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrExhausted, url, err)
	}

	g.logger.Info("fetched document", "url", url, "bytes", len(body))
	return body, nil
}

package providers

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Registry holds references to OCR and entity providers. It supports
// config-driven instantiation, hot-reload, and thread-safe access.
type Registry struct {
	mu       sync.RWMutex
	ocr      map[string]OCRProvider
	entities map[string]EntityProvider
	logger   *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		ocr:      make(map[string]OCRProvider),
		entities: make(map[string]EntityProvider),
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterOCR registers an OCR provider by name.
func (r *Registry) RegisterOCR(name string, provider OCRProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ocr[name] = provider
	r.logger.Info("registered OCR provider", "name", name)
}

// RegisterEntity registers an entity provider by name.
func (r *Registry) RegisterEntity(name string, provider EntityProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities[name] = provider
	r.logger.Info("registered entity provider", "name", name)
}

// GetOCR returns an OCR provider by name.
func (r *Registry) GetOCR(name string) (OCRProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.ocr[name]
	if !ok {
		return nil, fmt.Errorf("OCR provider not found: %s", name)
	}
	return provider, nil
}

// GetEntity returns an entity provider by name.
func (r *Registry) GetEntity(name string) (EntityProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.entities[name]
	if !ok {
		return nil, fmt.Errorf("entity provider not found: %s", name)
	}
	return provider, nil
}

// ListOCR returns all registered OCR provider names.
func (r *Registry) ListOCR() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ocr))
	for name := range r.ocr {
		names = append(names, name)
	}
	return names
}

// ListEntity returns all registered entity provider names.
func (r *Registry) ListEntity() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	return names
}

// RegistryConfig defines the providers to instantiate from config, with
// API keys already resolved.
type RegistryConfig struct {
	OCRProviders    map[string]OCRProviderConfig
	EntityProviders map[string]EntityProviderConfig
}

// OCRProviderConfig describes one OCR provider.
type OCRProviderConfig struct {
	Type      string // "tesseract", "mistral-ocr"
	APIKey    string
	Language  string // tesseract language
	RateLimit float64
	Enabled   bool
}

// EntityProviderConfig describes one entity provider.
type EntityProviderConfig struct {
	Type      string // "ner-http", "openai"
	Model     string
	URL       string
	APIKey    string
	RateLimit float64
	Enabled   bool
}

// NewRegistryFromConfig creates a registry with providers based on
// configuration. Only enabled providers are registered.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(cfg)
	return r
}

// Reload replaces the provider set based on new configuration. Providers no
// longer configured are dropped; changed providers are rebuilt.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ocr = make(map[string]OCRProvider)
	r.entities = make(map[string]EntityProvider)

	for name, pc := range cfg.OCRProviders {
		if !pc.Enabled {
			continue
		}
		switch pc.Type {
		case "tesseract":
			r.ocr[name] = NewTesseractClient(TesseractConfig{
				Language:  pc.Language,
				RateLimit: pc.RateLimit,
			})
		case "mistral-ocr":
			if pc.APIKey == "" {
				r.logger.Warn("skipping OCR provider without API key", "name", name)
				continue
			}
			r.ocr[name] = NewMistralOCRClient(MistralOCRConfig{
				APIKey:    pc.APIKey,
				RateLimit: pc.RateLimit,
			})
		default:
			r.logger.Warn("unknown OCR provider type", "name", name, "type", pc.Type)
			continue
		}
		r.logger.Info("registered OCR provider", "name", name, "type", pc.Type)
	}

	for name, pc := range cfg.EntityProviders {
		if !pc.Enabled {
			continue
		}
		switch pc.Type {
		case "ner-http":
			r.entities[name] = NewNERClient(NERConfig{
				URL:       pc.URL,
				APIKey:    pc.APIKey,
				RateLimit: pc.RateLimit,
				Timeout:   30 * time.Second,
			})
		case "openai":
			if pc.APIKey == "" {
				r.logger.Warn("skipping entity provider without API key", "name", name)
				continue
			}
			r.entities[name] = NewOpenAIEntityClient(OpenAIEntityConfig{
				APIKey:    pc.APIKey,
				Model:     pc.Model,
				RateLimit: pc.RateLimit,
			})
		default:
			r.logger.Warn("unknown entity provider type", "name", name, "type", pc.Type)
			continue
		}
		r.logger.Info("registered entity provider", "name", name, "type", pc.Type)
	}
}

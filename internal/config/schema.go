package config

// Config holds dockit configuration.
// Stored at: ./config.yaml or ~/.dockit/config.yaml
type Config struct {
	Pipeline        PipelineCfg                  `mapstructure:"pipeline" yaml:"pipeline"`
	Fetch           FetchCfg                     `mapstructure:"fetch" yaml:"fetch"`
	OCR             OCRCfg                       `mapstructure:"ocr" yaml:"ocr"`
	Entity          EntityCfg                    `mapstructure:"entity" yaml:"entity"`
	OCRProviders    map[string]OCRProviderCfg    `mapstructure:"ocr_providers" yaml:"ocr_providers"`
	EntityProviders map[string]EntityProviderCfg `mapstructure:"entity_providers" yaml:"entity_providers"`
	Server          ServerCfg                    `mapstructure:"server" yaml:"server"`
}

// PipelineCfg holds the extraction thresholds.
type PipelineCfg struct {
	// ScannedTextThreshold is the trimmed text-layer length below which a
	// document counts as scanned.
	ScannedTextThreshold int `mapstructure:"scanned_text_threshold" yaml:"scanned_text_threshold"`
	// ExpectedFieldCount normalizes coverage (a "complete" form schema).
	ExpectedFieldCount int `mapstructure:"expected_field_count" yaml:"expected_field_count"`
	// EntityScoreFloor drops entity spans at or below this score.
	EntityScoreFloor float64 `mapstructure:"entity_score_floor" yaml:"entity_score_floor"`
}

// FetchCfg configures the fetch gateway.
type FetchCfg struct {
	Attempts              int `mapstructure:"attempts" yaml:"attempts"`
	AttemptTimeoutSeconds int `mapstructure:"attempt_timeout_seconds" yaml:"attempt_timeout_seconds"`
	RetryDelaySeconds     int `mapstructure:"retry_delay_seconds" yaml:"retry_delay_seconds"`
	CacheCapacity         int `mapstructure:"cache_capacity" yaml:"cache_capacity"`
}

// OCRCfg configures the OCR fallback engine.
type OCRCfg struct {
	// Provider is the name of the OCR provider to use.
	Provider       string  `mapstructure:"provider" yaml:"provider"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MinConfidence  float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
	Scale          float64 `mapstructure:"scale" yaml:"scale"`
}

// EntityCfg selects the entity-inference provider.
type EntityCfg struct {
	Provider string `mapstructure:"provider" yaml:"provider"`
}

// OCRProviderCfg configures an OCR provider.
type OCRProviderCfg struct {
	Type      string  `mapstructure:"type" yaml:"type"`             // "tesseract", "mistral-ocr"
	APIKey    string  `mapstructure:"api_key" yaml:"api_key"`       // API key (supports ${ENV_VAR} syntax)
	Language  string  `mapstructure:"language" yaml:"language"`     // tesseract language
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per second
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// EntityProviderCfg configures an entity-inference provider.
type EntityProviderCfg struct {
	Type      string  `mapstructure:"type" yaml:"type"` // "ner-http", "openai"
	Model     string  `mapstructure:"model" yaml:"model"`
	URL       string  `mapstructure:"url" yaml:"url"`
	APIKey    string  `mapstructure:"api_key" yaml:"api_key"`
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// ServerCfg holds HTTP server settings.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

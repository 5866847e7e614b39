package config

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineCfg{
			ScannedTextThreshold: 1000,
			ExpectedFieldCount:   20,
			EntityScoreFloor:     0.7,
		},
		Fetch: FetchCfg{
			Attempts:              3,
			AttemptTimeoutSeconds: 5,
			RetryDelaySeconds:     1,
			CacheCapacity:         64,
		},
		OCR: OCRCfg{
			Provider:       "tesseract",
			TimeoutSeconds: 10,
			MinConfidence:  70,
			Scale:          1.5,
		},
		Entity: EntityCfg{
			Provider: "ner",
		},
		OCRProviders: map[string]OCRProviderCfg{
			"tesseract": {
				Type:      "tesseract",
				Language:  "eng",
				RateLimit: 2.0,
				Enabled:   true,
			},
			"mistral": {
				Type:      "mistral-ocr",
				APIKey:    "${MISTRAL_API_KEY}",
				RateLimit: 6.0,
				Enabled:   false,
			},
		},
		EntityProviders: map[string]EntityProviderCfg{
			"ner": {
				Type:      "ner-http",
				APIKey:    "${HF_API_TOKEN}",
				RateLimit: 2.0,
				Enabled:   true,
			},
			"openai": {
				Type:      "openai",
				Model:     "gpt-4o-mini",
				APIKey:    "${OPENAI_API_KEY}",
				RateLimit: 1.0,
				Enabled:   false,
			},
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
	}
}

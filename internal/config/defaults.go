package config

// Defaults returns a Config with sensible default values: the two headless
// CLIs in priority order with a static placeholder as the terminal fallback.
func Defaults() *Config {
	return &Config{
		Book: BookConfig{
			Language:     "en",
			TargetPages:  280,
			ChapterWords: 4500,
		},
		Providers: []ProviderConfig{
			{Type: "claude-cli", TimeoutSecs: 120},
			{Type: "gemini-cli", TimeoutSecs: 120},
			{Type: "static"},
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelayMS: 1000,
		},
		Validator: ValidatorConfig{
			MinWords: 50,
		},
		Index: IndexConfig{
			Embedder:         "hash",
			Dimensions:       256,
			ContextFragments: 3,
		},
		Export: ExportConfig{
			Engine:    "xelatex",
			OutputDir: "exports",
		},
		Notify: NotifyConfig{
			Console: true,
		},
	}
}

package llm

import (
	"fmt"
	"time"

	"bookforge/internal/config"
)

// KeyResolver supplies API keys for providers whose key is not inlined in
// config (the keystore implements this).
type KeyResolver func(provider string) (string, error)

// NewProvider creates one provider from config.
func NewProvider(cfg config.ProviderConfig, keys KeyResolver) (Provider, error) {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second

	switch cfg.Type {
	case "claude-cli":
		return NewClaudeCLI(timeout), nil
	case "gemini-cli":
		return NewGeminiCLI(timeout), nil
	case "cli":
		name := cfg.Name
		if name == "" {
			name = cfg.Command
		}
		return NewCLIProvider(CLIConfig{
			Name:       name,
			Command:    cfg.Command,
			Args:       cfg.Args,
			PromptMode: PromptMode(cfg.PromptMode),
			Timeout:    timeout,
		}), nil
	case "anthropic":
		key, err := resolveKey(cfg, "anthropic", keys)
		if err != nil {
			return nil, err
		}
		return NewAnthropicProvider(AnthropicConfig{APIKey: key, Model: cfg.Model}), nil
	case "openai":
		key, err := resolveKey(cfg, "openai", keys)
		if err != nil {
			return nil, err
		}
		return NewOpenAIProvider(OpenAIConfig{APIKey: key, BaseURL: cfg.BaseURL, Model: cfg.Model}), nil
	case "static":
		return NewStaticProvider(cfg.Name, cfg.Template), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// NewChainFromConfig builds the full fallback chain from project config.
func NewChainFromConfig(cfg *config.Config, keys KeyResolver) (*Chain, error) {
	providers := make([]Provider, 0, len(cfg.Providers))
	for i, pc := range cfg.Providers {
		p, err := NewProvider(pc, keys)
		if err != nil {
			return nil, fmt.Errorf("provider %d: %w", i, err)
		}
		providers = append(providers, p)
	}

	chainCfg := ChainConfig{}
	chainCfg.Retry.MaxAttempts = cfg.Retry.MaxAttempts
	chainCfg.Retry.BaseDelay = time.Duration(cfg.Retry.BaseDelayMS) * time.Millisecond
	chainCfg.Validator.MinWords = cfg.Validator.MinWords
	chainCfg.Validator.MinChars = cfg.Validator.MinChars

	return NewChain(chainCfg, providers...), nil
}

func resolveKey(cfg config.ProviderConfig, provider string, keys KeyResolver) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}
	if keys == nil {
		return "", fmt.Errorf("%s: no api key configured", provider)
	}
	key, err := keys(provider)
	if err != nil {
		return "", fmt.Errorf("%s: resolve api key: %w", provider, err)
	}
	return key, nil
}

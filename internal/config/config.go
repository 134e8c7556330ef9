package config

// Config is the top-level book project configuration, stored as book.yaml in
// the project directory.
type Config struct {
	Book      BookConfig       `yaml:"book"`
	Providers []ProviderConfig `yaml:"providers"`
	Retry     RetryConfig      `yaml:"retry"`
	Validator ValidatorConfig  `yaml:"validator"`
	Index     IndexConfig      `yaml:"index"`
	Export    ExportConfig     `yaml:"export"`
	Notify    NotifyConfig     `yaml:"notify"`
}

type BookConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Topic       string `yaml:"topic"`
	Language    string `yaml:"language"`
	TargetPages int    `yaml:"target_pages"`
	// ChapterWords is the target word count per generated chapter.
	ChapterWords int `yaml:"chapter_words"`
}

// ProviderConfig describes one entry in the fallback chain, in priority
// order. Type is one of: claude-cli, gemini-cli, cli, anthropic, openai,
// static.
type ProviderConfig struct {
	Type        string   `yaml:"type"`
	Name        string   `yaml:"name,omitempty"`
	Command     string   `yaml:"command,omitempty"`
	Args        []string `yaml:"args,omitempty"`
	PromptMode  string   `yaml:"prompt_mode,omitempty"` // stdin or arg
	Model       string   `yaml:"model,omitempty"`
	APIKey      string   `yaml:"api_key,omitempty"` // prefer the keystore
	BaseURL     string   `yaml:"base_url,omitempty"`
	TimeoutSecs int      `yaml:"timeout_secs,omitempty"`
	Template    string   `yaml:"template,omitempty"` // static provider only
}

type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	BaseDelayMS int `yaml:"base_delay_ms"`
}

type ValidatorConfig struct {
	MinWords int `yaml:"min_words"`
	MinChars int `yaml:"min_chars"`
}

type IndexConfig struct {
	// Embedder is "openai" or "hash" (deterministic local fallback).
	Embedder   string `yaml:"embedder"`
	Model      string `yaml:"model,omitempty"`
	Dimensions int    `yaml:"dimensions,omitempty"`
	// Path is the SQLite file for persisted fragments; empty keeps the
	// index in memory only.
	Path string `yaml:"path,omitempty"`
	// ContextFragments is how many similar fragments are injected into
	// chapter prompts.
	ContextFragments int `yaml:"context_fragments"`
}

type ExportConfig struct {
	// Engine is the PDF engine passed to pandoc.
	Engine     string `yaml:"engine"`
	PandocPath string `yaml:"pandoc_path,omitempty"`
	OutputDir  string `yaml:"output_dir,omitempty"`
}

type NotifyConfig struct {
	Console  bool            `yaml:"console"`
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileName is the config file kept at the root of every book project.
const FileName = "book.yaml"

// Loader manages reading and writing a project's book.yaml.
type Loader struct {
	mu       sync.RWMutex
	config   *Config
	filePath string
}

// NewLoader creates a loader for the project at dir.
func NewLoader(dir string) *Loader {
	return &Loader{filePath: filepath.Join(dir, FileName)}
}

// Load reads the config from disk. If the file doesn't exist, returns defaults.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg := Defaults()

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			l.config = cfg
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.filePath, err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	l.config = cfg
	return cfg, nil
}

// Save writes the config to disk.
func (l *Loader) Save(cfg *Config) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := validateConfig(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	l.config = cfg
	return os.WriteFile(l.filePath, data, 0600)
}

// Get returns the currently loaded config (or defaults if not loaded yet).
func (l *Loader) Get() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.config == nil {
		return Defaults()
	}
	return l.config
}

// FilePath returns the config file path.
func (l *Loader) FilePath() string {
	return l.filePath
}

func validateConfig(cfg *Config) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("at least one provider is required")
	}
	for i, p := range cfg.Providers {
		switch p.Type {
		case "claude-cli", "gemini-cli", "anthropic", "openai", "static":
		case "cli":
			if p.Command == "" {
				return fmt.Errorf("provider %d: cli type requires a command", i)
			}
		default:
			return fmt.Errorf("provider %d: unknown type %q", i, p.Type)
		}
	}
	switch cfg.Index.Embedder {
	case "", "hash", "openai":
	default:
		return fmt.Errorf("unknown embedder %q", cfg.Index.Embedder)
	}
	return nil
}

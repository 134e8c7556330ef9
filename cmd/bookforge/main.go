// bookforge drafts, researches, and exports non-fiction books through a
// chain of LLM providers with local CLI and API backends.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bookforge/internal/config"
	"bookforge/internal/eventbus"
	"bookforge/internal/index"
	"bookforge/internal/llm"
	"bookforge/internal/notify"
	"bookforge/internal/security"
)

var (
	projectDir string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "bookforge",
	Short: "Draft non-fiction books with resilient LLM pipelines",
	Long: `bookforge manages a book project end to end: research, chapter
drafting with provider fallback, semantic coherence indexing, and export
to markdown, HTML, or PDF.

A project is a directory with a book.yaml and chapters/, research/,
exports/, and index/ subdirectories. Start one with "bookforge init".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			log.SetOutput(os.Stderr)
			log.SetFlags(0)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "d", ".", "project directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the project's book.yaml, falling back to defaults when
// the file does not exist yet.
func loadConfig() (*config.Config, error) {
	return config.NewLoader(projectDir).Load()
}

// openKeyStore opens the shared key store. The vault password comes from
// BOOKFORGE_VAULT_PASSWORD when the OS keyring is unavailable.
func openKeyStore() (*security.KeyStore, error) {
	return security.NewKeyStore("", os.Getenv("BOOKFORGE_VAULT_PASSWORD"))
}

// buildChain assembles the provider fallback chain from config, resolving
// API keys through the key store.
func buildChain(cfg *config.Config) (*llm.Chain, error) {
	ks, err := openKeyStore()
	if err != nil {
		return nil, err
	}
	return llm.NewChainFromConfig(cfg, ks.Get)
}

// buildIndex opens the semantic index configured for the project.
func buildIndex(cfg *config.Config) (*index.Index, error) {
	var embedder index.Embedder
	switch cfg.Index.Embedder {
	case "openai":
		ks, err := openKeyStore()
		if err != nil {
			return nil, err
		}
		key, err := ks.Get("openai")
		if err != nil {
			return nil, fmt.Errorf("openai embedder needs an API key: %w", err)
		}
		embedder = index.NewOpenAIEmbedder(key, cfg.Index.Model)
	default:
		embedder = index.NewHashEmbedder(cfg.Index.Dimensions)
	}

	var store *index.Store
	if cfg.Index.Path != "" {
		var err error
		store, err = index.OpenStore(filepath.Join(projectDir, cfg.Index.Path))
		if err != nil {
			return nil, err
		}
	}
	return index.New(embedder, store)
}

// buildBus wires the event bus and configured notifiers.
func buildBus(cfg *config.Config) *eventbus.Bus {
	bus := eventbus.New()

	var notifiers []notify.Notifier
	if cfg.Notify.Console {
		notifiers = append(notifiers, notify.NewConsoleNotifier())
	}
	if tg := cfg.Notify.Telegram; tg != nil && tg.Token != "" {
		n, err := notify.NewTelegramNotifier(tg.Token, tg.ChatID)
		if err != nil {
			log.Printf("[main] telegram notifier disabled: %v", err)
		} else {
			notifiers = append(notifiers, n)
		}
	}
	if len(notifiers) > 0 {
		notify.NewManager(notifiers...).Bind(bus)
	}
	return bus
}

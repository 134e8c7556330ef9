package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"bookforge/internal/book"
)

var (
	writeTitle   string
	writeOutline string
)

var writeCmd = &cobra.Command{
	Use:   "write-chapter <number>",
	Short: "Draft one chapter through the provider chain",
	Long: `Draft chapter <number>. The prompt includes the most similar prior
chapters and research notes from the semantic index so the new chapter
stays consistent with what came before.

The outline can be passed inline with --outline or read from a file with
--outline pointing at a path.`,
	Args: cobra.ExactArgs(1),
	RunE: runWriteChapter,
}

func init() {
	writeCmd.Flags().StringVar(&writeTitle, "title", "", "chapter title (required)")
	writeCmd.Flags().StringVar(&writeOutline, "outline", "", "chapter outline text or path to a file")
	writeCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(writeCmd)
}

func runWriteChapter(cmd *cobra.Command, args []string) error {
	number, err := strconv.Atoi(args[0])
	if err != nil || number < 1 {
		return fmt.Errorf("chapter number must be a positive integer, got %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	chain, err := buildChain(cfg)
	if err != nil {
		return err
	}
	idx, err := buildIndex(cfg)
	if err != nil {
		return err
	}
	bus := buildBus(cfg)

	outline := writeOutline
	if outline != "" {
		if data, err := os.ReadFile(resolveOutlinePath(outline)); err == nil {
			outline = string(data)
		}
	}

	w := book.NewWriter(projectDir, cfg, chain, idx, bus)
	res, err := w.WriteChapter(cmd.Context(), number, writeTitle, outline)
	if err != nil {
		return err
	}

	fmt.Printf("Chapter %d written to %s (%d words, provider %s, %d attempts)\n",
		number, res.Path, res.Words, res.Provider, len(res.Attempts))
	return nil
}

func resolveOutlinePath(outline string) string {
	if filepath.IsAbs(outline) {
		return outline
	}
	return filepath.Join(projectDir, outline)
}

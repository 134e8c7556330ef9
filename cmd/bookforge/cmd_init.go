package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookforge/internal/book"
)

var (
	initTitle    string
	initAuthor   string
	initTopic    string
	initLanguage string
	initPages    int
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new book project",
	Long: `Create the project directory tree and a book.yaml with the default
provider chain (claude CLI, then gemini CLI, then a static placeholder).`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initTitle, "title", "", "book title (required)")
	initCmd.Flags().StringVar(&initAuthor, "author", "", "author name")
	initCmd.Flags().StringVar(&initTopic, "topic", "", "book topic")
	initCmd.Flags().StringVar(&initLanguage, "language", "en", "manuscript language code")
	initCmd.Flags().IntVar(&initPages, "pages", 0, "target page count")
	initCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := book.InitProject(projectDir, book.InitOptions{
		Title:       initTitle,
		Author:      initAuthor,
		Topic:       initTopic,
		Language:    initLanguage,
		TargetPages: initPages,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Initialized %q in %s\n", cfg.Book.Title, projectDir)
	fmt.Println("Next steps:")
	fmt.Println("  bookforge preflight          check your environment")
	fmt.Println("  bookforge research --query   gather sources")
	fmt.Println("  bookforge write-chapter 1    draft the first chapter")
	return nil
}

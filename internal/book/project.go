// Package book implements the book project lifecycle: initialization and
// chapter drafting with cross-chapter coherence.
package book

import (
	"fmt"
	"os"
	"path/filepath"

	"bookforge/internal/config"
)

// projectDirs is the directory tree created for a new book project.
var projectDirs = []string{
	"chapters",
	"research",
	"exports",
	"index",
	"assets",
}

// InitOptions are the knobs for a new project.
type InitOptions struct {
	Title       string
	Author      string
	Topic       string
	Language    string
	TargetPages int
}

// InitProject creates the project tree, book.yaml, and a manuscript stub in
// dir. It refuses to overwrite an existing book.yaml.
func InitProject(dir string, opts InitOptions) (*config.Config, error) {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return nil, fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	for _, d := range projectDirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0755); err != nil {
			return nil, err
		}
	}

	cfg := config.Defaults()
	cfg.Book.Title = opts.Title
	cfg.Book.Author = opts.Author
	cfg.Book.Topic = opts.Topic
	if opts.Language != "" {
		cfg.Book.Language = opts.Language
	}
	if opts.TargetPages > 0 {
		cfg.Book.TargetPages = opts.TargetPages
	}
	cfg.Index.Path = filepath.Join("index", "fragments.db")

	loader := config.NewLoader(dir)
	if err := loader.Save(cfg); err != nil {
		return nil, err
	}

	manuscript := fmt.Sprintf("# %s\n\nby %s\n\n## Outline\n\nAdd chapter outlines here, then run write-chapter.\n", opts.Title, opts.Author)
	if err := os.WriteFile(filepath.Join(dir, "manuscript.md"), []byte(manuscript), 0644); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ChapterPath returns the canonical path for a chapter file.
func ChapterPath(dir string, number int, title string) string {
	return filepath.Join(dir, "chapters", fmt.Sprintf("chapter%02d_%s.md", number, slugify(title)))
}

func slugify(s string) string {
	out := make([]rune, 0, len(s))
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
			lastDash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r-'A'+'a')
			lastDash = false
		default:
			if !lastDash {
				out = append(out, '_')
				lastDash = true
			}
		}
	}
	// Trim a trailing separator.
	for len(out) > 0 && out[len(out)-1] == '_' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "untitled"
	}
	return string(out)
}

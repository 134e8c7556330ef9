// Package export assembles chapter files into a single manuscript and renders
// it to HTML or PDF.
package export

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bookforge/internal/config"
	"bookforge/internal/eventbus"
	"bookforge/internal/sanitize"
)

// Exporter renders a project's chapters into distributable formats.
type Exporter struct {
	dir  string
	cfg  *config.Config
	san  *sanitize.Sanitizer
	bus  *eventbus.Bus
	pdfr *PDFRenderer
}

// New creates an exporter for the project at dir. bus may be nil.
func New(dir string, cfg *config.Config, bus *eventbus.Bus) *Exporter {
	return &Exporter{
		dir:  dir,
		cfg:  cfg,
		san:  sanitize.NewLaTeX(),
		bus:  bus,
		pdfr: NewPDFRenderer(cfg.Export),
	}
}

// Assemble concatenates all chapter files in numeric order into one markdown
// document with a title block. Chapter files follow the chapterNN_*.md naming
// so lexical order is numeric order.
func (e *Exporter) Assemble() (string, error) {
	chapterDir := filepath.Join(e.dir, "chapters")
	entries, err := os.ReadDir(chapterDir)
	if err != nil {
		return "", fmt.Errorf("read chapters: %w", err)
	}

	var names []string
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".md") {
			continue
		}
		names = append(names, ent.Name())
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no chapter files in %s", chapterDir)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", e.cfg.Book.Title)
	if e.cfg.Book.Author != "" {
		fmt.Fprintf(&b, "by %s\n\n", e.cfg.Book.Author)
	}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(chapterDir, name))
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		b.WriteString("\n\\newpage\n\n")
		b.Write(data)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Export assembles the manuscript and renders it in the requested format.
// Supported formats are "markdown", "html", and "pdf". It returns the output
// file path.
func (e *Exporter) Export(ctx context.Context, format string) (string, error) {
	manuscript, err := e.Assemble()
	if err != nil {
		return "", err
	}
	manuscript = e.san.Clean(manuscript)

	outDir := e.cfg.Export.OutputDir
	if outDir == "" {
		outDir = "exports"
	}
	outDir = filepath.Join(e.dir, outDir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	base := filepath.Join(outDir, "book")
	var out string
	switch format {
	case "markdown", "md":
		out = base + ".md"
		err = os.WriteFile(out, []byte(manuscript), 0644)
	case "html":
		out = base + ".html"
		var html string
		html, err = RenderHTML(manuscript, e.cfg.Book.Title)
		if err == nil {
			err = os.WriteFile(out, []byte(html), 0644)
		}
	case "pdf":
		out = base + ".pdf"
		srcPath := base + ".md"
		if err = os.WriteFile(srcPath, []byte(manuscript), 0644); err == nil {
			err = e.pdfr.Render(ctx, srcPath, out)
		}
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("export %s: %w", format, err)
	}

	log.Printf("[export] wrote %s", out)
	if e.bus != nil {
		e.bus.Publish(eventbus.TopicExportCompleted, eventbus.ExportEvent{Format: format, Path: out})
	}
	return out, nil
}

package export

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"bookforge/internal/config"
)

// pdfTimeout bounds a single pandoc run. Typesetting a full book with
// xelatex can take a while but should never hang indefinitely.
const pdfTimeout = 5 * time.Minute

// PDFRenderer shells out to pandoc to typeset markdown into PDF.
type PDFRenderer struct {
	pandoc string
	engine string
}

func NewPDFRenderer(cfg config.ExportConfig) *PDFRenderer {
	pandoc := cfg.PandocPath
	if pandoc == "" {
		pandoc = "pandoc"
	}
	engine := cfg.Engine
	if engine == "" {
		engine = "xelatex"
	}
	return &PDFRenderer{pandoc: pandoc, engine: engine}
}

// Render typesets srcPath into dstPath. pandoc and the configured PDF engine
// must be installed; preflight checks for both.
func (r *PDFRenderer) Render(ctx context.Context, srcPath, dstPath string) error {
	ctx, cancel := context.WithTimeout(ctx, pdfTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.pandoc,
		srcPath,
		"-o", dstPath,
		"--pdf-engine="+r.engine,
		"--toc",
		"-V", "geometry:margin=1in",
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("pandoc timed out after %s", pdfTimeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("pandoc: %s: %w", firstLine(msg), err)
		}
		return fmt.Errorf("pandoc: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

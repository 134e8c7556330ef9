package book

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"bookforge/internal/config"
	"bookforge/internal/eventbus"
	"bookforge/internal/index"
	"bookforge/internal/llm"
)

// Writer drafts chapters through the fallback chain, injecting context
// retrieved from the semantic index so later chapters stay consistent with
// earlier ones.
type Writer struct {
	dir   string
	cfg   *config.Config
	chain *llm.Chain
	idx   *index.Index
	bus   *eventbus.Bus
}

// NewWriter creates a chapter writer for the project at dir. bus may be nil.
func NewWriter(dir string, cfg *config.Config, chain *llm.Chain, idx *index.Index, bus *eventbus.Bus) *Writer {
	return &Writer{dir: dir, cfg: cfg, chain: chain, idx: idx, bus: bus}
}

// ChapterResult describes one drafted chapter.
type ChapterResult struct {
	Path     string
	Provider string
	Words    int
	Attempts []llm.Attempt
}

// WriteChapter generates chapter number with the given title and outline,
// saves it under chapters/, and indexes it for future coherence lookups.
func (w *Writer) WriteChapter(ctx context.Context, number int, title, outline string) (*ChapterResult, error) {
	w.publish(eventbus.TopicChapterStarted, eventbus.ChapterEvent{Number: number, Title: title})

	contextBlock, err := w.coherenceContext(ctx, title, outline)
	if err != nil {
		// Index trouble should not block drafting; log and continue bare.
		log.Printf("[writer] chapter %d: context lookup failed: %v", number, err)
		contextBlock = ""
	}

	req := llm.NewRequest(w.buildPrompt(number, title, outline, contextBlock))
	req.MaxTokens = 8192

	res, err := w.chain.Execute(ctx, req)
	if err != nil {
		w.publish(eventbus.TopicChapterFailed, eventbus.ChapterEvent{
			Number: number, Title: title, Err: err.Error(),
		})
		return nil, fmt.Errorf("chapter %d: %w", number, err)
	}

	path := ChapterPath(w.dir, number, title)
	if err := os.WriteFile(path, []byte(res.Text+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("save chapter %d: %w", number, err)
	}

	words := len(strings.Fields(res.Text))

	if w.idx != nil {
		fragID := fmt.Sprintf("chapter-%02d", number)
		if err := w.idx.Add(ctx, fragID, path, summaryFragment(title, res.Text)); err != nil {
			log.Printf("[writer] chapter %d: indexing failed: %v", number, err)
		}
	}

	w.publish(eventbus.TopicChapterCompleted, eventbus.ChapterEvent{
		Number: number, Title: title, Provider: res.Provider, Words: words,
	})

	return &ChapterResult{
		Path:     path,
		Provider: res.Provider,
		Words:    words,
		Attempts: res.Attempts,
	}, nil
}

// coherenceContext pulls the most similar prior fragments for injection
// into the prompt. Chapter 1 and an empty index produce no context.
func (w *Writer) coherenceContext(ctx context.Context, title, outline string) (string, error) {
	if w.idx == nil || w.idx.Len() == 0 {
		return "", nil
	}
	k := w.cfg.Index.ContextFragments
	if k <= 0 {
		k = 3
	}

	matches, err := w.idx.Query(ctx, title+"\n"+outline, k)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&b, "From %s:\n%s\n\n", m.Fragment.ID, m.Fragment.Text)
	}
	return strings.TrimSpace(b.String()), nil
}

func (w *Writer) buildPrompt(number int, title, outline, contextBlock string) string {
	book := w.cfg.Book
	var b strings.Builder

	fmt.Fprintf(&b, "You are writing Chapter %d of %q, a non-fiction book on %s by %s.\n\n",
		number, book.Title, book.Topic, book.Author)
	fmt.Fprintf(&b, "Chapter %d: %s\n\n%s\n\n", number, title, outline)

	if contextBlock != "" {
		b.WriteString("Maintain consistency with previous chapters:\n\n")
		b.WriteString(contextBlock)
		b.WriteString("\n\n")
	}

	words := book.ChapterWords
	if words <= 0 {
		words = 4500
	}
	fmt.Fprintf(&b, "Requirements:\n")
	fmt.Fprintf(&b, "- Write in %s\n", languageName(book.Language))
	fmt.Fprintf(&b, "- Around %d words\n", words)
	b.WriteString("- Cite sources for factual claims\n")
	b.WriteString("- Include an opening hook, evidence, practical frameworks, and a takeaways section\n")
	b.WriteString("- Format: Markdown\n\n")
	b.WriteString("Write the COMPLETE chapter now.\n")

	return b.String()
}

// summaryFragment keeps indexed fragments short: the title plus the opening
// of the chapter carries the thematic signal without bloating prompts.
func summaryFragment(title, text string) string {
	const maxFragment = 1200
	frag := title + "\n" + text
	if len(frag) > maxFragment {
		frag = frag[:maxFragment]
	}
	return frag
}

func languageName(code string) string {
	switch code {
	case "", "en":
		return "English"
	case "es":
		return "Spanish (neutral Latin America/Spain)"
	default:
		return code
	}
}

func (w *Writer) publish(topic eventbus.Topic, payload any) {
	if w.bus != nil {
		w.bus.Publish(topic, payload)
	}
}

package research

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"bookforge/internal/eventbus"
	"bookforge/internal/index"
	"bookforge/internal/llm"
)

// Researcher collects papers and web sources for a topic and distills them
// into notes under research/.
type Researcher struct {
	dir     string
	arxiv   *ArxivClient
	fetcher *Fetcher
	chain   *llm.Chain
	idx     *index.Index
	bus     *eventbus.Bus
}

// Options controls one research run.
type Options struct {
	Query      string
	MaxPapers  int
	URLs       []string
	SkipWeb    bool
	Synthesize bool
}

// Report summarizes what a research run produced.
type Report struct {
	Papers        []Paper
	FetchedURLs   []string
	SynthesisPath string
	BibPath       string
}

// New creates a researcher for the project at dir. chain, idx, and bus may
// each be nil; the corresponding step is skipped.
func New(dir string, chain *llm.Chain, idx *index.Index, bus *eventbus.Bus) *Researcher {
	return &Researcher{
		dir:     dir,
		arxiv:   NewArxivClient(),
		fetcher: NewFetcher(),
		chain:   chain,
		idx:     idx,
		bus:     bus,
	}
}

// Run executes a research pass: query arXiv, fetch any extra URLs, write a
// bibliography, and optionally synthesize notes through the provider chain.
func (r *Researcher) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Query == "" {
		return nil, fmt.Errorf("research query is empty")
	}
	resDir := filepath.Join(r.dir, "research")
	if err := os.MkdirAll(resDir, 0755); err != nil {
		return nil, err
	}

	report := &Report{}

	papers, err := r.arxiv.Search(ctx, opts.Query, opts.MaxPapers)
	if err != nil {
		// Web sources may still be usable; keep going with what we have.
		log.Printf("[research] arxiv search failed: %v", err)
	}
	report.Papers = papers
	log.Printf("[research] query %q: %d papers", opts.Query, len(papers))

	var sources []string
	for _, p := range papers {
		sources = append(sources, fmt.Sprintf("Paper: %s\nAuthors: %s\nAbstract: %s",
			p.Title, strings.Join(p.Authors, ", "), p.Summary))
	}

	if !opts.SkipWeb {
		defer r.fetcher.Close()
		for _, u := range opts.URLs {
			text, err := r.fetcher.FetchText(ctx, u)
			if err != nil {
				log.Printf("[research] fetch %s: %v", u, err)
				continue
			}
			report.FetchedURLs = append(report.FetchedURLs, u)
			sources = append(sources, fmt.Sprintf("Web source %s:\n%s", u, truncate(text, 8000)))
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources found for %q", opts.Query)
	}

	report.BibPath = filepath.Join(resDir, "bibliography.md")
	if err := r.writeBibliography(report.BibPath, opts.Query, papers, report.FetchedURLs); err != nil {
		return nil, err
	}

	if opts.Synthesize && r.chain != nil {
		report.SynthesisPath = filepath.Join(resDir, "synthesis.md")
		if err := r.synthesize(ctx, report.SynthesisPath, opts.Query, sources); err != nil {
			return nil, err
		}
	}

	if r.bus != nil {
		r.bus.Publish(eventbus.TopicResearchDone, report)
	}
	return report, nil
}

func (r *Researcher) writeBibliography(path, query string, papers []Paper, urls []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Bibliography: %s\n\n", query)
	for _, p := range papers {
		fmt.Fprintf(&b, "- %s", p.Title)
		if len(p.Authors) > 0 {
			fmt.Fprintf(&b, " (%s", p.Authors[0])
			if len(p.Authors) > 1 {
				b.WriteString(" et al.")
			}
			b.WriteString(")")
		}
		if !p.Published.IsZero() {
			fmt.Fprintf(&b, ", %d", p.Published.Year())
		}
		fmt.Fprintf(&b, ". %s\n", p.ID)
	}
	for _, u := range urls {
		fmt.Fprintf(&b, "- Web: %s\n", u)
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// synthesize condenses the raw sources into structured notes through the
// provider chain and indexes them for chapter-writing context.
func (r *Researcher) synthesize(ctx context.Context, path, query string, sources []string) error {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Synthesize the following research sources on %q into structured notes for a non-fiction book.\n\n", query)
	prompt.WriteString("For each major theme: key findings, supporting evidence with citations, and open questions.\n\n")
	for i, s := range sources {
		fmt.Fprintf(&prompt, "--- Source %d ---\n%s\n\n", i+1, s)
	}

	req := llm.NewRequest(prompt.String())
	res, err := r.chain.Execute(ctx, req)
	if err != nil {
		return fmt.Errorf("synthesis: %w", err)
	}

	if err := os.WriteFile(path, []byte(res.Text+"\n"), 0644); err != nil {
		return err
	}

	if r.idx != nil {
		id := "research-" + slugID(query)
		if err := r.idx.Add(ctx, id, path, truncate(res.Text, 1200)); err != nil {
			log.Printf("[research] indexing failed: %v", err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n... (truncated)"
}

func slugID(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case len(out) > 0 && out[len(out)-1] != '-':
			out = append(out, '-')
		}
	}
	return strings.Trim(string(out), "-")
}

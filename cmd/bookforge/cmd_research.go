package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookforge/internal/research"
)

var (
	researchQuery      string
	researchMaxPapers  int
	researchURLs       []string
	researchSkipWeb    bool
	researchSynthesize bool
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Gather and synthesize sources for the book topic",
	Long: `Query arXiv for recent papers on the topic, optionally fetch extra
web pages with a headless browser, and write a bibliography under
research/. With --synthesize the sources are also distilled into notes
through the provider chain and added to the coherence index.`,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().StringVarP(&researchQuery, "query", "q", "", "search query (defaults to the book topic)")
	researchCmd.Flags().IntVar(&researchMaxPapers, "max-papers", 10, "maximum arXiv results")
	researchCmd.Flags().StringSliceVar(&researchURLs, "url", nil, "extra web pages to fetch (repeatable)")
	researchCmd.Flags().BoolVar(&researchSkipWeb, "skip-web", false, "skip the headless browser fetch")
	researchCmd.Flags().BoolVar(&researchSynthesize, "synthesize", true, "synthesize notes through the provider chain")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	query := researchQuery
	if query == "" {
		query = cfg.Book.Topic
	}
	if query == "" {
		return fmt.Errorf("no query given and book.topic is empty in book.yaml")
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

	r := research.New(projectDir, chain, idx, bus)
	report, err := r.Run(cmd.Context(), research.Options{
		Query:      query,
		MaxPapers:  researchMaxPapers,
		URLs:       researchURLs,
		SkipWeb:    researchSkipWeb,
		Synthesize: researchSynthesize,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Found %d papers, fetched %d web sources\n", len(report.Papers), len(report.FetchedURLs))
	fmt.Println("Bibliography:", report.BibPath)
	if report.SynthesisPath != "" {
		fmt.Println("Synthesis:", report.SynthesisPath)
	}
	return nil
}

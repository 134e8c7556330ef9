// Package research gathers source material for a book topic from arXiv and
// the open web, then synthesizes it into notes the chapter writer can use.
package research

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const arxivAPI = "http://export.arxiv.org/api/query"

// Paper is one arXiv result.
type Paper struct {
	ID        string
	Title     string
	Summary   string
	Authors   []string
	Published time.Time
	PDFURL    string
}

// ArxivClient queries the arXiv Atom API.
type ArxivClient struct {
	baseURL string
	client  *http.Client
}

func NewArxivClient() *ArxivClient {
	return &ArxivClient{
		baseURL: arxivAPI,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Search returns up to maxResults papers matching query, newest first.
func (c *ArxivClient) Search(ctx context.Context, query string, maxResults int) ([]Paper, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv query: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("arxiv response: %w", err)
	}
	return parseAtomFeed(body)
}

// Atom feed shapes for the arXiv API response.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

func parseAtomFeed(data []byte) ([]Paper, error) {
	var feed atomFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parse arxiv feed: %w", err)
	}

	papers := make([]Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		p := Paper{
			ID:      e.ID,
			Title:   collapseSpace(e.Title),
			Summary: collapseSpace(e.Summary),
		}
		for _, a := range e.Authors {
			p.Authors = append(p.Authors, a.Name)
		}
		if ts, err := time.Parse(time.RFC3339, e.Published); err == nil {
			p.Published = ts
		}
		for _, l := range e.Links {
			if l.Title == "pdf" || l.Type == "application/pdf" {
				p.PDFURL = l.Href
				break
			}
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// collapseSpace flattens the newline-wrapped text arXiv embeds in titles
// and abstracts.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

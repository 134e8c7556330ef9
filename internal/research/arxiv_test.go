package research

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2401.00001v1</id>
    <title>Deep Habits:
  A Study of
  Behavior Change</title>
    <summary>  We study how habits
  form over time.  </summary>
    <published>2024-01-02T18:00:00Z</published>
    <author><name>A. Researcher</name></author>
    <author><name>B. Colleague</name></author>
    <link href="http://arxiv.org/abs/2401.00001v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2401.00001v1" rel="related" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2401.00002v1</id>
    <title>Second Paper</title>
    <summary>Another abstract.</summary>
    <published>2024-01-03T18:00:00Z</published>
    <author><name>C. Author</name></author>
  </entry>
</feed>`

func TestParseAtomFeed(t *testing.T) {
	papers, err := parseAtomFeed([]byte(sampleFeed))
	if err != nil {
		t.Fatalf("parseAtomFeed: %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("got %d papers, want 2", len(papers))
	}

	p := papers[0]
	if p.Title != "Deep Habits: A Study of Behavior Change" {
		t.Errorf("title not collapsed: %q", p.Title)
	}
	if p.Summary != "We study how habits form over time." {
		t.Errorf("summary not collapsed: %q", p.Summary)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "A. Researcher" {
		t.Errorf("authors = %v", p.Authors)
	}
	if p.PDFURL != "http://arxiv.org/pdf/2401.00001v1" {
		t.Errorf("pdf url = %q", p.PDFURL)
	}
	if p.Published.Year() != 2024 {
		t.Errorf("published = %v", p.Published)
	}

	if papers[1].PDFURL != "" {
		t.Errorf("second paper should have no pdf link, got %q", papers[1].PDFURL)
	}
}

func TestSearchBuildsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := &ArxivClient{baseURL: srv.URL, client: srv.Client()}
	papers, err := c.Search(context.Background(), "habit formation", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery != "all:habit formation" {
		t.Errorf("search_query = %q", gotQuery)
	}
	if len(papers) != 2 {
		t.Errorf("got %d papers", len(papers))
	}
}

func TestSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := &ArxivClient{baseURL: srv.URL, client: srv.Client()}
	if _, err := c.Search(context.Background(), "anything", 1); err == nil {
		t.Error("expected error on 503 response")
	}
}

func TestValidateURL(t *testing.T) {
	cases := map[string]bool{
		"https://example.com/page":  true,
		"http://example.com":        true,
		"ftp://example.com":         false,
		"http://localhost:8080":     false,
		"http://127.0.0.1/x":        false,
		"http://192.168.1.10/admin": false,
	}
	for u, ok := range cases {
		err := validateURL(u)
		if ok && err != nil {
			t.Errorf("validateURL(%q) = %v, want nil", u, err)
		}
		if !ok && err == nil {
			t.Errorf("validateURL(%q) = nil, want error", u)
		}
	}
}

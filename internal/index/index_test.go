package index

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestIndex(t *testing.T) *Index {
	idx, err := New(NewHashEmbedder(128), nil)
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestQueryTopKOrdering(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	frags := map[string]string{
		"ch1": "deep work and focus for software developers",
		"ch2": "cooking pasta with tomato sauce and basil",
		"ch3": "developer focus habits and deep concentration at work",
	}
	for _, id := range []string{"ch1", "ch2", "ch3"} {
		if err := idx.Add(ctx, id, id, frags[id]); err != nil {
			t.Fatal(err)
		}
	}

	matches, err := idx.Query(ctx, "focus and deep work for developers", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected exactly 2 matches, got %d", len(matches))
	}
	if matches[0].Score < matches[1].Score {
		t.Fatalf("matches not in descending order: %f < %f", matches[0].Score, matches[1].Score)
	}
	for _, m := range matches {
		if m.Fragment.ID == "ch2" {
			t.Fatal("unrelated fragment outranked related ones")
		}
	}
}

func TestAddSameIDReplaces(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	for _, id := range []string{"ch1", "ch2", "ch3"} {
		if err := idx.Add(ctx, id, id, "original text for "+id); err != nil {
			t.Fatal(err)
		}
	}
	if err := idx.Add(ctx, "ch2", "ch2", "completely rewritten second chapter"); err != nil {
		t.Fatal(err)
	}

	if idx.Len() != 3 {
		t.Fatalf("re-indexing duplicated the fragment: len=%d", idx.Len())
	}
	want := []string{"ch1", "ch2", "ch3"}
	if diff := cmp.Diff(want, idx.IDs()); diff != "" {
		t.Fatalf("insertion order changed (-want +got):\n%s", diff)
	}
}

func TestQueryTiesKeepInsertionOrder(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	// Identical texts produce identical vectors, so scores tie exactly.
	if err := idx.Add(ctx, "first", "a", "identical fragment text"); err != nil {
		t.Fatal(err)
	}
	if err := idx.Add(ctx, "second", "b", "identical fragment text"); err != nil {
		t.Fatal(err)
	}

	matches, err := idx.Query(ctx, "identical fragment text", 2)
	if err != nil {
		t.Fatal(err)
	}
	if matches[0].Fragment.ID != "first" || matches[1].Fragment.ID != "second" {
		t.Fatalf("tie not broken by insertion order: %s, %s",
			matches[0].Fragment.ID, matches[1].Fragment.ID)
	}
}

func TestQueryKLargerThanIndex(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	if err := idx.Add(ctx, "only", "a", "the only fragment"); err != nil {
		t.Fatal(err)
	}
	matches, err := idx.Query(ctx, "fragment", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
}

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder(64)
	ctx := context.Background()

	a, err := e.Embed(ctx, "some stable text")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed(ctx, "some stable text")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("embedder not deterministic:\n%s", diff)
	}
	if got := cosine(a, b); got < 0.999 {
		t.Fatalf("self-similarity %f, want ~1", got)
	}
}

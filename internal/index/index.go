// Package index stores text fragments with vector embeddings and retrieves
// the most similar prior fragments, so chapter prompts can carry context
// from earlier chapters.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// Fragment is one indexed unit of previously generated text.
type Fragment struct {
	ID     string
	Source string // e.g. "chapter-04"
	Text   string
	Vector []float32
}

// Match is a query hit with its cosine similarity.
type Match struct {
	Fragment Fragment
	Score    float64
}

// Index is an append-only in-memory fragment store with optional SQLite
// persistence. Safe for concurrent Add and Query.
type Index struct {
	mu       sync.RWMutex
	embedder Embedder
	frags    []Fragment
	byID     map[string]int
	store    *Store
}

// New creates an index backed by embedder. If store is non-nil, existing
// fragments are loaded from it and new fragments are persisted.
func New(embedder Embedder, store *Store) (*Index, error) {
	idx := &Index{
		embedder: embedder,
		byID:     make(map[string]int),
		store:    store,
	}
	if store != nil {
		frags, err := store.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("load index: %w", err)
		}
		for _, f := range frags {
			idx.byID[f.ID] = len(idx.frags)
			idx.frags = append(idx.frags, f)
		}
	}
	return idx, nil
}

// Add embeds text and stores it under id. Re-indexing an existing id
// replaces the prior entry in place, keeping its insertion position.
func (idx *Index) Add(ctx context.Context, id, source, text string) error {
	vec, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("index %s: %w", id, err)
	}

	frag := Fragment{ID: id, Source: source, Text: text, Vector: vec}

	idx.mu.Lock()
	if pos, ok := idx.byID[id]; ok {
		idx.frags[pos] = frag
	} else {
		idx.byID[id] = len(idx.frags)
		idx.frags = append(idx.frags, frag)
	}
	idx.mu.Unlock()

	if idx.store != nil {
		if err := idx.store.Save(frag); err != nil {
			return fmt.Errorf("persist %s: %w", id, err)
		}
	}
	return nil
}

// Query embeds text and returns the k most similar fragments, ordered by
// descending cosine similarity, ties broken by insertion order.
func (idx *Index) Query(ctx context.Context, text string, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}

	qv, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	idx.mu.RLock()
	matches := make([]Match, 0, len(idx.frags))
	for _, f := range idx.frags {
		matches = append(matches, Match{Fragment: f, Score: cosine(qv, f.Vector)})
	}
	idx.mu.RUnlock()

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Len returns the number of stored fragments.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.frags)
}

// IDs returns all fragment ids in insertion order.
func (idx *Index) IDs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ids := make([]string, len(idx.frags))
	for i, f := range idx.frags {
		ids[i] = f.ID
	}
	return ids
}

// cosine returns the cosine similarity of a and b, 0 for mismatched or
// zero-length vectors.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestStore(t *testing.T) *Store {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	store, err := OpenStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSaveAndLoadAll(t *testing.T) {
	store := newTestStore(t)

	frags := []Fragment{
		{ID: "ch1", Source: "chapter-01", Text: "first", Vector: []float32{1, 0}},
		{ID: "ch2", Source: "chapter-02", Text: "second", Vector: []float32{0, 1}},
	}
	for _, f := range frags {
		if err := store.Save(f); err != nil {
			t.Fatal(err)
		}
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(frags, loaded); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreReplaceKeepsPosition(t *testing.T) {
	store := newTestStore(t)

	for i, id := range []string{"a", "b", "c"} {
		f := Fragment{ID: id, Source: id, Text: id, Vector: []float32{float32(i)}}
		if err := store.Save(f); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Save(Fragment{ID: "b", Source: "b", Text: "rewritten", Vector: []float32{9}}); err != nil {
		t.Fatal(err)
	}

	ids, err := store.IDs()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids); diff != "" {
		t.Fatalf("order changed (-want +got):\n%s", diff)
	}

	f, err := store.Get("b")
	if err != nil {
		t.Fatal(err)
	}
	if f.Text != "rewritten" {
		t.Fatalf("replacement lost: %q", f.Text)
	}
}

func TestIndexReloadsFromStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	ctx := context.Background()

	store, err := OpenStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := New(NewHashEmbedder(64), store)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Add(ctx, "ch1", "chapter-01", "persistent fragment text"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store2, err := OpenStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store2.Close()
	idx2, err := New(NewHashEmbedder(64), store2)
	if err != nil {
		t.Fatal(err)
	}
	if idx2.Len() != 1 {
		t.Fatalf("expected 1 fragment after reload, got %d", idx2.Len())
	}

	matches, err := idx2.Query(ctx, "persistent fragment text", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Fragment.ID != "ch1" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

package book

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookforge/internal/config"
	"bookforge/internal/eventbus"
	"bookforge/internal/index"
	"bookforge/internal/llm"
	"bookforge/internal/validate"
)

func testWriter(t *testing.T, bus *eventbus.Bus) (*Writer, string, *index.Index) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Book.Title = "Test Book"
	cfg.Book.Author = "Test Author"
	cfg.Book.Topic = "testing"

	if _, err := InitProject(dir, InitOptions{Title: cfg.Book.Title, Author: cfg.Book.Author, Topic: cfg.Book.Topic}); err != nil {
		t.Fatalf("InitProject: %v", err)
	}

	idx, err := index.New(index.NewHashEmbedder(64), nil)
	if err != nil {
		t.Fatalf("index.New: %v", err)
	}

	chain := llm.NewChain(llm.ChainConfig{Validator: validate.Default()},
		llm.NewStaticProvider("static", ""))

	return NewWriter(dir, cfg, chain, idx, bus), dir, idx
}

func TestWriteChapterSavesAndIndexes(t *testing.T) {
	w, dir, idx := testWriter(t, nil)

	res, err := w.WriteChapter(context.Background(), 1, "The First Step", "Why starting matters.")
	if err != nil {
		t.Fatalf("WriteChapter: %v", err)
	}

	want := filepath.Join(dir, "chapters", "chapter01_the_first_step.md")
	if res.Path != want {
		t.Errorf("path = %q, want %q", res.Path, want)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("chapter file not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("chapter file is empty")
	}
	if res.Provider != "static" {
		t.Errorf("provider = %q, want static", res.Provider)
	}
	if res.Words < 50 {
		t.Errorf("words = %d, expected at least the validation floor", res.Words)
	}

	if idx.Len() != 1 {
		t.Fatalf("index length = %d, want 1", idx.Len())
	}
	if got := idx.IDs(); got[0] != "chapter-01" {
		t.Errorf("indexed id = %q, want chapter-01", got[0])
	}
}

func TestWriteChapterInjectsContext(t *testing.T) {
	w, _, idx := testWriter(t, nil)

	if err := idx.Add(context.Background(), "chapter-01", "chapters/chapter01.md",
		"The First Step\nStarting matters because momentum compounds."); err != nil {
		t.Fatalf("seed index: %v", err)
	}

	block, err := w.coherenceContext(context.Background(), "The Second Step", "Keeping momentum.")
	if err != nil {
		t.Fatalf("coherenceContext: %v", err)
	}
	if !strings.Contains(block, "chapter-01") {
		t.Errorf("context block missing prior chapter reference: %q", block)
	}
}

func TestWriteChapterPublishesEvents(t *testing.T) {
	bus := eventbus.New()
	var topics []eventbus.Topic
	record := func(e eventbus.Event) { topics = append(topics, e.Topic) }
	bus.Subscribe(eventbus.TopicChapterStarted, record)
	bus.Subscribe(eventbus.TopicChapterCompleted, record)

	w, _, _ := testWriter(t, bus)
	if _, err := w.WriteChapter(context.Background(), 2, "Momentum", "Keep going."); err != nil {
		t.Fatalf("WriteChapter: %v", err)
	}

	if len(topics) != 2 ||
		topics[0] != eventbus.TopicChapterStarted ||
		topics[1] != eventbus.TopicChapterCompleted {
		t.Errorf("topics = %v, want [chapter_started chapter_completed]", topics)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"The First Step":       "the_first_step",
		"Hello, World!":        "hello_world",
		"  spaced   out  ":     "spaced_out",
		"":                     "untitled",
		"123 Numbers & Things": "123_numbers_things",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

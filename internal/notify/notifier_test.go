package notify

import (
	"context"
	"strings"
	"sync"
	"testing"

	"bookforge/internal/eventbus"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Notify(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, text)
	return nil
}

func TestManagerForwardsChapterEvents(t *testing.T) {
	rec := &recordingNotifier{}
	bus := eventbus.New()
	NewManager(rec).Bind(bus)

	bus.Publish(eventbus.TopicChapterCompleted, eventbus.ChapterEvent{
		Number: 4, Title: "Flow State", Provider: "claude-cli", Words: 4812,
	})
	bus.Publish(eventbus.TopicChapterFailed, eventbus.ChapterEvent{
		Number: 5, Title: "Burnout", Err: "all providers failed",
	})

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.msgs) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(rec.msgs))
	}
	if !strings.Contains(rec.msgs[0], "Chapter 4") || !strings.Contains(rec.msgs[0], "claude-cli") {
		t.Fatalf("unexpected message: %q", rec.msgs[0])
	}
	if !strings.Contains(rec.msgs[1], "all providers failed") {
		t.Fatalf("unexpected failure message: %q", rec.msgs[1])
	}
}

func TestManagerIgnoresUnrelatedPayloads(t *testing.T) {
	rec := &recordingNotifier{}
	bus := eventbus.New()
	NewManager(rec).Bind(bus)

	bus.Publish(eventbus.TopicChapterCompleted, "not a chapter event")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.msgs) != 0 {
		t.Fatalf("expected no notifications, got %v", rec.msgs)
	}
}

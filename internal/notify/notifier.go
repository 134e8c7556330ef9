// Package notify delivers progress updates for long-running pipeline jobs.
// Chapter generation can take minutes per chapter; notifiers let the author
// walk away and still know when a draft or export lands.
package notify

import (
	"context"
	"fmt"
	"log"

	"bookforge/internal/eventbus"
)

// Notifier delivers one outbound message.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, text string) error
}

// Manager fans pipeline events out to the configured notifiers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a manager over the given notifiers.
func NewManager(notifiers ...Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// Bind subscribes the manager to the bus topics worth telling a human about.
func (m *Manager) Bind(bus *eventbus.Bus) {
	bus.Subscribe(eventbus.TopicChapterCompleted, func(e eventbus.Event) {
		if ce, ok := e.Payload.(eventbus.ChapterEvent); ok {
			m.send(fmt.Sprintf("Chapter %d (%s) drafted by %s: %d words",
				ce.Number, ce.Title, ce.Provider, ce.Words))
		}
	})
	bus.Subscribe(eventbus.TopicChapterFailed, func(e eventbus.Event) {
		if ce, ok := e.Payload.(eventbus.ChapterEvent); ok {
			m.send(fmt.Sprintf("Chapter %d (%s) failed: %s", ce.Number, ce.Title, ce.Err))
		}
	})
	bus.Subscribe(eventbus.TopicExportCompleted, func(e eventbus.Event) {
		if ee, ok := e.Payload.(eventbus.ExportEvent); ok {
			m.send(fmt.Sprintf("Export finished: %s (%s)", ee.Path, ee.Format))
		}
	})
}

func (m *Manager) send(text string) {
	ctx := context.Background()
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, text); err != nil {
			log.Printf("[notify] %s: %v", n.Name(), err)
		}
	}
}

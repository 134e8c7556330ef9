package eventbus

import "time"

// Topic represents an event topic.
type Topic string

const (
	TopicChapterStarted   Topic = "chapter_started"
	TopicChapterCompleted Topic = "chapter_completed"
	TopicChapterFailed    Topic = "chapter_failed"
	TopicProviderFallback Topic = "provider_fallback"
	TopicResearchDone     Topic = "research_done"
	TopicExportCompleted  Topic = "export_completed"
	TopicError            Topic = "error"
)

// Event is a message passed through the event bus.
type Event struct {
	Topic     Topic
	Payload   any
	Timestamp time.Time
}

// Handler processes an event.
type Handler func(Event)

// ChapterEvent is the payload for chapter lifecycle topics.
type ChapterEvent struct {
	Number   int
	Title    string
	Provider string
	Words    int
	Err      string
}

// ExportEvent is the payload for export topics.
type ExportEvent struct {
	Format string
	Path   string
}

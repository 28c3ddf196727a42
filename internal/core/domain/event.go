package domain

// AnswerEventType tags the variants of the streaming answer protocol.
type AnswerEventType string

// Streaming answer event types. A well-formed stream is zero or more
// text events, exactly one sources event, then exactly one done event.
// A failed stream ends with a single error event instead.
const (
	EventText    AnswerEventType = "text"
	EventSources AnswerEventType = "sources"
	EventDone    AnswerEventType = "done"
	EventError   AnswerEventType = "error"
)

// AnswerEvent is one event of a streaming answer.
type AnswerEvent struct {
	// Type selects which of the remaining fields is meaningful.
	Type AnswerEventType

	// Content carries the text fragment for EventText, or the sanitized
	// failure message for EventError.
	Content string

	// Sources carries the source references for EventSources.
	Sources []SourceReference
}

// TextEvent builds a text fragment event.
func TextEvent(fragment string) AnswerEvent {
	return AnswerEvent{Type: EventText, Content: fragment}
}

// SourcesEvent builds the terminal sources event.
func SourcesEvent(sources []SourceReference) AnswerEvent {
	if sources == nil {
		sources = []SourceReference{}
	}
	return AnswerEvent{Type: EventSources, Sources: sources}
}

// DoneEvent builds the terminal done event.
func DoneEvent() AnswerEvent {
	return AnswerEvent{Type: EventDone}
}

// ErrorEvent builds a terminal error event.
func ErrorEvent(message string) AnswerEvent {
	return AnswerEvent{Type: EventError, Content: message}
}

package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single immutable fact recorded during a simulation run
type Event interface {
	ID() uuid.UUID
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
	Version() int
}

// EventHandler receives events it has subscribed to. Dispatch is synchronous:
// a slow handler delays the append that triggered it.
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore persists ordered event streams. Streams are keyed by scenario
// name so each scenario's audit trail can be replayed independently.
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// BaseEvent is the concrete event carried by every stream
type BaseEvent struct {
	EventID      uuid.UUID
	EventType    string
	Stream       string
	EventData    interface{}
	EventTime    time.Time
	EventVersion int
}

func (e BaseEvent) ID() uuid.UUID {
	return e.EventID
}

func (e BaseEvent) Type() string {
	return e.EventType
}

func (e BaseEvent) StreamID() string {
	return e.Stream
}

func (e BaseEvent) Data() interface{} {
	return e.EventData
}

func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

func (e BaseEvent) Version() int {
	return e.EventVersion
}

// NewEvent creates an unversioned event; the store assigns the stream version
// when the event is appended.
func NewEvent(eventType, streamID string, data interface{}) Event {
	return BaseEvent{
		EventID:   uuid.New(),
		EventType: eventType,
		Stream:    streamID,
		EventData: data,
		EventTime: time.Now().UTC(),
	}
}

package events

import (
	"sync"
)

// InMemoryEventStore keeps every appended event in memory, per stream and in
// global order. It exists for single-process runs and tests; nothing is
// persisted across restarts.
type InMemoryEventStore struct {
	mutex       sync.RWMutex
	streams     map[string][]Event
	allEvents   []Event
	subscribers map[string][]EventHandler
}

var _ EventStore = (*InMemoryEventStore)(nil)

// NewInMemoryEventStore creates an empty event store
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		allEvents:   make([]Event, 0),
		subscribers: make(map[string][]EventHandler),
	}
}

// AppendEvent stamps the event with its stream version and records it. The
// event is dispatched to matching subscribers before AppendEvent returns;
// handler errors do not fail the append.
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()

	versioned := BaseEvent{
		EventID:      event.ID(),
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.allEvents = append(s.allEvents, versioned)

	handlers := make([]EventHandler, len(s.subscribers[versioned.EventType]))
	copy(handlers, s.subscribers[versioned.EventType])
	s.mutex.Unlock()

	for _, handler := range handlers {
		if handler.CanHandle(versioned.EventType) {
			_ = handler.Handle(versioned)
		}
	}

	return nil
}

// ReadEvents returns a stream's events starting at fromVersion (1-based)
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stream, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}

	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(stream) {
		return []Event{}, nil
	}

	out := make([]Event, len(stream)-(fromVersion-1))
	copy(out, stream[fromVersion-1:])

	return out, nil
}

// ReadAllEvents returns every recorded event from the given global position
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	out := make([]Event, len(s.allEvents)-fromPosition)
	copy(out, s.allEvents[fromPosition:])

	return out, nil
}

// Subscribe registers a handler for the given event types
func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

// Unsubscribe removes a handler from every event type it subscribed to
func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		kept := handlers[:0]
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}

	return nil
}

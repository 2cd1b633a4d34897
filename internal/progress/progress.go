// Package progress carries advisory progress events from a running
// operation to its caller. Events are not a log: a slow consumer only ever
// loses intermediate updates, never blocks the producer.
package progress

// TotalUnknown marks an operation that cannot know its item count up
// front, such as a scan still discovering files.
const TotalUnknown = -1

// Event is a point-in-time snapshot of a running operation.
type Event struct {
	Processed   int
	Total       int // TotalUnknown while the item count is not known
	CurrentPath string
	Bytes       int64
	Errors      int
}

// Sink consumes progress events. Publish must never block the producer
// beyond what thread-safety requires.
type Sink interface {
	Publish(Event)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Publish(Event) {}

// LatestSink keeps only the most recent event: a consumer that cannot keep
// up sees the latest state instead of a backlog.
type LatestSink struct {
	ch chan Event
}

func NewLatestSink() *LatestSink {
	return &LatestSink{ch: make(chan Event, 1)}
}

func (s *LatestSink) Publish(ev Event) {
	for {
		select {
		case s.ch <- ev:
			return
		default:
		}

		// Buffer full: evict the stale event and retry.
		select {
		case <-s.ch:
		default:
		}
	}
}

// Events exposes the consumer side. At most one event is buffered.
func (s *LatestSink) Events() <-chan Event {
	return s.ch
}

// Close releases the consumer channel. Publish must not be called after
// Close.
func (s *LatestSink) Close() {
	close(s.ch)
}

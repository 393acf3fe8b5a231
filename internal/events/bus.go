package events

import "time"

// Emphasis controls how prominently a notification is shown.
type Emphasis int

const (
	EmphasisNormal Emphasis = iota
	EmphasisHigh
	EmphasisMuted
)

// Notification is a floating-text message for the presentation layer.
type Notification struct {
	Text     string
	Emphasis Emphasis
	At       time.Time
}

// Handler receives published events. Handlers run synchronously on the
// simulation thread and must not block.
type Handler func(Event)

// DefaultPendingLimit bounds the notification queue when nobody drains it.
const DefaultPendingLimit = 64

// Bus fans events out to subscribers and queues notifications until the
// presentation drains them.
//
// Not safe for concurrent use: it belongs to the simulation thread.
// Overflow: the oldest notifications are dropped when the queue is full.
type Bus struct {
	seq     uint64
	subs    []Handler
	pending []Notification
	limit   int
}

func NewBus() *Bus {
	return &Bus{limit: DefaultPendingLimit}
}

// Subscribe registers a handler for every published event.
func (b *Bus) Subscribe(h Handler) {
	b.subs = append(b.subs, h)
}

// Publish stamps an event with the next id and delivers it to all handlers in
// registration order.
func (b *Bus) Publish(at time.Time, eventType EventType, data any) Event {
	b.seq++
	ev := New(b.seq, at, eventType, data)
	for _, h := range b.subs {
		h(ev)
	}
	return ev
}

// Notify queues a notification for display.
func (b *Bus) Notify(at time.Time, text string, emphasis Emphasis) {
	if len(b.pending) >= b.limit {
		b.pending = b.pending[1:]
	}
	b.pending = append(b.pending, Notification{Text: text, Emphasis: emphasis, At: at})
}

// Drain returns queued notifications in FIFO order and empties the queue.
func (b *Bus) Drain() []Notification {
	if len(b.pending) == 0 {
		return nil
	}
	out := b.pending
	b.pending = nil
	return out
}

// Pending reports how many notifications are waiting.
func (b *Bus) Pending() int {
	return len(b.pending)
}

package bus

// Topic identifies one editable surface on the bus. The root package assigns
// one topic per surface; the bus itself treats topics as opaque.
type Topic uint8

// Handler is invoked when a change notification for its topic is delivered.
type Handler func()

// Bus routes change notifications from editable surfaces to registered
// handlers, with reentrant suppression: while a suppressed scope is active,
// writes still land on the surfaces but no handler runs. This is what breaks
// the feedback cycle when a handler rewrites the other surfaces.
//
// A Bus is not internally synchronized. All registration, notification, and
// suppression must happen under the owning session's lock.
type Bus struct {
	handlers map[Topic][]Handler
	depth    int
}

// New creates an empty Bus with no handlers and suppression disengaged.
func New() *Bus {
	return &Bus{
		handlers: make(map[Topic][]Handler),
	}
}

// Register attaches a handler to a topic. Multiple handlers per topic are
// delivered in registration order.
func (b *Bus) Register(t Topic, h Handler) {
	if h == nil {
		return
	}
	b.handlers[t] = append(b.handlers[t], h)
}

// Notify delivers a change notification for a topic. While suppression is
// engaged the notification is swallowed: the surface keeps its new value but
// no handler observes the write.
func (b *Bus) Notify(t Topic) {
	if b.depth > 0 {
		return
	}
	for _, h := range b.handlers[t] {
		h()
	}
}

// WithSuppressed runs fn with handler delivery disabled. Calls nest: delivery
// resumes only when the outermost scope exits. The counter is decremented on
// every exit path, including panics, so a failing handler can never leave the
// bus permanently disabled.
func (b *Bus) WithSuppressed(fn func()) {
	b.depth++
	defer func() {
		b.depth--
	}()
	fn()
}

// Suppressed reports whether a suppression scope is currently active.
func (b *Bus) Suppressed() bool {
	return b.depth > 0
}

// Package events provides the named publish/subscribe bus shared by a
// viewer, its control widgets and application code.
package events

// Command names fired by control widgets.
const (
	ZoomIn   = "zoom-in"
	ZoomOut  = "zoom-out"
	Reset    = "reset"
	Select   = "select"
	Pan      = "pan"
	BoxZoom  = "box-zoom"
	StepUp   = "step-up"
	StepDown = "step-down"
)

// Domain events fired by the viewer.
const (
	NodeMouseOver = "node-mouseover"
	NodeMouseOut  = "node-mouseout"
	NodeClick     = "node-click"
)

// Event is the payload passed to handlers.
// Commands carry DataIndex -1.
type Event struct {
	Name      string
	DataIndex int
}

// Handler receives fired events.
type Handler func(Event)

// Subscription identifies one registered handler.
type Subscription struct {
	name string
	id   uint64
}

// Name returns the event name the subscription listens on.
func (s Subscription) Name() string {
	return s.name
}

type entry struct {
	id uint64
	fn Handler
}

// Bus dispatches events synchronously in registration order.
// A Bus is not safe for concurrent use.
type Bus struct {
	handlers map[string][]entry
	nextID   uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]entry)}
}

// On registers fn for name.
func (b *Bus) On(name string, fn Handler) Subscription {
	b.nextID++
	b.handlers[name] = append(b.handlers[name], entry{id: b.nextID, fn: fn})
	return Subscription{name: name, id: b.nextID}
}

// Off removes a handler. Removing twice is a no-op.
func (b *Bus) Off(sub Subscription) {
	list := b.handlers[sub.name]
	for i, e := range list {
		if e.id == sub.id {
			// Copy so an in-flight Fire keeps iterating its own snapshot
			next := make([]entry, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			if len(next) == 0 {
				delete(b.handlers, sub.name)
			} else {
				b.handlers[sub.name] = next
			}
			return
		}
	}
}

// Fire invokes every handler registered for name.
// Firing a name with no listeners does nothing.
func (b *Bus) Fire(name string, ev Event) {
	ev.Name = name
	list := b.handlers[name]
	for _, e := range list {
		e.fn(ev)
	}
}

// Command fires a command event.
func (b *Bus) Command(name string) {
	b.Fire(name, Event{DataIndex: -1})
}

// Len returns the number of handlers registered for name.
func (b *Bus) Len(name string) int {
	return len(b.handlers[name])
}

package sim

// VTimeInSec is a time in the simulated space, in seconds.
type VTimeInSec float64

// An Event is something that happens at a future simulated time.
type Event interface {
	// Time returns when the event happens.
	Time() VTimeInSec

	// Handler returns the handler that handles the event.
	Handler() Handler

	// IsSecondary marks events that are handled after all the same-time
	// primary events.
	IsSecondary() bool
}

// EventBase carries the fields shared by all events.
type EventBase struct {
	ID        string
	time      VTimeInSec
	handler   Handler
	secondary bool
}

// NewEventBase creates an EventBase for a primary event.
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	return &EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// NewSecondaryEventBase creates an EventBase for a secondary event.
func NewSecondaryEventBase(t VTimeInSec, handler Handler) *EventBase {
	e := NewEventBase(t, handler)
	e.secondary = true

	return e
}

// Time returns when the event happens.
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// SetHandler sets the handler of the event.
//
// A component can only schedule events for itself, so the handler must be the
// component that schedules the event. The only exception is the kick starter
// of a simulation, which can schedule to any component.
func (e *EventBase) SetHandler(h Handler) {
	e.handler = h
}

// Handler returns the handler of the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary returns true for secondary events.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}

// A Handler handles events.
//
// An event belongs to exactly one handler. It can only be scheduled by that
// handler and may only directly modify that handler's state.
type Handler interface {
	Handle(e Event) error
}

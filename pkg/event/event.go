// Package event delivers typed messages through the entity tree.
//
// Events are queued and dispatched once per tick. Each event names a target
// and a propagation mode: direct (target only), ascending (target then each
// ancestor), descending (root down to the target) or subtree (target and
// its descendants in pre-order). Any handler may consume an event, which
// stops delivery to the remaining entities.
//
// Raw input from the windowing layer is translated into events here: pointer
// events are hit-tested against the last committed layout, keyboard events
// go to the focused entity, and the hover, active and focus pseudo-classes
// are kept up to date.
package event

import "github.com/go-drift/weft/pkg/entity"

// Propagation selects the entities an event visits.
type Propagation uint8

const (
	// Direct delivers to the target only.
	Direct Propagation = iota
	// Ascending delivers to the target, then each ancestor up to the root.
	Ascending
	// Descending delivers from the root down to the target.
	Descending
	// Subtree delivers to the target and its descendants in pre-order.
	Subtree
)

func (p Propagation) String() string {
	switch p {
	case Direct:
		return "direct"
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	case Subtree:
		return "subtree"
	default:
		return "unknown"
	}
}

// State is the lifecycle stage of an event.
type State uint8

const (
	Queued State = iota
	Dispatching
	Consumed
	Delivered
)

func (s State) String() string {
	switch s {
	case Queued:
		return "queued"
	case Dispatching:
		return "dispatching"
	case Consumed:
		return "consumed"
	case Delivered:
		return "delivered"
	default:
		return "unknown"
	}
}

// Event is a message travelling through the tree.
type Event struct {
	Message     any
	Target      entity.Entity
	Origin      entity.Entity
	Propagation Propagation

	state    State
	consumed bool
	current  entity.Entity
	visited  int
}

// New returns an ascending event from origin to itself.
func New(origin entity.Entity, msg any) *Event {
	return &Event{
		Message:     msg,
		Target:      origin,
		Origin:      origin,
		Propagation: Ascending,
	}
}

// To retargets the event.
func (ev *Event) To(target entity.Entity) *Event {
	ev.Target = target
	return ev
}

// With sets the propagation mode.
func (ev *Event) With(p Propagation) *Event {
	ev.Propagation = p
	return ev
}

// Consume stops delivery to any further entity.
func (ev *Event) Consume() { ev.consumed = true }

// IsConsumed reports whether a handler consumed the event.
func (ev *Event) IsConsumed() bool { return ev.consumed }

// State returns the lifecycle stage.
func (ev *Event) State() State { return ev.state }

// Current returns the entity whose handlers are running.
func (ev *Event) Current() entity.Entity { return ev.current }

// Visited returns the number of entities the event was delivered to.
func (ev *Event) Visited() int { return ev.visited }

// As returns the message as a T.
func As[T any](ev *Event) (T, bool) {
	m, ok := ev.Message.(T)
	return m, ok
}

// Map calls fn with the message when it is a T.
func Map[T any](ev *Event, fn func(msg T)) {
	if m, ok := ev.Message.(T); ok {
		fn(m)
	}
}

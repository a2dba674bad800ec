package event

import (
	"log/slog"
	"time"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/tree"
)

// DefaultDrainLimit bounds how many events one Dispatch call delivers.
const DefaultDrainLimit = 1024

// Handler receives events delivered to an entity.
type Handler interface {
	HandleEvent(d *Dispatcher, ev *Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(d *Dispatcher, ev *Event)

// HandleEvent calls f(d, ev).
func (f HandlerFunc) HandleEvent(d *Dispatcher, ev *Event) { f(d, ev) }

// Geometry is the committed layout the dispatcher hit-tests against.
type Geometry interface {
	Boxes
	HitTest(p layout.Offset, accept func(entity.Entity) bool) (entity.Entity, bool)
}

// Dispatcher owns the event queue and the per-entity handler table.
type Dispatcher struct {
	tree     *tree.Tree
	style    *style.Storage
	geometry Geometry
	focus    *FocusManager
	handler  errors.ErrorHandler
	logger   *slog.Logger

	// DrainLimit bounds deliveries per Dispatch. Events beyond it stay
	// queued for the next call.
	DrainLimit int
	scale      float64

	queue    Queue
	inputs   []Input
	handlers map[entity.Entity][]Handler

	hovered   []entity.Entity
	captured  map[int64]entity.Entity
	positions map[int64]layout.Offset
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithErrorHandler routes recovered handler panics to h.
func WithErrorHandler(h errors.ErrorHandler) Option {
	return func(d *Dispatcher) { d.handler = h }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithDrainLimit sets DrainLimit.
func WithDrainLimit(n int) Option {
	return func(d *Dispatcher) { d.DrainLimit = n }
}

// WithScale sets the device scale raw input coordinates are divided by.
func WithScale(scale float64) Option {
	return func(d *Dispatcher) {
		if scale > 0 {
			d.scale = scale
		}
	}
}

// NewDispatcher creates a dispatcher with its own focus manager.
func NewDispatcher(t *tree.Tree, s *style.Storage, g Geometry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		tree:       t,
		style:      s,
		geometry:   g,
		logger:     slog.Default(),
		DrainLimit: DefaultDrainLimit,
		scale:      1,
		handlers:   make(map[entity.Entity][]Handler),
		captured:   make(map[int64]entity.Entity),
		positions:  make(map[int64]layout.Offset),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.focus = NewFocusManager(t, s, g)
	d.focus.OnChange = d.focusChanged
	return d
}

// Focus returns the focus manager.
func (d *Dispatcher) Focus() *FocusManager { return d.focus }

// Listen adds h to the handlers of e. Handlers run in registration order.
func (d *Dispatcher) Listen(e entity.Entity, h Handler) {
	if !d.tree.Entities().IsAlive(e) {
		return
	}
	d.handlers[e] = append(d.handlers[e], h)
}

// ListenFunc adds fn to the handlers of e.
func (d *Dispatcher) ListenFunc(e entity.Entity, fn func(d *Dispatcher, ev *Event)) {
	d.Listen(e, HandlerFunc(fn))
}

// Emit queues ev for the next Dispatch.
func (d *Dispatcher) Emit(ev *Event) {
	ev.state = Queued
	ev.consumed = false
	d.queue.Push(ev)
}

// Send queues an ascending event from origin carrying msg.
func (d *Dispatcher) Send(origin entity.Entity, msg any) {
	d.Emit(New(origin, msg))
}

// Pending returns the number of queued events and buffered inputs.
func (d *Dispatcher) Pending() int { return d.queue.Len() + len(d.inputs) }

// Dispatch translates buffered raw input and then delivers queued events
// in FIFO order, including events emitted by handlers during the drain,
// until the queue is empty or DrainLimit events were delivered. It returns
// the number of events delivered.
func (d *Dispatcher) Dispatch() int {
	inputs := d.inputs
	d.inputs = nil
	for _, in := range inputs {
		d.translate(in)
	}

	limit := d.DrainLimit
	if limit <= 0 {
		limit = DefaultDrainLimit
	}
	start := time.Now()
	n := 0
	for n < limit {
		ev, ok := d.queue.Pop()
		if !ok {
			break
		}
		d.Deliver(ev)
		n++
	}
	if d.queue.Len() > 0 {
		d.logger.Warn("event drain limit reached",
			"delivered", n,
			"pending", d.queue.Len(),
		)
	}
	if n > 0 {
		d.logger.Debug("events dispatched", "count", n, "duration", time.Since(start))
	}
	return n
}

// Deliver runs ev through the tree immediately, bypassing the queue.
func (d *Dispatcher) Deliver(ev *Event) {
	ev.state = Dispatching
	ev.visited = 0
	if !d.tree.Entities().IsAlive(ev.Target) {
		ev.state = Delivered
		return
	}
	for _, e := range d.path(ev) {
		if !d.tree.Entities().IsAlive(e) {
			continue
		}
		d.visit(e, ev)
		if ev.consumed {
			break
		}
	}
	ev.current = entity.Null
	d.after(ev)
	if ev.consumed {
		ev.state = Consumed
	} else {
		ev.state = Delivered
	}
}

func (d *Dispatcher) path(ev *Event) []entity.Entity {
	switch ev.Propagation {
	case Ascending:
		path := []entity.Entity{ev.Target}
		for a := range d.tree.Ancestors(ev.Target) {
			path = append(path, a)
		}
		return path
	case Descending:
		path := []entity.Entity{ev.Target}
		for a := range d.tree.Ancestors(ev.Target) {
			path = append(path, a)
		}
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		return path
	case Subtree:
		return d.tree.PreOrder(ev.Target).Collect()
	default:
		return []entity.Entity{ev.Target}
	}
}

func (d *Dispatcher) visit(e entity.Entity, ev *Event) {
	hs := d.handlers[e]
	if len(hs) == 0 {
		return
	}
	ev.current = e
	ev.visited++
	for _, h := range hs {
		d.call(h, ev)
		if ev.consumed {
			return
		}
	}
}

func (d *Dispatcher) call(h Handler, ev *Event) {
	defer errors.RecoverTo(d.handler, "event.handle")
	h.HandleEvent(d, ev)
}

// after runs default actions for keyboard events nobody consumed.
func (d *Dispatcher) after(ev *Event) {
	if ev.consumed {
		return
	}
	key, ok := ev.Message.(KeyPressed)
	if !ok {
		return
	}
	switch key.Key {
	case KeyTab:
		if key.Modifiers&ModShift != 0 {
			d.focus.Previous()
		} else {
			d.focus.Next()
		}
	case KeyArrowUp:
		d.focus.MoveInDirection(DirectionUp)
	case KeyArrowDown:
		d.focus.MoveInDirection(DirectionDown)
	case KeyArrowLeft:
		d.focus.MoveInDirection(DirectionLeft)
	case KeyArrowRight:
		d.focus.MoveInDirection(DirectionRight)
	}
}

func (d *Dispatcher) focusChanged(from, to entity.Entity) {
	if d.tree.Entities().IsAlive(from) {
		d.Emit(New(from, FocusLost{}).With(Direct))
	}
	if !to.IsNull() {
		d.Emit(New(to, FocusGained{}).With(Direct))
	}
}

// RemoveEntity drops the handlers and input state of e.
func (d *Dispatcher) RemoveEntity(e entity.Entity) {
	delete(d.handlers, e)
	d.focus.Forget(e)
	for id, c := range d.captured {
		if c == e {
			delete(d.captured, id)
		}
	}
	for i, h := range d.hovered {
		if h == e {
			d.hovered = d.hovered[:i]
			break
		}
	}
}

// Hovered returns the hovered entity, or entity.Null.
func (d *Dispatcher) Hovered() entity.Entity {
	if len(d.hovered) == 0 {
		return entity.Null
	}
	return d.hovered[len(d.hovered)-1]
}

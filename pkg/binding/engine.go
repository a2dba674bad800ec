package binding

import (
	"log/slog"
	"slices"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
)

// DefaultMaxPasses bounds the reactive passes of one Flush.
const DefaultMaxPasses = 32

// Binding is a live link between a lens on a model and a rebuild closure
// owned by an entity.
type Binding struct {
	engine  *Engine
	entity  entity.Entity
	source  source
	lens    string
	poll    func() bool
	fire    func()
	resync  func()
	removed bool
	cycled  bool
}

// Entity returns the entity that owns b.
func (b *Binding) Entity() entity.Entity { return b.entity }

// Lens returns the name of the observed lens.
func (b *Binding) Lens() string { return b.lens }

// Active reports whether b is still registered.
func (b *Binding) Active() bool { return !b.removed }

// Unbind removes b from its engine.
func (b *Binding) Unbind() {
	if b.removed {
		return
	}
	b.engine.remove(b)
}

// BindOption configures a binding.
type BindOption func(*bindConfig)

type bindConfig struct {
	immediate bool
}

// Immediate runs the rebuild closure once at registration with the current
// value, when present.
func Immediate() BindOption {
	return func(c *bindConfig) { c.immediate = true }
}

// Engine owns every binding of a context and runs reactive passes.
type Engine struct {
	// MaxPasses bounds how many passes one Flush may run before it gives up
	// and reports a cycle.
	MaxPasses int

	bindings []*Binding
	byEntity map[entity.Entity][]*Binding
	dirty    map[source]bool

	alive    func(entity.Entity) bool
	handler  errors.ErrorHandler
	logger   *slog.Logger
	current  *Binding
	flushing bool
	fired    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxPasses overrides DefaultMaxPasses.
func WithMaxPasses(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.MaxPasses = n
		}
	}
}

// WithErrorHandler routes cycle reports and rebuild panics to h.
func WithErrorHandler(h errors.ErrorHandler) Option {
	return func(e *Engine) { e.handler = h }
}

// WithLiveness sets the check used to skip bindings of destroyed entities.
func WithLiveness(alive func(entity.Entity) bool) Option {
	return func(e *Engine) { e.alive = alive }
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an empty engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		MaxPasses: DefaultMaxPasses,
		byEntity:  make(map[entity.Entity][]*Binding),
		dirty:     make(map[source]bool),
		alive:     func(entity.Entity) bool { return true },
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bind registers a binding of lens l over model m for entity e. The current
// observation is stored as the first snapshot; rebuild is called on later
// flushes whenever the observation changes. ok is false when the target is
// absent.
func Bind[M, T any](eng *Engine, m *Model[M], e entity.Entity, l Lens[M, T], rebuild func(v T, ok bool), opts ...BindOption) *Binding {
	var cfg bindConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	last, lastOK := l.Get(m.Get())
	b := &Binding{engine: eng, entity: e, source: m, lens: l.Name()}
	b.poll = func() bool {
		v, ok := l.Get(m.Get())
		if sameOptional(last, lastOK, v, ok) {
			return false
		}
		last, lastOK = v, ok
		return true
	}
	b.fire = func() { rebuild(last, lastOK) }
	b.resync = func() { last, lastOK = l.Get(m.Get()) }

	eng.bindings = append(eng.bindings, b)
	eng.byEntity[e] = append(eng.byEntity[e], b)

	if cfg.immediate && lastOK {
		eng.run(b)
	}
	return b
}

// Len returns the number of registered bindings.
func (e *Engine) Len() int { return len(e.bindings) }

// Bindings returns the bindings owned by ent.
func (e *Engine) Bindings(ent entity.Entity) []*Binding {
	return slices.Clone(e.byEntity[ent])
}

// Pending reports whether any observed model changed since the last Flush.
func (e *Engine) Pending() bool { return len(e.dirty) > 0 }

// Fired returns the total number of rebuild invocations.
func (e *Engine) Fired() int { return e.fired }

func (e *Engine) markDirty(s source) {
	e.dirty[s] = true
	if b := e.current; b != nil && b.source == s {
		b.cycled = true
	}
}

// Flush runs reactive passes until no observed model is dirty. Each pass
// snapshots the bindings observing dirty models before polling, so bindings
// created by rebuild closures are first polled in the next pass and
// bindings of entities destroyed mid-pass are skipped. A binding fires at
// most once per pass. Flush returns the number of rebuilds run.
func (e *Engine) Flush() int {
	if e.flushing {
		return 0
	}
	e.flushing = true
	defer func() { e.flushing = false }()

	muted := make(map[*Binding]bool)
	fired := 0
	var last *Binding
	for pass := 1; len(e.dirty) > 0; pass++ {
		if pass > e.MaxPasses {
			e.reportCycle(last, pass-1)
			clear(e.dirty)
			break
		}
		dirty := e.dirty
		e.dirty = make(map[source]bool)

		var snapshot []*Binding
		for _, b := range e.bindings {
			if dirty[b.source] {
				snapshot = append(snapshot, b)
			}
		}

		for _, b := range snapshot {
			if b.removed || muted[b] || !e.alive(b.entity) {
				continue
			}
			if !b.poll() {
				continue
			}
			e.run(b)
			fired++
			last = b
			if b.cycled {
				// A write back to the source only loops when it changes
				// what the binding observes.
				b.cycled = false
				if b.poll() {
					muted[b] = true
					b.resync()
					e.reportCycle(b, pass)
				}
			}
		}
	}
	return fired
}

func (e *Engine) run(b *Binding) {
	prev := e.current
	e.current = b
	defer func() { e.current = prev }()
	defer errors.RecoverTo(e.handler, "binding.rebuild")
	e.fired++
	b.fire()
}

func (e *Engine) reportCycle(b *Binding, passes int) {
	cycle := &errors.BindingCycleError{Passes: passes}
	if b != nil {
		cycle.Entity = b.entity
		cycle.Lens = b.lens
	}
	e.logger.Debug("binding cycle", "entity", cycle.Entity, "lens", cycle.Lens, "passes", passes)
	errors.ReportTo(e.handler, &errors.WeftError{
		Op:     "binding.Flush",
		Kind:   errors.KindBindingCycle,
		Err:    cycle,
		Entity: cycle.Entity,
	})
}

// RemoveEntity drops every binding owned by ent.
func (e *Engine) RemoveEntity(ent entity.Entity) {
	owned := e.byEntity[ent]
	if len(owned) == 0 {
		return
	}
	delete(e.byEntity, ent)
	for _, b := range owned {
		b.removed = true
	}
	e.bindings = slices.DeleteFunc(e.bindings, func(b *Binding) bool { return b.removed })
}

func (e *Engine) remove(b *Binding) {
	b.removed = true
	e.bindings = slices.DeleteFunc(e.bindings, func(x *Binding) bool { return x == b })
	owned := slices.DeleteFunc(e.byEntity[b.entity], func(x *Binding) bool { return x == b })
	if len(owned) == 0 {
		delete(e.byEntity, b.entity)
	} else {
		e.byEntity[b.entity] = owned
	}
}

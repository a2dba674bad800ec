package binding

// source is the type-erased view of a Model held by the engine.
type source interface {
	Version() uint64
}

// Model holds application data observed by bindings. Every mutation bumps
// the version and schedules the bindings that observe it for the next flush.
//
// Model is not safe for concurrent use. Mutate it on the UI goroutine, or
// hand the mutation to the context's proxy from other goroutines.
type Model[M any] struct {
	engine  *Engine
	value   M
	version uint64
}

// NewModel creates a model observed through e.
func NewModel[M any](e *Engine, initial M) *Model[M] {
	return &Model[M]{engine: e, value: initial}
}

// Get returns the current value.
func (m *Model[M]) Get() M {
	return m.value
}

// Set replaces the value.
func (m *Model[M]) Set(v M) {
	m.value = v
	m.changed()
}

// Update mutates the value in place.
func (m *Model[M]) Update(fn func(*M)) {
	fn(&m.value)
	m.changed()
}

// Version counts mutations since creation.
func (m *Model[M]) Version() uint64 {
	return m.version
}

func (m *Model[M]) changed() {
	m.version++
	if m.engine != nil {
		m.engine.markDirty(m)
	}
}

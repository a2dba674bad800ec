package binding

import "github.com/go-drift/weft/pkg/entity"

// Res is a value that is either fixed or read from a model.
type Res[T any] interface {
	apply(eng *Engine, e entity.Entity, set func(T)) *Binding
}

type constRes[T any] struct{ v T }

func (c constRes[T]) apply(_ *Engine, _ entity.Entity, set func(T)) *Binding {
	set(c.v)
	return nil
}

type boundRes[M, T any] struct {
	model *Model[M]
	lens  Lens[M, T]
}

func (r boundRes[M, T]) apply(eng *Engine, e entity.Entity, set func(T)) *Binding {
	return Bind(eng, r.model, e, r.lens, func(v T, ok bool) {
		if ok {
			set(v)
		}
	}, Immediate())
}

// Const returns a fixed value.
func Const[T any](v T) Res[T] { return constRes[T]{v: v} }

// Bound returns a value read through l from m.
func Bound[M, T any](m *Model[M], l Lens[M, T]) Res[T] {
	return boundRes[M, T]{model: m, lens: l}
}

// Apply calls set with the current value of r. For bound values it also
// installs a binding that calls set again whenever the value changes, and
// returns it.
func Apply[T any](eng *Engine, e entity.Entity, r Res[T], set func(T)) *Binding {
	return r.apply(eng, e, set)
}

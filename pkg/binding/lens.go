// Package binding connects model data to entities.
//
// A [Lens] is a pure accessor into a model value. A [Binding] ties a lens to
// an entity together with a rebuild closure; the [Engine] re-reads every
// binding whose model changed and calls the closure only when the observed
// value is no longer [Same] as the previous observation.
package binding

import "strconv"

// Lens reads a target value out of a model. Get must be pure and cheap. The
// boolean result is false when the target is absent, for example an
// out-of-range index or a nil pointer along the path.
type Lens[M, T any] interface {
	Name() string
	Get(model M) (T, bool)
}

type funcLens[M, T any] struct {
	name string
	get  func(M) (T, bool)
}

func (l funcLens[M, T]) Name() string          { return l.name }
func (l funcLens[M, T]) Get(model M) (T, bool) { return l.get(model) }

// Identity returns a lens that yields the whole model.
func Identity[M any]() Lens[M, M] {
	return funcLens[M, M]{name: "$", get: func(m M) (M, bool) { return m, true }}
}

// Func returns a lens computing a value that is always present.
func Func[M, T any](name string, get func(M) T) Lens[M, T] {
	return funcLens[M, T]{name: name, get: func(m M) (T, bool) { return get(m), true }}
}

// Field returns a lens selecting a struct field.
func Field[M, T any](name string, get func(M) T) Lens[M, T] {
	return Func(name, get)
}

// Maybe returns a lens whose target may be absent.
func Maybe[M, T any](name string, get func(M) (T, bool)) Lens[M, T] {
	return funcLens[M, T]{name: name, get: get}
}

// Then composes two lenses. The result is absent when either step is.
func Then[A, B, C any](first Lens[A, B], second Lens[B, C]) Lens[A, C] {
	return funcLens[A, C]{
		name: first.Name() + "." + second.Name(),
		get: func(a A) (C, bool) {
			b, ok := first.Get(a)
			if !ok {
				var zero C
				return zero, false
			}
			return second.Get(b)
		},
	}
}

// Map transforms the target of l.
func Map[M, T, U any](l Lens[M, T], f func(T) U) Lens[M, U] {
	return funcLens[M, U]{
		name: l.Name() + ".map",
		get: func(m M) (U, bool) {
			v, ok := l.Get(m)
			if !ok {
				var zero U
				return zero, false
			}
			return f(v), true
		},
	}
}

// Index selects element i of a slice. It is absent when i is out of range.
func Index[M, T any](l Lens[M, []T], i int) Lens[M, T] {
	return funcLens[M, T]{
		name: l.Name() + "[" + strconv.Itoa(i) + "]",
		get: func(m M) (T, bool) {
			s, ok := l.Get(m)
			if !ok || i < 0 || i >= len(s) {
				var zero T
				return zero, false
			}
			return s[i], true
		},
	}
}

// Key selects a map entry. It is absent when the key is missing.
func Key[M any, K comparable, V any](l Lens[M, map[K]V], key K) Lens[M, V] {
	return funcLens[M, V]{
		name: l.Name() + "[key]",
		get: func(m M) (V, bool) {
			mp, ok := l.Get(m)
			if !ok {
				var zero V
				return zero, false
			}
			v, ok := mp[key]
			return v, ok
		},
	}
}

// Deref follows a pointer. It is absent on nil.
func Deref[M, T any](l Lens[M, *T]) Lens[M, T] {
	return funcLens[M, T]{
		name: l.Name() + ".*",
		get: func(m M) (T, bool) {
			p, ok := l.Get(m)
			if !ok || p == nil {
				var zero T
				return zero, false
			}
			return *p, true
		},
	}
}

// Len observes the length of a slice, so a binding on it fires once per
// length change rather than once per element.
func Len[M, T any](l Lens[M, []T]) Lens[M, int] {
	return funcLens[M, int]{
		name: l.Name() + ".len",
		get: func(m M) (int, bool) {
			s, ok := l.Get(m)
			if !ok {
				return 0, false
			}
			return len(s), true
		},
	}
}

package binding

import "reflect"

// Data lets a type decide when two of its values are the same for binding
// purposes. Large containers may implement a cheap approximation, for
// example comparing a revision counter instead of every element; a binding
// over such a type then fires only when that approximation changes.
type Data[T any] interface {
	Same(other T) bool
}

// Same reports whether a and b are the same value. It uses [Data] when T
// implements it, == for scalar kinds, and reflect.DeepEqual otherwise.
func Same[T any](a, b T) bool {
	if d, ok := any(a).(Data[T]); ok {
		return d.Same(b)
	}
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return any(a) == any(b)
	}
	return reflect.DeepEqual(a, b)
}

// sameOptional compares two lens observations including presence.
func sameOptional[T any](a T, aok bool, b T, bok bool) bool {
	if aok != bok {
		return false
	}
	return !aok || Same(a, b)
}

package animation

// Tween interpolates between Begin and End values based on animation progress.
//
// Tween maps eased progress in [0, 1] to any value type through Lerp.
type Tween[T any] struct {
	// Begin is the starting value (when t = 0).
	Begin T
	// End is the ending value (when t = 1).
	End T
	// Lerp linearly interpolates between Begin and End. Receives the begin value,
	// end value, and progress t in [0, 1]. Returns the interpolated value.
	Lerp func(a, b T, t float64) T
}

// Evaluate returns the interpolated value at t (0.0 to 1.0).
func (tw *Tween[T]) Evaluate(t float64) T {
	if tw.Lerp == nil {
		if t < 1 {
			return tw.Begin
		}
		return tw.End
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// LerpInt interpolates between two ints, rounding to the nearest.
func LerpInt(a, b int, t float64) int {
	v := LerpFloat64(float64(a), float64(b), t)
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// TweenFloat64 creates a tween for float64 values.
func TweenFloat64(begin, end float64) *Tween[float64] {
	return &Tween[float64]{
		Begin: begin,
		End:   end,
		Lerp:  LerpFloat64,
	}
}

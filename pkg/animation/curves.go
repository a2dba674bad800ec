package animation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tanema/gween/ease"
)

// Easing curves transform linear animation progress into natural-feeling motion.
//
// Each curve is a function that takes a value t in [0, 1] and returns a
// transformed value. [ParseEasing] turns a stylesheet easing keyword into a
// gween [ease.TweenFunc] so tracks can drive it.
//
// Standard curves: [LinearCurve], [Ease], [EaseIn], [EaseOut], [EaseInOut].
// Use [CubicBezier] to create custom curves matching CSS cubic-bezier().

// LinearCurve returns linear progress (no easing).
func LinearCurve(t float64) float64 {
	return t
}

// Ease is a standard cubic bezier curve for general-purpose easing.
// Equivalent to CSS ease.
var Ease = CubicBezier(0.25, 0.1, 0.25, 1.0)

// EaseIn starts slowly and accelerates. Use for elements exiting the screen.
// Equivalent to CSS ease-in.
var EaseIn = CubicBezier(0.4, 0.0, 1.0, 1.0)

// EaseOut starts quickly and decelerates. Use for elements entering the screen.
// Equivalent to CSS ease-out.
var EaseOut = CubicBezier(0.0, 0.0, 0.2, 1.0)

// EaseInOut starts and ends slowly with acceleration in the middle.
// Use for elements that stay on screen but change state.
// Equivalent to CSS ease-in-out.
var EaseInOut = CubicBezier(0.4, 0.0, 0.2, 1.0)

// CubicBezier returns a cubic-bezier easing function matching CSS cubic-bezier().
// The parameters define the two control points (x1,y1) and (x2,y2) of the curve.
// The curve starts at (0,0) and ends at (1,1).
func CubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		u := t
		// Newton-Raphson converges quickly for most values.
		for range 8 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sampleCurve(y1, y2, clampUnit(u))
			}
			dx := sampleCurveDerivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Fallback to bisection to guarantee a stable solution in [0,1].
		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for range 12 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) * 0.5
		}

		return sampleCurve(y1, y2, u)
	}
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

// Curve adapts a unit curve to gween's easing signature.
func Curve(curve func(float64) float64) ease.TweenFunc {
	return func(t, b, c, d float32) float32 {
		if d <= 0 {
			return b + c
		}
		return b + c*float32(curve(float64(t/d)))
	}
}

// gweenEasings maps stylesheet keywords onto gween's easing functions.
var gweenEasings = map[string]ease.TweenFunc{
	"in-quad":        ease.InQuad,
	"out-quad":       ease.OutQuad,
	"in-out-quad":    ease.InOutQuad,
	"in-cubic":       ease.InCubic,
	"out-cubic":      ease.OutCubic,
	"in-out-cubic":   ease.InOutCubic,
	"in-sine":        ease.InSine,
	"out-sine":       ease.OutSine,
	"in-out-sine":    ease.InOutSine,
	"in-expo":        ease.InExpo,
	"out-expo":       ease.OutExpo,
	"in-out-expo":    ease.InOutExpo,
	"in-back":        ease.InBack,
	"out-back":       ease.OutBack,
	"in-out-back":    ease.InOutBack,
	"out-bounce":     ease.OutBounce,
	"in-elastic":     ease.InElastic,
	"out-elastic":    ease.OutElastic,
	"in-out-elastic": ease.InOutElastic,
}

// ParseEasing resolves an easing keyword: the CSS names (linear, ease,
// ease-in, ease-out, ease-in-out), cubic-bezier(x1, y1, x2, y2), or one of
// gween's curves spelled in-quad, out-bounce, in-out-elastic and so on.
func ParseEasing(name string) (ease.TweenFunc, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "linear":
		return ease.Linear, nil
	case "ease":
		return Curve(Ease), nil
	case "ease-in":
		return Curve(EaseIn), nil
	case "ease-out":
		return Curve(EaseOut), nil
	case "ease-in-out":
		return Curve(EaseInOut), nil
	}
	if fn, ok := gweenEasings[name]; ok {
		return fn, nil
	}
	if strings.HasPrefix(name, "cubic-bezier(") && strings.HasSuffix(name, ")") {
		parts := strings.Split(name[len("cubic-bezier("):len(name)-1], ",")
		if len(parts) != 4 {
			return nil, fmt.Errorf("cubic-bezier needs 4 arguments, got %d", len(parts))
		}
		var p [4]float64
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid cubic-bezier argument %q", part)
			}
			p[i] = v
		}
		return Curve(CubicBezier(p[0], p[1], p[2], p[3])), nil
	}
	return nil, fmt.Errorf("unknown easing %q", name)
}

package style

import (
	"fmt"
	"strings"
)

// GradientDirection is the direction of a linear gradient.
type GradientDirection uint8

const (
	LeftToRight GradientDirection = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

// GradientStop is a color at a position along the gradient line.
type GradientStop struct {
	Position Units
	Color    Color
}

// LinearGradient describes a background-image gradient.
type LinearGradient struct {
	Direction GradientDirection
	Stops     []GradientStop
}

// NormalizedStops resolves stop positions against length and returns them as
// fractions in [0, 1]. Stops without a position are spread evenly.
func (g LinearGradient) NormalizedStops(length float64) []float64 {
	out := make([]float64, len(g.Stops))
	for i, stop := range g.Stops {
		fallback := 0.0
		if len(g.Stops) > 1 {
			fallback = float64(i) / float64(len(g.Stops)-1)
		}
		if length <= 0 || stop.Position.IsAuto() || stop.Position.Kind == Stretch {
			out[i] = fallback
			continue
		}
		out[i] = min(max(stop.Position.ValueOr(length, 0)/length, 0), 1)
	}
	return out
}

var gradientDirections = map[string]GradientDirection{
	"to right":  LeftToRight,
	"to left":   RightToLeft,
	"to bottom": TopToBottom,
	"to top":    BottomToTop,
}

// ParseLinearGradient parses linear-gradient([direction,] color [pos], ...).
func ParseLinearGradient(s string) (LinearGradient, error) {
	args, ok := functionArgs(strings.TrimSpace(s), "linear-gradient")
	if !ok {
		return LinearGradient{}, fmt.Errorf("expected linear-gradient(...), got %q", s)
	}
	g := LinearGradient{Direction: LeftToRight}
	if len(args) > 0 {
		if dir, ok := gradientDirections[strings.ToLower(args[0])]; ok {
			g.Direction = dir
			args = args[1:]
		}
	}
	if len(args) < 2 {
		return LinearGradient{}, fmt.Errorf("linear-gradient needs at least two stops")
	}
	for _, arg := range args {
		colorText, posText := arg, ""
		if i := strings.LastIndexByte(arg, ' '); i > 0 && !strings.HasSuffix(arg, ")") {
			colorText, posText = strings.TrimSpace(arg[:i]), arg[i+1:]
		}
		c, err := ParseColor(colorText)
		if err != nil {
			return LinearGradient{}, err
		}
		stop := GradientStop{Color: c}
		if posText != "" {
			if stop.Position, err = ParseUnits(posText); err != nil {
				return LinearGradient{}, err
			}
		}
		g.Stops = append(g.Stops, stop)
	}
	return g, nil
}

package animation_test

import (
	"fmt"
	"time"

	"github.com/go-drift/weft/pkg/animation"
)

// This example drives a color-agnostic value with a track and a tween.
func ExampleTrack() {
	width := animation.TweenFloat64(100, 200)
	var current float64

	easing, _ := animation.ParseEasing("linear")
	track := animation.NewTrack(400*time.Millisecond, 0, easing, func(t float64) {
		current = width.Evaluate(t)
	})

	for range 4 {
		track.Advance(100 * time.Millisecond)
		fmt.Printf("%.0f %s\n", current, track.Status())
	}
	// Output:
	// 125 running
	// 150 running
	// 175 running
	// 200 completed
}

// This example shows how a timeline replaces a running track for the same key.
func ExampleTimeline() {
	tl := animation.NewTimeline[string]()
	var opacity float64
	tl.Start("opacity", animation.NewTrack(time.Second, 0, nil, func(t float64) { opacity = t }))
	tl.Step(500 * time.Millisecond)

	// Restart toward a new target; the first track is cancelled.
	from := opacity
	tl.Start("opacity", animation.NewTrack(time.Second, 0, nil, func(t float64) {
		opacity = animation.LerpFloat64(from, 0, t)
	}))
	tl.Step(time.Second)
	fmt.Printf("%.1f active=%d\n", opacity, tl.Active())
	// Output: 0.0 active=0
}

// This example shows how to create a custom curve matching CSS cubic-bezier().
func ExampleCubicBezier() {
	curve := animation.CubicBezier(0.25, 0.1, 0.25, 1.0)
	fmt.Printf("%.2f %.2f\n", curve(0), curve(1))
	// Output: 0.00 1.00
}

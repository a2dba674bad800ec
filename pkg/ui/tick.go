package ui

import (
	"time"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/style"
)

// Tick runs one frame. The passes run in a fixed order and none of them
// sees work produced by a later pass of the same tick:
//
//  0. drain the proxy, dispatch queued events and input, flush bindings
//  1. cascade style to a fixed point
//  2. lay out the relayout boundaries the cascade and tree edits dirtied
//  3. advance animations, marking animated entities for the next cascade
//  4. push accessibility changes to the sink
//
// It returns the trace sample recorded for the frame.
func (cx *Context) Tick(dt time.Duration) FrameSample {
	start := time.Now()
	sample := FrameSample{Frame: cx.frame + 1, Timestamp: start.UnixMilli()}
	phase := start
	lap := func() float64 {
		now := time.Now()
		ms := durationToMillis(now.Sub(phase))
		phase = now
		return ms
	}

	sample.Counts.Proxied = cx.drainProxy()
	sample.Phases.ProxyMs = lap()

	sample.Counts.Events = cx.events.Dispatch()
	sample.Phases.DispatchMs = lap()

	sample.Counts.Bindings = cx.bindings.Flush()
	sample.Phases.BindingsMs = lap()

	relayout := cx.style.Cascade(cx.tree.Root())
	for _, e := range relayout {
		cx.layout.MarkNeedsLayout(e)
	}
	sample.Counts.Restyled = len(cx.style.Restyled())
	sample.Counts.Relayout = len(relayout)
	sample.Phases.CascadeMs = lap()

	changed := cx.layout.Layout()
	sample.Counts.LayoutChanged = len(changed)
	for _, e := range changed {
		if l, ok := cx.views[e].(Layouter); ok {
			box, _ := cx.layout.Box(e)
			cx.layoutChanged(l, e, box)
		}
	}
	sample.Phases.LayoutMs = lap()

	sample.Counts.Animated = len(cx.style.StepAnimations(dt))
	sample.Phases.AnimateMs = lap()

	if u, err := cx.a11y.Sync(); err != nil {
		cx.logger.Warn("accessibility sync failed", "error", err)
	} else if u != nil {
		cx.lastUpdate = u
		sample.Counts.A11yNodes = len(u.Nodes)
	}
	sample.Phases.AccessibilityMs = lap()

	sample.Counts.Entities = cx.entities.Len()
	frameDuration := time.Since(start)
	sample.FrameMs = durationToMillis(frameDuration)
	cx.trace.Add(sample, frameDuration)
	cx.frame++
	return sample
}

func (cx *Context) drainProxy() int {
	items := cx.proxy.drain()
	for _, it := range items {
		if it.ev != nil {
			cx.events.Emit(it.ev)
			continue
		}
		cx.runProxied(it.fn)
	}
	return len(items)
}

func (cx *Context) runProxied(fn func(*Context)) {
	defer errors.RecoverTo(cx.handler, "ui.proxy")
	fn(cx)
}

func (cx *Context) layoutChanged(l Layouter, e entity.Entity, box layout.Rect) {
	defer errors.RecoverTo(cx.handler, "ui.layout-changed")
	l.LayoutChanged(cx, e, box)
}

func (cx *Context) build(b Builder, e entity.Entity) {
	defer errors.RecoverTo(cx.handler, "ui.build")
	b.Build(cx, e)
}

func (cx *Context) paintOne(p Painter, fn PaintFunc, e entity.Entity, s style.Resolved, box layout.Rect) {
	defer errors.RecoverTo(cx.handler, "ui.paint")
	if p != nil {
		p.Paint(cx, e, s, box)
	}
	if fn != nil {
		fn(e, s, box)
	}
}

// Idle reports whether a tick would have nothing to do.
func (cx *Context) Idle() bool {
	return cx.proxy.Len() == 0 &&
		cx.events.Pending() == 0 &&
		!cx.bindings.Pending() &&
		!cx.style.NeedsRestyle() &&
		!cx.layout.NeedsLayout() &&
		!cx.style.Animating()
}

// Settle ticks with step until the context is idle or maxTicks ticks ran.
// It returns the number of ticks.
func (cx *Context) Settle(step time.Duration, maxTicks int) int {
	n := 0
	for n < maxTicks {
		cx.Tick(step)
		n++
		if cx.Idle() {
			break
		}
	}
	return n
}

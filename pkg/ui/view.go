package ui

import (
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/event"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/style"
)

// View is the per-entity behavior attached by Add. Views may also
// implement EventHandler, Builder, Layouter and Painter.
type View interface {
	// Element is the name matched by type selectors.
	Element() string
}

// EventHandler receives events delivered to the view's entity.
type EventHandler interface {
	HandleEvent(cx *Context, ev *event.Event)
}

// Builder creates the view's children when it is added.
type Builder interface {
	Build(cx *Context, e entity.Entity)
}

// Layouter is told when the view's box changes.
type Layouter interface {
	LayoutChanged(cx *Context, e entity.Entity, box layout.Rect)
}

// Painter draws the view. It is called in paint order.
type Painter interface {
	Paint(cx *Context, e entity.Entity, s style.Resolved, box layout.Rect)
}

// Element is a View with only an element name.
type Element string

// Element returns the element name.
func (e Element) Element() string { return string(e) }

// PaintFunc receives every painted entity with its resolved style and box.
type PaintFunc func(e entity.Entity, s style.Resolved, box layout.Rect)

// Paint walks the committed layout back to front. Entities that are
// invisible, fully transparent or have an empty box are skipped. Views
// implementing Painter are called first, then fn when it is not nil. It
// returns the number of painted entities. A panic in either is reported
// and the walk continues with the next entity.
func (cx *Context) Paint(fn PaintFunc) int {
	n := 0
	for _, e := range cx.layout.PaintOrder() {
		box, ok := cx.layout.Box(e)
		if !ok || box.IsEmpty() {
			continue
		}
		s := cx.style.Resolve(e)
		if s.Visibility == style.Hidden || s.Opacity <= 0 {
			continue
		}
		p, _ := cx.views[e].(Painter)
		cx.paintOne(p, fn, e, s, box)
		n++
	}
	return n
}

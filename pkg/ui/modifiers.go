package ui

import (
	"time"

	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/event"
	"github.com/go-drift/weft/pkg/style"
)

// SetOrBind calls set with the value of r. When r is bound to a model it
// also installs a binding on e that calls set again on every change.
func SetOrBind[T any](cx *Context, e entity.Entity, r binding.Res[T], set func(T)) *binding.Binding {
	return binding.Apply(cx.bindings, e, r, set)
}

// Animate moves p's inline value on e to `to` with the context's default
// transition.
func Animate[T any](cx *Context, p *style.Property[T], e entity.Entity, to T) {
	p.Animate(e, to, cx.transition)
}

// Rebuild calls build for parent now and again, after removing parent's
// children, whenever the value seen through l changes.
func Rebuild[M, T any](cx *Context, parent entity.Entity, m *binding.Model[M], l binding.Lens[M, T], build func(cx *Context, parent entity.Entity, v T, ok bool)) *binding.Binding {
	v, ok := l.Get(m.Get())
	build(cx, parent, v, ok)
	return binding.Bind(cx.bindings, m, parent, l, func(v T, ok bool) {
		cx.RemoveChildren(parent)
		build(cx, parent, v, ok)
	})
}

// Handle applies modifiers to one entity. Every method returns the handle
// so calls chain.
type Handle struct {
	cx *Context
	e  entity.Entity
}

// With returns a handle for e.
func (cx *Context) With(e entity.Entity) Handle { return Handle{cx: cx, e: e} }

// Child adds v under parent and returns its handle.
func (cx *Context) Child(parent entity.Entity, v View) Handle {
	return cx.With(cx.Add(parent, v))
}

// Entity returns the entity.
func (h Handle) Entity() entity.Entity { return h.e }

// Context returns the owning context.
func (h Handle) Context() *Context { return h.cx }

// ID sets the #id used by selectors and labelled-by references.
func (h Handle) ID(id string) Handle {
	h.cx.style.SetID(h.e, id)
	return h
}

// Class adds style classes.
func (h Handle) Class(names ...string) Handle {
	for _, n := range names {
		h.cx.style.AddClass(h.e, n)
	}
	return h
}

// ToggleClass adds or removes a class following on.
func (h Handle) ToggleClass(name string, on binding.Res[bool]) Handle {
	SetOrBind(h.cx, h.e, on, func(v bool) { h.cx.style.ToggleClass(h.e, name, v) })
	return h
}

// Style sets an inline property from its stylesheet text form. A bad name
// or value is reported as a style parse error.
func (h Handle) Style(name, value string) Handle {
	if err := h.cx.style.SetProperty(h.e, name, value); err != nil {
		errors.ReportTo(h.cx.handler, &errors.WeftError{
			Op:        "ui.Style",
			Kind:      errors.KindStyleParse,
			Err:       err,
			Entity:    h.e,
			Timestamp: time.Now(),
		})
	}
	return h
}

// Text sets the text content.
func (h Handle) Text(r binding.Res[string]) Handle {
	return setProp(h, h.cx.style.Text, r)
}

// Name sets the accessible name.
func (h Handle) Name(r binding.Res[string]) Handle {
	return setProp(h, h.cx.style.Name, r)
}

// Role sets the accessibility role.
func (h Handle) Role(role style.Role) Handle {
	h.cx.style.Role.Set(h.e, role)
	return h
}

// Live marks the entity as a live region.
func (h Handle) Live(l style.Live) Handle {
	h.cx.style.Live.Set(h.e, l)
	return h
}

// DefaultAction sets the verb assistive technology uses on activation.
func (h Handle) DefaultAction(v style.DefaultActionVerb) Handle {
	h.cx.style.DefaultActionVerb.Set(h.e, v)
	return h
}

// LabelledBy names the #id of the entity that labels this one.
func (h Handle) LabelledBy(id string) Handle {
	h.cx.style.LabelledBy.Set(h.e, id)
	return h
}

// NumericValue sets the accessible numeric value.
func (h Handle) NumericValue(r binding.Res[float64]) Handle {
	return setProp(h, h.cx.style.NumericValue, r)
}

// TextValue sets the accessible text value.
func (h Handle) TextValue(r binding.Res[string]) Handle {
	return setProp(h, h.cx.style.TextValue, r)
}

// Hidden hides the entity from assistive technology.
func (h Handle) Hidden(r binding.Res[bool]) Handle {
	return setProp(h, h.cx.style.Hidden, r)
}

// Focusable makes the entity part of the tab order.
func (h Handle) Focusable(on bool) Handle {
	h.cx.style.Focusable.Set(h.e, on)
	return h
}

// Disabled sets the :disabled pseudo-class.
func (h Handle) Disabled(r binding.Res[bool]) Handle {
	SetOrBind(h.cx, h.e, r, func(v bool) { h.cx.style.SetPseudo(h.e, style.Disabled, v) })
	return h
}

// Checked sets the :checked pseudo-class.
func (h Handle) Checked(r binding.Res[bool]) Handle {
	SetOrBind(h.cx, h.e, r, func(v bool) { h.cx.style.SetPseudo(h.e, style.Checked, v) })
	return h
}

// Background sets the background color.
func (h Handle) Background(r binding.Res[style.Color]) Handle {
	return setProp(h, h.cx.style.BackgroundColor, r)
}

// Color sets the foreground color.
func (h Handle) Color(r binding.Res[style.Color]) Handle {
	return setProp(h, h.cx.style.Foreground, r)
}

// Display shows or removes the entity from layout.
func (h Handle) Display(r binding.Res[style.Display]) Handle {
	return setProp(h, h.cx.style.Display, r)
}

// Layout sets how children are arranged.
func (h Handle) Layout(t style.LayoutType) Handle {
	h.cx.style.LayoutType.Set(h.e, t)
	return h
}

// Width sets the width.
func (h Handle) Width(u style.Units) Handle {
	h.cx.style.Width.Set(h.e, u)
	return h
}

// Height sets the height.
func (h Handle) Height(u style.Units) Handle {
	h.cx.style.Height.Set(h.e, u)
	return h
}

// Size sets width and height.
func (h Handle) Size(w, ht style.Units) Handle {
	return h.Width(w).Height(ht)
}

// OnEvent adds an event handler.
func (h Handle) OnEvent(fn func(cx *Context, ev *event.Event)) Handle {
	h.cx.events.ListenFunc(h.e, func(_ *event.Dispatcher, ev *event.Event) { fn(h.cx, ev) })
	return h
}

// OnClick calls fn when the entity is clicked, or activated with Enter or
// Space while focused. The event is consumed.
func (h Handle) OnClick(fn func(cx *Context)) Handle {
	return h.OnEvent(func(cx *Context, ev *event.Event) {
		switch m := ev.Message.(type) {
		case event.Clicked:
			if m.Button != event.ButtonLeft {
				return
			}
		case event.KeyPressed:
			if ev.Target != h.e || (m.Key != event.KeyEnter && m.Key != event.KeySpace) {
				return
			}
		default:
			return
		}
		ev.Consume()
		fn(cx)
	})
}

func setProp[T any](h Handle, p *style.Property[T], r binding.Res[T]) Handle {
	SetOrBind(h.cx, h.e, r, func(v T) { p.Set(h.e, v) })
	return h
}

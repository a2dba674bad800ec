package event

import (
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/style"
)

// InputKind identifies a raw input record.
type InputKind uint8

const (
	InputPointerMove InputKind = iota
	InputPointerDown
	InputPointerUp
	InputPointerCancel
	InputWheel
	InputKeyDown
	InputKeyUp
	InputText
)

// Input is a raw record from the windowing layer. Coordinates are in
// device pixels.
type Input struct {
	Kind      InputKind
	Pointer   int64
	X, Y      float64
	DX, DY    float64
	Button    Button
	Key       Key
	Modifiers Modifiers
	Repeat    bool
	Text      string
}

// Input buffers a raw input record. It is translated at the next Dispatch,
// against the layout committed at that point.
func (d *Dispatcher) Input(in Input) {
	d.inputs = append(d.inputs, in)
}

func (d *Dispatcher) translate(in Input) {
	switch in.Kind {
	case InputPointerMove:
		d.pointerMove(in)
	case InputPointerDown:
		d.pointerDown(in)
	case InputPointerUp:
		d.pointerUp(in)
	case InputPointerCancel:
		if target, ok := d.captured[in.Pointer]; ok {
			d.setActive(target, false)
			d.Emit(New(target, PointerCanceled{Pointer: in.Pointer}).With(Direct))
		}
		delete(d.captured, in.Pointer)
		delete(d.positions, in.Pointer)
	case InputWheel:
		pos := d.position(in)
		if target, ok := d.hit(pos); ok {
			d.Emit(New(target, WheelScrolled{Position: pos, DX: in.DX, DY: in.DY}))
		}
	case InputKeyDown:
		d.Emit(New(d.keyTarget(), KeyPressed{Key: in.Key, Modifiers: in.Modifiers, Repeat: in.Repeat}))
	case InputKeyUp:
		d.Emit(New(d.keyTarget(), KeyReleased{Key: in.Key, Modifiers: in.Modifiers}))
	case InputText:
		d.Emit(New(d.keyTarget(), TextInput{Text: in.Text}))
	}
}

func (d *Dispatcher) position(in Input) layout.Offset {
	return layout.Offset{X: in.X / d.scale, Y: in.Y / d.scale}
}

func (d *Dispatcher) hit(p layout.Offset) (entity.Entity, bool) {
	if d.geometry == nil {
		return entity.Null, false
	}
	return d.geometry.HitTest(p, nil)
}

func (d *Dispatcher) keyTarget() entity.Entity {
	if f := d.focus.Focused(); !f.IsNull() {
		return f
	}
	return d.tree.Root()
}

func (d *Dispatcher) pointerMove(in Input) {
	pos := d.position(in)
	var delta layout.Offset
	if last, ok := d.positions[in.Pointer]; ok {
		delta = layout.Offset{X: pos.X - last.X, Y: pos.Y - last.Y}
	}
	d.positions[in.Pointer] = pos

	target, ok := d.hit(pos)
	d.updateHover(target)
	if captured, held := d.captured[in.Pointer]; held {
		target, ok = captured, true
	}
	if ok {
		d.Emit(New(target, PointerMoved{Pointer: in.Pointer, Position: pos, Delta: delta}))
	}
}

func (d *Dispatcher) pointerDown(in Input) {
	pos := d.position(in)
	d.positions[in.Pointer] = pos
	target, ok := d.hit(pos)
	d.updateHover(target)
	if !ok {
		d.focus.Blur()
		return
	}
	d.captured[in.Pointer] = target
	d.setActive(target, true)
	d.focus.FocusWithin(target)
	d.Emit(New(target, PointerPressed{Pointer: in.Pointer, Position: pos, Button: in.Button}))
}

func (d *Dispatcher) pointerUp(in Input) {
	pos := d.position(in)
	captured, held := d.captured[in.Pointer]
	delete(d.captured, in.Pointer)
	delete(d.positions, in.Pointer)

	target, ok := d.hit(pos)
	if held {
		d.setActive(captured, false)
		d.Emit(New(captured, PointerReleased{Pointer: in.Pointer, Position: pos, Button: in.Button}))
		if ok && (target == captured || d.tree.IsDescendantOf(target, captured)) {
			d.Emit(New(captured, Clicked{Position: pos, Button: in.Button}))
		}
		return
	}
	if ok {
		d.Emit(New(target, PointerReleased{Pointer: in.Pointer, Position: pos, Button: in.Button}))
	}
}

func (d *Dispatcher) setActive(e entity.Entity, on bool) {
	if d.tree.Entities().IsAlive(e) {
		d.style.SetPseudo(e, style.ActiveState, on)
	}
}

// updateHover moves the hover chain to target and its ancestors. Entities
// leaving the chain get PointerLeft deepest first, then entities joining it
// get PointerEntered shallowest first.
func (d *Dispatcher) updateHover(target entity.Entity) {
	var chain []entity.Entity
	if d.tree.Entities().IsAlive(target) {
		chain = append(chain, target)
		for a := range d.tree.Ancestors(target) {
			chain = append(chain, a)
		}
		for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
			chain[i], chain[j] = chain[j], chain[i]
		}
	}

	common := 0
	for common < len(chain) && common < len(d.hovered) && chain[common] == d.hovered[common] {
		common++
	}
	for i := len(d.hovered) - 1; i >= common; i-- {
		e := d.hovered[i]
		if !d.tree.Entities().IsAlive(e) {
			continue
		}
		d.style.SetPseudo(e, style.Hover, false)
		d.Emit(New(e, PointerLeft{}).With(Direct))
	}
	for _, e := range chain[common:] {
		d.style.SetPseudo(e, style.Hover, true)
		d.Emit(New(e, PointerEntered{}).With(Direct))
	}
	d.hovered = chain
}

package testing

import (
	"fmt"

	"github.com/go-drift/weft/pkg/event"
	"github.com/go-drift/weft/pkg/layout"
)

// Simulated input is buffered on the context. Call Pump to deliver it.

func (t *Tester) allocPointerID() int64 {
	t.nextPointer++
	return t.nextPointer
}

// center returns the logical center of the first entity matched by finder.
func (t *Tester) center(op string, finder Finder) (layout.Offset, error) {
	result := t.Find(finder)
	if !result.Exists() {
		return layout.Offset{}, fmt.Errorf("%s: finder matched no entities: %s", op, finder.Description())
	}
	box, ok := result.Box()
	if !ok {
		return layout.Offset{}, fmt.Errorf("%s: entity has no layout box: %s", op, finder.Description())
	}
	return box.Center(), nil
}

// Tap simulates a left click at the center of the first entity matched by
// finder.
func (t *Tester) Tap(finder Finder) error {
	pos, err := t.center("Tap", finder)
	if err != nil {
		return err
	}
	t.TapAt(pos)
	return nil
}

// TapAt simulates a left click at the given logical position.
func (t *Tester) TapAt(pos layout.Offset) {
	id := t.allocPointerID()
	t.SendPointerDown(pos, id)
	t.SendPointerUp(pos, id)
}

// Hover moves a pointer over the center of the first entity matched by
// finder.
func (t *Tester) Hover(finder Finder) error {
	pos, err := t.center("Hover", finder)
	if err != nil {
		return err
	}
	t.SendPointerMove(pos, 0)
	return nil
}

// Drag simulates a drag from the center of the first entity matched by
// finder.
func (t *Tester) Drag(finder Finder, delta layout.Offset) error {
	start, err := t.center("Drag", finder)
	if err != nil {
		return err
	}
	t.DragFrom(start, delta)
	return nil
}

// DragFrom simulates a drag from start by delta.
func (t *Tester) DragFrom(start, delta layout.Offset) {
	const steps = 4
	id := t.allocPointerID()
	t.SendPointerDown(start, id)
	for i := 1; i <= steps; i++ {
		frac := float64(i) / steps
		t.SendPointerMove(layout.Offset{X: start.X + delta.X*frac, Y: start.Y + delta.Y*frac}, id)
	}
	t.SendPointerUp(layout.Offset{X: start.X + delta.X, Y: start.Y + delta.Y}, id)
}

// Scroll sends a wheel event over the first entity matched by finder.
func (t *Tester) Scroll(finder Finder, dx, dy float64) error {
	pos, err := t.center("Scroll", finder)
	if err != nil {
		return err
	}
	t.input(event.Input{Kind: event.InputWheel, X: pos.X, Y: pos.Y, DX: dx, DY: dy})
	return nil
}

// SendPointerDown presses the left button of pointer at pos.
func (t *Tester) SendPointerDown(pos layout.Offset, pointer int64) {
	t.input(event.Input{Kind: event.InputPointerDown, Pointer: pointer, X: pos.X, Y: pos.Y, Button: event.ButtonLeft})
}

// SendPointerMove moves pointer to pos.
func (t *Tester) SendPointerMove(pos layout.Offset, pointer int64) {
	t.input(event.Input{Kind: event.InputPointerMove, Pointer: pointer, X: pos.X, Y: pos.Y})
}

// SendPointerUp releases the left button of pointer at pos.
func (t *Tester) SendPointerUp(pos layout.Offset, pointer int64) {
	t.input(event.Input{Kind: event.InputPointerUp, Pointer: pointer, X: pos.X, Y: pos.Y, Button: event.ButtonLeft})
}

// SendPointerCancel cancels pointer.
func (t *Tester) SendPointerCancel(pointer int64) {
	t.input(event.Input{Kind: event.InputPointerCancel, Pointer: pointer})
}

// PressKey sends a key down and up.
func (t *Tester) PressKey(key event.Key, mods event.Modifiers) {
	t.cx.Input(event.Input{Kind: event.InputKeyDown, Key: key, Modifiers: mods})
	t.cx.Input(event.Input{Kind: event.InputKeyUp, Key: key, Modifiers: mods})
}

// TypeText sends committed text to the focused entity.
func (t *Tester) TypeText(text string) {
	t.cx.Input(event.Input{Kind: event.InputText, Text: text})
}

// input scales logical positions to device pixels and buffers in.
func (t *Tester) input(in event.Input) {
	in.X *= t.scale
	in.Y *= t.scale
	t.cx.Input(in)
}

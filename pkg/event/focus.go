package event

import (
	"math"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/tree"
)

// Direction indicates the direction of spatial focus traversal.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

// Boxes provides committed layout geometry.
type Boxes interface {
	Box(e entity.Entity) (layout.Rect, bool)
}

// FocusManager tracks the focused entity of one tree. Tab order is the
// pre-order of focusable, displayed, enabled entities.
type FocusManager struct {
	tree    *tree.Tree
	style   *style.Storage
	boxes   Boxes
	focused entity.Entity

	// OnChange is called after focus moves.
	OnChange func(from, to entity.Entity)
}

// NewFocusManager creates a focus manager with nothing focused.
func NewFocusManager(t *tree.Tree, s *style.Storage, boxes Boxes) *FocusManager {
	return &FocusManager{tree: t, style: s, boxes: boxes}
}

// Focused returns the focused entity, or entity.Null.
func (m *FocusManager) Focused() entity.Entity {
	if !m.tree.Contains(m.focused) {
		m.focused = entity.Null
	}
	return m.focused
}

// CanFocus reports whether e may receive focus.
func (m *FocusManager) CanFocus(e entity.Entity) bool {
	if !m.tree.Contains(e) || !m.style.Focusable.Computed(e) {
		return false
	}
	if m.style.Pseudo(e)&style.Disabled != 0 {
		return false
	}
	for a := range m.tree.Ancestors(e) {
		if m.style.Display.Computed(a) == style.DisplayNone {
			return false
		}
	}
	return m.style.Shown(e)
}

// Order returns the focusable entities in tab order.
func (m *FocusManager) Order() []entity.Entity {
	var out []entity.Entity
	root := m.tree.Root()
	if root.IsNull() {
		return nil
	}
	for e := range m.tree.PreOrder(root).All() {
		if m.CanFocus(e) {
			out = append(out, e)
		}
	}
	return out
}

// Focus moves focus to e. It returns false when e cannot be focused.
func (m *FocusManager) Focus(e entity.Entity) bool {
	if !m.CanFocus(e) {
		return false
	}
	m.set(e)
	return true
}

// Blur clears focus.
func (m *FocusManager) Blur() {
	m.set(entity.Null)
}

// FocusWithin focuses e or its nearest focusable ancestor. It blurs when
// neither can be focused.
func (m *FocusManager) FocusWithin(e entity.Entity) bool {
	if m.Focus(e) {
		return true
	}
	for a := range m.tree.Ancestors(e) {
		if m.Focus(a) {
			return true
		}
	}
	m.Blur()
	return false
}

// Next moves focus forward in tab order, wrapping at the end.
func (m *FocusManager) Next() bool { return m.Move(1) }

// Previous moves focus backward in tab order, wrapping at the start.
func (m *FocusManager) Previous() bool { return m.Move(-1) }

// Move moves focus by delta positions in tab order.
func (m *FocusManager) Move(delta int) bool {
	order := m.Order()
	if len(order) == 0 {
		return false
	}
	current := -1
	for i, e := range order {
		if e == m.Focused() {
			current = i
			break
		}
	}
	if current < 0 && delta < 0 {
		current = 0
	}
	m.set(order[wrapIndex(current+delta, len(order))])
	return true
}

// MoveInDirection moves focus to the closest focusable entity in dir,
// preferring candidates aligned with the focused one. It falls back to tab
// order when there is no geometry or no candidate.
func (m *FocusManager) MoveInDirection(dir Direction) bool {
	current := m.Focused()
	if current.IsNull() {
		return m.Next()
	}
	from, ok := m.rect(current)
	if !ok {
		return m.Move(linearDelta(dir))
	}

	var best entity.Entity
	bestScore := math.MaxFloat64
	for _, e := range m.Order() {
		if e == current {
			continue
		}
		to, ok := m.rect(e)
		if !ok || !isInDirection(from, to, dir) {
			continue
		}
		if score := directionalScore(from, to, dir); score < bestScore {
			bestScore = score
			best = e
		}
	}
	if best.IsNull() {
		return m.Move(linearDelta(dir))
	}
	m.set(best)
	return true
}

// Forget drops focus when e was focused.
func (m *FocusManager) Forget(e entity.Entity) {
	if m.focused == e {
		m.focused = entity.Null
	}
}

func (m *FocusManager) rect(e entity.Entity) (layout.Rect, bool) {
	if m.boxes == nil {
		return layout.Rect{}, false
	}
	r, ok := m.boxes.Box(e)
	return r, ok && !r.IsEmpty()
}

func (m *FocusManager) set(e entity.Entity) {
	old := m.Focused()
	if old == e {
		return
	}
	if !old.IsNull() {
		m.style.SetPseudo(old, style.Focus, false)
	}
	m.focused = e
	if !e.IsNull() {
		m.style.SetPseudo(e, style.Focus, true)
	}
	if m.OnChange != nil {
		m.OnChange(old, e)
	}
}

func linearDelta(dir Direction) int {
	if dir == DirectionUp || dir == DirectionLeft {
		return -1
	}
	return 1
}

func wrapIndex(index, count int) int {
	index %= count
	if index < 0 {
		index += count
	}
	return index
}

func isInDirection(source, target layout.Rect, dir Direction) bool {
	s, t := source.Center(), target.Center()
	switch dir {
	case DirectionUp:
		return t.Y < s.Y
	case DirectionDown:
		return t.Y > s.Y
	case DirectionLeft:
		return t.X < s.X
	case DirectionRight:
		return t.X > s.X
	}
	return false
}

// directionalScore is lower for closer targets. Cross-axis distance counts
// double so aligned targets win.
func directionalScore(source, target layout.Rect, dir Direction) float64 {
	s, t := source.Center(), target.Center()
	var primary, cross float64
	switch dir {
	case DirectionUp, DirectionDown:
		primary = math.Abs(t.Y - s.Y)
		cross = math.Abs(t.X - s.X)
	case DirectionLeft, DirectionRight:
		primary = math.Abs(t.X - s.X)
		cross = math.Abs(t.Y - s.Y)
	}
	return primary + cross*2
}

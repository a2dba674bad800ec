package layout

import (
	"slices"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/style"
)

// PaintOrder returns displayed entities back to front: parents before their
// children, siblings ordered by z-index and then tree order.
func (e *Engine) PaintOrder() []entity.Entity {
	if e.orderDirty || e.order == nil {
		e.order = e.buildOrder()
		e.orderDirty = false
	}
	return e.order
}

func (e *Engine) buildOrder() []entity.Entity {
	root := e.tree.Root()
	order := []entity.Entity{}
	if _, ok := e.boxes[root]; !ok {
		return order
	}
	stack := []entity.Entity{root}
	for len(stack) > 0 {
		ent := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, ent)

		var children []entity.Entity
		for _, c := range e.tree.Children(ent) {
			if _, ok := e.boxes[c]; ok {
				children = append(children, c)
			}
		}
		slices.SortStableFunc(children, func(a, b entity.Entity) int {
			return e.style.ZIndex.Computed(a) - e.style.ZIndex.Computed(b)
		})
		// Push in reverse so the first child is visited first.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return order
}

// HitTest returns the topmost visible entity whose box contains p, walking
// paint order back to front. accept, when non-nil, filters candidates.
func (e *Engine) HitTest(p Offset, accept func(entity.Entity) bool) (entity.Entity, bool) {
	order := e.PaintOrder()
	for i := len(order) - 1; i >= 0; i-- {
		ent := order[i]
		if e.style.Visibility.Computed(ent) == style.Hidden {
			continue
		}
		if box, ok := e.boxes[ent]; !ok || !box.Contains(p) {
			continue
		}
		if accept != nil && !accept(ent) {
			continue
		}
		return ent, true
	}
	return entity.Null, false
}

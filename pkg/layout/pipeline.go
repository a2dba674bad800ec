package layout

import (
	"slices"

	"github.com/go-drift/weft/pkg/entity"
)

// PipelineOwner tracks relayout boundaries that need layout.
//
// When an entity's layout inputs change, the engine walks up from its parent
// to the nearest relayout boundary and schedules that boundary here. During a
// flush, boundaries are processed parents first so a boundary laid out as
// part of an ancestor's pass is not laid out twice.
type PipelineOwner struct {
	dirtyLayout    []entity.Entity        // boundaries needing layout
	dirtyLayoutSet map[entity.Entity]bool // O(1) dedup check
	needsLayout    bool
}

// ScheduleLayout marks a relayout boundary as needing layout.
func (p *PipelineOwner) ScheduleLayout(e entity.Entity) {
	if p.dirtyLayoutSet == nil {
		p.dirtyLayoutSet = make(map[entity.Entity]bool)
	}
	if p.dirtyLayoutSet[e] {
		return
	}
	p.dirtyLayoutSet[e] = true
	p.dirtyLayout = append(p.dirtyLayout, e)
	p.needsLayout = true
}

// NeedsLayout reports if any boundary needs layout.
func (p *PipelineOwner) NeedsLayout() bool {
	return p.needsLayout
}

// Scheduled returns the boundaries waiting for layout.
func (p *PipelineOwner) Scheduled() []entity.Entity {
	return slices.Clone(p.dirtyLayout)
}

// FlushLayout hands every scheduled boundary to layout, shallowest first.
// Boundaries scheduled while the flush runs are processed in a further
// batch.
func (p *PipelineOwner) FlushLayout(depth func(entity.Entity) int, layout func(entity.Entity)) {
	for len(p.dirtyLayout) > 0 {
		slices.SortStableFunc(p.dirtyLayout, func(a, b entity.Entity) int {
			return depth(a) - depth(b)
		})
		dirty := p.dirtyLayout
		p.dirtyLayout = nil
		p.dirtyLayoutSet = nil
		for _, e := range dirty {
			layout(e)
		}
	}
	p.needsLayout = false
}

// Forget drops e from the schedule.
func (p *PipelineOwner) Forget(e entity.Entity) {
	if !p.dirtyLayoutSet[e] {
		return
	}
	delete(p.dirtyLayoutSet, e)
	p.dirtyLayout = slices.DeleteFunc(p.dirtyLayout, func(x entity.Entity) bool { return x == e })
	p.needsLayout = len(p.dirtyLayout) > 0
}

// Package layout computes a box for every displayed entity from its
// resolved style.
//
// Children are placed along the main axis of their parent (row or column)
// or stacked on top of each other. Lengths are pixels, percentages of the
// parent, auto (content size) or stretch factors that share the free space.
// Self-directed children are positioned against the parent's box and take
// no space in the flow.
//
// Layout is incremental. Entities whose width and height do not depend on
// their content are relayout boundaries: a change inside one relays out only
// that subtree.
package layout

import (
	"log/slog"
	"math"
	"slices"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/tree"
)

// Engine owns the layout boxes of one tree.
type Engine struct {
	tree     *tree.Tree
	style    *style.Storage
	measurer TextMeasurer
	handler  errors.ErrorHandler
	logger   *slog.Logger

	owner    PipelineOwner
	viewport Size
	boxes    map[entity.Entity]Rect

	order      []entity.Entity
	orderDirty bool

	changed  []entity.Entity
	visited  []entity.Entity
	seen     map[entity.Entity]bool
	reported map[constraintKey]bool
	content  map[contentKey]float64
}

type constraintKey struct {
	entity entity.Entity
	axis   string
}

type contentKey struct {
	entity     entity.Entity
	horizontal bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithMeasurer replaces the default text measurer.
func WithMeasurer(m TextMeasurer) Option {
	return func(e *Engine) { e.measurer = m }
}

// WithErrorHandler routes constraint reports to h.
func WithErrorHandler(h errors.ErrorHandler) Option {
	return func(e *Engine) { e.handler = h }
}

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates a layout engine for entities of t styled by s.
func New(t *tree.Tree, s *style.Storage, opts ...Option) *Engine {
	e := &Engine{
		tree:     t,
		style:    s,
		measurer: NewBasicMeasurer(),
		logger:   slog.Default(),
		boxes:    make(map[entity.Entity]Rect),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetViewport sets the size of the root box.
func (e *Engine) SetViewport(size Size) {
	if e.viewport == size {
		return
	}
	e.viewport = size
	if root := e.tree.Root(); !root.IsNull() {
		e.owner.ScheduleLayout(root)
	}
}

// Viewport returns the size of the root box.
func (e *Engine) Viewport() Size { return e.viewport }

// Box returns the last computed box of ent.
func (e *Engine) Box(ent entity.Entity) (Rect, bool) {
	r, ok := e.boxes[ent]
	return r, ok
}

// NeedsLayout reports whether any relayout boundary is scheduled.
func (e *Engine) NeedsLayout() bool { return e.owner.NeedsLayout() }

// Scheduled returns the relayout boundaries waiting for the next pass.
func (e *Engine) Scheduled() []entity.Entity { return e.owner.Scheduled() }

// IsRelayoutBoundary reports whether a layout change inside ent's subtree
// can be handled without laying out its parent.
func (e *Engine) IsRelayoutBoundary(ent entity.Entity) bool {
	if ent == e.tree.Root() {
		return true
	}
	if _, ok := e.boxes[ent]; !ok {
		return false
	}
	return !e.style.Width.Computed(ent).IsAuto() && !e.style.Height.Computed(ent).IsAuto()
}

// MarkNeedsLayout schedules the nearest relayout boundary above ent. The
// parent is always included because ent's own size and spacing are
// resolved by its parent's pass.
func (e *Engine) MarkNeedsLayout(ent entity.Entity) {
	if !e.tree.Contains(ent) {
		return
	}
	target := ent
	if p := e.tree.Parent(ent); !p.IsNull() {
		target = p
	}
	for !e.IsRelayoutBoundary(target) {
		p := e.tree.Parent(target)
		if p.IsNull() {
			break
		}
		target = p
	}
	e.owner.ScheduleLayout(target)
}

// Remove forgets the box of ent.
func (e *Engine) Remove(ent entity.Entity) {
	if _, ok := e.boxes[ent]; ok {
		delete(e.boxes, ent)
		e.orderDirty = true
	}
	e.owner.Forget(ent)
}

// Layout lays out every scheduled boundary and returns the entities whose
// box changed, in the order they were visited.
func (e *Engine) Layout() []entity.Entity {
	e.changed = nil
	e.visited = nil
	if !e.owner.NeedsLayout() {
		return nil
	}
	e.seen = make(map[entity.Entity]bool)
	e.reported = make(map[constraintKey]bool)
	e.content = make(map[contentKey]float64)

	root := e.tree.Root()
	e.owner.FlushLayout(e.tree.Depth, func(b entity.Entity) {
		if e.seen[b] || !e.tree.Contains(b) {
			return
		}
		rect, ok := e.boxes[b]
		if b == root {
			rect, ok = RectFromLTWH(0, 0, e.viewport.Width, e.viewport.Height), true
			e.setBox(root, rect)
		}
		if !ok {
			// Never laid out: its parent has not placed it yet.
			if root.IsNull() || e.seen[root] {
				return
			}
			b, rect = root, RectFromLTWH(0, 0, e.viewport.Width, e.viewport.Height)
			e.setBox(root, rect)
		}
		e.layoutSubtree(b, rect)
	})
	e.orderDirty = true
	e.logger.Debug("layout", "visited", len(e.visited), "changed", len(e.changed))
	return slices.Clone(e.changed)
}

// Visited returns the entities laid out by the last pass.
func (e *Engine) Visited() []entity.Entity { return slices.Clone(e.visited) }

func (e *Engine) setBox(ent entity.Entity, r Rect) {
	old, ok := e.boxes[ent]
	if ok && old.Equal(r) {
		return
	}
	e.boxes[ent] = r
	e.changed = append(e.changed, ent)
}

func (e *Engine) constraint(ent entity.Entity, axis string, value, clamped float64) {
	key := constraintKey{entity: ent, axis: axis}
	if e.reported[key] {
		return
	}
	if e.reported != nil {
		e.reported[key] = true
	}
	errors.ReportTo(e.handler, &errors.WeftError{
		Op:     "layout.Layout",
		Kind:   errors.KindLayoutConstraint,
		Entity: ent,
		Err:    &errors.LayoutConstraintError{Entity: ent, Axis: axis, Value: value, Clamped: clamped},
	})
}

func (e *Engine) displayed(ent entity.Entity) bool {
	return e.style.Display.Computed(ent) != style.DisplayNone
}

// layoutSubtree places the children of ent inside rect, then recurses.
func (e *Engine) layoutSubtree(ent entity.Entity, rect Rect) {
	e.seen[ent] = true
	e.visited = append(e.visited, ent)

	var flow, self []entity.Entity
	for _, c := range e.tree.Children(ent) {
		if !e.displayed(c) {
			e.hide(c)
			continue
		}
		if e.style.PositionType.Computed(c) == style.SelfDirected {
			self = append(self, c)
		} else {
			flow = append(flow, c)
		}
	}

	width, height := rect.Width(), rect.Height()
	xs := make(map[entity.Entity][2]float64, len(flow)+len(self))
	ys := make(map[entity.Entity][2]float64, len(flow)+len(self))

	switch e.style.LayoutType.Computed(ent) {
	case style.Row:
		spans := e.mainSpans(ent, flow, true, width)
		e.solve("width", width, spans)
		for i, x := range place(0, spans) {
			xs[flow[i]] = [2]float64{x, spans[i].out[main]}
		}
		e.crossEach(ent, flow, false, height, ys)
	case style.Stack:
		e.crossEach(ent, flow, true, width, xs)
		e.crossEach(ent, flow, false, height, ys)
	default:
		spans := e.mainSpans(ent, flow, false, height)
		e.solve("height", height, spans)
		for i, y := range place(0, spans) {
			ys[flow[i]] = [2]float64{y, spans[i].out[main]}
		}
		e.crossEach(ent, flow, true, width, xs)
	}
	e.crossEach(ent, self, true, width, xs)
	e.crossEach(ent, self, false, height, ys)

	for _, c := range append(flow, self...) {
		x, y := xs[c], ys[c]
		box := RectFromLTWH(rect.Left+x[0], rect.Top+y[0], x[1], y[1])
		e.setBox(c, box)
		e.layoutSubtree(c, box)
	}
}

// hide drops the boxes of a subtree that is not displayed.
func (e *Engine) hide(ent entity.Entity) {
	for d := range e.tree.PreOrder(ent).All() {
		if _, ok := e.boxes[d]; ok {
			delete(e.boxes, d)
			e.changed = append(e.changed, d)
		}
		e.seen[d] = true
	}
}

// crossEach solves each child on its own along one axis, as for the cross
// axis of a row or column, both axes of a stack and self-directed children.
func (e *Engine) crossEach(parent entity.Entity, children []entity.Entity, horizontal bool, length float64, out map[entity.Entity][2]float64) {
	axis := "height"
	if horizontal {
		axis = "width"
	}
	for _, c := range children {
		s := e.spanFor(parent, c, horizontal)
		s.units[before] = e.orDefault(e.leading(c, horizontal), e.childLeading(parent, horizontal))
		s.units[after] = e.orDefault(e.trailing(c, horizontal), e.childTrailing(parent, horizontal))
		e.solve(axis, length, []*span{s})
		out[c] = [2]float64{s.out[before], s.out[main]}
	}
}

// mainSpans builds the spans of flow children along the main axis. Auto
// spacing falls back to the parent's child-space at the ends and to the
// between spacing inside.
func (e *Engine) mainSpans(parent entity.Entity, children []entity.Entity, horizontal bool, length float64) []*span {
	between := e.style.RowBetween.Computed(parent)
	if horizontal {
		between = e.style.ColBetween.Computed(parent)
	}
	spans := make([]*span, len(children))
	for i, c := range children {
		s := e.spanFor(parent, c, horizontal)
		lead := e.childLeading(parent, horizontal)
		if i > 0 {
			lead = between
		}
		trail := style.AutoUnits
		if i == len(children)-1 {
			trail = e.childTrailing(parent, horizontal)
		}
		s.units[before] = e.orDefault(e.leading(c, horizontal), lead)
		s.units[after] = e.orDefault(e.trailing(c, horizontal), trail)
		spans[i] = s
	}
	return spans
}

func (e *Engine) spanFor(parent, c entity.Entity, horizontal bool) *span {
	s := &span{entity: c}
	if horizontal {
		s.units[main] = e.style.Width.Computed(c)
		s.min, s.max = e.style.MinWidth.Computed(c), e.style.MaxWidth.Computed(c)
	} else {
		s.units[main] = e.style.Height.Computed(c)
		s.min, s.max = e.style.MinHeight.Computed(c), e.style.MaxHeight.Computed(c)
	}
	if s.units[main].IsAuto() {
		s.content = e.contentSize(c, horizontal)
	}
	return s
}

func (e *Engine) orDefault(u, fallback style.Units) style.Units {
	if u.IsAuto() {
		return fallback
	}
	return u
}

func (e *Engine) leading(c entity.Entity, horizontal bool) style.Units {
	if horizontal {
		return e.style.Left.Computed(c)
	}
	return e.style.Top.Computed(c)
}

func (e *Engine) trailing(c entity.Entity, horizontal bool) style.Units {
	if horizontal {
		return e.style.Right.Computed(c)
	}
	return e.style.Bottom.Computed(c)
}

func (e *Engine) childLeading(p entity.Entity, horizontal bool) style.Units {
	if horizontal {
		return e.style.ChildLeft.Computed(p)
	}
	return e.style.ChildTop.Computed(p)
}

func (e *Engine) childTrailing(p entity.Entity, horizontal bool) style.Units {
	if horizontal {
		return e.style.ChildRight.Computed(p)
	}
	return e.style.ChildBottom.Computed(p)
}

// contentSize returns the auto size of ent along one axis: its measured
// text or the extent of its flow children, whichever is larger. Stretch and
// percentage lengths contribute nothing since they depend on the parent.
func (e *Engine) contentSize(ent entity.Entity, horizontal bool) float64 {
	key := contentKey{entity: ent, horizontal: horizontal}
	if v, ok := e.content[key]; ok {
		return v
	}
	pad := px(e.childLeading(ent, horizontal)) + px(e.childTrailing(ent, horizontal))

	textSize := 0.0
	if text := e.style.Text.Computed(ent); text != "" {
		sz := e.measurer.Measure(text, Font{
			Family: e.style.FontFamily.Computed(ent),
			Size:   e.style.FontSize.Computed(ent),
			Weight: e.style.FontWeight.Computed(ent),
		})
		textSize = sz.Height
		if horizontal {
			textSize = sz.Width
		}
		textSize += pad
	}

	var flow []entity.Entity
	for _, c := range e.tree.Children(ent) {
		if e.displayed(c) && e.style.PositionType.Computed(c) != style.SelfDirected {
			flow = append(flow, c)
		}
	}

	lt := e.style.LayoutType.Computed(ent)
	along := lt == style.Row && horizontal || lt == style.Column && !horizontal
	children := pad
	if len(flow) > 0 {
		children = 0
		var spans []*span
		if along {
			spans = e.mainSpans(ent, flow, horizontal, 0)
		} else {
			for _, c := range flow {
				s := e.spanFor(ent, c, horizontal)
				s.units[before] = e.orDefault(e.leading(c, horizontal), e.childLeading(ent, horizontal))
				s.units[after] = e.orDefault(e.trailing(c, horizontal), e.childTrailing(ent, horizontal))
				spans = append(spans, s)
			}
		}
		for _, s := range spans {
			extent := px(s.units[before]) + px(s.units[after])
			switch s.units[main].Kind {
			case style.Pixels:
				extent += s.units[main].Value
			case style.Auto:
				extent += s.content
			}
			if along {
				children += extent
			} else {
				children = math.Max(children, extent)
			}
		}
	}

	v := math.Max(textSize, children)
	e.content[key] = v
	return v
}

func px(u style.Units) float64 {
	if u.Kind == style.Pixels {
		return u.Value
	}
	return 0
}

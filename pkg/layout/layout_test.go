package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/tree"
)

type fixture struct {
	tree   *tree.Tree
	style  *style.Storage
	layout *Engine
	errs   *errors.Collector
	root   entity.Entity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tr := tree.New(entity.NewManager())
	root := tr.Entities().Create()
	require.NoError(t, tr.SetRoot(root))
	errs := &errors.Collector{}
	s := style.NewStorage(tr, style.WithErrorHandler(errs))
	eng := New(tr, s, WithErrorHandler(errs))
	eng.SetViewport(Size{Width: 400, Height: 300})
	s.MarkRestyle(root)
	return &fixture{tree: tr, style: s, layout: eng, errs: errs, root: root}
}

func (f *fixture) add(t *testing.T, parent entity.Entity) entity.Entity {
	t.Helper()
	e := f.tree.Entities().Create()
	require.NoError(t, f.tree.AddChild(parent, e))
	f.style.MarkRestyle(e)
	return e
}

// settle runs the cascade and lays out everything it invalidated.
func (f *fixture) settle() []entity.Entity {
	for _, e := range f.style.Cascade(f.root) {
		f.layout.MarkNeedsLayout(e)
	}
	return f.layout.Layout()
}

func (f *fixture) box(t *testing.T, e entity.Entity) Rect {
	t.Helper()
	r, ok := f.layout.Box(e)
	require.True(t, ok, "no box for %s", e)
	return r
}

func TestColumnStacksFixedChildren(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, f.root)
	b := f.add(t, f.root)
	f.style.Height.Set(a, style.Px(100))
	f.style.Height.Set(b, style.Px(50))
	f.settle()

	assert.Equal(t, RectFromLTWH(0, 0, 400, 300), f.box(t, f.root))
	assert.Equal(t, RectFromLTWH(0, 0, 400, 100), f.box(t, a))
	assert.Equal(t, RectFromLTWH(0, 100, 400, 50), f.box(t, b))
}

func TestRowDistributesStretch(t *testing.T) {
	f := newFixture(t)
	f.style.LayoutType.Set(f.root, style.Row)
	a, b, c := f.add(t, f.root), f.add(t, f.root), f.add(t, f.root)
	f.style.Width.Set(a, style.Px(100))
	f.style.Width.Set(b, style.Fill(1))
	f.style.Width.Set(c, style.Fill(2))
	f.settle()

	assert.Equal(t, RectFromLTWH(0, 0, 100, 300), f.box(t, a))
	assert.Equal(t, RectFromLTWH(100, 0, 100, 300), f.box(t, b))
	assert.Equal(t, RectFromLTWH(200, 0, 200, 300), f.box(t, c))
}

func TestStretchChildSpaceCenters(t *testing.T) {
	f := newFixture(t)
	for _, p := range []*style.Property[style.Units]{f.style.ChildLeft, f.style.ChildRight, f.style.ChildTop, f.style.ChildBottom} {
		p.Set(f.root, style.Fill(1))
	}
	a := f.add(t, f.root)
	f.style.Width.Set(a, style.Px(100))
	f.style.Height.Set(a, style.Px(50))
	f.settle()

	assert.Equal(t, RectFromLTWH(150, 125, 100, 50), f.box(t, a))
}

func TestBetweenSpacingAndPercentages(t *testing.T) {
	f := newFixture(t)
	f.style.RowBetween.Set(f.root, style.Px(10))
	a, b := f.add(t, f.root), f.add(t, f.root)
	f.style.Height.Set(a, style.Pct(50))
	f.style.Height.Set(b, style.Px(20))
	f.style.Width.Set(b, style.Pct(25))
	f.settle()

	assert.Equal(t, RectFromLTWH(0, 0, 400, 150), f.box(t, a))
	assert.Equal(t, RectFromLTWH(0, 160, 100, 20), f.box(t, b))
}

func TestStretchRespectsMinMax(t *testing.T) {
	f := newFixture(t)
	f.style.LayoutType.Set(f.root, style.Row)
	a, b := f.add(t, f.root), f.add(t, f.root)
	f.style.MaxWidth.Set(a, style.Px(50))
	f.settle()

	assert.Equal(t, 50.0, f.box(t, a).Width())
	assert.Equal(t, 350.0, f.box(t, b).Width())
	assert.Equal(t, 50.0, f.box(t, b).Left)
}

func TestAutoSizeFromText(t *testing.T) {
	f := newFixture(t)
	row := f.add(t, f.root)
	f.style.LayoutType.Set(row, style.Row)
	f.style.Width.Set(row, style.AutoUnits)
	f.style.Height.Set(row, style.AutoUnits)
	a, b := f.add(t, row), f.add(t, row)
	for _, e := range []entity.Entity{a, b} {
		f.style.Width.Set(e, style.AutoUnits)
		f.style.Height.Set(e, style.AutoUnits)
	}
	f.style.Text.Set(a, "hello")
	f.style.Text.Set(b, "hi")
	f.style.ChildLeft.Set(b, style.Px(3))
	f.settle()

	assert.Equal(t, RectFromLTWH(0, 0, 35, 13), f.box(t, a))
	assert.Equal(t, RectFromLTWH(35, 0, 17, 13), f.box(t, b))
	assert.Equal(t, RectFromLTWH(0, 0, 52, 13), f.box(t, row))
}

func TestSelfDirectedChildrenLeaveTheFlow(t *testing.T) {
	f := newFixture(t)
	abs := f.add(t, f.root)
	flow := f.add(t, f.root)
	f.style.PositionType.Set(abs, style.SelfDirected)
	f.style.Left.Set(abs, style.Px(10))
	f.style.Top.Set(abs, style.Px(20))
	f.style.Width.Set(abs, style.Px(50))
	f.style.Height.Set(abs, style.Px(50))
	f.style.Height.Set(flow, style.Px(30))
	f.settle()

	assert.Equal(t, RectFromLTWH(10, 20, 50, 50), f.box(t, abs))
	assert.Equal(t, RectFromLTWH(0, 0, 400, 30), f.box(t, flow))
}

func TestDisplayNoneRemovesSubtree(t *testing.T) {
	f := newFixture(t)
	gone := f.add(t, f.root)
	inner := f.add(t, gone)
	next := f.add(t, f.root)
	f.style.Height.Set(gone, style.Px(100))
	f.style.Height.Set(next, style.Px(10))
	f.settle()
	require.Equal(t, 100.0, f.box(t, next).Top)

	f.style.Display.Set(gone, style.DisplayNone)
	changed := f.settle()

	_, ok := f.layout.Box(gone)
	assert.False(t, ok)
	_, ok = f.layout.Box(inner)
	assert.False(t, ok)
	assert.Equal(t, 0.0, f.box(t, next).Top)
	assert.Contains(t, changed, gone)
	assert.NotContains(t, f.layout.PaintOrder(), gone)
}

func TestConstraintViolationsAreClampedAndReported(t *testing.T) {
	f := newFixture(t)
	neg := f.add(t, f.root)
	bad := f.add(t, f.root)
	f.style.Height.Set(neg, style.Px(-10))
	f.style.Height.Set(bad, style.Px(10))
	f.style.MinWidth.Set(bad, style.Px(100))
	f.style.MaxWidth.Set(bad, style.Px(50))
	f.settle()

	assert.Equal(t, 0.0, f.box(t, neg).Height())
	assert.Equal(t, 100.0, f.box(t, bad).Width())

	reports := f.errs.OfKind(errors.KindLayoutConstraint)
	require.Len(t, reports, 2)
	var lce *errors.LayoutConstraintError
	require.ErrorAs(t, reports[0], &lce)
	assert.Equal(t, neg, lce.Entity)
	assert.Equal(t, -10.0, lce.Value)
	assert.Equal(t, 0.0, lce.Clamped)
}

func TestRelayoutBoundaryLimitsWork(t *testing.T) {
	f := newFixture(t)
	panel := f.add(t, f.root)
	other := f.add(t, f.root)
	f.style.Width.Set(panel, style.Px(200))
	f.style.Height.Set(panel, style.Px(200))
	label := f.add(t, panel)
	f.style.Width.Set(label, style.AutoUnits)
	f.style.Height.Set(label, style.AutoUnits)
	f.style.Text.Set(label, "hi")
	f.style.Height.Set(other, style.Px(10))
	f.settle()

	assert.True(t, f.layout.IsRelayoutBoundary(panel))
	assert.False(t, f.layout.IsRelayoutBoundary(label))

	f.style.Text.Set(label, "hello world")
	for _, e := range f.style.Cascade(f.root) {
		f.layout.MarkNeedsLayout(e)
	}
	assert.Equal(t, []entity.Entity{panel}, f.layout.Scheduled())

	changed := f.layout.Layout()
	assert.Equal(t, []entity.Entity{panel, label}, f.layout.Visited())
	assert.Equal(t, []entity.Entity{label}, changed)
	assert.Equal(t, 77.0, f.box(t, label).Width())
	assert.Equal(t, 200.0, f.box(t, other).Top)
}

func TestAutoSizedAncestorsPropagateToRoot(t *testing.T) {
	f := newFixture(t)
	wrap := f.add(t, f.root)
	f.style.Height.Set(wrap, style.AutoUnits)
	label := f.add(t, wrap)
	f.style.Height.Set(label, style.AutoUnits)
	f.style.Text.Set(label, "a")
	f.settle()
	require.Equal(t, 13.0, f.box(t, wrap).Height())

	f.style.Text.Set(label, "a\nb")
	f.settle()
	assert.Equal(t, f.root, f.layout.Visited()[0])
	assert.Equal(t, 26.0, f.box(t, wrap).Height())
}

func TestHitTestTopmostWins(t *testing.T) {
	f := newFixture(t)
	f.style.LayoutType.Set(f.root, style.Stack)
	a, b := f.add(t, f.root), f.add(t, f.root)
	for _, e := range []entity.Entity{a, b} {
		f.style.Width.Set(e, style.Px(100))
		f.style.Height.Set(e, style.Px(100))
	}
	f.settle()

	notRoot := func(e entity.Entity) bool { return e != f.root }
	hit, ok := f.layout.HitTest(Offset{X: 50, Y: 50}, notRoot)
	require.True(t, ok)
	assert.Equal(t, b, hit)

	f.style.ZIndex.Set(a, 1)
	f.settle()
	assert.Equal(t, []entity.Entity{f.root, b, a}, f.layout.PaintOrder())
	hit, _ = f.layout.HitTest(Offset{X: 50, Y: 50}, notRoot)
	assert.Equal(t, a, hit)

	f.style.Visibility.Set(a, style.Hidden)
	f.settle()
	hit, _ = f.layout.HitTest(Offset{X: 50, Y: 50}, notRoot)
	assert.Equal(t, b, hit)

	_, ok = f.layout.HitTest(Offset{X: 150, Y: 50}, notRoot)
	assert.False(t, ok)
}

func TestBasicMeasurer(t *testing.T) {
	m := NewBasicMeasurer()
	assert.Equal(t, Size{Width: 35, Height: 13}, m.Measure("hello", Font{Size: 13}))
	assert.Equal(t, Size{Width: 70, Height: 26}, m.Measure("hello", Font{Size: 26}))
	assert.Equal(t, Size{Width: 21, Height: 26}, m.Measure("ab\ncde", Font{Size: 13}))
	assert.Equal(t, 40.0, m.Measure("hello", Font{Size: 13, Weight: style.FontWeightBold}).Width)
	assert.Equal(t, Size{}, m.Measure("", Font{Size: 13}))
}

func TestPipelineOwnerFlushesShallowestFirst(t *testing.T) {
	var p PipelineOwner
	depths := map[entity.Entity]int{1: 3, 2: 1, 3: 2}
	p.ScheduleLayout(1)
	p.ScheduleLayout(2)
	p.ScheduleLayout(3)
	p.ScheduleLayout(2)
	p.Forget(3)

	var got []entity.Entity
	p.FlushLayout(func(e entity.Entity) int { return depths[e] }, func(e entity.Entity) {
		got = append(got, e)
		if e == 2 {
			p.ScheduleLayout(3)
		}
	})
	assert.Equal(t, []entity.Entity{2, 1, 3}, got)
	assert.False(t, p.NeedsLayout())
}

package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/weft/pkg/accessibility"
	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/config"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/event"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/style"
)

const frame = 16 * time.Millisecond

type app struct {
	Count int
	Items []string
}

var (
	countLens = binding.Field("count", func(a app) int { return a.Count })
	itemsLens = binding.Field("items", func(a app) []string { return a.Items })
	starsLens = binding.Map(countLens, func(n int) string { return strings.Repeat("*", n) })
)

func newContext(t *testing.T, opts ...Option) (*Context, *errors.Collector) {
	t.Helper()
	errs := &errors.Collector{}
	opts = append([]Option{WithErrorHandler(errs), WithViewport(400, 300)}, opts...)
	return New(opts...), errs
}

func TestInlineColorBeatsClassRule(t *testing.T) {
	cx, errs := newContext(t)
	x := cx.Child(cx.Root(), Element("label")).Class("note").Color(binding.Const(style.ColorRed)).Entity()
	require.Empty(t, cx.LoadStylesheet("app.css", `.note { color: blue; }`))
	cx.Tick(frame)

	assert.Equal(t, style.ColorRed, cx.Style().Foreground.GetInherited(x))
	assert.Equal(t, style.ColorRed, cx.Style().Resolve(x).Foreground)
	assert.Empty(t, errs.Errors)
}

func TestClickUpdatesModelAndLayoutInOneTick(t *testing.T) {
	cx, _ := newContext(t)
	m := binding.NewModel(cx.Bindings(), app{})

	button := cx.Child(cx.Root(), Element("button")).
		Height(style.Px(50)).
		OnClick(func(*Context) { m.Update(func(a *app) { a.Count++ }) }).
		Entity()
	label := cx.Child(cx.Root(), Element("label")).
		Size(style.AutoUnits, style.Px(20)).
		Text(binding.Bound(m, starsLens)).
		Entity()
	cx.Tick(frame)
	box, _ := cx.Layout().Box(label)
	assert.Equal(t, 0.0, box.Width())

	cx.Input(event.Input{Kind: event.InputPointerDown, X: 10, Y: 10})
	cx.Input(event.Input{Kind: event.InputPointerUp, X: 10, Y: 10})
	sample := cx.Tick(frame)

	assert.Equal(t, 1, m.Get().Count)
	assert.Equal(t, "*", cx.Style().Text.Computed(label))
	box, _ = cx.Layout().Box(label)
	assert.Equal(t, layout.RectFromLTWH(0, 50, 7, 20), box)
	assert.Equal(t, 1, sample.Counts.Bindings)
	assert.GreaterOrEqual(t, sample.Counts.Events, 3)

	cx.Input(event.Input{Kind: event.InputKeyDown, Key: event.KeyEnter})
	cx.Tick(frame)
	assert.Equal(t, 1, m.Get().Count, "button is not focusable")

	cx.With(button).Focusable(true)
	require.True(t, cx.Focus().Focus(button))
	cx.Input(event.Input{Kind: event.InputKeyDown, Key: event.KeyEnter})
	cx.Tick(frame)
	assert.Equal(t, 2, m.Get().Count)
}

func TestListLengthBindingRebuildsOnce(t *testing.T) {
	cx, _ := newContext(t)
	m := binding.NewModel(cx.Bindings(), app{Items: []string{"a", "b", "c"}})
	rebuilds := 0
	label := cx.Add(cx.Root(), Element("label"))
	binding.Bind(cx.Bindings(), m, label, binding.Len(itemsLens), func(int, bool) { rebuilds++ })
	cx.Tick(frame)

	m.Update(func(a *app) { a.Items = append(a.Items, "d") })
	cx.Tick(frame)
	assert.Equal(t, 1, rebuilds)
}

func TestRebuildReplacesChildren(t *testing.T) {
	cx, _ := newContext(t)
	m := binding.NewModel(cx.Bindings(), app{Items: []string{"a", "b"}})
	list := cx.Add(cx.Root(), Element("list"))
	Rebuild(cx, list, m, itemsLens, func(cx *Context, parent entity.Entity, items []string, _ bool) {
		for _, it := range items {
			cx.Child(parent, Element("item")).Text(binding.Const(it))
		}
	})
	cx.Tick(frame)
	first := cx.Tree().Children(list)
	require.Len(t, first, 2)

	m.Update(func(a *app) { a.Items = []string{"x", "y", "z"} })
	cx.Tick(frame)
	second := cx.Tree().Children(list)
	require.Len(t, second, 3)
	for _, e := range first {
		assert.False(t, cx.IsAlive(e))
	}
	assert.Equal(t, "z", cx.Style().Text.Computed(second[2]))
	_, ok := cx.Layout().Box(second[2])
	assert.True(t, ok)
}

func TestRemoveCascadesToEverySideTable(t *testing.T) {
	cx, _ := newContext(t)
	m := binding.NewModel(cx.Bindings(), app{})
	panel := cx.Child(cx.Root(), Element("panel")).Class("card").Focusable(true)
	label := cx.Child(panel.Entity(), Element("label")).Text(binding.Bound(m, starsLens)).Entity()
	cx.Tick(frame)
	require.True(t, cx.Focus().Focus(panel.Entity()))
	require.NotEmpty(t, cx.Bindings().Bindings(label))

	cx.Remove(panel.Entity())
	for _, e := range []entity.Entity{panel.Entity(), label} {
		assert.False(t, cx.IsAlive(e))
		_, ok := cx.View(e)
		assert.False(t, ok)
		_, ok = cx.Layout().Box(e)
		assert.False(t, ok)
		assert.Empty(t, cx.Bindings().Bindings(e))
		_, ok = cx.Style().Text.Get(e)
		assert.False(t, ok)
		assert.False(t, cx.Style().HasClass(e, "card"))
	}
	assert.Equal(t, entity.Null, cx.Focus().Focused())

	m.Update(func(a *app) { a.Count = 3 })
	assert.NotPanics(t, func() { cx.Tick(frame) })
	cx.Remove(panel.Entity())
}

func TestAnimationAppliesOnFollowingTicks(t *testing.T) {
	cx, _ := newContext(t, WithDefaultTransition(100*time.Millisecond, "linear"))
	e := cx.Add(cx.Root(), Element("panel"))
	cx.Tick(frame)

	Animate(cx, cx.Style().Opacity, e, 0.0)
	sample := cx.Tick(50 * time.Millisecond)
	assert.Equal(t, 1, sample.Counts.Animated)
	assert.InDelta(t, 0.5, cx.Style().Opacity.Computed(e), 1e-9)

	cx.Settle(50*time.Millisecond, 10)
	assert.False(t, cx.Style().Animating())
	assert.InDelta(t, 0.0, cx.Style().Opacity.Computed(e), 1e-9)
	assert.True(t, cx.Idle())
}

func TestProxyDrainsAtTickStart(t *testing.T) {
	woken := 0
	var mu sync.Mutex
	cx, errs := newContext(t, WithWake(func() {
		mu.Lock()
		woken++
		mu.Unlock()
	}))
	target := cx.Add(cx.Root(), Element("panel"))
	var got []string
	cx.With(target).OnEvent(func(_ *Context, ev *event.Event) {
		if s, ok := event.As[string](ev); ok {
			got = append(got, s)
		}
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p := cx.Proxy()
		p.Do(func(cx *Context) { cx.With(target).Class("loaded") })
		p.Send(target, "hello")
		p.Do(func(*Context) { panic("bad closure") })
	}()
	wg.Wait()

	assert.Equal(t, 3, cx.Proxy().Len())
	assert.False(t, cx.Idle())
	sample := cx.Tick(frame)
	assert.Equal(t, 3, sample.Counts.Proxied)
	assert.Equal(t, []string{"hello"}, got)
	assert.True(t, cx.Style().HasClass(target, "loaded"))
	require.Len(t, errs.Panics, 1)
	assert.Equal(t, "ui.proxy", errs.Panics[0].Op)
	mu.Lock()
	assert.Equal(t, 3, woken)
	mu.Unlock()
}

func TestAccessibilitySyncPerTick(t *testing.T) {
	var updates []*accessibility.Update
	cx, _ := newContext(t, WithSink(accessibility.SinkFunc(func(u *accessibility.Update) error {
		updates = append(updates, u)
		return nil
	})))
	m := binding.NewModel(cx.Bindings(), app{Count: 2})
	slider := cx.Child(cx.Root(), Element("slider")).
		Role(style.RoleSlider).
		Name(binding.Const("Volume")).
		NumericValue(binding.Bound(m, binding.Map(countLens, func(n int) float64 { return float64(n) }))).
		Entity()
	cx.Tick(frame)
	require.Len(t, updates, 1)
	n, ok := updates[0].Node(accessibility.NodeID(slider))
	require.True(t, ok)
	assert.Equal(t, "Volume", n.Name)
	require.NotNil(t, n.NumericValue)
	assert.Equal(t, 2.0, *n.NumericValue)
	assert.Equal(t, 400.0, n.Bounds[2])

	cx.Tick(frame)
	assert.Len(t, updates, 1, "nothing changed")

	m.Update(func(a *app) { a.Count = 5 })
	cx.Tick(frame)
	require.Len(t, updates, 2)
	n, _ = updates[1].Node(accessibility.NodeID(slider))
	assert.Equal(t, 5.0, *n.NumericValue)
	assert.Same(t, updates[1], cx.LastAccessibilityUpdate())
}

func TestAccessibilityCanBeDisabled(t *testing.T) {
	called := false
	cx, _ := newContext(t, WithAccessibility(false), WithSink(accessibility.SinkFunc(func(*accessibility.Update) error {
		called = true
		return nil
	})))
	cx.Tick(frame)
	assert.False(t, called)
}

type swatch struct {
	painted []layout.Rect
	boxes   []layout.Rect
}

func (s *swatch) Element() string { return "swatch" }

func (s *swatch) Paint(_ *Context, _ entity.Entity, _ style.Resolved, box layout.Rect) {
	s.painted = append(s.painted, box)
}

func (s *swatch) LayoutChanged(_ *Context, _ entity.Entity, box layout.Rect) {
	s.boxes = append(s.boxes, box)
}

func TestPaintAndLayoutHooks(t *testing.T) {
	cx, _ := newContext(t)
	sw := &swatch{}
	a := cx.Child(cx.Root(), sw).Height(style.Px(40)).Entity()
	hidden := cx.Child(cx.Root(), Element("ghost")).Height(style.Px(40)).Entity()
	cx.Style().Opacity.Set(hidden, 0)
	cx.Tick(frame)

	require.Len(t, sw.boxes, 1)
	assert.Equal(t, layout.RectFromLTWH(0, 0, 400, 40), sw.boxes[0])

	var order []entity.Entity
	n := cx.Paint(func(e entity.Entity, _ style.Resolved, _ layout.Rect) { order = append(order, e) })
	assert.Equal(t, 2, n)
	assert.Equal(t, []entity.Entity{cx.Root(), a}, order)
	assert.Equal(t, sw.boxes, sw.painted)

	cx.With(a).Height(style.Px(60))
	cx.Tick(frame)
	require.Len(t, sw.boxes, 2)
	assert.Equal(t, 60.0, sw.boxes[1].Height())
}

type faulty struct{ panicBuild bool }

func (faulty) Element() string { return "faulty" }

func (f faulty) Build(*Context, entity.Entity) {
	if f.panicBuild {
		panic("build failed")
	}
}

func (faulty) Paint(*Context, entity.Entity, style.Resolved, layout.Rect) {
	panic("paint failed")
}

func TestBuildAndPaintPanicsAreRecovered(t *testing.T) {
	cx, errs := newContext(t)
	bad := cx.Child(cx.Root(), faulty{panicBuild: true}).Height(style.Px(20)).Entity()
	require.Len(t, errs.Panics, 1)
	assert.Equal(t, "ui.build", errs.Panics[0].Op)
	assert.True(t, cx.IsAlive(bad))

	after := cx.Child(cx.Root(), Element("box")).Height(style.Px(20)).Entity()
	cx.Tick(frame)

	var painted []entity.Entity
	n := cx.Paint(func(e entity.Entity, _ style.Resolved, _ layout.Rect) { painted = append(painted, e) })
	assert.Equal(t, 3, n)
	assert.Contains(t, painted, after, "the walk continues past a panicking painter")
	require.Len(t, errs.Panics, 2)
	assert.Equal(t, "ui.paint", errs.Panics[1].Op)
}

func TestFrameTraceRecordsTicks(t *testing.T) {
	cx, _ := newContext(t, WithFrameTrace(2, time.Hour))
	for range 3 {
		cx.Tick(frame)
	}
	assert.Equal(t, uint64(3), cx.Frame())
	tl := cx.Trace().Snapshot()
	require.Len(t, tl.Samples, 2)
	assert.Equal(t, uint64(2), tl.Samples[0].Frame)
	assert.Equal(t, uint64(3), tl.Samples[1].Frame)
	assert.Zero(t, tl.DroppedFrames)
	last, ok := cx.Trace().Last()
	require.True(t, ok)
	assert.Equal(t, uint64(3), last.Frame)
	assert.Equal(t, 1, last.Counts.Entities)
}

func TestAddToDeadParentIsReported(t *testing.T) {
	cx, errs := newContext(t)
	p := cx.Add(cx.Root(), Element("panel"))
	cx.Remove(p)

	e := cx.Add(p, Element("label"))
	assert.Equal(t, entity.Null, e)
	require.Len(t, errs.OfKind(errors.KindStructural), 1)
	assert.Equal(t, 1, cx.Tree().Entities().Len())
}

func TestStyleModifierReportsBadValues(t *testing.T) {
	cx, errs := newContext(t)
	e := cx.Child(cx.Root(), Element("panel")).Style("width", "wide").Style("child-space", "4px").Entity()
	require.Len(t, errs.OfKind(errors.KindStyleParse), 1)
	assert.Equal(t, style.Px(4), cx.Style().ChildTop.Computed(e))
}

func TestWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Window.Width, cfg.Window.Height = 320, 200
	off := false
	cfg.Accessibility.Enabled = &off
	cx := New(WithConfig(cfg))
	cx.Tick(frame)

	box, ok := cx.Layout().Box(cx.Root())
	require.True(t, ok)
	assert.Equal(t, layout.RectFromLTWH(0, 0, 320, 200), box)
	assert.False(t, cx.Accessibility().Enabled())
}

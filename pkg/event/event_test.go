package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/tree"
)

type fixture struct {
	tree   *tree.Tree
	style  *style.Storage
	layout *layout.Engine
	events *Dispatcher
	errs   *errors.Collector
	root   entity.Entity
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	tr := tree.New(entity.NewManager())
	root := tr.Entities().Create()
	require.NoError(t, tr.SetRoot(root))
	errs := &errors.Collector{}
	s := style.NewStorage(tr, style.WithErrorHandler(errs))
	l := layout.New(tr, s, layout.WithErrorHandler(errs))
	l.SetViewport(layout.Size{Width: 400, Height: 300})
	opts = append([]Option{WithErrorHandler(errs)}, opts...)
	return &fixture{
		tree:   tr,
		style:  s,
		layout: l,
		events: NewDispatcher(tr, s, l, opts...),
		errs:   errs,
		root:   root,
	}
}

func (f *fixture) add(t *testing.T, parent entity.Entity) entity.Entity {
	t.Helper()
	e := f.tree.Entities().Create()
	require.NoError(t, f.tree.AddChild(parent, e))
	f.style.MarkRestyle(e)
	return e
}

func (f *fixture) settle() {
	for _, e := range f.style.Cascade(f.root) {
		f.layout.MarkNeedsLayout(e)
	}
	f.layout.Layout()
}

// record installs a handler on every entity that appends "<name>:<message>"
// to the returned log.
func (f *fixture) record(names map[entity.Entity]string) *[]string {
	var log []string
	for e, name := range names {
		f.events.ListenFunc(e, func(_ *Dispatcher, ev *Event) {
			log = append(log, name+":"+messageName(ev.Message))
		})
	}
	return &log
}

func messageName(msg any) string {
	switch msg.(type) {
	case PointerEntered:
		return "enter"
	case PointerLeft:
		return "leave"
	case PointerPressed:
		return "down"
	case PointerReleased:
		return "up"
	case Clicked:
		return "click"
	case PointerMoved:
		return "move"
	case FocusGained:
		return "focus"
	case FocusLost:
		return "blur"
	case KeyPressed:
		return "key"
	case TextInput:
		return "text"
	case WheelScrolled:
		return "wheel"
	case string:
		return msg.(string)
	default:
		return "?"
	}
}

func (f *fixture) chain(t *testing.T) (a, b, c entity.Entity) {
	t.Helper()
	a = f.add(t, f.root)
	b = f.add(t, a)
	c = f.add(t, b)
	return a, b, c
}

func TestAscendingConsumeStopsAtConsumer(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.chain(t)
	var fired []string
	f.events.ListenFunc(a, func(_ *Dispatcher, ev *Event) { fired = append(fired, "A") })
	f.events.ListenFunc(b, func(_ *Dispatcher, ev *Event) {
		fired = append(fired, "B")
		ev.Consume()
	})
	f.events.ListenFunc(c, func(_ *Dispatcher, ev *Event) { fired = append(fired, "C") })

	ev := New(c, "ping")
	f.events.Emit(ev)
	assert.Equal(t, Queued, ev.State())
	assert.Equal(t, 1, f.events.Dispatch())

	assert.Equal(t, []string{"C", "B"}, fired)
	assert.Equal(t, Consumed, ev.State())
	assert.True(t, ev.IsConsumed())
	assert.Equal(t, 2, ev.Visited())
}

func TestDescendingRunsRootToTarget(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.chain(t)
	log := f.record(map[entity.Entity]string{f.root: "R", a: "A", b: "B", c: "C"})

	ev := New(c, "ping").With(Descending)
	f.events.Emit(ev)
	f.events.Dispatch()

	assert.Equal(t, []string{"R:ping", "A:ping", "B:ping", "C:ping"}, *log)
	assert.Equal(t, Delivered, ev.State())
}

func TestDescendingConsumeShieldsTarget(t *testing.T) {
	f := newFixture(t)
	a, _, c := f.chain(t)
	reached := false
	f.events.ListenFunc(a, func(_ *Dispatcher, ev *Event) { ev.Consume() })
	f.events.ListenFunc(c, func(_ *Dispatcher, ev *Event) { reached = true })

	f.events.Emit(New(c, "ping").With(Descending))
	f.events.Dispatch()
	assert.False(t, reached)
}

func TestDirectAndSubtreePropagation(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.chain(t)
	d := f.add(t, a)
	log := f.record(map[entity.Entity]string{f.root: "R", a: "A", b: "B", c: "C", d: "D"})

	f.events.Emit(New(f.root, "direct").To(b).With(Direct))
	f.events.Dispatch()
	assert.Equal(t, []string{"B:direct"}, *log)

	*log = nil
	f.events.Emit(New(f.root, "all").To(a).With(Subtree))
	f.events.Dispatch()
	assert.Equal(t, []string{"A:all", "B:all", "C:all", "D:all"}, *log)
}

func TestEventsEmittedDuringDrainArriveInSameDrain(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, f.root)
	var got []string
	f.events.ListenFunc(a, func(d *Dispatcher, ev *Event) {
		msg, _ := As[string](ev)
		got = append(got, msg)
		if msg == "first" {
			d.Emit(New(a, "second").With(Direct))
		}
	})

	f.events.Emit(New(a, "first").With(Direct))
	assert.Equal(t, 2, f.events.Dispatch())
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestDrainLimitDefersReemission(t *testing.T) {
	f := newFixture(t, WithDrainLimit(3))
	a := f.add(t, f.root)
	count := 0
	f.events.ListenFunc(a, func(d *Dispatcher, ev *Event) {
		count++
		d.Emit(New(a, "again").With(Direct))
	})

	f.events.Emit(New(a, "again").With(Direct))
	assert.Equal(t, 3, f.events.Dispatch())
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, f.events.Pending())

	assert.Equal(t, 3, f.events.Dispatch())
	assert.Equal(t, 6, count)
}

func TestDeadTargetIsDropped(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, f.root)
	fired := false
	f.events.ListenFunc(f.root, func(_ *Dispatcher, ev *Event) { fired = true })

	ev := New(a, "late")
	f.events.Emit(ev)
	f.tree.Remove(a)
	f.events.Dispatch()

	assert.False(t, fired)
	assert.Equal(t, Delivered, ev.State())
	assert.Zero(t, ev.Visited())
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, f.root)
	reached := false
	f.events.ListenFunc(a, func(_ *Dispatcher, ev *Event) { panic("boom") })
	f.events.ListenFunc(f.root, func(_ *Dispatcher, ev *Event) { reached = true })

	f.events.Send(a, "ping")
	require.NotPanics(t, func() { f.events.Dispatch() })
	assert.True(t, reached)
	require.Len(t, f.errs.Panics, 1)
	assert.Equal(t, "event.handle", f.errs.Panics[0].Op)
}

func TestMapMatchesMessageType(t *testing.T) {
	ev := New(entity.Null, KeyPressed{Key: KeyEnter})
	var key Key
	Map(ev, func(k KeyPressed) { key = k.Key })
	Map(ev, func(TextInput) { t.Fatal("wrong type") })
	assert.Equal(t, KeyEnter, key)
}

func TestQueueIsFIFO(t *testing.T) {
	var q Queue
	for i := range 3 {
		q.Push(New(entity.Null, i))
	}
	for i := range 3 {
		ev, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i, ev.Message)
	}
	_, ok := q.Pop()
	assert.False(t, ok)
	assert.Zero(t, q.Len())
}

func (f *fixture) twoRows(t *testing.T) (a, b entity.Entity) {
	t.Helper()
	a = f.add(t, f.root)
	b = f.add(t, f.root)
	f.style.Height.Set(a, style.Px(100))
	f.style.Height.Set(b, style.Px(100))
	f.settle()
	return a, b
}

func TestHoverEnterAndLeave(t *testing.T) {
	f := newFixture(t)
	a, b := f.twoRows(t)
	log := f.record(map[entity.Entity]string{f.root: "R", a: "A", b: "B"})

	f.events.Input(Input{Kind: InputPointerMove, X: 10, Y: 10})
	f.events.Dispatch()
	assert.Equal(t, []string{"R:enter", "A:enter", "A:move", "R:move"}, *log)
	assert.Equal(t, a, f.events.Hovered())
	assert.NotZero(t, f.style.Pseudo(a)&style.Hover)
	assert.NotZero(t, f.style.Pseudo(f.root)&style.Hover)

	*log = nil
	f.events.Input(Input{Kind: InputPointerMove, X: 10, Y: 150})
	f.events.Dispatch()
	assert.Equal(t, []string{"A:leave", "B:enter", "B:move", "R:move"}, *log)
	assert.Zero(t, f.style.Pseudo(a)&style.Hover)
	assert.NotZero(t, f.style.Pseudo(b)&style.Hover)

	*log = nil
	f.events.Input(Input{Kind: InputPointerMove, X: 10, Y: 500})
	f.events.Dispatch()
	assert.Equal(t, []string{"B:leave", "R:leave"}, *log)
	assert.Equal(t, entity.Null, f.events.Hovered())
}

func TestPointerMoveReportsDelta(t *testing.T) {
	f := newFixture(t, WithScale(2))
	a, _ := f.twoRows(t)
	var moves []PointerMoved
	f.events.ListenFunc(a, func(_ *Dispatcher, ev *Event) {
		Map(ev, func(m PointerMoved) { moves = append(moves, m) })
	})

	f.events.Input(Input{Kind: InputPointerMove, X: 20, Y: 20})
	f.events.Input(Input{Kind: InputPointerMove, X: 40, Y: 30})
	f.events.Dispatch()

	require.Len(t, moves, 2)
	assert.Equal(t, layout.Offset{X: 10, Y: 10}, moves[0].Position)
	assert.Equal(t, layout.Offset{}, moves[0].Delta)
	assert.Equal(t, layout.Offset{X: 10, Y: 5}, moves[1].Delta)
}

func TestPressReleaseClicksAndTracksActive(t *testing.T) {
	f := newFixture(t)
	a, b := f.twoRows(t)
	log := f.record(map[entity.Entity]string{a: "A", b: "B"})

	f.events.Input(Input{Kind: InputPointerDown, X: 10, Y: 10})
	f.events.Dispatch()
	assert.NotZero(t, f.style.Pseudo(a)&style.ActiveState)

	f.events.Input(Input{Kind: InputPointerUp, X: 10, Y: 20})
	f.events.Dispatch()
	assert.Zero(t, f.style.Pseudo(a)&style.ActiveState)
	assert.Equal(t, []string{"A:enter", "A:down", "A:up", "A:click"}, *log)

	*log = nil
	f.events.Input(Input{Kind: InputPointerDown, X: 10, Y: 10})
	f.events.Input(Input{Kind: InputPointerUp, X: 10, Y: 150})
	f.events.Dispatch()
	assert.Equal(t, []string{"A:down", "A:up"}, *log, "release outside is not a click")
}

func TestPressFocusesAndKeysFollowFocus(t *testing.T) {
	f := newFixture(t)
	a, b := f.twoRows(t)
	inner := f.add(t, a)
	f.style.Focusable.Set(a, true)
	f.settle()
	log := f.record(map[entity.Entity]string{a: "A", b: "B", f.root: "R"})

	f.events.Input(Input{Kind: InputPointerDown, X: 10, Y: 10})
	f.events.Input(Input{Kind: InputPointerUp, X: 10, Y: 10})
	f.events.Dispatch()
	assert.Equal(t, a, f.events.Focus().Focused())
	assert.NotZero(t, f.style.Pseudo(a)&style.Focus)
	hit, _ := f.layout.HitTest(layout.Offset{X: 10, Y: 10}, nil)
	assert.Equal(t, inner, hit)

	*log = nil
	f.events.Input(Input{Kind: InputText, Text: "x"})
	f.events.Dispatch()
	assert.Equal(t, []string{"A:text", "R:text"}, *log)

	*log = nil
	f.events.Input(Input{Kind: InputPointerDown, X: 10, Y: 150})
	f.events.Dispatch()
	assert.Equal(t, entity.Null, f.events.Focus().Focused())
	assert.Zero(t, f.style.Pseudo(a)&style.Focus)
	assert.Contains(t, *log, "A:blur")
}

func TestTabMovesFocusUnlessConsumed(t *testing.T) {
	f := newFixture(t)
	a, b := f.twoRows(t)
	c := f.add(t, f.root)
	for _, e := range []entity.Entity{a, b, c} {
		f.style.Focusable.Set(e, true)
	}
	f.style.SetPseudo(b, style.Disabled, true)
	f.settle()
	fm := f.events.Focus()

	assert.Equal(t, []entity.Entity{a, c}, fm.Order())

	f.events.Input(Input{Kind: InputKeyDown, Key: KeyTab})
	f.events.Dispatch()
	assert.Equal(t, a, fm.Focused())

	f.events.Input(Input{Kind: InputKeyDown, Key: KeyTab})
	f.events.Dispatch()
	assert.Equal(t, c, fm.Focused())

	f.events.Input(Input{Kind: InputKeyDown, Key: KeyTab})
	f.events.Dispatch()
	assert.Equal(t, a, fm.Focused(), "wraps around")

	f.events.Input(Input{Kind: InputKeyDown, Key: KeyTab, Modifiers: ModShift})
	f.events.Dispatch()
	assert.Equal(t, c, fm.Focused())

	f.events.ListenFunc(c, func(_ *Dispatcher, ev *Event) {
		Map(ev, func(KeyPressed) { ev.Consume() })
	})
	f.events.Input(Input{Kind: InputKeyDown, Key: KeyTab})
	f.events.Dispatch()
	assert.Equal(t, c, fm.Focused())
}

func TestDirectionalFocusPrefersAlignedTargets(t *testing.T) {
	f := newFixture(t)
	place := func(x, y float64) entity.Entity {
		e := f.add(t, f.root)
		f.style.PositionType.Set(e, style.SelfDirected)
		f.style.Left.Set(e, style.Px(x))
		f.style.Top.Set(e, style.Px(y))
		f.style.Width.Set(e, style.Px(40))
		f.style.Height.Set(e, style.Px(40))
		f.style.Focusable.Set(e, true)
		return e
	}
	origin := place(0, 0)
	right := place(100, 0)
	diagonal := place(60, 100)
	below := place(0, 150)
	f.settle()
	fm := f.events.Focus()

	require.True(t, fm.Focus(origin))
	require.True(t, fm.MoveInDirection(DirectionRight))
	assert.Equal(t, right, fm.Focused())

	require.True(t, fm.Focus(origin))
	require.True(t, fm.MoveInDirection(DirectionDown))
	assert.Equal(t, below, fm.Focused(), "aligned target beats the nearer diagonal one")
	assert.NotEqual(t, diagonal, fm.Focused())

	require.True(t, fm.Focus(below))
	require.True(t, fm.MoveInDirection(DirectionDown))
	assert.Equal(t, origin, fm.Focused(), "falls back to tab order")
}

func TestRemoveEntityForgetsFocusAndHandlers(t *testing.T) {
	f := newFixture(t)
	a, _ := f.twoRows(t)
	f.style.Focusable.Set(a, true)
	fired := false
	f.events.ListenFunc(a, func(_ *Dispatcher, ev *Event) { fired = true })
	require.True(t, f.events.Focus().Focus(a))
	f.events.Dispatch()
	fired = false

	for _, e := range f.tree.Remove(a) {
		f.events.RemoveEntity(e)
	}
	assert.Equal(t, entity.Null, f.events.Focus().Focused())
	f.events.Input(Input{Kind: InputKeyDown, Key: KeyEnter})
	f.events.Dispatch()
	assert.False(t, fired)
}

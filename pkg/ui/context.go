// Package ui wires the entity tree, style storage, binding engine, layout,
// event dispatcher and accessibility sync into one owned Context and runs
// them once per Tick.
//
// A Context is single-threaded: every method except those of its Proxy
// must be called from the goroutine that calls Tick.
package ui

import (
	"log/slog"
	"time"

	"github.com/go-drift/weft/pkg/accessibility"
	"github.com/go-drift/weft/pkg/binding"
	"github.com/go-drift/weft/pkg/config"
	"github.com/go-drift/weft/pkg/entity"
	"github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/event"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/style"
	"github.com/go-drift/weft/pkg/tree"
)

// Context owns every per-application structure.
type Context struct {
	entities *entity.Manager
	tree     *tree.Tree
	style    *style.Storage
	bindings *binding.Engine
	layout   *layout.Engine
	events   *event.Dispatcher
	a11y     *accessibility.Service

	handler errors.ErrorHandler
	logger  *slog.Logger
	proxy   *Proxy
	trace   *FrameTraceBuffer
	views   map[entity.Entity]View

	transition style.Transition
	frame      uint64
	lastUpdate *accessibility.Update
}

type settings struct {
	handler    errors.ErrorHandler
	logger     *slog.Logger
	viewport   layout.Size
	scale      float64
	measurer   layout.TextMeasurer
	sink       accessibility.Sink
	a11y       bool
	maxPasses  int
	drainLimit int
	traceSize  int
	threshold  time.Duration
	wake       func()
	transition style.Transition
}

// Option configures a Context.
type Option func(*settings)

// WithErrorHandler routes every component's reports to h. Without it the
// process-wide errors.DefaultHandler is used.
func WithErrorHandler(h errors.ErrorHandler) Option {
	return func(s *settings) { s.handler = h }
}

// WithLogger sets the logger shared by all components.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithViewport sets the root box size.
func WithViewport(width, height float64) Option {
	return func(s *settings) { s.viewport = layout.Size{Width: width, Height: height} }
}

// WithScale sets the device scale raw input coordinates are divided by.
func WithScale(scale float64) Option {
	return func(s *settings) { s.scale = scale }
}

// WithMeasurer sets the text measurer used for auto sizes.
func WithMeasurer(m layout.TextMeasurer) Option {
	return func(s *settings) { s.measurer = m }
}

// WithSink sets the accessibility sink.
func WithSink(sink accessibility.Sink) Option {
	return func(s *settings) { s.sink = sink }
}

// WithAccessibility turns accessibility sync on or off.
func WithAccessibility(on bool) Option {
	return func(s *settings) { s.a11y = on }
}

// WithMaxPasses bounds binding flush passes.
func WithMaxPasses(n int) Option {
	return func(s *settings) { s.maxPasses = n }
}

// WithDrainLimit bounds event deliveries per tick.
func WithDrainLimit(n int) Option {
	return func(s *settings) { s.drainLimit = n }
}

// WithFrameTrace sizes the frame trace ring buffer and sets the duration
// above which a tick counts as dropped.
func WithFrameTrace(capacity int, threshold time.Duration) Option {
	return func(s *settings) {
		s.traceSize = capacity
		s.threshold = threshold
	}
}

// WithWake sets a callback invoked whenever the proxy receives work, so a
// host loop can schedule a tick.
func WithWake(fn func()) Option {
	return func(s *settings) { s.wake = fn }
}

// WithDefaultTransition sets the transition used by Animate.
func WithDefaultTransition(d time.Duration, easing string) Option {
	return func(s *settings) {
		s.transition = style.Transition{Duration: d, Easing: easing}
	}
}

// WithConfig applies the window, accessibility, binding and animation
// sections of cfg. Later options override it.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) {
		s.viewport = layout.Size{Width: cfg.Window.Width, Height: cfg.Window.Height}
		s.scale = cfg.Window.Scale
		s.a11y = cfg.AccessibilityEnabled()
		s.maxPasses = cfg.Binding.MaxPasses
		s.transition = style.Transition{
			Duration: cfg.Animation.DefaultDuration.Std(),
			Easing:   cfg.Animation.DefaultEasing,
		}
	}
}

// New creates a Context with a root entity.
func New(opts ...Option) *Context {
	s := settings{
		logger:     slog.Default(),
		viewport:   layout.Size{Width: config.DefaultWidth, Height: config.DefaultHeight},
		scale:      1,
		a11y:       true,
		maxPasses:  binding.DefaultMaxPasses,
		drainLimit: event.DefaultDrainLimit,
		transition: style.Transition{Duration: config.DefaultDuration, Easing: config.DefaultEasing},
	}
	for _, opt := range opts {
		opt(&s)
	}

	cx := &Context{
		entities:   entity.NewManager(),
		handler:    s.handler,
		logger:     s.logger,
		proxy:      &Proxy{notify: s.wake},
		trace:      NewFrameTraceBuffer(s.traceSize, s.threshold),
		views:      make(map[entity.Entity]View),
		transition: s.transition,
	}
	cx.tree = tree.New(cx.entities)
	cx.style = style.NewStorage(cx.tree,
		style.WithErrorHandler(s.handler),
		style.WithLogger(s.logger),
	)
	cx.bindings = binding.NewEngine(
		binding.WithMaxPasses(s.maxPasses),
		binding.WithErrorHandler(s.handler),
		binding.WithLiveness(cx.entities.IsAlive),
		binding.WithLogger(s.logger),
	)
	layoutOpts := []layout.Option{
		layout.WithErrorHandler(s.handler),
		layout.WithLogger(s.logger),
	}
	if s.measurer != nil {
		layoutOpts = append(layoutOpts, layout.WithMeasurer(s.measurer))
	}
	cx.layout = layout.New(cx.tree, cx.style, layoutOpts...)
	cx.events = event.NewDispatcher(cx.tree, cx.style, cx.layout,
		event.WithErrorHandler(s.handler),
		event.WithLogger(s.logger),
		event.WithScale(s.scale),
		event.WithDrainLimit(s.drainLimit),
	)
	cx.a11y = accessibility.NewService(cx.tree, cx.style, cx.layout,
		accessibility.WithSink(s.sink),
		accessibility.WithLogger(s.logger),
		accessibility.WithFocus(cx.events.Focus().Focused),
	)
	cx.a11y.SetEnabled(s.a11y)

	root := cx.entities.Create()
	if err := cx.tree.SetRoot(root); err != nil {
		cx.report("ui.New", root, err)
	}
	cx.style.SetElement(root, "window")
	cx.style.MarkRestyle(root)
	cx.layout.SetViewport(s.viewport)
	return cx
}

// Root returns the root entity.
func (cx *Context) Root() entity.Entity { return cx.tree.Root() }

// Tree returns the entity tree.
func (cx *Context) Tree() *tree.Tree { return cx.tree }

// Style returns the style storage.
func (cx *Context) Style() *style.Storage { return cx.style }

// Bindings returns the binding engine.
func (cx *Context) Bindings() *binding.Engine { return cx.bindings }

// Layout returns the layout engine.
func (cx *Context) Layout() *layout.Engine { return cx.layout }

// Events returns the event dispatcher.
func (cx *Context) Events() *event.Dispatcher { return cx.events }

// Focus returns the focus manager.
func (cx *Context) Focus() *event.FocusManager { return cx.events.Focus() }

// Accessibility returns the accessibility service.
func (cx *Context) Accessibility() *accessibility.Service { return cx.a11y }

// Proxy returns the goroutine-safe entry point.
func (cx *Context) Proxy() *Proxy { return cx.proxy }

// Trace returns the frame trace.
func (cx *Context) Trace() *FrameTraceBuffer { return cx.trace }

// Logger returns the shared logger.
func (cx *Context) Logger() *slog.Logger { return cx.logger }

// Frame returns the number of completed ticks.
func (cx *Context) Frame() uint64 { return cx.frame }

// LastAccessibilityUpdate returns the update pushed by the most recent
// tick that had accessibility changes.
func (cx *Context) LastAccessibilityUpdate() *accessibility.Update { return cx.lastUpdate }

// IsAlive reports whether e is a live entity of this context.
func (cx *Context) IsAlive(e entity.Entity) bool { return cx.entities.IsAlive(e) }

// SetViewport resizes the root box.
func (cx *Context) SetViewport(width, height float64) {
	cx.layout.SetViewport(layout.Size{Width: width, Height: height})
}

// Add creates an entity for v as the last child of parent. The view's
// element name is used for type selectors, and an EventHandler view
// receives the events delivered to the entity. It returns entity.Null
// when parent is not part of the tree.
func (cx *Context) Add(parent entity.Entity, v View) entity.Entity {
	e := cx.entities.Create()
	if err := cx.tree.AddChild(parent, e); err != nil {
		cx.entities.Destroy(e)
		cx.report("ui.Add", parent, err)
		return entity.Null
	}
	cx.attach(e, v)
	return e
}

// Insert creates an entity for v immediately before sibling.
func (cx *Context) Insert(sibling entity.Entity, v View) entity.Entity {
	e := cx.entities.Create()
	if err := cx.tree.InsertBefore(sibling, e); err != nil {
		cx.entities.Destroy(e)
		cx.report("ui.Insert", sibling, err)
		return entity.Null
	}
	cx.attach(e, v)
	return e
}

func (cx *Context) attach(e entity.Entity, v View) {
	if v != nil {
		cx.views[e] = v
		cx.style.SetElement(e, v.Element())
		if h, ok := v.(EventHandler); ok {
			cx.events.ListenFunc(e, func(_ *event.Dispatcher, ev *event.Event) {
				h.HandleEvent(cx, ev)
			})
		}
	}
	cx.style.MarkRestyle(e)
	cx.layout.MarkNeedsLayout(e)
	if b, ok := v.(Builder); ok {
		cx.build(b, e)
	}
}

// View returns the view attached to e.
func (cx *Context) View(e entity.Entity) (View, bool) {
	v, ok := cx.views[e]
	return v, ok
}

// Remove destroys e and its subtree and purges every side table. Removing
// a dead entity is a no-op.
func (cx *Context) Remove(e entity.Entity) {
	if !cx.tree.Contains(e) {
		return
	}
	parent := cx.tree.Parent(e)
	for _, d := range cx.tree.Remove(e) {
		cx.style.Remove(d)
		cx.bindings.RemoveEntity(d)
		cx.layout.Remove(d)
		cx.events.RemoveEntity(d)
		delete(cx.views, d)
	}
	if !parent.IsNull() {
		cx.layout.MarkNeedsLayout(parent)
	}
}

// RemoveChildren removes every child of e.
func (cx *Context) RemoveChildren(e entity.Entity) {
	for _, c := range cx.tree.Children(e) {
		cx.Remove(c)
	}
}

// Emit queues ev for the next tick.
func (cx *Context) Emit(ev *event.Event) { cx.events.Emit(ev) }

// Send queues an ascending event carrying msg from origin.
func (cx *Context) Send(origin entity.Entity, msg any) { cx.events.Send(origin, msg) }

// Input buffers raw input for the next tick.
func (cx *Context) Input(in event.Input) { cx.events.Input(in) }

// LoadStylesheet parses text and replaces any sheet with the same name.
// Malformed rules are reported and skipped.
func (cx *Context) LoadStylesheet(name, text string) []*errors.StyleParseError {
	return cx.style.LoadSheet(name, text)
}

// ApplySheetChange loads a sheet delivered by a style.Watcher.
func (cx *Context) ApplySheetChange(c style.SheetChange) []*errors.StyleParseError {
	return cx.style.LoadSheet(c.Path, c.Text)
}

func (cx *Context) report(op string, e entity.Entity, err error) {
	errors.ReportTo(cx.handler, &errors.WeftError{
		Op:        op,
		Kind:      errors.KindStructural,
		Err:       err,
		Entity:    e,
		Timestamp: time.Now(),
	})
}

package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-drift/weft/pkg/entity"
	weferrors "github.com/go-drift/weft/pkg/errors"
	"github.com/go-drift/weft/pkg/layout"
	"github.com/go-drift/weft/pkg/ui"
)

const (
	// DefaultTestWidth is the default logical width of the viewport.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default logical height of the viewport.
	DefaultTestHeight = 600
	// DefaultScale is the default device pixel ratio.
	DefaultScale = 1.0
	// DefaultFrame is the time one Pump advances.
	DefaultFrame = 16 * time.Millisecond
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: context did not settle")

// Option configures a Tester.
type Option func(*Tester)

// WithSize sets the logical viewport size.
func WithSize(width, height float64) Option {
	return func(t *Tester) { t.size = layout.Size{Width: width, Height: height} }
}

// WithScale sets the device pixel ratio. Simulated pointer positions are
// logical and converted to device pixels.
func WithScale(scale float64) Option {
	return func(t *Tester) { t.scale = scale }
}

// WithFrame sets the time advanced by each Pump.
func WithFrame(d time.Duration) Option {
	return func(t *Tester) { t.frame = d }
}

// WithOptions passes options to ui.New. They are applied after the
// tester's own.
func WithOptions(opts ...ui.Option) Option {
	return func(t *Tester) { t.uiOpts = append(t.uiOpts, opts...) }
}

// Tester runs a ui.Context without a window. It collects every reported
// error and drives time with a FakeClock.
type Tester struct {
	cx     *ui.Context
	clock  *FakeClock
	errs   *weferrors.Collector
	size   layout.Size
	scale  float64
	frame  time.Duration
	uiOpts []ui.Option

	nextPointer int64
}

// NewTester creates a tester with a fresh context.
func NewTester(opts ...Option) *Tester {
	t := &Tester{
		clock: NewFakeClock(),
		errs:  &weferrors.Collector{},
		size:  layout.Size{Width: DefaultTestWidth, Height: DefaultTestHeight},
		scale: DefaultScale,
		frame: DefaultFrame,
	}
	for _, opt := range opts {
		opt(t)
	}
	base := []ui.Option{
		ui.WithErrorHandler(t.errs),
		ui.WithViewport(t.size.Width, t.size.Height),
		ui.WithScale(t.scale),
	}
	t.cx = ui.New(append(base, t.uiOpts...)...)
	return t
}

// NewTesterWithT creates a tester that fails the test at cleanup when a
// panic was recovered during it. This is the recommended constructor for
// tests.
func NewTesterWithT(t *testing.T, opts ...Option) *Tester {
	tester := NewTester(opts...)
	t.Cleanup(func() {
		for _, err := range tester.errs.OfKind(weferrors.KindPanic) {
			t.Errorf("recovered panic: %v", err)
		}
	})
	return tester
}

// Context returns the context under test.
func (t *Tester) Context() *ui.Context { return t.cx }

// Clock returns the fake clock advanced by Pump.
func (t *Tester) Clock() *FakeClock { return t.clock }

// Errors returns every error the context reported.
func (t *Tester) Errors() *weferrors.Collector { return t.errs }

// Root returns the root entity.
func (t *Tester) Root() entity.Entity { return t.cx.Root() }

// Mount replaces the children of the root with what build creates and
// runs one frame.
func (t *Tester) Mount(build func(cx *ui.Context, root entity.Entity)) ui.FrameSample {
	t.cx.RemoveChildren(t.cx.Root())
	build(t.cx, t.cx.Root())
	return t.Pump()
}

// Pump runs a single frame and advances the clock by one frame.
func (t *Tester) Pump() ui.FrameSample {
	sample := t.cx.Tick(t.frame)
	t.clock.Advance(t.frame)
	return sample
}

// PumpFor runs frames until at least d has elapsed.
func (t *Tester) PumpFor(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += t.frame {
		t.Pump()
	}
}

// PumpAndSettle runs frames until the context is idle or the timeout is
// reached. Returns ErrSettleTimeout if the context does not settle.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed < timeout {
		t.Pump()
		if t.cx.Idle() {
			return nil
		}
		elapsed += t.frame
	}
	return ErrSettleTimeout
}

// Find evaluates a finder against the current tree.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{
		cx:       t.cx,
		entities: finder.Evaluate(t.cx),
		finder:   finder,
	}
}

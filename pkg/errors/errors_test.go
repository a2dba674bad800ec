package errors

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/weft/pkg/entity"
)

func TestWeftErrorString(t *testing.T) {
	err := &WeftError{
		Op:   "style.Parse",
		Kind: KindStyleParse,
		Err:  &StyleParseError{Source: "app.css", Line: 3, Column: 5, Msg: "expected '{'"},
	}
	assert.Equal(t, "style.Parse [style-parse]: app.css:3:5: expected '{'", err.Error())
}

func TestWeftErrorWithEntity(t *testing.T) {
	m := entity.NewManager()
	e := m.Create()
	err := &WeftError{
		Op:     "tree.AddChild",
		Kind:   KindStructural,
		Entity: e,
		Err:    &StructuralError{Op: "add child", Entity: e, Err: ErrDeadEntity},
	}
	assert.Contains(t, err.Error(), "entity="+e.String())
	assert.True(t, stderrors.Is(err, ErrDeadEntity))

	var structural *StructuralError
	require.True(t, stderrors.As(err, &structural))
	assert.Equal(t, e, structural.Entity)
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindStructural, "structural"},
		{KindStyleParse, "style-parse"},
		{KindBindingCycle, "binding-cycle"},
		{KindLayoutConstraint, "layout-constraint"},
		{KindPanic, "panic"},
		{KindConfig, "config"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String(), "ErrorKind(%d)", tt.kind)
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	assert.Equal(t, "panic: test panic", err.Error())

	err.Op = "event.Dispatch"
	assert.Equal(t, "panic in event.Dispatch: test panic", err.Error())
}

func TestTypedErrorStrings(t *testing.T) {
	cycle := &BindingCycleError{Lens: "count", Passes: 2}
	assert.Contains(t, cycle.Error(), `binding "count"`)

	clamp := &LayoutConstraintError{Axis: "width", Value: -4, Clamped: 0}
	assert.Contains(t, clamp.Error(), "width size -4.00 clamped to 0.00")

	parse := &StyleParseError{Source: "s", Line: 1, Column: 2, Msg: "bad", Snippet: "x"}
	assert.Equal(t, `s:1:2: bad ("x")`, parse.Error())
}

func TestReport(t *testing.T) {
	collector := &Collector{}
	oldHandler := DefaultHandler
	SetHandler(collector)
	defer SetHandler(oldHandler)

	Report(&WeftError{
		Op:   "test.op",
		Kind: KindConfig,
		Err:  stderrors.New("boom"),
	})

	require.Len(t, collector.Errors, 1)
	assert.Equal(t, "test.op", collector.Errors[0].Op)
	assert.False(t, collector.Errors[0].Timestamp.IsZero())
}

func TestReportToPrefersGivenHandler(t *testing.T) {
	global := &Collector{}
	oldHandler := DefaultHandler
	SetHandler(global)
	defer SetHandler(oldHandler)

	local := &Collector{}
	ReportTo(local, &WeftError{Op: "x", Kind: KindStructural, Err: ErrNotFound})

	assert.Len(t, local.Errors, 1)
	assert.Empty(t, global.Errors)
	assert.Len(t, local.OfKind(KindStructural), 1)
	assert.Empty(t, local.OfKind(KindStyleParse))

	local.Reset()
	assert.Empty(t, local.Errors)
}

func TestRecover(t *testing.T) {
	collector := &Collector{}
	oldHandler := DefaultHandler
	SetHandler(collector)
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	require.Len(t, collector.Panics, 1)
	assert.Equal(t, "intentional test panic", collector.Panics[0].Value)
	assert.Equal(t, "test.recover", collector.Panics[0].Op)
}

func TestRecoverTo(t *testing.T) {
	local := &Collector{}
	func() {
		defer RecoverTo(local, "binding.rebuild")
		panic("rebuild failed")
	}()
	require.Len(t, local.Panics, 1)
	assert.Equal(t, "binding.rebuild", local.Panics[0].Op)
}

func TestRecoverWithCallback(t *testing.T) {
	collector := &Collector{}
	oldHandler := DefaultHandler
	SetHandler(collector)
	defer SetHandler(oldHandler)

	var got any
	func() {
		defer RecoverWithCallback("cb", func(r any) { got = r })
		panic(42)
	}()
	assert.Equal(t, 42, got)
	assert.Len(t, collector.Panics, 1)
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	require.NotEmpty(t, stack)
	assert.Regexp(t, "testing|runtime", stack)
}

func TestSetHandlerNil(t *testing.T) {
	oldHandler := DefaultHandler
	defer SetHandler(oldHandler)

	SetHandler(nil)
	require.NotNil(t, DefaultHandler)
	assert.IsType(t, &LogHandler{}, DefaultHandler)
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Logger: slog.New(slog.NewTextHandler(&buf, nil)), Verbose: true}

	h.HandleError(&WeftError{
		Op:         "layout.Flush",
		Kind:       KindLayoutConstraint,
		Err:        &LayoutConstraintError{Axis: "height", Value: -1},
		StackTrace: "frame",
	})
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "kind=layout-constraint")
	assert.Contains(t, out, "stack=frame")

	buf.Reset()
	h.HandlePanic(&PanicError{Op: "event.Dispatch", Value: "oops"})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "op=event.Dispatch")

	// nil inputs are ignored
	h.HandleError(nil)
	h.HandlePanic(nil)
}

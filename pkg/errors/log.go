package errors

import (
	"log/slog"
)

// LogHandler is an ErrorHandler that writes errors to a slog.Logger.
type LogHandler struct {
	// Logger receives the records. Nil means slog.Default().
	Logger *slog.Logger
	// Verbose enables stack traces in the logged attributes.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleError logs a WeftError. Style parse errors and clamped layout
// constraints are warnings; everything else is an error.
func (h *LogHandler) HandleError(err *WeftError) {
	if err == nil {
		return
	}
	attrs := []any{
		slog.String("op", err.Op),
		slog.String("kind", err.Kind.String()),
	}
	if !err.Entity.IsNull() {
		attrs = append(attrs, slog.String("entity", err.Entity.String()))
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	switch err.Kind {
	case KindStyleParse, KindLayoutConstraint:
		h.logger().Warn(err.Err.Error(), attrs...)
	default:
		h.logger().Error(err.Err.Error(), attrs...)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{slog.Any("value", err.Value)}
	if err.Op != "" {
		attrs = append(attrs, slog.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	h.logger().Error("recovered panic", attrs...)
}

// Collector is an ErrorHandler that keeps every report in memory.
type Collector struct {
	Errors []*WeftError
	Panics []*PanicError
}

// HandleError records err.
func (c *Collector) HandleError(err *WeftError) {
	if err != nil {
		c.Errors = append(c.Errors, err)
	}
}

// HandlePanic records err.
func (c *Collector) HandlePanic(err *PanicError) {
	if err != nil {
		c.Panics = append(c.Panics, err)
	}
}

// OfKind returns the collected errors of the given kind.
func (c *Collector) OfKind(kind ErrorKind) []*WeftError {
	var out []*WeftError
	for _, err := range c.Errors {
		if err.Kind == kind {
			out = append(out, err)
		}
	}
	return out
}

// Reset drops everything collected so far.
func (c *Collector) Reset() {
	c.Errors = nil
	c.Panics = nil
}

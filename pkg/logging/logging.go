// Package logging defines the injected logger interface spec.md §6's
// Configuration section requires the core to consume through, plus a
// logw-backed implementation for the real binary, grounded on the teacher's
// own use of github.com/seekerror/logw throughout its cmd/ binaries.
package logging

import (
	"context"

	"github.com/seekerror/logw"
)

// Logger is the logging surface pkg/room and pkg/session depend on. No
// core package imports github.com/seekerror/logw directly -- only this
// package and the cmd/ binaries do.
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)
	Warningf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
	Debugf(ctx context.Context, format string, args ...any)
}

// logwLogger adapts github.com/seekerror/logw's package-level functions to Logger.
type logwLogger struct{}

// NewLogw returns the production Logger backed by logw.
func NewLogw() Logger {
	return logwLogger{}
}

func (logwLogger) Infof(ctx context.Context, format string, args ...any) {
	logw.Infof(ctx, format, args...)
}

func (logwLogger) Warningf(ctx context.Context, format string, args ...any) {
	logw.Warningf(ctx, format, args...)
}

func (logwLogger) Errorf(ctx context.Context, format string, args ...any) {
	logw.Errorf(ctx, format, args...)
}

func (logwLogger) Debugf(ctx context.Context, format string, args ...any) {
	logw.Debugf(ctx, format, args...)
}

// Leveled wraps a Logger to apply the --silent/--verbose flags spec.md §6
// describes: silent suppresses Infof (per-move logs), verbose additionally
// allows Debugf (received-instruction tracing). Warningf/Errorf always pass
// through, since they cover cheating/misuse and transport failures.
type Leveled struct {
	Next    Logger
	Silent  bool
	Verbose bool
}

func (l Leveled) Infof(ctx context.Context, format string, args ...any) {
	if l.Silent {
		return
	}
	l.Next.Infof(ctx, format, args...)
}

func (l Leveled) Warningf(ctx context.Context, format string, args ...any) {
	l.Next.Warningf(ctx, format, args...)
}

func (l Leveled) Errorf(ctx context.Context, format string, args ...any) {
	l.Next.Errorf(ctx, format, args...)
}

func (l Leveled) Debugf(ctx context.Context, format string, args ...any) {
	if !l.Verbose {
		return
	}
	l.Next.Debugf(ctx, format, args...)
}

// NoOp is a Logger that discards everything, used by tests.
type NoOp struct{}

func (NoOp) Infof(context.Context, string, ...any)    {}
func (NoOp) Warningf(context.Context, string, ...any) {}
func (NoOp) Errorf(context.Context, string, ...any)   {}
func (NoOp) Debugf(context.Context, string, ...any)   {}

//go:build !dev

// Package trace records runtime traces of console invocations in development
// builds. This is the release version with no-op stubs.
package trace

import (
	"context"
	"io"
)

// Init starts tracing. In release builds, this is a no-op.
func Init(_ io.Writer) func() {
	return func() {}
}

// Task starts a task. In release builds, ctx is returned unchanged.
func Task(ctx context.Context, _ string) (context.Context, func()) {
	return ctx, func() {}
}

// Region creates a trace region. In release builds, this is a no-op.
func Region(_ context.Context, _ string) func() {
	return func() {}
}

// Log logs a message to the trace. In release builds, this is a no-op.
func Log(_ context.Context, _, _ string) {
}

// IsEnabled returns true if tracing is enabled.
func IsEnabled() bool {
	return false
}

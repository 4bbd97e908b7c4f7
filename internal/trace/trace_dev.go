//go:build dev

// Package trace records runtime traces of console invocations in development
// builds.
//
// Usage:
//
//	go build -tags dev ./cmd/cmdgraph
//	CMDGRAPH_TRACE=trace.out cmdgraph run body info mars
//	go tool trace trace.out
package trace

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/trace"
	"sync"
)

var (
	traceFile   *os.File
	traceMu     sync.Mutex
	traceActive bool
)

// Init starts tracing when CMDGRAPH_TRACE names a file. Problems are reported
// to w. The returned function stops tracing.
func Init(w io.Writer) func() {
	tracePath := os.Getenv("CMDGRAPH_TRACE")
	if tracePath == "" {
		return func() {}
	}

	traceMu.Lock()
	defer traceMu.Unlock()

	var err error
	traceFile, err = os.Create(tracePath)
	if err != nil {
		fmt.Fprintf(w, "cmdgraph: failed to create trace file %s: %v\n", tracePath, err)
		return func() {}
	}

	if err := trace.Start(traceFile); err != nil {
		fmt.Fprintf(w, "cmdgraph: failed to start trace: %v\n", err)
		_ = traceFile.Close()
		traceFile = nil
		return func() {}
	}

	traceActive = true
	fmt.Fprintf(w, "cmdgraph: tracing to %s\n", tracePath)

	return func() {
		traceMu.Lock()
		defer traceMu.Unlock()

		if traceActive {
			trace.Stop()
			traceActive = false
		}
		if traceFile != nil {
			_ = traceFile.Close()
			traceFile = nil
		}
	}
}

// Task starts a task covering one invocation. Call the returned function to end it.
func Task(ctx context.Context, name string) (context.Context, func()) {
	if !traceActive {
		return ctx, func() {}
	}
	ctx, task := trace.NewTask(ctx, name)
	return ctx, task.End
}

// Region creates a trace region. Returns a function to end the region.
func Region(ctx context.Context, regionType string) func() {
	if !traceActive {
		return func() {}
	}
	return trace.StartRegion(ctx, regionType).End
}

// Log logs a message to the trace.
func Log(ctx context.Context, category, message string) {
	if traceActive {
		trace.Log(ctx, category, message)
	}
}

// IsEnabled returns true if tracing is enabled.
func IsEnabled() bool {
	return traceActive
}

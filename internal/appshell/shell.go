// internal/appshell/shell.go
//
// Package appshell owns the process edge: signal wiring and exit-code
// normalization. Everything else lives behind the run function so tests
// can call it directly with plain buffers.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Main runs the app with an interrupt-aware context and exits the
// process with its code. An interrupt that the run absorbed cleanly is
// still reported as 130.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if ctx.Err() != nil && code == 0 {
		code = 130
	}

	stop()
	os.Exit(code)
}

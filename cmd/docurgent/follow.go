package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/docurgent/docurgent/pkg/adapters/auditstream"
	"github.com/docurgent/docurgent/pkg/core"
)

// lockedWriter serializes writes from printers of concurrently running scenarios.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// follow prints security log entries to w until ctx is cancelled.
// The returned channel closes once the printer has stopped.
func follow(ctx context.Context, engine *core.Engine, w io.Writer) (<-chan struct{}, error) {
	src := auditstream.NewSource(engine.Subscribe(ctx))
	if err := src.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start audit stream: %w", err)
	}

	done := make(chan struct{})
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(done)
		for e := range src.Events() {
			fmt.Fprintf(w, "audit %s\n", e)
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		slog.Error("audit printer panic", "error", err)
	}))
	return done, nil
}

// Package auditstream exposes the engine's security log stream as a lifecycle source.
package auditstream

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/docurgent/docurgent/pkg/core"
)

type auditSource struct {
	entries <-chan core.SecurityLog
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits security log entries.
// Pass the channel returned by Engine.Subscribe; the source ends when it
// closes or when the Start context is done. Consumers must read Events until
// it is closed.
func NewSource(entries <-chan core.SecurityLog) lifecycle.Source {
	return &auditSource{
		entries: entries,
		out:     make(chan lifecycle.Event),
	}
}

func (s *auditSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *auditSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				s.drain()
				return nil
			case e, ok := <-s.entries:
				if !ok {
					return nil
				}
				s.out <- e
			}
		}
	})
	return nil
}

// drain forwards entries already buffered when the context ended.
func (s *auditSource) drain() {
	for {
		select {
		case e, ok := <-s.entries:
			if !ok {
				return
			}
			s.out <- e
		default:
			return
		}
	}
}

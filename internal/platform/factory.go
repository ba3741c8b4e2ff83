package platform

import (
	"fmt"

	"github.com/docurgent/docurgent/pkg/adapters/memory"
	"github.com/docurgent/docurgent/pkg/core"
)

// New wires an engine from the given options.
//
//	engine, err := docurgent.New(docurgent.WithLogger(logger))
func New(opts ...Option) (*core.Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.eventBuffer < 0 {
		return nil, fmt.Errorf("event buffer must not be negative, got %d", o.eventBuffer)
	}

	repo := o.repository
	if repo == nil {
		repo = memory.NewRepository()
	}
	audit := o.auditLog
	if audit == nil {
		audit = memory.NewAuditLog()
	}

	if o.logger != nil {
		o.logger.Debug("engine configured",
			"repository", fmt.Sprintf("%T", repo),
			"audit_log", fmt.Sprintf("%T", audit),
			"event_buffer", o.eventBuffer,
		)
	}

	return core.NewEngine(repo, audit, core.Config{
		Logger:      o.logger,
		Codes:       o.codes,
		Verifier:    o.verifier,
		Clock:       o.clock,
		EventBuffer: o.eventBuffer,
	}), nil
}

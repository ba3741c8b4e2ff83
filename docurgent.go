package docurgent

import (
	"log/slog"
	"time"

	"github.com/docurgent/docurgent/internal/platform"
	"github.com/docurgent/docurgent/pkg/core"
)

// --- Types ---

// Engine is the chain-of-custody workflow engine.
type Engine = core.Engine

// DocumentRequest is the custody record of one physical document.
type DocumentRequest = core.DocumentRequest

// SecurityLog is one audit entry.
type SecurityLog = core.SecurityLog

// Status is the custody state of a request.
type Status = core.Status

// --- Configuration ---

// Option defines a functional option for configuring the engine.
type Option = platform.Option

// WithLogger sets the operator logger.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom request store.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAuditLog allows injecting a custom security log store.
func WithAuditLog(log core.AuditLog) Option {
	return platform.WithAuditLog(log)
}

// WithCodeGenerator replaces the verification code generator.
func WithCodeGenerator(g core.CodeGenerator) Option {
	return platform.WithCodeGenerator(g)
}

// WithTravelerVerifier replaces the traveler identity policy.
func WithTravelerVerifier(v core.TravelerVerifier) Option {
	return platform.WithTravelerVerifier(v)
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithEventBuffer sets the per-subscriber buffer of the security event stream.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// --- Factory ---

// New creates an Engine. Each call owns fresh stores unless some are injected.
func New(opts ...Option) (*core.Engine, error) {
	return platform.New(opts...)
}

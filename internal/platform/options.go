package platform

import (
	"log/slog"
	"time"

	"github.com/docurgent/docurgent/pkg/core"
)

// options holds the internal configuration for the workflow engine.
type options struct {
	repository  core.Repository
	auditLog    core.AuditLog
	logger      *slog.Logger
	codes       core.CodeGenerator
	verifier    core.TravelerVerifier
	clock       func() time.Time
	eventBuffer int
}

// Option defines a functional option for configuring the engine.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		eventBuffer: core.DefaultEventBuffer,
	}
}

// WithLogger sets the operator logger. Security events are mirrored to it at info level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom request store.
// If not provided, an in-memory repository is used.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAuditLog allows injecting a custom security log store.
// If not provided, an in-memory log is used.
func WithAuditLog(log core.AuditLog) Option {
	return func(o *options) {
		o.auditLog = log
	}
}

// WithCodeGenerator replaces the crypto/rand backed code generator (useful for testing).
func WithCodeGenerator(g core.CodeGenerator) Option {
	return func(o *options) {
		o.codes = g
	}
}

// WithTravelerVerifier replaces the non-empty traveler policy.
func WithTravelerVerifier(v core.TravelerVerifier) Option {
	return func(o *options) {
		o.verifier = v
	}
}

// WithClock overrides the time source used for request and log timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithEventBuffer sets the per-subscriber buffer of the security event stream.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

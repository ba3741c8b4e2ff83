package memory

import (
	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Requests int `json:"requests"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	return RepositoryState{Requests: r.Len()}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "memory-repository"
}

// AuditLogState exposes internal state for observability.
type AuditLogState struct {
	Entries int `json:"entries"`
}

// State implements introspection.Introspectable.
func (a *AuditLog) State() any {
	return AuditLogState{Entries: a.Len()}
}

// ComponentType implements introspection.Component.
func (a *AuditLog) ComponentType() string {
	return "memory-audit-log"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
var _ introspection.Introspectable = (*AuditLog)(nil)
var _ introspection.Component = (*AuditLog)(nil)

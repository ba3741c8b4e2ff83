package core

import (
	"context"

	"github.com/aretw0/introspection"
)

// EngineState exposes internal state for observability.
type EngineState struct {
	Requests       int            `json:"requests"`
	ByStatus       map[Status]int `json:"by_status"`
	SecurityLogs   int            `json:"security_logs"`
	Subscribers    int            `json:"subscribers"`
	RepositoryType string         `json:"repository_type"`
	AuditLogType   string         `json:"audit_log_type"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	ctx := context.Background()
	state := EngineState{
		ByStatus:       make(map[Status]int),
		Subscribers:    e.events.len(),
		RepositoryType: componentType(e.repo),
		AuditLogType:   componentType(e.audit),
	}

	if reqs, err := e.repo.List(ctx); err == nil {
		state.Requests = len(reqs)
		for _, r := range reqs {
			state.ByStatus[r.Status]++
		}
	}
	if logs, err := e.audit.List(ctx); err == nil {
		state.SecurityLogs = len(logs)
	}
	return state
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

func componentType(v any) string {
	if v == nil {
		return "none"
	}
	if comp, ok := v.(introspection.Component); ok {
		return comp.ComponentType()
	}
	return "unknown"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)

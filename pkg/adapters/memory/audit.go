package memory

import (
	"context"
	"sync"

	"github.com/docurgent/docurgent/pkg/core"
)

// AuditLog implements core.AuditLog as an append-only slice.
type AuditLog struct {
	mu      sync.RWMutex
	entries []core.SecurityLog
}

// NewAuditLog creates an empty audit log.
func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (a *AuditLog) Append(ctx context.Context, entry core.SecurityLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *AuditLog) List(ctx context.Context) ([]core.SecurityLog, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]core.SecurityLog, len(a.entries))
	copy(out, a.entries)
	return out, nil
}

// ListForRequest matches on the structured RequestID, never on Details.
func (a *AuditLog) ListForRequest(ctx context.Context, id string) ([]core.SecurityLog, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []core.SecurityLog
	for _, e := range a.entries {
		if e.RequestID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// Len returns the number of entries.
func (a *AuditLog) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

var _ core.AuditLog = (*AuditLog)(nil)

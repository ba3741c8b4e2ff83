// Package memory provides process-local, concurrency-safe stores for the engine.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/docurgent/docurgent/pkg/core"
)

// Repository implements core.Repository in memory.
// A single lock covers reads and writes; Update holds it across the caller's
// check-and-set so competing transitions on one request serialize.
type Repository struct {
	mu    sync.RWMutex
	items map[string]core.DocumentRequest
	order []string
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		items: make(map[string]core.DocumentRequest),
	}
}

// Create stores a new request.
func (r *Repository) Create(ctx context.Context, req core.DocumentRequest) error {
	if req.ID == "" {
		return fmt.Errorf("document request has no ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[req.ID]; ok {
		return fmt.Errorf("%w: %s", core.ErrAlreadyExists, req.ID)
	}
	r.items[req.ID] = req.Clone()
	r.order = append(r.order, req.ID)
	return nil
}

// Get retrieves a copy of a request.
func (r *Repository) Get(ctx context.Context, id string) (core.DocumentRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.items[id]
	if !ok {
		return core.DocumentRequest{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return req.Clone(), nil
}

// List returns copies of all requests in creation order.
func (r *Repository) List(ctx context.Context) ([]core.DocumentRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.DocumentRequest, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id].Clone())
	}
	return out, nil
}

// Update runs fn on a working copy and stores it only if fn succeeds.
func (r *Repository) Update(ctx context.Context, id string, fn func(*core.DocumentRequest) error) (core.DocumentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[id]
	if !ok {
		return core.DocumentRequest{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	working := current.Clone()
	if err := fn(&working); err != nil {
		return core.DocumentRequest{}, err
	}
	working.ID = current.ID
	r.items[id] = working
	return working.Clone(), nil
}

// Len returns the number of stored requests.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

var _ core.Repository = (*Repository)(nil)

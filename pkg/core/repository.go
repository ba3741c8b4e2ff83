package core

import "context"

// Repository defines the contract for storing document requests.
// Adhering to this interface keeps the engine independent of where requests live.
type Repository interface {
	// Create stores a new request. It fails with ErrAlreadyExists on an ID clash.
	Create(ctx context.Context, req DocumentRequest) error

	// Get retrieves a request by its ID.
	Get(ctx context.Context, id string) (DocumentRequest, error)

	// List returns all requests in creation order.
	List(ctx context.Context) ([]DocumentRequest, error)

	// Update applies fn to the stored request atomically and returns the result.
	// No other Update on the same request may interleave between fn reading the
	// current state and the new state being stored. If fn returns an error the
	// stored request is left untouched and the error is returned as-is.
	Update(ctx context.Context, id string, fn func(*DocumentRequest) error) (DocumentRequest, error)
}

// AuditLog is the append-only security log.
type AuditLog interface {
	// Append records an entry. Entries are kept in append order.
	Append(ctx context.Context, entry SecurityLog) error

	// List returns every entry in append order.
	List(ctx context.Context) ([]SecurityLog, error)

	// ListForRequest returns the entries whose RequestID equals id.
	ListForRequest(ctx context.Context, id string) ([]SecurityLog, error)
}

// CodeGenerator issues the per-request verification codes.
type CodeGenerator interface {
	// UniqueCode returns the sender-side code: "DOC" followed by 6 uppercase alphanumerics.
	UniqueCode() string
	// DeliveryCode returns the recipient-side code: 6 decimal digits.
	DeliveryCode() string
}

// TravelerVerifier decides whether a traveler may take custody of an envelope.
type TravelerVerifier interface {
	VerifyTraveler(ctx context.Context, travelerID string) bool
}

// TravelerVerifierFunc adapts a plain function to TravelerVerifier.
type TravelerVerifierFunc func(ctx context.Context, travelerID string) bool

func (f TravelerVerifierFunc) VerifyTraveler(ctx context.Context, travelerID string) bool {
	return f(ctx, travelerID)
}

// NonEmptyTraveler accepts any non-empty traveler ID.
// It stands in until travelers are checked against a verified registry.
var NonEmptyTraveler TravelerVerifier = TravelerVerifierFunc(func(_ context.Context, travelerID string) bool {
	return len(travelerID) > 0
})

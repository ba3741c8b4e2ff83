package core

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docurgent/docurgent/pkg/codes"
)

// Security log actions recorded by the engine.
const (
	ActionRequestCreated         = "DOCUMENT_REQUEST_CREATED"
	ActionAtRelayPoint           = "DOCUMENT_AT_RELAY_POINT"
	ActionSenderValidation       = "SENDER_IDENTITY_VALIDATION"
	ActionTravelerValidation     = "TRAVELER_IDENTITY_VALIDATION"
	ActionHandedToTraveler       = "DOCUMENT_HANDED_TO_TRAVELER"
	ActionDeliveryCodeValidation = "DELIVERY_CODE_VALIDATION"
	ActionDelivered              = "DOCUMENT_DELIVERED"
	ActionAlreadyCompleted       = "DELIVERY_ALREADY_COMPLETED"
	ActionCompletionValidation   = "DELIVERY_COMPLETION_VALIDATION"
	ActionCompleted              = "DELIVERY_COMPLETED"
	ActionAlreadyConfirmed       = "DELIVERY_ALREADY_CONFIRMED"
	ActionConfirmationValidation = "DELIVERY_CONFIRMATION_VALIDATION"
	ActionConfirmed              = "DOCUMENT_CONFIRMED"
	ActionDeliveryStepUpdated    = "DELIVERY_STEP_UPDATED"
)

// Config holds the collaborators of an Engine. Zero values select defaults.
type Config struct {
	Logger      *slog.Logger
	Codes       CodeGenerator
	Verifier    TravelerVerifier
	Clock       func() time.Time
	EventBuffer int
}

// Engine owns document requests and the security log, and is the only legal
// way to create and advance a request.
type Engine struct {
	repo     Repository
	audit    AuditLog
	codes    CodeGenerator
	verifier TravelerVerifier
	logger   *slog.Logger
	now      func() time.Time
	events   *broker

	// logMu orders appends and their fan-out, so subscribers see the log's order.
	logMu sync.Mutex
}

// NewEngine creates an Engine over the given stores.
func NewEngine(repo Repository, audit AuditLog, cfg Config) *Engine {
	e := &Engine{
		repo:     repo,
		audit:    audit,
		codes:    cfg.Codes,
		verifier: cfg.Verifier,
		logger:   cfg.Logger,
		now:      cfg.Clock,
		events:   newBroker(cfg.EventBuffer),
	}
	if e.codes == nil {
		e.codes = codes.NewGenerator()
	}
	if e.verifier == nil {
		e.verifier = NonEmptyTraveler
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// CreateDocumentRequest opens a new custody chain with fresh codes and all steps incomplete.
// Fields are stored as given; presence checks belong to the caller.
func (e *Engine) CreateDocumentRequest(ctx context.Context, sender Sender, recipient Recipient, doc DocumentInfo) (DocumentRequest, error) {
	now := e.now()
	req := DocumentRequest{
		ID:            uuid.NewString(),
		Sender:        sender,
		Recipient:     recipient,
		Document:      doc,
		Status:        StatusCreated,
		UniqueCode:    e.codes.UniqueCode(),
		DeliveryCode:  e.codes.DeliveryCode(),
		DeliverySteps: DefaultDeliverySteps(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := e.repo.Create(ctx, req.Clone()); err != nil {
		return DocumentRequest{}, fmt.Errorf("failed to create document request: %w", err)
	}

	if err := e.logEvent(ctx, ActionRequestCreated, req.ID, "",
		fmt.Sprintf("Document request created for %s", sender.Name)); err != nil {
		return DocumentRequest{}, err
	}
	return req, nil
}

// GetDocumentRequest looks a request up by ID.
func (e *Engine) GetDocumentRequest(ctx context.Context, id string) (DocumentRequest, error) {
	return e.repo.Get(ctx, id)
}

// ListDocumentRequests returns requests in creation order, keeping only the
// given statuses when any are passed.
func (e *Engine) ListDocumentRequests(ctx context.Context, statuses ...Status) ([]DocumentRequest, error) {
	all, err := e.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return all, nil
	}

	var out []DocumentRequest
	for _, r := range all {
		for _, s := range statuses {
			if r.Status == s {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

// MarkAtRelayPoint records that the envelope reached a relay point.
// The transition is unconditional: it applies from any status.
func (e *Engine) MarkAtRelayPoint(ctx context.Context, id string) (DocumentRequest, error) {
	req, err := e.repo.Update(ctx, id, func(r *DocumentRequest) error {
		if err := apply(OpMarkAtRelayPoint, r); err != nil {
			return err
		}
		r.UpdatedAt = e.now()
		return nil
	})
	if err != nil {
		return DocumentRequest{}, e.reject(OpMarkAtRelayPoint, id, err)
	}

	if err := e.logEvent(ctx, ActionAtRelayPoint, id, "", "Document marked as at relay point"); err != nil {
		return DocumentRequest{}, err
	}
	return req, nil
}

// ValidateSenderIdentity checks code against the request's unique code.
// Both outcomes are logged; an unknown request returns ErrNotFound and is not.
func (e *Engine) ValidateSenderIdentity(ctx context.Context, id, code string) (bool, error) {
	req, err := e.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}

	valid := codesMatch(req.UniqueCode, code)
	if err := e.logEvent(ctx, ActionSenderValidation, id, "",
		"Sender identity validation "+outcome(valid)); err != nil {
		return false, err
	}
	return valid, nil
}

// ValidateTravelerIdentity runs the traveler check as its own logged checkpoint.
func (e *Engine) ValidateTravelerIdentity(ctx context.Context, id, travelerID string) (bool, error) {
	valid := e.verifier.VerifyTraveler(ctx, travelerID)
	if err := e.logTravelerValidation(ctx, id, travelerID, valid); err != nil {
		return false, err
	}
	return valid, nil
}

// HandToTraveler passes custody from the relay point to a verified traveler.
// A request that is not at a relay point is rejected before the traveler is checked.
// The traveler check runs outside the repository update; the status guard is
// re-applied inside it, so a concurrent handoff still wins only once.
func (e *Engine) HandToTraveler(ctx context.Context, id, travelerID string) (DocumentRequest, error) {
	current, err := e.repo.Get(ctx, id)
	if err != nil {
		return DocumentRequest{}, e.reject(OpHandToTraveler, id, err)
	}
	if _, err := guard(OpHandToTraveler, current.Status); err != nil {
		return DocumentRequest{}, e.reject(OpHandToTraveler, id, err)
	}

	verified := e.verifier.VerifyTraveler(ctx, travelerID)
	if err := e.logTravelerValidation(ctx, id, travelerID, verified); err != nil {
		return DocumentRequest{}, err
	}
	if !verified {
		return DocumentRequest{}, e.reject(OpHandToTraveler, id,
			fmt.Errorf("%w: %q", ErrInvalidTraveler, travelerID))
	}

	req, err := e.repo.Update(ctx, id, func(r *DocumentRequest) error {
		if err := apply(OpHandToTraveler, r); err != nil {
			return err
		}
		r.TravelerID = travelerID
		r.UpdatedAt = e.now()
		return nil
	})
	if err != nil {
		return DocumentRequest{}, e.reject(OpHandToTraveler, id, err)
	}

	if err := e.logEvent(ctx, ActionHandedToTraveler, id, travelerID,
		fmt.Sprintf("Document handed to traveler %s", travelerID)); err != nil {
		return DocumentRequest{}, err
	}
	return req, nil
}

// ValidateDeliveryCode checks code against the request's delivery code. It consumes nothing.
func (e *Engine) ValidateDeliveryCode(ctx context.Context, id, code string) (bool, error) {
	req, err := e.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}

	valid := codesMatch(req.DeliveryCode, code)
	if err := e.logEvent(ctx, ActionDeliveryCodeValidation, id, "",
		"Delivery code validation "+outcome(valid)); err != nil {
		return false, err
	}
	return valid, nil
}

// MarkDelivered records hand-over to the recipient. Callers are expected to
// have run ValidateDeliveryCode first; the engine does not enforce it.
func (e *Engine) MarkDelivered(ctx context.Context, id string) (DocumentRequest, error) {
	req, err := e.repo.Update(ctx, id, func(r *DocumentRequest) error {
		if err := apply(OpMarkDelivered, r); err != nil {
			return err
		}
		r.UpdatedAt = e.now()
		return nil
	})
	if err != nil {
		return DocumentRequest{}, e.reject(OpMarkDelivered, id, err)
	}

	if err := e.logEvent(ctx, ActionDelivered, id, "", "Document marked as delivered to recipient"); err != nil {
		return DocumentRequest{}, err
	}
	return req, nil
}

// CompleteDelivery closes the chain from the traveler's side using the
// recipient's delivery code. A request completes at most once: once a
// completion is recorded it is never rewritten, even after the request moves
// on to confirmed. A request confirmed without completion is terminal.
func (e *Engine) CompleteDelivery(ctx context.Context, id, confirmationCode, travelerID string) (DocumentRequest, error) {
	var validated, valid bool

	req, err := e.repo.Update(ctx, id, func(r *DocumentRequest) error {
		if r.Status == StatusCompleted || r.CompletedAt != nil {
			return ErrAlreadyCompleted
		}
		if _, err := guard(OpCompleteDelivery, r.Status); err != nil {
			return err
		}
		validated = true
		valid = codesMatch(r.DeliveryCode, confirmationCode)
		if !valid {
			return ErrInvalidCode
		}
		if err := apply(OpCompleteDelivery, r); err != nil {
			return err
		}
		now := e.now()
		r.CompletedAt = &now
		r.CompletedBy = travelerID
		r.UpdatedAt = now
		return nil
	})

	if errors.Is(err, ErrAlreadyCompleted) {
		if logErr := e.logEvent(ctx, ActionAlreadyCompleted, id, travelerID,
			"Attempt to complete already completed delivery"); logErr != nil {
			return DocumentRequest{}, logErr
		}
	}
	if validated {
		if logErr := e.logEvent(ctx, ActionCompletionValidation, id, travelerID,
			"Delivery completion validation "+outcome(valid)); logErr != nil {
			return DocumentRequest{}, logErr
		}
	}
	if err != nil {
		return DocumentRequest{}, e.reject(OpCompleteDelivery, id, err)
	}

	if err := e.logEvent(ctx, ActionCompleted, id, travelerID,
		fmt.Sprintf("Delivery completed by traveler %s", travelerID)); err != nil {
		return DocumentRequest{}, err
	}
	return req, nil
}

// ConfirmDelivery closes the chain from the recipient's side with the delivery code.
// It does not depend on CompleteDelivery having run, nor does it prevent it.
func (e *Engine) ConfirmDelivery(ctx context.Context, id, code string) (DocumentRequest, error) {
	var validated, valid bool

	req, err := e.repo.Update(ctx, id, func(r *DocumentRequest) error {
		if r.Status == StatusConfirmed {
			return ErrAlreadyConfirmed
		}
		if _, err := guard(OpConfirmDelivery, r.Status); err != nil {
			return err
		}
		validated = true
		valid = codesMatch(r.DeliveryCode, code)
		if !valid {
			return ErrInvalidCode
		}
		if err := apply(OpConfirmDelivery, r); err != nil {
			return err
		}
		r.UpdatedAt = e.now()
		return nil
	})

	if errors.Is(err, ErrAlreadyConfirmed) {
		if logErr := e.logEvent(ctx, ActionAlreadyConfirmed, id, "",
			"Attempt to confirm already confirmed delivery"); logErr != nil {
			return DocumentRequest{}, logErr
		}
	}
	if validated {
		if logErr := e.logEvent(ctx, ActionConfirmationValidation, id, "",
			"Delivery confirmation validation "+outcome(valid)); logErr != nil {
			return DocumentRequest{}, logErr
		}
	}
	if err != nil {
		return DocumentRequest{}, e.reject(OpConfirmDelivery, id, err)
	}

	if err := e.logEvent(ctx, ActionConfirmed, id, "", "Delivery confirmed by recipient"); err != nil {
		return DocumentRequest{}, err
	}
	return req, nil
}

// IsDeliveryCompleted reports whether the request reached completed.
func (e *Engine) IsDeliveryCompleted(ctx context.Context, id string) (bool, error) {
	req, err := e.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return req.Status == StatusCompleted, nil
}

// UpdateDeliveryStep toggles a progress step. Status is never touched and any
// step may be toggled in any order, on a request in any status.
func (e *Engine) UpdateDeliveryStep(ctx context.Context, id, stepID string, completed bool, actorID string) (DocumentRequest, error) {
	var stepName string

	req, err := e.repo.Update(ctx, id, func(r *DocumentRequest) error {
		step := r.Step(stepID)
		if step == nil {
			return fmt.Errorf("%w: %q", ErrStepNotFound, stepID)
		}
		now := e.now()
		step.Completed = completed
		if completed {
			step.CompletedAt = &now
			step.CompletedBy = actorID
		} else {
			step.CompletedAt = nil
			step.CompletedBy = ""
		}
		r.UpdatedAt = now
		stepName = step.Name
		return nil
	})
	if err != nil {
		return DocumentRequest{}, err
	}

	verb := "reset"
	if completed {
		verb = "completed"
	}
	who := actorID
	if who == "" {
		who = "unknown user"
	}
	if err := e.logEvent(ctx, ActionDeliveryStepUpdated, id, actorID,
		fmt.Sprintf("Delivery step '%s' %s by %s", stepName, verb, who)); err != nil {
		return DocumentRequest{}, err
	}
	return req, nil
}

// GetDeliverySteps returns a copy of the request's steps.
func (e *Engine) GetDeliverySteps(ctx context.Context, id string) ([]DeliveryStep, error) {
	req, err := e.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return req.Clone().DeliverySteps, nil
}

// AreAllStepsCompleted reports whether every step of the request is complete.
func (e *Engine) AreAllStepsCompleted(ctx context.Context, id string) (bool, error) {
	req, err := e.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return req.AllStepsCompleted(), nil
}

// LogSecurityEvent appends an arbitrary named event. requestID may be empty.
func (e *Engine) LogSecurityEvent(ctx context.Context, action, requestID, details string) error {
	return e.logEvent(ctx, action, requestID, "", details)
}

// GetSecurityLogs returns every entry in append order.
func (e *Engine) GetSecurityLogs(ctx context.Context) ([]SecurityLog, error) {
	return e.audit.List(ctx)
}

// GetSecurityLogsForRequest returns the entries recorded against one request.
func (e *Engine) GetSecurityLogsForRequest(ctx context.Context, id string) ([]SecurityLog, error) {
	return e.audit.ListForRequest(ctx, id)
}

// Subscribe streams security log entries appended after the call until ctx is done.
// Entries arrive in the order GetSecurityLogs reports them; a subscriber whose
// buffer is full misses entries but never sees them reordered.
// The channel is closed when ctx is cancelled.
func (e *Engine) Subscribe(ctx context.Context) <-chan SecurityLog {
	return e.events.subscribe(ctx)
}

func (e *Engine) logEvent(ctx context.Context, action, requestID, actor, details string) error {
	e.logMu.Lock()
	entry := SecurityLog{
		ID:        uuid.NewString(),
		Timestamp: e.now(),
		Action:    action,
		RequestID: requestID,
		Actor:     actor,
		Details:   details,
	}
	if err := e.audit.Append(ctx, entry); err != nil {
		e.logMu.Unlock()
		return fmt.Errorf("failed to append security log %s: %w", action, err)
	}
	dropped := e.events.publish(entry)
	e.logMu.Unlock()

	e.logger.Info("security event",
		"action", action,
		"request_id", requestID,
		"details", details,
	)
	if dropped > 0 {
		e.logger.Warn("security event dropped by slow subscribers", "action", action, "dropped", dropped)
	}
	return nil
}

func (e *Engine) logTravelerValidation(ctx context.Context, id, travelerID string, valid bool) error {
	return e.logEvent(ctx, ActionTravelerValidation, id, travelerID,
		"Traveler identity validation "+outcome(valid))
}

// reject reports a refused operation to the operator log and passes err through.
func (e *Engine) reject(op Operation, id string, err error) error {
	e.logger.Warn("operation rejected", "operation", op, "request_id", id, "error", err)
	return err
}

func codesMatch(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

func outcome(valid bool) string {
	if valid {
		return "successful"
	}
	return "failed"
}

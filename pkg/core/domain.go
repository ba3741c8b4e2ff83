// Package core holds the chain-of-custody domain: document requests, their
// status machine, the security log and the Engine that advances them.
package core

import (
	"fmt"
	"time"
)

// Status is the custody state of a document request.
type Status string

const (
	StatusCreated      Status = "created"
	StatusAtRelayPoint Status = "at_relay_point"
	StatusWithTraveler Status = "with_traveler"
	StatusDelivered    Status = "delivered"
	StatusConfirmed    Status = "confirmed"
	StatusCompleted    Status = "completed"
)

// Sender is the party handing the envelope to a relay point.
type Sender struct {
	Name          string `json:"name" yaml:"name"`
	Phone         string `json:"phone" yaml:"phone"`
	SourceAddress string `json:"source_address" yaml:"source_address"`
}

// Recipient is the party receiving the envelope at destination.
type Recipient struct {
	Name               string `json:"name" yaml:"name"`
	Phone              string `json:"phone" yaml:"phone"`
	DestinationAddress string `json:"destination_address" yaml:"destination_address"`
}

// DocumentInfo describes the physical document being carried.
type DocumentInfo struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// Delivery step identifiers, in the order they are tracked.
const (
	StepCollectEnvelope = "collect_envelope"
	StepTakePlane       = "take_plane"
	StepLanded          = "landed"
	StepHandledEnvelope = "handled_envelope"
)

// DeliveryStep is an informational progress marker. Steps never gate status transitions.
type DeliveryStep struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Completed   bool       `json:"completed" yaml:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty" yaml:"completed_by,omitempty"`
}

// DefaultDeliverySteps returns the four checkpoints every request starts with, all incomplete.
func DefaultDeliverySteps() []DeliveryStep {
	return []DeliveryStep{
		{ID: StepCollectEnvelope, Name: "Collect Envelope"},
		{ID: StepTakePlane, Name: "Take Plane"},
		{ID: StepLanded, Name: "Landed"},
		{ID: StepHandledEnvelope, Name: "Handled Envelope"},
	}
}

// DocumentRequest is the chain-of-custody record for one physical document.
// UniqueCode and DeliveryCode are assigned at creation and never regenerated.
type DocumentRequest struct {
	ID            string         `json:"id" yaml:"id"`
	Sender        Sender         `json:"sender" yaml:"sender"`
	Recipient     Recipient      `json:"recipient" yaml:"recipient"`
	Document      DocumentInfo   `json:"document" yaml:"document"`
	Status        Status         `json:"status" yaml:"status"`
	UniqueCode    string         `json:"unique_code" yaml:"unique_code"`
	DeliveryCode  string         `json:"delivery_code" yaml:"delivery_code"`
	TravelerID    string         `json:"traveler_id,omitempty" yaml:"traveler_id,omitempty"`
	DeliverySteps []DeliveryStep `json:"delivery_steps" yaml:"delivery_steps"`
	CreatedAt     time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" yaml:"updated_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	CompletedBy   string         `json:"completed_by,omitempty" yaml:"completed_by,omitempty"`
}

// Clone returns a deep copy so callers never share step slices or time pointers with the store.
func (r DocumentRequest) Clone() DocumentRequest {
	out := r
	if r.DeliverySteps != nil {
		out.DeliverySteps = make([]DeliveryStep, len(r.DeliverySteps))
		for i, s := range r.DeliverySteps {
			if s.CompletedAt != nil {
				t := *s.CompletedAt
				s.CompletedAt = &t
			}
			out.DeliverySteps[i] = s
		}
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// Step returns a pointer to the named step inside r, or nil.
func (r *DocumentRequest) Step(id string) *DeliveryStep {
	for i := range r.DeliverySteps {
		if r.DeliverySteps[i].ID == id {
			return &r.DeliverySteps[i]
		}
	}
	return nil
}

// AllStepsCompleted reports whether every delivery step is marked complete.
func (r DocumentRequest) AllStepsCompleted() bool {
	for _, s := range r.DeliverySteps {
		if !s.Completed {
			return false
		}
	}
	return true
}

// SecurityLog is an append-only audit entry.
// RequestID is empty for events not tied to a request (e.g. DEMO_RESET).
type SecurityLog struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Action    string    `json:"action" yaml:"action"`
	RequestID string    `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	Actor     string    `json:"actor,omitempty" yaml:"actor,omitempty"`
	Details   string    `json:"details,omitempty" yaml:"details,omitempty"`
}

func (l SecurityLog) String() string {
	if l.RequestID == "" {
		return fmt.Sprintf("%s: %s", l.Action, l.Details)
	}
	return fmt.Sprintf("%s[%s]: %s", l.Action, l.RequestID, l.Details)
}

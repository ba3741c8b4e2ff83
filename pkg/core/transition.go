package core

import "fmt"

// Operation names a status-changing engine operation.
type Operation string

const (
	OpMarkAtRelayPoint Operation = "mark_at_relay_point"
	OpHandToTraveler   Operation = "hand_to_traveler"
	OpMarkDelivered    Operation = "mark_delivered"
	OpCompleteDelivery Operation = "complete_delivery"
	OpConfirmDelivery  Operation = "confirm_delivery"
)

// Transition describes where an operation moves a request and from where it may do so.
// Exactly one of Unconditional, From or Except applies.
type Transition struct {
	To Status
	// Unconditional transitions ignore the current status.
	Unconditional bool
	// From lists the only statuses the transition may start from.
	From []Status
	// Except lists statuses the transition refuses; every other status is accepted.
	Except []Status
}

// Allows reports whether the transition may fire from the given status.
func (t Transition) Allows(from Status) bool {
	if t.Unconditional {
		return true
	}
	if len(t.Except) > 0 {
		for _, s := range t.Except {
			if s == from {
				return false
			}
		}
		return true
	}
	for _, s := range t.From {
		if s == from {
			return true
		}
	}
	return false
}

// transitions is the custody state machine.
//
// completed and confirmed are reached through different operations; neither
// is a precondition of the other. confirmed is terminal, while a completed
// request may still be confirmed by the recipient.
var transitions = map[Operation]Transition{
	OpMarkAtRelayPoint: {To: StatusAtRelayPoint, Unconditional: true},
	OpHandToTraveler:   {To: StatusWithTraveler, From: []Status{StatusAtRelayPoint}},
	OpMarkDelivered:    {To: StatusDelivered, From: []Status{StatusWithTraveler}},
	OpCompleteDelivery: {To: StatusCompleted, Except: []Status{StatusCompleted, StatusConfirmed}},
	OpConfirmDelivery: {To: StatusConfirmed, From: []Status{
		StatusWithTraveler, StatusDelivered, StatusCompleted,
	}},
}

// TransitionFor returns the transition registered for op.
func TransitionFor(op Operation) (Transition, bool) {
	t, ok := transitions[op]
	return t, ok
}

// guard reports whether op may fire from the given status.
func guard(op Operation, from Status) (Transition, error) {
	t, ok := transitions[op]
	if !ok {
		return Transition{}, fmt.Errorf("unknown operation %q", op)
	}
	if !t.Allows(from) {
		return Transition{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, from)
	}
	return t, nil
}

// apply moves req to the transition's target status or reports why it cannot.
func apply(op Operation, req *DocumentRequest) error {
	t, err := guard(op, req.Status)
	if err != nil {
		return err
	}
	req.Status = t.To
	return nil
}

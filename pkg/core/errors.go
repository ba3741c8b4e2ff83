package core

import "errors"

// Common errors.
var (
	ErrNotFound          = errors.New("document request not found")
	ErrAlreadyExists     = errors.New("document request already exists")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrAlreadyCompleted  = errors.New("delivery already completed")
	ErrAlreadyConfirmed  = errors.New("delivery already confirmed")
	ErrInvalidCode       = errors.New("verification code mismatch")
	ErrInvalidTraveler   = errors.New("traveler identity rejected")
	ErrStepNotFound      = errors.New("delivery step not found")
)

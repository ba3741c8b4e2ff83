package scenario

import (
	"errors"

	"github.com/docurgent/docurgent/pkg/core"
)

// ErrorKind is the script-level name of an engine error.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindAlreadyCompleted  ErrorKind = "already_completed"
	KindAlreadyConfirmed  ErrorKind = "already_confirmed"
	KindInvalidCode       ErrorKind = "invalid_code"
	KindInvalidTraveler   ErrorKind = "invalid_traveler"
	KindStepNotFound      ErrorKind = "step_not_found"
	KindInternal          ErrorKind = "internal"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{core.ErrNotFound, KindNotFound},
	{core.ErrInvalidTransition, KindInvalidTransition},
	{core.ErrAlreadyCompleted, KindAlreadyCompleted},
	{core.ErrAlreadyConfirmed, KindAlreadyConfirmed},
	{core.ErrInvalidCode, KindInvalidCode},
	{core.ErrInvalidTraveler, KindInvalidTraveler},
	{core.ErrStepNotFound, KindStepNotFound},
}

// KindOf classifies err. It returns "" for nil and KindInternal for errors
// outside the engine's sentinel set.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

func (k ErrorKind) known() bool {
	for _, e := range kinds {
		if e.kind == k {
			return true
		}
	}
	return false
}

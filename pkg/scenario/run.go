package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/docurgent/docurgent/pkg/core"
)

// Engine is the subset of *core.Engine a scenario drives.
type Engine interface {
	CreateDocumentRequest(ctx context.Context, sender core.Sender, recipient core.Recipient, doc core.DocumentInfo) (core.DocumentRequest, error)
	GetDocumentRequest(ctx context.Context, id string) (core.DocumentRequest, error)
	MarkAtRelayPoint(ctx context.Context, id string) (core.DocumentRequest, error)
	ValidateSenderIdentity(ctx context.Context, id, code string) (bool, error)
	ValidateTravelerIdentity(ctx context.Context, id, travelerID string) (bool, error)
	HandToTraveler(ctx context.Context, id, travelerID string) (core.DocumentRequest, error)
	ValidateDeliveryCode(ctx context.Context, id, code string) (bool, error)
	MarkDelivered(ctx context.Context, id string) (core.DocumentRequest, error)
	CompleteDelivery(ctx context.Context, id, confirmationCode, travelerID string) (core.DocumentRequest, error)
	ConfirmDelivery(ctx context.Context, id, code string) (core.DocumentRequest, error)
	UpdateDeliveryStep(ctx context.Context, id, stepID string, completed bool, actorID string) (core.DocumentRequest, error)
	AreAllStepsCompleted(ctx context.Context, id string) (bool, error)
	LogSecurityEvent(ctx context.Context, action, requestID, details string) error
	GetSecurityLogs(ctx context.Context) ([]core.SecurityLog, error)
}

var _ Engine = (*core.Engine)(nil)

// StepResult is the observed outcome of one step.
type StepResult struct {
	Index    int         `json:"index" yaml:"index"`
	Op       Op          `json:"op" yaml:"op"`
	Status   core.Status `json:"status,omitempty" yaml:"status,omitempty"`
	Valid    *bool       `json:"valid,omitempty" yaml:"valid,omitempty"`
	Error    ErrorKind   `json:"error,omitempty" yaml:"error,omitempty"`
	Passed   bool        `json:"passed" yaml:"passed"`
	Failures []string    `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Result is the outcome of a whole scenario.
type Result struct {
	Scenario     string               `json:"scenario" yaml:"scenario"`
	Path         string               `json:"path,omitempty" yaml:"path,omitempty"`
	Passed       bool                 `json:"passed" yaml:"passed"`
	Steps        []StepResult         `json:"steps" yaml:"steps"`
	Request      core.DocumentRequest `json:"request" yaml:"request"`
	SecurityLogs []core.SecurityLog   `json:"security_logs" yaml:"security_logs"`
}

// Run executes sc against eng. A step that misses its expectation fails the
// scenario but does not stop it, so the audit trail stays complete.
// The returned error reports infrastructure failures only.
func Run(ctx context.Context, eng Engine, sc Scenario) (Result, error) {
	res := Result{Scenario: sc.Name, Path: sc.Path, Passed: true}

	req, err := eng.CreateDocumentRequest(ctx, sc.Request.Sender, sc.Request.Recipient, sc.Request.Document)
	if err != nil {
		return res, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		sr, err := runStep(ctx, eng, req, i+1, st)
		if err != nil {
			return res, fmt.Errorf("scenario %q step %d: %w", sc.Name, i+1, err)
		}
		if !sr.Passed {
			res.Passed = false
		}
		res.Steps = append(res.Steps, sr)
	}

	final, err := eng.GetDocumentRequest(ctx, req.ID)
	if err != nil {
		return res, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	res.Request = final

	logs, err := eng.GetSecurityLogs(ctx)
	if err != nil {
		return res, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	res.SecurityLogs = logs
	return res, nil
}

func runStep(ctx context.Context, eng Engine, req core.DocumentRequest, index int, st Step) (StepResult, error) {
	sr := StepResult{Index: index, Op: st.Op}

	target := req.ID
	if st.Request != "" {
		target = resolve(st.Request, req)
	}
	code := resolve(st.Code, req)

	var (
		valid  bool
		hasRes bool
		opErr  error
	)

	switch st.Op {
	case OpMarkAtRelayPoint:
		_, opErr = eng.MarkAtRelayPoint(ctx, target)
	case OpValidateSender:
		valid, opErr = eng.ValidateSenderIdentity(ctx, target, code)
		hasRes = true
	case OpValidateTraveler:
		valid, opErr = eng.ValidateTravelerIdentity(ctx, target, st.Traveler)
		hasRes = true
	case OpHandToTraveler:
		_, opErr = eng.HandToTraveler(ctx, target, st.Traveler)
	case OpValidateDeliveryCode:
		valid, opErr = eng.ValidateDeliveryCode(ctx, target, code)
		hasRes = true
	case OpMarkDelivered:
		_, opErr = eng.MarkDelivered(ctx, target)
	case OpCompleteDelivery:
		_, opErr = eng.CompleteDelivery(ctx, target, code, st.Traveler)
	case OpConfirmDelivery:
		_, opErr = eng.ConfirmDelivery(ctx, target, code)
	case OpUpdateStep:
		_, opErr = eng.UpdateDeliveryStep(ctx, target, st.Step, st.Completed, st.Actor)
	case OpLogEvent:
		// Events are tied to the request only when the script names one.
		opErr = eng.LogSecurityEvent(ctx, st.Action, resolve(st.Request, req), resolve(st.Details, req))
	default:
		return sr, fmt.Errorf("unknown op %q", st.Op)
	}

	sr.Error = KindOf(opErr)
	if sr.Error == KindInternal {
		return sr, opErr
	}
	if hasRes && opErr == nil {
		sr.Valid = &valid
	}

	current, err := eng.GetDocumentRequest(ctx, target)
	switch {
	case err == nil:
		sr.Status = current.Status
	case errors.Is(err, core.ErrNotFound):
	default:
		return sr, err
	}

	sr.Failures = check(ctx, eng, st, sr, current, target)
	sr.Passed = len(sr.Failures) == 0
	return sr, nil
}

func check(ctx context.Context, eng Engine, st Step, sr StepResult, current core.DocumentRequest, target string) []string {
	var failures []string
	exp := st.Expect
	if exp == nil {
		exp = &Expect{}
	}

	if sr.Error != exp.Error {
		switch {
		case exp.Error == "":
			failures = append(failures, fmt.Sprintf("unexpected error %s", sr.Error))
		case sr.Error == "":
			failures = append(failures, fmt.Sprintf("expected error %s, got none", exp.Error))
		default:
			failures = append(failures, fmt.Sprintf("expected error %s, got %s", exp.Error, sr.Error))
		}
	}
	if exp.Status != "" && sr.Status != exp.Status {
		failures = append(failures, fmt.Sprintf("expected status %s, got %s", exp.Status, sr.Status))
	}
	if exp.Valid != nil {
		switch {
		case sr.Valid == nil:
			failures = append(failures, "expected a validation outcome, got none")
		case *sr.Valid != *exp.Valid:
			failures = append(failures, fmt.Sprintf("expected valid=%t, got %t", *exp.Valid, *sr.Valid))
		}
	}
	if exp.CompletedBy != "" && current.CompletedBy != exp.CompletedBy {
		failures = append(failures, fmt.Sprintf("expected completed_by %q, got %q", exp.CompletedBy, current.CompletedBy))
	}
	if exp.AllStepsCompleted != nil {
		all, err := eng.AreAllStepsCompleted(ctx, target)
		if err != nil {
			failures = append(failures, fmt.Sprintf("all_steps_completed: %v", err))
		} else if all != *exp.AllStepsCompleted {
			failures = append(failures, fmt.Sprintf("expected all_steps_completed=%t, got %t", *exp.AllStepsCompleted, all))
		}
	}
	return failures
}

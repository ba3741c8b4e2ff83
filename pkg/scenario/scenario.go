// Package scenario runs scripted custody chains against a workflow engine.
//
// A scenario creates one document request and then replays a list of
// operations on it, checking each outcome against optional expectations.
// Scripts are YAML:
//
//	name: happy path
//	request:
//	  sender: {name: John Doe, phone: "+1234567890", source_address: Paris}
//	  recipient: {name: Jane Smith, phone: "+0987654321", destination_address: Casablanca}
//	  document: {type: Passport, description: Visa application}
//	steps:
//	  - op: mark_at_relay_point
//	  - op: hand_to_traveler
//	    traveler: TRAVELER123
//	    expect: {status: with_traveler}
//
// The placeholders $request_id, $unique_code and $delivery_code are replaced
// with the values of the created request.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/docurgent/docurgent/pkg/core"
)

// Op names a scripted operation.
type Op string

const (
	OpMarkAtRelayPoint     Op = "mark_at_relay_point"
	OpValidateSender       Op = "validate_sender"
	OpValidateTraveler     Op = "validate_traveler"
	OpHandToTraveler       Op = "hand_to_traveler"
	OpValidateDeliveryCode Op = "validate_delivery_code"
	OpMarkDelivered        Op = "mark_delivered"
	OpCompleteDelivery     Op = "complete_delivery"
	OpConfirmDelivery      Op = "confirm_delivery"
	OpUpdateStep           Op = "update_step"
	OpLogEvent             Op = "log_event"
)

var knownOps = map[Op]bool{
	OpMarkAtRelayPoint:     true,
	OpValidateSender:       true,
	OpValidateTraveler:     true,
	OpHandToTraveler:       true,
	OpValidateDeliveryCode: true,
	OpMarkDelivered:        true,
	OpCompleteDelivery:     true,
	OpConfirmDelivery:      true,
	OpUpdateStep:           true,
	OpLogEvent:             true,
}

// Placeholders resolved against the created request.
const (
	PlaceholderRequestID    = "$request_id"
	PlaceholderUniqueCode   = "$unique_code"
	PlaceholderDeliveryCode = "$delivery_code"
)

// Scenario is one scripted custody chain.
type Scenario struct {
	Name    string      `yaml:"name"`
	Request RequestSpec `yaml:"request"`
	Steps   []Step      `yaml:"steps"`

	// Path is the file the scenario was loaded from, if any.
	Path string `yaml:"-"`
}

// RequestSpec holds the creation input of the scenario's request.
type RequestSpec struct {
	Sender    core.Sender       `yaml:"sender"`
	Recipient core.Recipient    `yaml:"recipient"`
	Document  core.DocumentInfo `yaml:"document"`
}

// Step is one scripted operation. Only the fields its Op reads are used.
type Step struct {
	Op Op `yaml:"op"`
	// Request overrides the target request ID (defaults to $request_id).
	Request   string  `yaml:"request,omitempty"`
	Code      string  `yaml:"code,omitempty"`
	Traveler  string  `yaml:"traveler,omitempty"`
	Step      string  `yaml:"step,omitempty"`
	Completed bool    `yaml:"completed,omitempty"`
	Actor     string  `yaml:"actor,omitempty"`
	Action    string  `yaml:"action,omitempty"`
	Details   string  `yaml:"details,omitempty"`
	Expect    *Expect `yaml:"expect,omitempty"`
}

// Expect lists the checks applied after a step. Empty fields are not checked.
type Expect struct {
	Status            core.Status `yaml:"status,omitempty"`
	Valid             *bool       `yaml:"valid,omitempty"`
	Error             ErrorKind   `yaml:"error,omitempty"`
	CompletedBy       string      `yaml:"completed_by,omitempty"`
	AllStepsCompleted *bool       `yaml:"all_steps_completed,omitempty"`
}

// Parse decodes and validates a YAML scenario.
func Parse(data []byte) (Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return Scenario{}, fmt.Errorf("invalid scenario yaml: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	sc.Path = path
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// Validate checks that every step names a known operation and expectation.
func (s Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", s.Name)
	}
	for i, st := range s.Steps {
		if !knownOps[st.Op] {
			return fmt.Errorf("step %d: unknown op %q", i+1, st.Op)
		}
		if st.Op == OpUpdateStep && st.Step == "" {
			return fmt.Errorf("step %d: update_step needs a step id", i+1)
		}
		if st.Op == OpLogEvent && st.Action == "" {
			return fmt.Errorf("step %d: log_event needs an action", i+1)
		}
		if st.Expect != nil && st.Expect.Error != "" && !st.Expect.Error.known() {
			return fmt.Errorf("step %d: unknown error kind %q", i+1, st.Expect.Error)
		}
	}
	return nil
}

// Discover expands doublestar patterns (e.g. "scenarios/**/*.yaml") into a
// sorted, de-duplicated list of files. A pattern without magic that names an
// existing file is returned as-is.
func Discover(patterns ...string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			if info, err := os.Stat(m); err != nil || info.IsDir() {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}

	sort.Strings(out)
	return out, nil
}

func resolve(s string, req core.DocumentRequest) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return strings.NewReplacer(
		PlaceholderRequestID, req.ID,
		PlaceholderUniqueCode, req.UniqueCode,
		PlaceholderDeliveryCode, req.DeliveryCode,
	).Replace(s)
}

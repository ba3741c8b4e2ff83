// Package export renders scenario results for people and machines.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/docurgent/docurgent/pkg/scenario"
)

// Serializer renders a batch of scenario results.
type Serializer interface {
	Serialize(results []scenario.Result) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by format name.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		"json": JSONSerializer{},
		"yaml": YAMLSerializer{},
		"yml":  YAMLSerializer{},
		"text": TextSerializer{},
	}
}

// ForFormat returns the serializer registered under name.
func ForFormat(name string) (Serializer, error) {
	s, ok := DefaultSerializers()[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats(), ", "))
	}
	return s, nil
}

// Formats lists the registered format names.
func Formats() []string {
	var names []string
	for k := range DefaultSerializers() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// --- JSON Serializer ---

// JSONSerializer writes indented JSON.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(results []scenario.Result) ([]byte, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// --- YAML Serializer ---

// YAMLSerializer writes a YAML sequence of results.
type YAMLSerializer struct{}

func (YAMLSerializer) Serialize(results []scenario.Result) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(results); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- Text Serializer ---

// TextSerializer writes a terminal summary: verdict, steps and audit trail.
type TextSerializer struct{}

func (TextSerializer) Serialize(results []scenario.Result) ([]byte, error) {
	var buf bytes.Buffer

	for i, r := range results {
		if i > 0 {
			buf.WriteString("\n")
		}
		verdict := "PASS"
		if !r.Passed {
			verdict = "FAIL"
		}
		fmt.Fprintf(&buf, "== %s (%s)\n", r.Scenario, verdict)
		fmt.Fprintf(&buf, "request %s status=%s unique_code=%s delivery_code=%s\n",
			r.Request.ID, r.Request.Status, r.Request.UniqueCode, r.Request.DeliveryCode)
		if r.Request.CompletedBy != "" {
			fmt.Fprintf(&buf, "completed by %s\n", r.Request.CompletedBy)
		}

		tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		for _, s := range r.Steps {
			mark := "ok"
			if !s.Passed {
				mark = "FAILED: " + strings.Join(s.Failures, "; ")
			}
			outcome := string(s.Status)
			if s.Valid != nil {
				outcome = fmt.Sprintf("valid=%t", *s.Valid)
			}
			if s.Error != "" {
				outcome = "error=" + string(s.Error)
			}
			fmt.Fprintf(tw, "  [%d]\t%s\t%s\t%s\n", s.Index, s.Op, outcome, mark)
		}
		if err := tw.Flush(); err != nil {
			return nil, err
		}

		buf.WriteString("audit:\n")
		for _, l := range r.SecurityLogs {
			fmt.Fprintf(&buf, "  %s %s\n", l.Timestamp.UTC().Format(time.RFC3339), l)
		}
	}
	return buf.Bytes(), nil
}

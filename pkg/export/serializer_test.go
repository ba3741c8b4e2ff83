package export_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/docurgent/docurgent/pkg/core"
	"github.com/docurgent/docurgent/pkg/export"
	"github.com/docurgent/docurgent/pkg/scenario"
)

func sampleResults() []scenario.Result {
	valid := false
	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return []scenario.Result{{
		Scenario: "demo",
		Passed:   false,
		Steps: []scenario.StepResult{
			{Index: 1, Op: scenario.OpMarkAtRelayPoint, Status: core.StatusAtRelayPoint, Passed: true},
			{Index: 2, Op: scenario.OpValidateSender, Status: core.StatusAtRelayPoint, Valid: &valid, Passed: false,
				Failures: []string{"expected valid=true, got false"}},
			{Index: 3, Op: scenario.OpMarkDelivered, Status: core.StatusAtRelayPoint, Error: scenario.KindInvalidTransition},
		},
		Request: core.DocumentRequest{
			ID:           "req-1",
			Status:       core.StatusAtRelayPoint,
			UniqueCode:   "DOCABC123",
			DeliveryCode: "004217",
		},
		SecurityLogs: []core.SecurityLog{
			{Timestamp: ts, Action: core.ActionRequestCreated, RequestID: "req-1", Details: "Document request created for John Doe"},
		},
	}}
}

func TestForFormat(t *testing.T) {
	for _, name := range []string{"json", "YAML", "yml", "text"} {
		s, err := export.ForFormat(name)
		require.NoError(t, err, name)
		assert.NotNil(t, s)
	}

	_, err := export.ForFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, text, yaml, yml")
	assert.Equal(t, []string{"json", "text", "yaml", "yml"}, export.Formats())
}

func TestJSONSerializer(t *testing.T) {
	data, err := export.JSONSerializer{}.Serialize(sampleResults())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "demo", decoded[0]["scenario"])

	req := decoded[0]["request"].(map[string]any)
	assert.Equal(t, "DOCABC123", req["unique_code"])
	assert.Equal(t, "at_relay_point", req["status"])
}

func TestYAMLSerializer(t *testing.T) {
	data, err := export.YAMLSerializer{}.Serialize(sampleResults())
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, false, decoded[0]["passed"])
	assert.Contains(t, string(data), "security_logs:")
}

func TestTextSerializer(t *testing.T) {
	data, err := export.TextSerializer{}.Serialize(sampleResults())
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "== demo (FAIL)\n")
	assert.Contains(t, out, "request req-1 status=at_relay_point unique_code=DOCABC123 delivery_code=004217\n")
	assert.Contains(t, out, "valid=false")
	assert.Contains(t, out, "FAILED: expected valid=true, got false")
	assert.Contains(t, out, "error=invalid_transition")
	assert.Contains(t, out, "audit:\n  2026-03-14T09:30:00Z DOCUMENT_REQUEST_CREATED[req-1]: Document request created for John Doe\n")
	assert.NotContains(t, out, "completed by")
}

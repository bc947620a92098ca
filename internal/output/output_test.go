package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validify-dev/validify/internal/model"
)

func sampleResult() *model.ValidationResult {
	return &model.ValidationResult{
		RunID:       "run-1",
		ProfileName: "example",
		EndStatus:   model.JobEndNormal,
		Assertions: []model.TestAssertion{
			{RuleID: "r1", Location: model.Location{Context: "root", ObjectType: "Widget"}, Passed: false, Message: "title required"},
		},
		FailedChecksByRule: map[string]int{"r1": 1},
		TotalChecks:        1,
		TotalFailedChecks:  1,
		Details:            model.ComponentDetails{ID: "validify.engine.default", Name: "validify default validation engine"},
	}
}

func TestNewFormatterUnknown(t *testing.T) {
	t.Parallel()
	_, err := NewFormatter("bogus", &bytes.Buffer{})
	require.Error(t, err)
}

func TestTableFormatter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	f := NewTableFormatter(&buf)
	require.NoError(t, f.Format(sampleResult()))
	assert.Contains(t, buf.String(), "r1")
	assert.Contains(t, buf.String(), "title required")
}

func TestJSONFormatter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf)
	require.NoError(t, f.Format(sampleResult()))
	assert.Contains(t, buf.String(), `"run_id": "run-1"`)
}

func TestJUnitFormatter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	f := NewJUnitFormatter(&buf)
	require.NoError(t, f.Format(sampleResult()))
	assert.Contains(t, buf.String(), "<testsuite")
	assert.Contains(t, buf.String(), "failure")
}

func TestSARIFFormatter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	f := NewSARIFFormatter(&buf)
	require.NoError(t, f.Format(sampleResult()))
	assert.Contains(t, buf.String(), `"ruleId"`)
}

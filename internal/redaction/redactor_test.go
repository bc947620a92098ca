package redaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validify-dev/validify/internal/model"
)

func TestScrubStringCustomPattern(t *testing.T) {
	t.Parallel()
	r, err := New(Config{Patterns: []string{`secret-[0-9]{4}`}, DisableGitleaks: true})
	require.NoError(t, err)

	out := r.ScrubString("value is secret-1234 here")
	assert.Equal(t, "value is [REDACTED] here", out)
}

func TestScrubStringEmpty(t *testing.T) {
	t.Parallel()
	r, err := New(Config{DisableGitleaks: true})
	require.NoError(t, err)
	assert.Equal(t, "", r.ScrubString(""))
}

func TestRedactScrubsAssertions(t *testing.T) {
	t.Parallel()
	r, err := New(Config{Patterns: []string{`token-[0-9]{4}`}, DisableGitleaks: true})
	require.NoError(t, err)

	result := &model.ValidationResult{
		Assertions: []model.TestAssertion{
			{RuleID: "r1", Message: "leaked token-9999 value", Location: model.Location{Context: "root/token-9999"}},
		},
	}

	scrubbed := r.Redact(result)
	assert.Equal(t, "leaked [REDACTED] value", scrubbed.Assertions[0].Message)
	assert.Equal(t, "root/[REDACTED]", scrubbed.Assertions[0].Location.Context)
	assert.Equal(t, "leaked token-9999 value", result.Assertions[0].Message, "original result must not be mutated")
}

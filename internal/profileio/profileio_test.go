package profileio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProfileYAML = `
profile:
  name: example
  version: "1.0"
rules:
  - id: r1
    object_type: Widget
    predicate: 'obj.Title != ""'
    error:
      message: title required
variables:
  - name: total
    object_type: Widget
    default: "0"
    update: "total + 1"
`

func TestLoadFromReaderValid(t *testing.T) {
	t.Parallel()
	loader := NewLoader("")
	vp, err := loader.LoadFromReader(strings.NewReader(validProfileYAML))
	require.NoError(t, err)
	assert.Equal(t, "example", vp.Profile.Metadata.Name)
	assert.Equal(t, 1, vp.Rules.(interface{ Len() int }).Len())
}

func TestLoadFromReaderDuplicateRuleID(t *testing.T) {
	t.Parallel()
	const yaml = `
profile:
  name: dup
rules:
  - id: r1
    object_type: Widget
    predicate: "true"
    error:
      message: x
  - id: r1
    object_type: Widget
    predicate: "true"
    error:
      message: x
`
	loader := NewLoader("")
	_, err := loader.LoadFromReader(strings.NewReader(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rule id")
}

func TestEngineConstraintRejectsIncompatibleProfile(t *testing.T) {
	t.Parallel()
	const yaml = `
profile:
  name: gated
  engine_constraint: ">=99.0.0"
rules:
  - id: r1
    object_type: Widget
    predicate: "true"
    error:
      message: x
`
	loader := NewLoader("0.1.0")
	_, err := loader.LoadFromReader(strings.NewReader(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires engine")
}

func TestEngineConstraintAllowsCompatibleProfile(t *testing.T) {
	t.Parallel()
	const yaml = `
profile:
  name: gated
  engine_constraint: ">=0.1.0"
rules:
  - id: r1
    object_type: Widget
    predicate: "true"
    error:
      message: x
`
	loader := NewLoader("0.1.0")
	_, err := loader.LoadFromReader(strings.NewReader(yaml))
	require.NoError(t, err)
}

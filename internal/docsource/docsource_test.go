package docsource

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docJSON = `
{
  "object_type": "Catalog",
  "attributes": {"title": "root catalog"},
  "links": {
    "pages": [
      {"object_type": "Page", "id": "p1", "attributes": {"number": 1}},
      {"object_type": "Page", "id": "p2", "attributes": {"number": 2}}
    ]
  }
}`

func TestRootParsesGraph(t *testing.T) {
	t.Parallel()
	src := NewSource(strings.NewReader(docJSON))
	root, err := src.Root(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Catalog", root.ObjectType())
	assert.Equal(t, "root", root.Context())
	assert.Equal(t, []string{"pages"}, root.Links())

	pages := root.LinkedObjects("pages")
	require.Len(t, pages, 2)
	assert.Equal(t, "p1", pages[0].ID())
	assert.Equal(t, "p2", pages[1].ID())
}

func TestRootHonoursContextCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewSource(strings.NewReader(docJSON))
	_, err := src.Root(ctx)
	require.Error(t, err)
}

func TestSchemaGateRejectsMissingField(t *testing.T) {
	t.Parallel()
	const schema = `{
		"type": "object",
		"required": ["object_type"],
		"properties": {"object_type": {"type": "string"}}
	}`
	gate, err := NewSchemaGate([]byte(schema))
	require.NoError(t, err)

	err = gate.Validate(map[string]any{"attributes": map[string]any{}})
	require.Error(t, err)
}

func TestSchemaGateAcceptsValidDocument(t *testing.T) {
	t.Parallel()
	const schema = `{
		"type": "object",
		"required": ["object_type"],
		"properties": {"object_type": {"type": "string"}}
	}`
	gate, err := NewSchemaGate([]byte(schema))
	require.NoError(t, err)

	err = gate.Validate(map[string]any{"object_type": "Catalog"})
	require.NoError(t, err)
}

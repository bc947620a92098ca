package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validify-dev/validify/internal/model"
	"github.com/validify-dev/validify/internal/sandbox"
)

type page struct {
	Count int
}

type testObject struct {
	objectType string
	super      []string
	native     any
}

func (o *testObject) ObjectType() string               { return o.objectType }
func (o *testObject) SuperTypes() []string              { return o.super }
func (o *testObject) ID() string                        { return "" }
func (o *testObject) Context() string                   { return "root" }
func (o *testObject) ExtraContext() string               { return "" }
func (o *testObject) Links() []string                    { return nil }
func (o *testObject) LinkedObjects(string) []model.Object { return nil }
func (o *testObject) Native() any                        { return o.native }

func TestVariablesForTypesOwnThenSuper(t *testing.T) {
	t.Parallel()
	store := Build([]model.Variable{
		{Name: "a", ObjectType: "Widget"},
		{Name: "b", ObjectType: "Node"},
	})

	vars := store.VariablesForTypes([]string{"Widget", "Node"})
	require.Len(t, vars, 2)
	assert.Equal(t, "a", vars[0].Name)
	assert.Equal(t, "b", vars[1].Name)
}

func TestRunStateInitialiseAndUpdate(t *testing.T) {
	t.Parallel()
	store := Build([]model.Variable{
		{Name: "total", ObjectType: "Widget", Default: "0", Update: "total + obj.Count"},
	})
	sb := sandbox.New()
	scope := sb.NewScope()
	rs := NewRunState(sb, scope, store)

	require.NoError(t, rs.Initialise())
	assert.Equal(t, 0, scope.Variable("total"))

	obj := &testObject{objectType: "Widget", native: page{Count: 4}}
	require.NoError(t, rs.UpdateForObject(obj))
	require.NoError(t, rs.UpdateForObject(obj))
	assert.Equal(t, 8, scope.Variable("total"))
}

func TestRunStateUpdateSkipsNonMatchingType(t *testing.T) {
	t.Parallel()
	store := Build([]model.Variable{
		{Name: "total", ObjectType: "Widget", Default: "0", Update: "total + 1"},
	})
	sb := sandbox.New()
	scope := sb.NewScope()
	rs := NewRunState(sb, scope, store)
	require.NoError(t, rs.Initialise())

	obj := &testObject{objectType: "OtherType"}
	require.NoError(t, rs.UpdateForObject(obj))
	assert.Equal(t, 0, scope.Variable("total"))
}

package engine

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validify-dev/validify/internal/model"
	"github.com/validify-dev/validify/internal/sandbox"
)

func TestCollectorReportPopulatesAssertionFields(t *testing.T) {
	t.Parallel()
	sb := sandbox.New()
	scope := sb.NewScope()
	col := newCollector("Widget", DefaultMaxDisplayedFailedChecks, false, true, sb, scope, newProgress(false), nil)

	rule := model.Rule{
		ID:          "r1",
		Description: "title must be present",
		Error: model.RuleError{
			Message:   "missing title",
			Arguments: []model.ErrorArgument{{Name: "id", Expression: "obj.ID"}},
		},
	}
	obj := &node{objectType: "Widget", context: "root/widget", native: struct {
		ID string
	}{"w-1"}}

	col.report(false, "root/widget", rule, obj)

	require.Len(t, col.results, 1)
	a := col.results[0]
	assert.Equal(t, 1, a.Ordinal)
	assert.Equal(t, "title must be present", a.Description)
	assert.Equal(t, "root/widget", a.ObjectContext)
	require.Len(t, a.Arguments, 1)
	assert.Equal(t, "w-1", a.Arguments[0].Value)
}

func TestCollectorReportIgnoresWhenAborted(t *testing.T) {
	t.Parallel()
	sb := sandbox.New()
	scope := sb.NewScope()
	var aborted atomic.Bool
	aborted.Store(true)
	col := newCollector("Widget", DefaultMaxDisplayedFailedChecks, false, true, sb, scope, newProgress(false), &aborted)

	rule := model.Rule{ID: "r1", Error: model.RuleError{Message: "x"}}
	obj := &node{objectType: "Widget", context: "root/widget"}

	col.report(false, "root/widget", rule, obj)

	assert.Empty(t, col.results)
	assert.Zero(t, col.testCounter)
	assert.Empty(t, col.failedChecks)
}

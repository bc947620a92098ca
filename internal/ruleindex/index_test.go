package ruleindex

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/validify-dev/validify/internal/model"
)

func TestRulesForTypesOwnTypeThenSuperTypes(t *testing.T) {
	t.Parallel()
	idx := Build([]model.Rule{
		{ID: "r1", ObjectType: "Widget"},
		{ID: "r2", ObjectType: "Node"},
		{ID: "r3", ObjectType: "Widget"},
	})

	rules := idx.RulesForTypes([]string{"Widget", "Node"})
	want := []string{"r1", "r3", "r2"}
	got := make([]string, len(rules))
	for i, r := range rules {
		got[i] = r.ID
	}
	assert.Equal(t, want, got)
}

func TestRulesForTypesNoDuplicates(t *testing.T) {
	t.Parallel()
	idx := Build([]model.Rule{
		{ID: "r1", ObjectType: "Node"},
	})

	rules := idx.RulesForTypes([]string{"Node", "Node"})
	assert.Len(t, rules, 1)
}

func TestRulesForTypesUnknownType(t *testing.T) {
	t.Parallel()
	idx := Build(nil)
	assert.Empty(t, idx.RulesForTypes([]string{"Missing"}))
}

func TestLen(t *testing.T) {
	t.Parallel()
	idx := Build([]model.Rule{
		{ID: "r1", ObjectType: "A"},
		{ID: "r2", ObjectType: "B"},
	})
	assert.Equal(t, 2, idx.Len())
}

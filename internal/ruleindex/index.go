// Package ruleindex builds and queries the type-indexed lookup of rules
// a validation profile declares: given an object's own type and its
// super-types, which rules apply, in profile declaration order.
package ruleindex

import "github.com/validify-dev/validify/internal/model"

// Index is an immutable, type-indexed view over a profile's rules. It is
// built once by internal/profileio when a profile is loaded and shared
// read-only across every run validated against that profile.
type Index struct {
	byType map[string][]model.Rule
}

// Build constructs an Index from the given rules, preserving each rule's
// declaration order within every object type bucket it belongs to.
func Build(rules []model.Rule) *Index {
	byType := make(map[string][]model.Rule)
	for _, r := range rules {
		byType[r.ObjectType] = append(byType[r.ObjectType], r)
	}
	return &Index{byType: byType}
}

// RulesForTypes returns every rule whose declared object type appears in
// types, in the order types are given (own type first, then each
// super-type in declaration order) and, within a type, in the rule's
// declaration order in the profile. A rule cannot be returned twice even
// if multiple entries in types map to it.
func (idx *Index) RulesForTypes(types []string) []model.Rule {
	seen := make(map[string]bool)
	var out []model.Rule
	for _, t := range types {
		for _, r := range idx.byType[t] {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			out = append(out, r)
		}
	}
	return out
}

// Len returns the total number of distinct rules in the index.
func (idx *Index) Len() int {
	n := 0
	for _, rs := range idx.byType {
		n += len(rs)
	}
	return n
}

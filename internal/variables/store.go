// Package variables builds and drives the type-indexed accumulator
// variables a validation profile declares: initialising every one's
// default once before the traversal starts, and re-running its update
// expression on every matching object visited.
package variables

import (
	"fmt"

	"github.com/validify-dev/validify/internal/model"
	"github.com/validify-dev/validify/internal/sandbox"
)

// Store is an immutable, type-indexed view over a profile's variables.
// Built once per profile by internal/profileio and shared read-only
// across runs; the per-run mutable state lives in a sandbox.Scope, not
// here.
type Store struct {
	all    []model.Variable
	byType map[string][]model.Variable
}

// Build constructs a Store from the given variables, preserving
// declaration order within each object type bucket.
func Build(vars []model.Variable) *Store {
	byType := make(map[string][]model.Variable)
	for _, v := range vars {
		byType[v.ObjectType] = append(byType[v.ObjectType], v)
	}
	return &Store{all: vars, byType: byType}
}

// VariablesForTypes returns every variable declared against one of
// types, own type first then super-types in the order given, each in
// profile declaration order, without duplicates.
func (s *Store) VariablesForTypes(types []string) []model.Variable {
	seen := make(map[string]bool)
	var out []model.Variable
	for _, t := range types {
		for _, v := range s.byType[t] {
			if seen[v.Name] {
				continue
			}
			seen[v.Name] = true
			out = append(out, v)
		}
	}
	return out
}

// AllVariables returns every variable in the profile, in declaration
// order.
func (s *Store) AllVariables() []model.Variable {
	return s.all
}

// RunState binds a Store to the sandbox and scope of a single
// validation run. Created fresh by NewRunState for every
// Engine.Validate call.
type RunState struct {
	sandbox *sandbox.Sandbox
	scope   *sandbox.Scope
	store   model.VariableIndex
}

// NewRunState returns a RunState bound to the given sandbox and scope
// for the duration of one validation run. It does not itself evaluate
// any defaults; call Initialise once the traversal is ready to start.
func NewRunState(sb *sandbox.Sandbox, scope *sandbox.Scope, store model.VariableIndex) *RunState {
	return &RunState{sandbox: sb, scope: scope, store: store}
}

// Initialise evaluates the default expression of every variable in the
// profile, regardless of object type, before the traversal visits its
// first object.
func (r *RunState) Initialise() error {
	for _, v := range r.store.AllVariables() {
		if err := r.sandbox.EvalDefault(r.scope, v); err != nil {
			return fmt.Errorf("initialising variable %q: %w", v.Name, err)
		}
	}
	return nil
}

// UpdateForObject re-evaluates the update expression of every variable
// declared against one of obj's types (own type then super-types), in
// that order, storing each result back into the scope.
func (r *RunState) UpdateForObject(obj model.Object) error {
	types := append([]string{obj.ObjectType()}, obj.SuperTypes()...)
	for _, v := range r.store.VariablesForTypes(types) {
		if err := r.sandbox.EvalUpdate(r.scope, v, obj); err != nil {
			return fmt.Errorf("updating variable %q: %w", v.Name, err)
		}
	}
	return nil
}

// Package sandbox compiles and runs the expressions a validation
// profile authors into rule predicates, variable defaults, variable
// updates, and error-message arguments. It is the only package that
// imports expr-lang/expr; everything above it deals in plain Go values.
package sandbox

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/validify-dev/validify/internal/model"
)

const maxExpressionLength = 4000

// Sandbox compiles expressions once and reuses the compiled program for
// every subsequent object that needs it, across every run sharing this
// Sandbox. It is safe for concurrent use (see the multi-document batch
// command), protected by a read/write mutex around the program cache.
type Sandbox struct {
	programCache map[string]*vm.Program
	cacheMu      sync.RWMutex
}

// New returns a Sandbox with an empty compile cache.
func New() *Sandbox {
	return &Sandbox{programCache: make(map[string]*vm.Program)}
}

// Scope holds the mutable accumulator state for a single validation run.
// A Scope must not be shared between concurrent runs; create one per
// run with NewScope.
type Scope struct {
	vars map[string]any
}

// NewScope returns an empty Scope with no accumulators initialised yet.
func (s *Sandbox) NewScope() *Scope {
	return &Scope{vars: make(map[string]any)}
}

// Variable returns the current value of a named accumulator, or nil if
// it has never been set.
func (sc *Scope) Variable(name string) any {
	return sc.vars[name]
}

func (sc *Scope) environment(obj model.Object) map[string]any {
	env := make(map[string]any, len(sc.vars)+1)
	for k, v := range sc.vars {
		env[k] = v
	}
	if obj != nil {
		env["obj"] = obj.Native()
	}
	return env
}

func (s *Sandbox) compile(source string, options ...expr.Option) (*vm.Program, error) {
	if len(source) > maxExpressionLength {
		return nil, fmt.Errorf("expression exceeds %d characters", maxExpressionLength)
	}

	s.cacheMu.RLock()
	program, found := s.programCache[source]
	s.cacheMu.RUnlock()
	if found {
		return program, nil
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if program, found := s.programCache[source]; found {
		return program, nil
	}

	program, err := expr.Compile(source, options...)
	if err != nil {
		return nil, err
	}
	s.programCache[source] = program
	return program, nil
}

// PredicateFault wraps a compilation or evaluation error from a rule's
// predicate expression, or a non-boolean result. Per the engine's
// contract it is never propagated as a run error: the dispatcher treats
// a PredicateFault as a failed check and keeps going.
type PredicateFault struct {
	Expression string
	Err        error
}

func (f *PredicateFault) Error() string {
	return fmt.Sprintf("predicate %q: %v", f.Expression, f.Err)
}

func (f *PredicateFault) Unwrap() error { return f.Err }

// EvalPredicate runs a rule's predicate expression against obj and the
// scope's current accumulators. A compile error, runtime error, or
// non-boolean result is reported as a PredicateFault alongside passed
// set to false, matching the rule's failure outcome rather than
// aborting the run.
func (s *Sandbox) EvalPredicate(scope *Scope, obj model.Object, expression string) (bool, error) {
	program, err := s.compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return false, &PredicateFault{Expression: expression, Err: err}
	}

	output, err := expr.Run(program, scope.environment(obj))
	if err != nil {
		return false, &PredicateFault{Expression: expression, Err: err}
	}

	passed, ok := output.(bool)
	if !ok {
		return false, &PredicateFault{Expression: expression, Err: fmt.Errorf("expression did not return a boolean: %v", output)}
	}
	return passed, nil
}

// EvalDefault evaluates a variable's default expression and stores the
// result in the scope under the variable's name. Called once per run,
// for every variable in the profile, before traversal starts; the
// default expression has no object bound, only the scope's current
// accumulators.
func (s *Sandbox) EvalDefault(scope *Scope, v model.Variable) error {
	program, err := s.compile(v.Default, expr.AllowUndefinedVariables())
	if err != nil {
		return fmt.Errorf("variable %q default: %w", v.Name, err)
	}
	output, err := expr.Run(program, scope.environment(nil))
	if err != nil {
		return fmt.Errorf("variable %q default: %w", v.Name, err)
	}
	scope.vars[v.Name] = output
	return nil
}

// EvalUpdate re-evaluates a variable's update expression against obj and
// the scope's current accumulators (including the variable's own prior
// value) and overwrites the accumulator with the result.
func (s *Sandbox) EvalUpdate(scope *Scope, v model.Variable, obj model.Object) error {
	program, err := s.compile(v.Update, expr.AllowUndefinedVariables())
	if err != nil {
		return fmt.Errorf("variable %q update: %w", v.Name, err)
	}
	output, err := expr.Run(program, scope.environment(obj))
	if err != nil {
		return fmt.Errorf("variable %q update: %w", v.Name, err)
	}
	scope.vars[v.Name] = output
	return nil
}

// EvalErrorArguments evaluates every argument expression of a rule's
// error template against obj and the scope, returning a copy of args
// with Value populated. An argument whose expression fails to compile
// or run gets the literal string "null", mirroring the substitution
// grammar's handling of unresolved values.
func (s *Sandbox) EvalErrorArguments(scope *Scope, obj model.Object, args []model.ErrorArgument) []model.ErrorArgument {
	out := make([]model.ErrorArgument, len(args))
	for i, a := range args {
		out[i] = a
		program, err := s.compile(a.Expression, expr.AllowUndefinedVariables())
		if err != nil {
			out[i].Value = "null"
			continue
		}
		output, err := expr.Run(program, scope.environment(obj))
		if err != nil {
			out[i].Value = "null"
			continue
		}
		out[i].Value = output
	}
	return out
}

// Package engine implements the validation engine's traversal, rule
// dispatch, and bounded result collection (components D, E, F). It
// drives internal/sandbox, internal/ruleindex, and internal/variables
// but never imports anything under cmd/ or internal/profileio.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/validify-dev/validify/internal/model"
	"github.com/validify-dev/validify/internal/sandbox"
	"github.com/validify-dev/validify/internal/variables"
)

// DefaultMaxDisplayedFailedChecks is the per-rule cap on how many failed
// checks for the same rule are kept as TestAssertions in a result.
const DefaultMaxDisplayedFailedChecks = 100

// UnlimitedDisplayedFailedChecks disables the per-rule display cap.
const UnlimitedDisplayedFailedChecks = unlimitedDisplayedFailedChecks

// DocumentSource produces the root object of the graph to validate.
// Implementations (see internal/docsource) own parsing and lazy
// instantiation of descendants; the engine only ever calls Root once
// per run and then walks the graph through model.Object.
type DocumentSource interface {
	Root(ctx context.Context) (model.Object, error)
}

// Options configures one Engine. The zero value is not valid; use
// DefaultOptions and override fields as needed.
type Options struct {
	// MaxDisplayedFailedChecks caps, per rule, how many of its failed
	// checks are recorded as assertions. UnlimitedDisplayedFailedChecks
	// (-1) disables the cap.
	MaxDisplayedFailedChecks int
	// LogPassedChecks records a TestAssertion for passing checks too,
	// not just failures.
	LogPassedChecks bool
	// ShowErrorMessages renders each failed rule's error template with
	// its arguments. When false, failed assertions carry an empty
	// Message (cheaper: no argument expressions are evaluated).
	ShowErrorMessages bool
	// ShowProgress enables the mutex-guarded progress counters read by
	// ProgressString. When false, ProgressString returns "".
	ShowProgress bool
}

// DefaultOptions mirrors the defaults of a validator run with no
// explicit configuration: a 100-check-per-rule display cap, passed
// checks not logged, error messages rendered, no progress tracking.
func DefaultOptions() Options {
	return Options{
		MaxDisplayedFailedChecks: DefaultMaxDisplayedFailedChecks,
		ShowErrorMessages:        true,
	}
}

var componentDetails = model.ComponentDetails{
	ID:   "validify.engine.default",
	Name: "validify default validation engine",
}

// Engine validates documents against one ValidatedProfile. Validate
// builds a fresh scope, traversal stack, and collector for every call,
// but the abort flag set by Cancel persists across calls on the same
// Engine, matching a validator that is cancelled once and then
// discarded: construct a new Engine (sharing the same Sandbox, whose
// compile cache is safe to reuse) for the next run.
type Engine struct {
	profile *model.ValidatedProfile
	sb      *sandbox.Sandbox
	opts    Options

	aborted   atomic.Bool
	endStatus atomic.Value // model.JobEndStatus

	progMu sync.Mutex
	prog   *progress
}

// NewEngine returns an Engine bound to profile and using sb for every
// expression it evaluates during a run. sb's compile cache is shared
// across every run the Engine ever performs.
func NewEngine(profile *model.ValidatedProfile, sb *sandbox.Sandbox, opts Options) *Engine {
	e := &Engine{profile: profile, sb: sb, opts: opts}
	e.endStatus.Store(model.JobEndNormal)
	return e
}

// Details identifies this engine implementation for inclusion in a
// ValidationResult.
func (e *Engine) Details() model.ComponentDetails {
	return componentDetails
}

// Cancel requests that the current (or next) Validate call stop early
// at the next opportunity between object visits. It is safe to call
// from another goroutine while Validate is running. No in-flight
// predicate evaluation is interrupted.
func (e *Engine) Cancel(endStatus model.JobEndStatus) {
	e.endStatus.Store(endStatus)
	e.aborted.Store(true)
}

// ProgressString renders a snapshot of the most recent (or currently
// running) Validate call's progress, or "" if Options.ShowProgress is
// false.
func (e *Engine) ProgressString() string {
	e.progMu.Lock()
	p := e.prog
	e.progMu.Unlock()
	if p == nil {
		return ""
	}
	return p.String()
}

// Close releases any resources held by the Engine. The expression
// sandbox's compile cache is process-lifetime and owned by the caller,
// not the Engine, so Close currently has nothing to release; it exists
// so Engine satisfies the same lifecycle shape as the rest of this
// repo's long-lived components.
func (e *Engine) Close() error {
	return nil
}

// Validate walks source's root object against the bound profile and
// returns a bounded, deterministic ValidationResult. It returns an
// error only when the document graph itself is malformed
// (StructuralFault), the document source failed (ParserFault), a
// variable's default or update expression failed to evaluate, or an
// unexpected panic was recovered at the traversal boundary — never for
// an ordinary failed rule check, which is simply a failed TestAssertion
// in the result.
func (e *Engine) Validate(ctx context.Context, source DocumentSource) (result *model.ValidationResult, err error) {
	e.progMu.Lock()
	e.prog = newProgress(e.opts.ShowProgress)
	prog := e.prog
	e.progMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = model.NewValidationError("traversal", &panicFault{value: r})
		}
	}()

	started := time.Now()

	root, parseErr := source.Root(ctx)
	if parseErr != nil {
		return nil, model.NewValidationError("parsing", model.NewParserFault("root", parseErr))
	}

	scope := e.sb.NewScope()
	varState := variables.NewRunState(e.sb, scope, e.profile.Vars)
	if err := varState.Initialise(); err != nil {
		return nil, model.NewValidationError("initialising variables", err)
	}

	col := newCollector(root.ObjectType(), e.opts.MaxDisplayedFailedChecks, e.opts.LogPassedChecks, e.opts.ShowErrorMessages, e.sb, scope, prog, &e.aborted)
	disp := newDispatcher(e.profile.Rules, e.sb, scope, col)
	state := newTraversalState(root)

	for !state.empty() {
		if e.aborted.Load() {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			e.Cancel(model.JobEndCancelled)
			break
		}

		owc := state.pop()

		disp.checkAllRules(owc.obj, owc.context)

		if err := varState.UpdateForObject(owc.obj); err != nil {
			return nil, model.NewValidationError("updating variables", err)
		}

		if err := state.pushChildren(owc.obj, owc.context); err != nil {
			return nil, model.NewValidationError("traversal", err)
		}

		prog.incrementProcessedObjects()
		prog.setOutstandingObjects(state.len())
	}

	disp.flushDeferred()

	endStatus := e.endStatus.Load().(model.JobEndStatus)

	slog.Debug("validation run complete",
		"profile", e.profile.Profile.Metadata.Name,
		"total_checks", col.testCounter,
		"failed_rules", len(col.failedChecks),
		"end_status", endStatus,
	)

	return &model.ValidationResult{
		RunID:              uuid.NewString(),
		ProfileName:        e.profile.Profile.Metadata.Name,
		EndStatus:          endStatus,
		IsCompliant:        col.compliant,
		Assertions:         col.results,
		FailedChecksByRule: col.failedChecks,
		TotalChecks:        col.testCounter,
		TotalFailedChecks:  totalFailed(col.failedChecks),
		Details:            componentDetails,
		StartedAt:          started,
		FinishedAt:         time.Now(),
	}, nil
}

func totalFailed(byRule map[string]int) int {
	n := 0
	for _, c := range byRule {
		n += c
	}
	return n
}

// panicFault wraps a recovered panic value as an error so it can flow
// through model.ValidationError like any other traversal failure.
type panicFault struct {
	value any
}

func (p *panicFault) Error() string {
	return fmt.Sprintf("recovered panic during traversal: %v", p.value)
}

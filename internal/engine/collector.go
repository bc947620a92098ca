package engine

import (
	"log/slog"
	"sync/atomic"

	"github.com/validify-dev/validify/internal/model"
	"github.com/validify-dev/validify/internal/sandbox"
)

// maxChecksNumber bounds the total size of ValidationResult.Assertions.
// FailedChecksByRule is never bounded by it: every rule with at least
// one failure is counted regardless of how many assertions were
// actually recorded.
const maxChecksNumber = 10_000

// unlimitedDisplayedFailedChecks disables the per-rule display cap.
const unlimitedDisplayedFailedChecks = -1

// collector implements the run's bounded, deterministic reporting
// policy: it decides which of the (potentially enormous number of)
// individual rule checks become a recorded TestAssertion.
type collector struct {
	rootType          string
	maxDisplayed      int
	logPassed         bool
	showErrorMessages bool

	sb      *sandbox.Sandbox
	scope   *sandbox.Scope
	prog    *progress
	aborted *atomic.Bool

	results      []model.TestAssertion
	failedChecks map[string]int
	testCounter  int
	compliant    bool
}

func newCollector(rootType string, maxDisplayed int, logPassed, showErrorMessages bool, sb *sandbox.Sandbox, scope *sandbox.Scope, prog *progress, aborted *atomic.Bool) *collector {
	return &collector{
		rootType:          rootType,
		maxDisplayed:      maxDisplayed,
		logPassed:         logPassed,
		showErrorMessages: showErrorMessages,
		sb:                sb,
		scope:             scope,
		prog:              prog,
		aborted:           aborted,
		failedChecks:      make(map[string]int),
		compliant:         true,
	}
}

// report records the outcome of one rule check against one object.
// Passed checks are recorded only when logPassed is set. Failed checks
// are recorded up to two independent caps: a per-rule display cap and a
// global result-set cap, except that the first failure of any rule is
// always recorded even once the global cap has been reached, so that
// FailedChecksByRule's keys always have at least one example assertion
// available when it is non-empty and the global cap hasn't been hit
// from the very first check.
func (c *collector) report(passed bool, context string, rule model.Rule, obj model.Object) {
	if c.aborted != nil && c.aborted.Load() {
		return
	}

	c.testCounter++
	ordinal := c.testCounter
	if c.compliant {
		c.compliant = passed
	}

	if !passed {
		c.failedChecks[rule.ID]++
		n := c.failedChecks[rule.ID]

		withinRuleCap := c.maxDisplayed == unlimitedDisplayedFailedChecks || n <= c.maxDisplayed
		withinGlobalCap := len(c.results) <= maxChecksNumber || n <= 1

		if withinRuleCap && withinGlobalCap {
			var message string
			var args []model.ErrorArgument
			if c.showErrorMessages {
				args = c.sb.EvalErrorArguments(c.scope, obj, rule.Error.Arguments)
				message = renderErrorMessage(rule.Error.Message, args)
			}
			c.results = append(c.results, model.TestAssertion{
				Ordinal:       ordinal,
				RuleID:        rule.ID,
				Location:      model.Location{Context: context, ObjectType: c.rootType},
				Passed:        false,
				Description:   rule.Description,
				ObjectContext: obj.Context(),
				Message:       message,
				Arguments:     args,
			})
		}
	} else if c.logPassed && len(c.results) <= maxChecksNumber {
		var args []model.ErrorArgument
		if c.showErrorMessages {
			args = c.sb.EvalErrorArguments(c.scope, obj, rule.Error.Arguments)
		}
		c.results = append(c.results, model.TestAssertion{
			Ordinal:       ordinal,
			RuleID:        rule.ID,
			Location:      model.Location{Context: context, ObjectType: c.rootType},
			Passed:        true,
			Description:   rule.Description,
			ObjectContext: obj.Context(),
			Arguments:     args,
		})
	}

	c.prog.incrementChecks()
	c.prog.setFailedChecks(totalFailed(c.failedChecks))
}

// reportPredicateFault logs a swallowed predicate-evaluation error as a
// debug breadcrumb. It never returns an error: per the sandbox's
// contract a PredicateFault already resolved to passed=false before
// report was called.
func reportPredicateFault(ruleID string, err error) {
	slog.Debug("predicate fault", "rule", ruleID, "err", err)
}

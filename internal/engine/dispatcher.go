package engine

import (
	"github.com/validify-dev/validify/internal/model"
	"github.com/validify-dev/validify/internal/sandbox"
)

// dispatcher resolves the rules that apply to each visited object and
// either checks them immediately or queues them for the deferred pass
// run once, after the traversal has drained.
type dispatcher struct {
	rules model.RuleIndex
	sb    *sandbox.Sandbox
	scope *sandbox.Scope
	col   *collector

	deferredOrder   []string
	deferredRules   map[string]model.Rule
	deferredObjects map[string][]objectWithContext
}

func newDispatcher(rules model.RuleIndex, sb *sandbox.Sandbox, scope *sandbox.Scope, col *collector) *dispatcher {
	return &dispatcher{
		rules:           rules,
		sb:              sb,
		scope:           scope,
		col:             col,
		deferredRules:   make(map[string]model.Rule),
		deferredObjects: make(map[string][]objectWithContext),
	}
}

// checkAllRules evaluates (or queues) every rule that applies to obj,
// matched against its own type first and then each of its super-types
// in declaration order.
func (d *dispatcher) checkAllRules(obj model.Object, context string) {
	types := append([]string{obj.ObjectType()}, obj.SuperTypes()...)
	for _, rule := range d.rules.RulesForTypes(types) {
		d.firstProcessObjectWithRule(obj, context, rule)
	}
}

func (d *dispatcher) firstProcessObjectWithRule(obj model.Object, context string, rule model.Rule) {
	if rule.Deferred {
		if _, seen := d.deferredRules[rule.ID]; !seen {
			d.deferredRules[rule.ID] = rule
			d.deferredOrder = append(d.deferredOrder, rule.ID)
		}
		d.deferredObjects[rule.ID] = append(d.deferredObjects[rule.ID], objectWithContext{obj: obj, context: context})
		return
	}
	d.checkObjWithRule(obj, context, rule)
}

func (d *dispatcher) checkObjWithRule(obj model.Object, context string, rule model.Rule) {
	passed, err := d.sb.EvalPredicate(d.scope, obj, rule.Predicate)
	if err != nil {
		reportPredicateFault(rule.ID, err)
	}
	d.col.report(passed, context, rule, obj)
}

// flushDeferred runs every deferred rule against every object it was
// queued for, in the order each rule was first encountered during the
// main traversal and, within a rule, in the order its objects were
// queued.
func (d *dispatcher) flushDeferred() {
	for _, ruleID := range d.deferredOrder {
		rule := d.deferredRules[ruleID]
		for _, owc := range d.deferredObjects[ruleID] {
			d.checkObjWithRule(owc.obj, owc.context, rule)
		}
	}
}

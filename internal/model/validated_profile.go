package model

// RuleIndex looks up the rules that apply to a given object type. It is
// implemented by internal/ruleindex.Index; declared here so model stays
// free of a dependency on that package while ValidatedProfile can still
// reference the shape.
type RuleIndex interface {
	RulesForTypes(types []string) []Rule
}

// VariableIndex looks up the variables that accumulate over a given
// object type. Implemented by internal/variables.Store.
type VariableIndex interface {
	VariablesForTypes(types []string) []Variable
	AllVariables() []Variable
}

// ValidatedProfile pairs a raw Profile with the indices built from it.
// Construction (in internal/profileio) is the only place these indices
// are assembled; the engine only ever reads through this value.
type ValidatedProfile struct {
	Profile *Profile
	Rules   RuleIndex
	Vars    VariableIndex
}

// Package model contains the domain entities shared by the validation
// engine and its collaborators: the typed object graph, the profile of
// rules and variables, and the result report. These are pure data types
// with no dependency on the sandbox, traversal, or I/O packages.
package model

// Object is a single node of the document's typed object graph. It is
// opaque to the engine: the engine only ever calls the methods below,
// never inspects concrete fields directly. Domain-specific attributes
// referenced by rule and variable expressions (e.g. "obj.Title") are
// reached through the sandbox's reflection over the concrete type, not
// through this interface.
type Object interface {
	// ObjectType names the object's own type, used to look up directly
	// matching rules and variables.
	ObjectType() string

	// SuperTypes lists, in declaration order, the type names this object
	// also matches for rule/variable dispatch purposes.
	SuperTypes() []string

	// ID returns a stable identifier, or "" if the object is not
	// deduplicable (may recur in the traversal without being treated as
	// a cycle).
	ID() string

	// Context is the object's own self-label, reported as a
	// TestAssertion's ObjectContext. The traversal's context-path
	// string is built from link names and indices, not from it.
	Context() string

	// ExtraContext is an optional suffix appended to the context-path
	// when this object is visited, or "" if none.
	ExtraContext() string

	// Links lists the outgoing link names, in declaration order.
	Links() []string

	// LinkedObjects returns the ordered sequence of children reachable
	// through the given link name. May be empty but must not be nil for
	// a declared link.
	LinkedObjects(link string) []Object

	// Native returns the concrete, domain-specific value backing this
	// object (a struct or map holding the attributes rule and variable
	// expressions actually reference, e.g. "obj.Title"). The sandbox
	// binds it into the expression environment under "obj"; model
	// itself never inspects it.
	Native() any
}

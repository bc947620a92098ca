package engine

import (
	"strconv"

	"github.com/validify-dev/validify/internal/model"
)

// objectWithContext pairs an object with the context-path string it was
// reached at, the traversal's unit of work.
type objectWithContext struct {
	obj     model.Object
	context string
}

// traversalState owns the stack and the id-dedup set for a single run.
// Objects are pushed in reverse link and reverse child order so that
// popping the stack visits them in natural forward declaration order.
type traversalState struct {
	stack []objectWithContext
	idSet map[string]bool
}

func newTraversalState(root model.Object) *traversalState {
	t := &traversalState{idSet: make(map[string]bool)}
	if id := root.ID(); id != "" {
		t.idSet[id] = true
	}
	t.stack = append(t.stack, objectWithContext{obj: root, context: "root"})
	return t
}

func (t *traversalState) empty() bool {
	return len(t.stack) == 0
}

func (t *traversalState) pop() objectWithContext {
	n := len(t.stack)
	owc := t.stack[n-1]
	t.stack = t.stack[:n-1]
	return owc
}

func (t *traversalState) len() int {
	return len(t.stack)
}

// required reports whether obj still needs to be visited: objects
// without an ID are never deduplicated, objects with an ID are visited
// only the first time that ID is seen.
func (t *traversalState) required(obj model.Object) bool {
	id := obj.ID()
	return id == "" || !t.idSet[id]
}

// pushChildren walks checkObject's declared links in reverse order and
// pushes each linked object (again in reverse order) onto the stack,
// skipping any whose ID has already been visited. A link with no name,
// a nil linked-object sequence, or a nil object inside one is a fatal
// StructuralFault: the object graph itself is malformed and the run
// cannot continue.
func (t *traversalState) pushChildren(checkObject model.Object, checkContext string) error {
	links := checkObject.Links()
	if links == nil {
		return model.NewStructuralFault(checkContext, "object has a nil link list")
	}

	for j := len(links) - 1; j >= 0; j-- {
		link := links[j]
		if link == "" {
			return model.NewStructuralFault(checkContext, "object has a null link name")
		}

		children := checkObject.LinkedObjects(link)
		if children == nil {
			return model.NewStructuralFault(checkContext, "link "+link+" resolves to a nil object sequence")
		}

		for i := len(children) - 1; i >= 0; i-- {
			child := children[i]
			path := checkContext + "/" + link + "[" + strconv.Itoa(i) + "]"
			if child == nil {
				return model.NewStructuralFault(path, "link resolves to a nil object")
			}

			if !t.required(child) {
				continue
			}

			if id := child.ID(); id != "" {
				path += "(" + id + ")"
				t.idSet[id] = true
			}
			if extra := child.ExtraContext(); extra != "" {
				path += "{" + extra + "}"
			}

			t.stack = append(t.stack, objectWithContext{obj: child, context: path})
		}
	}
	return nil
}

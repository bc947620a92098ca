// Package docsource supplies a reference implementation of the
// engine's DocumentSource collaborator: a JSON-backed typed object
// graph. A real deployment would swap this for a format-specific
// parser; this package exists so the engine is runnable end-to-end
// without one.
package docsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/validify-dev/validify/internal/model"
)

// rawObject is the on-disk shape: a typed node with named links to
// ordered child sequences, recursively of the same shape.
type rawObject struct {
	ObjectType   string                 `json:"object_type"`
	SuperTypes   []string               `json:"super_types,omitempty"`
	ID           string                 `json:"id,omitempty"`
	Context      string                 `json:"context,omitempty"`
	ExtraContext string                 `json:"extra_context,omitempty"`
	Attributes   map[string]any         `json:"attributes,omitempty"`
	Links        map[string][]*rawObject `json:"links,omitempty"`
	linkOrder    []string
}

// jsonObject adapts a parsed rawObject to model.Object. Attributes are
// exposed to the sandbox as a plain map bound directly as "obj",
// reachable from expressions as e.g. "obj.title" or, via expr's
// map-indexing, "obj[\"title\"]".
type jsonObject struct {
	raw *rawObject
}

func (o *jsonObject) ObjectType() string   { return o.raw.ObjectType }
func (o *jsonObject) SuperTypes() []string { return o.raw.SuperTypes }
func (o *jsonObject) ID() string           { return o.raw.ID }
func (o *jsonObject) Context() string      { return o.raw.Context }
func (o *jsonObject) ExtraContext() string { return o.raw.ExtraContext }

// Links returns the object's link names sorted alphabetically; the order
// in which the links appear in the JSON document is not kept.
func (o *jsonObject) Links() []string {
	return o.raw.linkOrder
}

func (o *jsonObject) LinkedObjects(link string) []model.Object {
	children := o.raw.Links[link]
	out := make([]model.Object, len(children))
	for i, c := range children {
		if c == nil {
			out[i] = nil
			continue
		}
		out[i] = &jsonObject{raw: c}
	}
	return out
}

func (o *jsonObject) Native() any {
	return o.raw.Attributes
}

// Source reads a JSON document from r and exposes it as a
// model.Object graph. Source implements engine.DocumentSource.
type Source struct {
	r io.Reader
}

// NewSource returns a Source reading the document from r.
func NewSource(r io.Reader) *Source {
	return &Source{r: r}
}

// Root decodes the document and returns its root object. The decoder
// runs synchronously; ctx is only checked before decoding starts, since
// json.Decode has no cancellation hook of its own.
func (s *Source) Root(ctx context.Context) (model.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var root rawObject
	if err := json.NewDecoder(s.r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if root.Context == "" {
		root.Context = "root"
	}
	linkify(&root)
	return &jsonObject{raw: &root}, nil
}

// linkify recursively records each node's link names in a stable,
// deterministic order so Links() and LinkedObjects() agree with each
// other; Go's map iteration order is otherwise random.
func linkify(o *rawObject) {
	o.linkOrder = make([]string, 0, len(o.Links))
	for name := range o.Links {
		o.linkOrder = append(o.linkOrder, name)
	}
	sort.Strings(o.linkOrder)
	for _, children := range o.Links {
		for _, c := range children {
			if c != nil {
				linkify(c)
			}
		}
	}
}

// Package world provides an in-memory store of descriptor facts.
//
// Facts are (subject, predicate, object) triples of [Node] values, loaded from
// YAML descriptor files in bundle directories. The store is queried by the
// linter to resolve plugins and their declared properties.
package world

import (
	"errors"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/macropower/lv2lint/pkg/lv2"
)

var ErrNotFound = errors.New("not found")

type triple struct {
	s, p, o Node
}

// World is an in-memory triple store. It is not safe for concurrent writes;
// concurrent reads are safe once loading is complete.
type World struct {
	seen    map[triple]struct{}
	spo     map[Node]map[Node][]Node
	pos     map[Node]map[Node][]Node
	bundles []string
	nBlank  int
}

// New creates a new, empty [World].
func New() *World {
	return &World{
		seen: map[triple]struct{}{},
		spo:  map[Node]map[Node][]Node{},
		pos:  map[Node]map[Node][]Node{},
	}
}

// Add adds a triple. Duplicate triples are ignored.
func (w *World) Add(s, p, o Node) {
	t := triple{s: s, p: p, o: o}
	if _, ok := w.seen[t]; ok {
		return
	}

	w.seen[t] = struct{}{}

	if w.spo[s] == nil {
		w.spo[s] = map[Node][]Node{}
	}

	w.spo[s][p] = append(w.spo[s][p], o)

	if w.pos[p] == nil {
		w.pos[p] = map[Node][]Node{}
	}

	w.pos[p][o] = append(w.pos[p][o], s)
}

// NewBlank returns a new blank node that is unique within w.
func (w *World) NewBlank() Node {
	w.nBlank++

	return Blank("b" + strconv.Itoa(w.nBlank))
}

// Len returns the number of triples.
func (w *World) Len() int {
	return len(w.seen)
}

// Bundles returns the bundle directories that were loaded.
func (w *World) Bundles() []string {
	return slices.Clone(w.bundles)
}

// Describes reports whether any triple has s as its subject.
func (w *World) Describes(s Node) bool {
	return len(w.spo[s]) > 0
}

// Predicates returns the predicates of every triple with subject s, sorted.
func (w *World) Predicates(s Node) []Node {
	preds := slices.Collect(maps.Keys(w.spo[s]))
	slices.SortFunc(preds, func(a, b Node) int {
		return strings.Compare(a.String(), b.String())
	})

	return preds
}

// Objects returns the objects of (s, p, ?), in insertion order.
func (w *World) Objects(s, p Node) []Node {
	return slices.Clone(w.spo[s][p])
}

// Object returns the first object of (s, p, ?).
func (w *World) Object(s, p Node) (Node, bool) {
	objs := w.spo[s][p]
	if len(objs) == 0 {
		return Node{}, false
	}

	return objs[0], true
}

// Subjects returns the subjects of (?, p, o), in insertion order.
func (w *World) Subjects(p, o Node) []Node {
	return slices.Clone(w.pos[p][o])
}

// Ask reports whether the triple (s, p, o) exists.
func (w *World) Ask(s, p, o Node) bool {
	_, ok := w.seen[triple{s: s, p: p, o: o}]

	return ok
}

// IsA reports whether s has rdf:type class.
func (w *World) IsA(s, class Node) bool {
	return w.Ask(s, IRI(lv2.RDFType), class)
}

// Instances returns all subjects with rdf:type class.
func (w *World) Instances(class Node) []Node {
	return w.Subjects(IRI(lv2.RDFType), class)
}

// Comment returns the rdfs:comment of s, used as documentation for rule URIs.
func (w *World) Comment(s Node) (string, bool) {
	for _, o := range w.spo[s][IRI(lv2.RDFSComment)] {
		if o.IsString() {
			return o.String(), true
		}
	}

	return "", false
}

// Document implements documentation lookup by URI.
func (w *World) Document(uri string) (string, bool) {
	return w.Comment(IRI(uri))
}

package forest

import (
	"reflect"

	"github.com/cnf/structhash"
)

// Comparator is an equality predicate over two completed parse trees,
// used to deduplicate the forest's surviving roots while preserving
// first-occurrence order (spec §4.2 "comparator" option). A comparator
// that always returns false preserves duplicates; spec §9 explicitly
// invites "a cheaper hash-based one" as an alternative to the default.
type Comparator func(a, b Node) bool

// hashable is the shape structhash actually walks: it ignores unexported
// fields, so the comparator first projects a Node onto this struct.
type hashable struct {
	Kind     Kind
	Value    interface{}
	Category string
	Children []hashable
}

func project(n Node) hashable {
	h := hashable{Kind: n.Kind, Value: n.Value}
	if n.Category != nil {
		h.Category = *n.Category
	}
	if len(n.Children) > 0 {
		h.Children = make([]hashable, len(n.Children))
		for i, c := range n.Children {
			h.Children[i] = project(c)
		}
	}
	return h
}

// fastHash computes a structural digest of n via structhash, used as a
// cheap prefilter ahead of the exact structural comparison: a hash
// mismatch proves inequality without walking both trees; a hash match
// still falls through to DeepEqual, since structhash (like any hash) can
// collide.
func fastHash(n Node) (string, error) {
	return structhash.Hash(project(n), 1)
}

// DefaultComparator is deep structural equality over parse trees,
// treating an optional category as part of node identity and children
// order as significant (spec §4.2's default comparator description,
// "deep structural equality over JSON-like values"). It is accelerated
// by a structhash prefilter: unequal hashes short-circuit to false
// before the (potentially large) DeepEqual walk runs.
func DefaultComparator(a, b Node) bool {
	ha, errA := fastHash(a)
	hb, errB := fastHash(b)
	if errA == nil && errB == nil && ha != hb {
		return false
	}
	return reflect.DeepEqual(project(a), project(b))
}

// AlwaysDistinct is a comparator that never considers two trees equal,
// preserving every candidate parse including exact duplicates (spec §9).
func AlwaysDistinct(Node, Node) bool {
	return false
}

// Dedup filters roots down to first-occurrence-unique trees under cmp,
// preserving order (spec §4.2 "Forest reconstruction").
func Dedup(roots []Node, cmp Comparator) []Node {
	if cmp == nil {
		cmp = DefaultComparator
	}
	out := make([]Node, 0, len(roots))
	for _, r := range roots {
		dup := false
		for _, kept := range out {
			if cmp(kept, r) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		} else {
			tracer().Debugf("dedup dropped duplicate root %s", r.Pretty())
		}
	}
	return out
}

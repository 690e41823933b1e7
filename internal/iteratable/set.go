/*
Package iteratable implements a container suitable for the Earley
state-set grid: an ordered, append-only collection that may grow while
it is being iterated over, with the iteration observing items appended
during its own pass.

This is the exact shape the Earley algorithm needs for a bucket
(spec §3 "State grid", §9 "State-set traversal with concurrent growth"):
completer and predictor both append to the bucket currently being
processed, and the index-based traversal loop must re-read the length on
every step rather than snapshot it once.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package iteratable

import (
	"github.com/emirpasic/gods/lists/arraylist"
)

// Set is an ordered, append-only collection with a single live cursor.
// Unlike a general-purpose set it never removes duplicates on its own —
// callers decide what "already present" means (the Earley predictor's
// dedup key is not the same as the completer's, see recognizer package).
type Set struct {
	items *arraylist.List
	pos   int // -1 before iteration starts
}

// New creates an empty Set, optionally pre-populated.
func New(items ...interface{}) *Set {
	s := &Set{items: arraylist.New(), pos: -1}
	for _, it := range items {
		s.items.Add(it)
	}
	return s
}

// Append adds an item to the end of the set, unconditionally. It is safe
// to call this while an iteration is in progress: the appended item will
// be visited later in the same pass.
func (s *Set) Append(item interface{}) {
	s.items.Add(item)
}

// Len returns the current length. Callers iterating by hand must re-call
// Len on every step instead of caching it, since Append may grow the set
// mid-loop.
func (s *Set) Len() int {
	return s.items.Size()
}

// At returns the item at index i.
func (s *Set) At(i int) interface{} {
	v, _ := s.items.Get(i)
	return v
}

// Values returns a snapshot slice of the current items, in order.
func (s *Set) Values() []interface{} {
	return s.items.Values()
}

// IterateOnce resets the cursor to just before the first item.
func (s *Set) IterateOnce() {
	s.pos = -1
}

// Next advances the cursor and reports whether an item is available. It
// re-reads the set's length on every call, so items appended by Append
// during iteration are observed in the same pass — the defining property
// required by the Earley completer/predictor dispatch loop.
func (s *Set) Next() bool {
	s.pos++
	return s.pos < s.items.Size()
}

// Item returns the item at the current cursor position. Valid only after
// a call to Next returned true.
func (s *Set) Item() interface{} {
	return s.At(s.pos)
}

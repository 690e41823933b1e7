/*
Package earley is a general-purpose context-free parsing library built
around the Earley recognition algorithm.

Callers declare a grammar over named nonterminals and regular-expression
terminals (package grammar), optionally attach a regex-driven tokenizer
(package tokenizer) for raw string input, and parse either a string or a
pre-tokenized sequence into one or more parse trees (package forest). For
ambiguous grammars every distinct parse is returned.

The recognizer itself — state-set grid, predictor/scanner/completer
dispatch, forest reconstruction — lives in package recognizer. This
root package only carries the vocabulary shared across all of the
above: input spans.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package earley

import "fmt"

// Span captures a run of input positions. Every terminal and nonterminal
// match is tagged with the span of input it covers: a start position and
// the position just behind the end.
type Span [2]int

// NewSpan builds a span covering [from, to).
func NewSpan(from, to int) Span {
	return Span{from, to}
}

// From returns the start value of a span.
func (s Span) From() int {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() int {
	return s[1]
}

// Len returns the length of the span.
func (s Span) Len() int {
	return s[1] - s[0]
}

// IsNull returns true for the zero span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend grows s to also cover other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

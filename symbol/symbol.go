/*
Package symbol implements the grammar symbols of the Earley engine:
terminals (anchored regular expressions), nonterminals (named
categories) and the tagged Symbol union used in production right-hand
sides.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package symbol

import (
	"regexp"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'earley.symbol'.
func tracer() tracing.Trace {
	return tracing.Select("earley.symbol")
}

// Terminal is an anchored regular expression that matches against
// exactly one input token. The anchoring is applied by the package, not
// the caller: whatever pattern is supplied, the stored regex matches the
// whole token, never just a prefix.
type Terminal struct {
	source string // caller's original pattern, before anchoring
	re     *regexp.Regexp
}

// NewTerminal wraps pattern with whole-string anchors and compiles it.
// Adding a rule with pattern "r" or "^r$" produces an equal Terminal
// either way (spec invariant).
func NewTerminal(pattern string) (*Terminal, error) {
	anchored := wholeStringAnchor(pattern)
	re, err := regexp.Compile(anchored)
	if err != nil {
		tracer().Errorf("terminal pattern %q does not compile: %s", pattern, err)
		return nil, err
	}
	tracer().Debugf("terminal %q anchored to %q", pattern, anchored)
	return &Terminal{source: anchored, re: re}, nil
}

// wholeStringAnchor rewraps pattern so it matches an entire string, not a
// prefix or substring of it. A leading '^' and an unescaped trailing '$'
// are removed before wrapping, so "r" and "^r$" yield the same anchored
// source text.
func wholeStringAnchor(pattern string) string {
	pattern = strings.TrimPrefix(pattern, "^")
	if n := len(pattern); n > 0 && pattern[n-1] == '$' {
		backslashes := 0
		for k := n - 2; k >= 0 && pattern[k] == '\\'; k-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			pattern = pattern[:n-1]
		}
	}
	return "^(?:" + pattern + ")$"
}

// Regexp returns the compiled, anchored pattern.
func (t *Terminal) Regexp() *regexp.Regexp {
	return t.re
}

// Source returns the anchored pattern's source text, used as the
// equality/dedup key (spec §9: "Predictor dedup key with regex
// elements" — compare by source pattern, not object identity).
func (t *Terminal) Source() string {
	return t.source
}

// Match reports whether the terminal matches the whole of token.
func (t *Terminal) Match(token string) bool {
	return t.re.MatchString(token)
}

// Equal compares two terminals by their anchored source pattern.
func (t *Terminal) Equal(other *Terminal) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.source == other.source
}

func (t *Terminal) String() string {
	return "/" + t.source + "/"
}

// Nonterminal names a grammar category. Two nonterminals are equal iff
// their names are equal.
type Nonterminal struct {
	Name string
}

// NewNonterminal wraps a category name.
func NewNonterminal(name string) *Nonterminal {
	return &Nonterminal{Name: name}
}

// Equal compares two nonterminals by name.
func (n *Nonterminal) Equal(other *Nonterminal) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.Name == other.Name
}

func (n *Nonterminal) String() string {
	return n.Name
}

// Symbol is a tagged union: either a Terminal or a Nonterminal. Exactly
// one of Term/NonTerm is non-nil.
type Symbol struct {
	Term    *Terminal
	NonTerm *Nonterminal
}

// T wraps a terminal as a Symbol.
func T(t *Terminal) Symbol {
	return Symbol{Term: t}
}

// N wraps a nonterminal name as a Symbol.
func N(name string) Symbol {
	return Symbol{NonTerm: NewNonterminal(name)}
}

// IsTerminal reports whether sym is a terminal.
func (sym Symbol) IsTerminal() bool {
	return sym.Term != nil
}

// Name returns the nonterminal's name. Panics if sym is a terminal; call
// IsTerminal first.
func (sym Symbol) Name() string {
	return sym.NonTerm.Name
}

// Equal compares two symbols element-wise: nonterminals by name,
// terminals by anchored source pattern (spec §3 "Two states are
// considered equal ... rhs (element-wise, with regex equality by source
// pattern)").
func (sym Symbol) Equal(other Symbol) bool {
	if sym.IsTerminal() != other.IsTerminal() {
		return false
	}
	if sym.IsTerminal() {
		return sym.Term.Equal(other.Term)
	}
	return sym.NonTerm.Equal(other.NonTerm)
}

func (sym Symbol) String() string {
	if sym.IsTerminal() {
		return sym.Term.String()
	}
	return sym.NonTerm.String()
}

// Production is a single grammar rule: lhs -> rhs. rhs may be empty
// (an epsilon production).
type Production struct {
	LHS string
	RHS []Symbol
}

// RHSEqual compares rhs sequences element-wise using Symbol.Equal.
func RHSEqual(a, b []Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (p Production) String() string {
	if len(p.RHS) == 0 {
		return p.LHS + " ::= ε"
	}
	s := p.LHS + " ::="
	for _, sym := range p.RHS {
		s += " " + sym.String()
	}
	return s
}

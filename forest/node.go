/*
Package forest implements the parse-tree/parse-forest data model
produced by the Earley engine: a Node is either a raw token value or an
ordered sequence of child nodes, optionally prefixed by the producing
nonterminal's name and/or tagged as eligible for builder rewriting.

This is the statically-typed rendering of spec §9's "Subtree" note:
"Represent this as a tagged variant {Callable, Template, Identity}" for
formatters applies to tokenizer.Formatter; the analogous guidance for
tree nodes ("use a distinct tag ... rather than a magic in-band value")
is implemented here via the BuilderTagged field rather than an in-band
sentinel object.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package forest

import (
	"bytes"
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/go-earley/earley"
)

// tracer traces with key 'earley.forest'.
func tracer() tracing.Trace {
	return tracing.Select("earley.forest")
}

// Kind distinguishes the two Node variants.
type Kind int

const (
	// TokenKind nodes carry a scalar value produced by the tokenizer or
	// scanner; they have no children.
	TokenKind Kind = iota
	// BranchKind nodes carry an ordered sequence of children, produced
	// by completing a production.
	BranchKind
)

// Node is the sum type Token(value) | Branch(category?, children...)
// described in spec §3 ("Subtree") and §9 ("Heterogeneous token
// values").
type Node struct {
	Kind Kind

	// Set when Kind == TokenKind.
	Value interface{}

	// Set when Kind == BranchKind.
	Category      *string // producing lhs name, set only if addCategories
	Children      []Node
	BuilderTagged bool // eligible for expressionBuilder rewriting

	Span earley.Span // input positions this node covers
}

// Token builds a leaf node wrapping a scalar token value.
func Token(value interface{}, from, to int) Node {
	return Node{Kind: TokenKind, Value: value, Span: earley.NewSpan(from, to)}
}

// Branch builds an interior node from children, covering [from, to).
func Branch(children []Node, from, to int) Node {
	return Node{Kind: BranchKind, Children: children, Span: earley.NewSpan(from, to)}
}

// WithCategory returns a copy of n tagged with its producing lhs name
// (addCategories option, spec §4.2).
func (n Node) WithCategory(lhs string) Node {
	n.Category = &lhs
	return n
}

// WithBuilderTag returns a copy of n marked eligible for bottom-up
// rewriting by an expressionBuilder.
func (n Node) WithBuilderTag() Node {
	n.BuilderTagged = true
	return n
}

// Collapsed returns n unwrapped to its single child if n is a one-element
// branch, otherwise n unchanged (collapseBranches option, spec §4.2,
// idempotent per spec §8).
func (n Node) Collapsed() Node {
	if n.Kind == BranchKind && len(n.Children) == 1 {
		return n.Children[0]
	}
	return n
}

// IsToken reports whether n is a leaf token node.
func (n Node) IsToken() bool {
	return n.Kind == TokenKind
}

// Pretty renders an indented, human-readable tree — grounded on the
// bytes.Buffer-based debug dump style of gorgo's Earley engine.
func (n Node) Pretty() string {
	var buf bytes.Buffer
	n.pretty(&buf, 0)
	return buf.String()
}

func (n Node) pretty(buf *bytes.Buffer, depth int) {
	indent := func() {
		for i := 0; i < depth; i++ {
			buf.WriteString("  ")
		}
	}
	indent()
	if n.IsToken() {
		fmt.Fprintf(buf, "%v %s\n", n.Value, n.Span)
		return
	}
	cat := "·"
	if n.Category != nil {
		cat = *n.Category
	}
	fmt.Fprintf(buf, "%s %s\n", cat, n.Span)
	for _, c := range n.Children {
		c.pretty(buf, depth+1)
	}
}

package recognizer

import (
	"github.com/go-earley/earley/forest"
	"github.com/go-earley/earley/grammar"
)

// applyBuilder walks each candidate root bottom-up, rewriting every
// builder-tagged node through opts.ExpressionBuilder and dropping the
// whole candidate if the builder rejects any of its subtrees (spec
// §4.2 "Forest reconstruction", last paragraph). With no builder
// configured, roots pass through unchanged.
func applyBuilder(roots []forest.Node, opts grammar.Options) ([]forest.Node, error) {
	if opts.ExpressionBuilder == nil {
		return roots, nil
	}
	out := make([]forest.Node, 0, len(roots))
	for _, r := range roots {
		rewritten, ok := rewrite(r, opts)
		if ok {
			out = append(out, rewritten)
		}
	}
	return out, nil
}

// rewrite recursively rewrites n bottom-up. ok is false iff the builder
// rejected n or any of its descendants, per spec's "If the builder
// returns the reject value for any subtree, the whole candidate is
// discarded."
//
// collapseBranches is already applied per node at construction time
// (recognizer.buildSubtree), so rewrite only replaces children in place
// and invokes the builder on tagged nodes; it does not re-collapse.
func rewrite(n forest.Node, opts grammar.Options) (forest.Node, bool) {
	if n.IsToken() {
		return n, true
	}
	children := make([]forest.Node, 0, len(n.Children))
	for _, c := range n.Children {
		rc, ok := rewrite(c, opts)
		if !ok {
			return forest.Node{}, false
		}
		children = append(children, rc)
	}
	n.Children = children
	if !n.BuilderTagged {
		return n, true
	}
	n.BuilderTagged = false
	n.Category = nil
	return opts.ExpressionBuilder(n)
}

/*
Package recognizer implements the Earley recognizer/reconstructor: the
state-set grid, the predictor/scanner/completer dispatch, and the
reconstruction of parse-tree forests (spec §3, §4.2). This is the core
the rest of the module exists to support.

Grounded on gorgo's lr/earley package (debug.go, ruleset.go,
parsetree.go, earley_test.go): same NewParser(grammar)/parser.Parse(...)
shape, same package-local tracer key convention, same
gotestingadapter-driven test style. The state-set grid itself is backed
by internal/iteratable.Set, a generalization of the grow-while-iterating
container gorgo documents in lr/iteratable/doc.go but never ships an
implementation for in the retrieved sources — this implementation is
new, grounded on that doc.go's documented contract.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package recognizer

import (
	"fmt"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/npillmayer/schuko/tracing"

	"github.com/go-earley/earley/forest"
	"github.com/go-earley/earley/grammar"
	"github.com/go-earley/earley/internal/iteratable"
	"github.com/go-earley/earley/internal/matrix"
	"github.com/go-earley/earley/symbol"
)

// tracer traces with key 'earley.recognizer'.
func tracer() tracing.Trace {
	return tracing.Select("earley.recognizer")
}

// topLHS is the synthetic top rule's lhs sentinel (spec §3 "Earley
// item").
const topLHS = ""

// item is a single Earley state (spec §3). pos is the dot position.
type item struct {
	lhs string
	rhs []symbol.Symbol
	pos int
	ori int
	got []forest.Node
}

func (it *item) atEnd() bool {
	return it.pos == len(it.rhs)
}

func (it *item) nextSymbol() symbol.Symbol {
	return it.rhs[it.pos]
}

func (it *item) advance(child forest.Node) *item {
	got := make([]forest.Node, len(it.got)+1)
	copy(got, it.got)
	got[len(it.got)] = child
	return &item{lhs: it.lhs, rhs: it.rhs, pos: it.pos + 1, ori: it.ori, got: got}
}

func (it *item) String() string {
	s := it.lhs + " ->"
	for i, sym := range it.rhs {
		if i == it.pos {
			s += " ·"
		}
		s += " " + sym.String()
	}
	if it.pos == len(it.rhs) {
		s += " ·"
	}
	return fmt.Sprintf("%s (%d)", s, it.ori)
}

// Parser runs Earley recognition over a fixed grammar. A Parser may be
// reused across calls to Parse as long as the grammar is not mutated
// concurrently with parsing (spec §5).
type Parser struct {
	g *grammar.Grammar
}

// NewParser creates a Parser bound to g.
func NewParser(g *grammar.Grammar) *Parser {
	return &Parser{g: g}
}

// ParseOption overrides a single grammar.Options field for one Parse
// call without mutating the grammar's stored defaults.
type ParseOption func(*grammar.Options)

// WithMaxIterations overrides the iteration cap for one call.
func WithMaxIterations(n int) ParseOption {
	return func(o *grammar.Options) { o.MaxIterations = n }
}

// Parse runs the algorithm described in spec §4.2 over input, which is
// either a string (tokenized first, if a tokenizer is configured) or an
// already-tokenized []interface{} sequence. It never fails for
// unparseable input — an empty slice is returned — and only returns an
// error for the two kinds spec §7 distinguishes, ErrUnknownNonterminal
// and ErrIterationLimitExceeded, or for an input that is neither a
// string, a []interface{} nor nil.
func (p *Parser) Parse(input interface{}, overrides ...ParseOption) ([]forest.Node, error) {
	opts := p.g.Options()
	for _, fn := range overrides {
		fn(&opts)
	}
	if opts.ShowDebuggingOutput {
		prev := tracer().GetTraceLevel()
		tracer().SetTraceLevel(tracing.LevelDebug)
		defer tracer().SetTraceLevel(prev)
	}

	tokens, err := p.materializeTokens(input, opts)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, nil // tokenizer failure, spec §7 — data, not an error
	}

	n := len(tokens)
	grid := make([]*iteratable.Set, n+1)
	for i := range grid {
		grid[i] = iteratable.New()
	}
	predicted := make([]*hashset.Set, n+1)
	for i := range predicted {
		predicted[i] = hashset.New()
	}
	var occupancy *matrix.IntMatrix
	if opts.ShowDebuggingOutput {
		occupancy = matrix.New(n+1, 1)
	}

	iterations := 0
	bump := func() error {
		iterations++
		if opts.MaxIterations > 0 && iterations > opts.MaxIterations {
			return grammar.ErrIterationLimitExceeded
		}
		return nil
	}

	grid[0].Append(&item{lhs: topLHS, rhs: []symbol.Symbol{symbol.N(p.g.Start())}, pos: 0, ori: 0})

	for i := 0; i <= n; i++ {
		bucket := grid[i]
		bucket.IterateOnce()
		for bucket.Next() {
			it := bucket.Item().(*item)
			if occupancy != nil {
				if idx := p.g.RuleIndex(it.lhs, it.rhs); idx >= 0 {
					occupancy.Add(i, idx, 1)
				}
			}
			if it.atEnd() {
				if err := p.complete(it, i, grid, &opts, bump); err != nil {
					return nil, err
				}
				continue
			}
			sym := it.nextSymbol()
			if sym.IsTerminal() {
				if i < n {
					if err := p.scan(it, i, sym, tokens[i], grid, bump); err != nil {
						return nil, err
					}
				}
			} else {
				if err := p.predict(it, i, sym, grid, predicted[i], bump); err != nil {
					return nil, err
				}
			}
		}
	}

	if occupancy != nil {
		p.g.StoreDebugOccupancy(occupancy)
	}

	roots := p.extractRoots(grid[n])
	roots, err = applyBuilder(roots, opts)
	if err != nil {
		return nil, err
	}
	return forest.Dedup(roots, opts.Comparator), nil
}

func (p *Parser) materializeTokens(input interface{}, opts grammar.Options) ([]interface{}, error) {
	switch v := input.(type) {
	case string:
		if opts.Tokenizer == nil {
			tracer().Errorf("string input given but no tokenizer configured")
			return []interface{}{}, nil
		}
		toks, err := opts.Tokenizer.Tokenize(v)
		if err != nil {
			tracer().Debugf("tokenize(%q) failed: %s", v, err)
			return nil, nil
		}
		return toks, nil
	case []interface{}:
		return v, nil
	case nil:
		return []interface{}{}, nil
	default:
		return nil, fmt.Errorf("recognizer: unsupported input type %T", input)
	}
}

// predict adds, for a nonterminal about to be matched, fresh items at
// dot-zero for each of its productions — unless an item with the same
// (lhs, rhs, pos=0) is already present in this bucket (spec §4.2 step 3,
// §3 predictor-dedup).
func (p *Parser) predict(it *item, i int, sym symbol.Symbol, grid []*iteratable.Set,
	predicted *hashset.Set, bump func() error) error {
	//
	name := sym.Name()
	if !p.g.Defined(name) {
		tracer().Errorf("unknown nonterminal %q referenced from %s", name, it)
		return fmt.Errorf("%w: %s", grammar.ErrUnknownNonterminal, name)
	}
	for _, prod := range p.g.Productions(name) {
		if err := bump(); err != nil {
			return err
		}
		key := predictKey(name, prod.RHS)
		if predicted.Contains(key) {
			continue
		}
		predicted.Add(key)
		grid[i].Append(&item{lhs: name, rhs: prod.RHS, pos: 0, ori: i})
		tracer().Debugf("predict %s -> %s @%d", name, prod, i)
	}
	return nil
}

func predictKey(lhs string, rhs []symbol.Symbol) string {
	s := lhs + "|"
	for _, sym := range rhs {
		if sym.IsTerminal() {
			s += "T:" + sym.Term.Source() + ";"
		} else {
			s += "N:" + sym.Name() + ";"
		}
	}
	return s
}

// scan advances it past a terminal if it matches the current input
// token, appending the advanced item to grid[i+1] (spec §4.2 step 2).
func (p *Parser) scan(it *item, i int, sym symbol.Symbol, tok interface{}, grid []*iteratable.Set,
	bump func() error) error {
	//
	text := tokenText(tok)
	if !sym.Term.Match(text) {
		return nil
	}
	if err := bump(); err != nil {
		return err
	}
	child := forest.Token(tok, i, i+1)
	grid[i+1].Append(it.advance(child))
	tracer().Debugf("scan %s matches %q @%d", sym, text, i)
	return nil
}

func tokenText(tok interface{}) string {
	if s, ok := tok.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", tok)
}

// complete advances every item in grid[it.ori] that was waiting for the
// nonterminal it.lhs, extending each one's got with a newly built
// subtree (spec §4.2 step 1). It walks the *current* contents of
// grid[it.ori] by index, re-reading Len() on every step so completions
// appended there earlier in its own processing are visible, satisfying
// spec §9's "concurrent growth" requirement.
//
// For a nullable/epsilon completion, it.ori == i: grid[it.ori] is then
// the very same *iteratable.Set the outer Parse loop is in the middle
// of walking via its own IterateOnce/Next cursor. Set has a single
// shared cursor, so driving a second IterateOnce/Next pass over it
// here would reset and consume that same cursor out from under the
// outer loop. Walking by explicit index with Len/At instead never
// touches the shared cursor, so the two walks can safely overlap on
// the same bucket.
func (p *Parser) complete(it *item, i int, grid []*iteratable.Set, opts *grammar.Options,
	bump func() error) error {
	//
	origin := grid[it.ori]
	for idx := 0; idx < origin.Len(); idx++ {
		cand := origin.At(idx).(*item)
		if cand.atEnd() || cand.nextSymbol().IsTerminal() {
			continue
		}
		if cand.nextSymbol().Name() != it.lhs {
			continue
		}
		if err := bump(); err != nil {
			return err
		}
		child := buildSubtree(it, i, opts)
		grid[i].Append(cand.advance(child))
		tracer().Debugf("complete %s -> %s @%d", it.lhs, cand, i)
	}
	return nil
}

// buildSubtree turns a just-completed item's accumulated children into
// the single subtree value the parent item's got is extended with (spec
// §4.2 step 1's bullet list).
//
// Spec's bullet list prepends the builder sentinel and/or the category
// name onto the same array whose length collapseBranches inspects —
// an artifact of the source's dynamically-typed, in-band tagging. Here
// the builder tag is a type-level bool field, not a payload-bearing
// array slot, so it never consumes a "position" for the length check;
// the category name does carry real information and would be silently
// lost by collapsing, so (matching the spirit of the original rule) it
// is the one thing that suppresses collapsing.
func buildSubtree(it *item, end int, opts *grammar.Options) forest.Node {
	if opts.CollapseBranches && len(it.got) == 1 && !opts.AddCategories {
		return it.got[0]
	}
	node := forest.Branch(it.got, it.ori, end)
	if opts.AddCategories {
		node = node.WithCategory(it.lhs)
	}
	if opts.ExpressionBuilder != nil {
		node = node.WithBuilderTag()
	}
	return node
}

// extractRoots scans the final bucket for completed top-level items and
// returns their candidate root trees (spec §4.2 "Forest reconstruction").
func (p *Parser) extractRoots(final *iteratable.Set) []forest.Node {
	var roots []forest.Node
	final.IterateOnce()
	for final.Next() {
		it := final.Item().(*item)
		if it.lhs == topLHS && it.atEnd() && len(it.got) == 1 {
			roots = append(roots, it.got[0])
		}
	}
	return roots
}

package recognizer

import (
	"errors"
	"strconv"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/go-earley/earley/forest"
	"github.com/go-earley/earley/grammar"
)

// arithmetic grammar from spec §8's worked scenario:
//
//	P -> S
//	S -> S '+' M | M
//	M -> M '*' T | T
//	T -> /-?[0-9]+/
func buildArithmetic(t *testing.T) *grammar.Grammar {
	g := grammar.New("P")
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(g.AddRule("P", "S"))
	must(g.AddRule("S", []interface{}{"S", grammar.Regex(`\+`), "M"}))
	must(g.AddRule("S", "M"))
	must(g.AddRule("M", []interface{}{"M", grammar.Regex(`\*`), "T"}))
	must(g.AddRule("M", "T"))
	must(g.AddRule("T", grammar.Regex(`-?[0-9]+`)))
	return g
}

func TestParseArithmeticUnambiguous(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earley.recognizer")
	defer teardown()
	//
	g := buildArithmetic(t)
	if err := g.SetOption("collapseBranches", true); err != nil {
		t.Fatal(err)
	}
	p := NewParser(g)
	input := []interface{}{"15", "+", "-2", "*", "9"}
	roots, err := p.Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 {
		t.Fatalf("expected exactly one parse tree, got %d", len(roots))
	}
	root := roots[0]
	if root.IsToken() || len(root.Children) != 3 {
		t.Fatalf("expected a 3-child branch at top level, got %s", root.Pretty())
	}
	if root.Children[0].Value != "15" {
		t.Errorf("expected first child token \"15\", got %v", root.Children[0])
	}
	if root.Children[1].Value != "+" {
		t.Errorf("expected operator token \"+\", got %v", root.Children[1])
	}
	mul := root.Children[2]
	if mul.IsToken() || len(mul.Children) != 3 {
		t.Fatalf("expected nested 3-child branch for \"-2\" * \"9\", got %s", mul.Pretty())
	}
	if mul.Children[0].Value != "-2" || mul.Children[1].Value != "*" || mul.Children[2].Value != "9" {
		t.Errorf("unexpected nested children: %s", mul.Pretty())
	}
}

func TestParseAmbiguousMinusSeven(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earley.recognizer")
	defer teardown()
	//
	// Spec §8 scenario 2: a grammar with both a two-token ("-", "7") and
	// a one-token ("-7") derivation of the same value. Feeding it either
	// pre-tokenized form should parse, but the token boundaries pick
	// which single derivation applies — they are not simultaneously
	// ambiguous against the same token sequence.
	g := grammar.New("P")
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(g.AddRule("P", "T"))
	must(g.AddRule("T", []interface{}{"Minus", "Digits"}))
	must(g.AddRule("T", grammar.Regex(`-[0-9]+`)))
	must(g.AddRule("Minus", grammar.Regex(`-`)))
	must(g.AddRule("Digits", grammar.Regex(`[0-9]+`)))

	p := NewParser(g)
	roots, err := p.Parse([]interface{}{"-7"})
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 {
		t.Fatalf("expected one root (only the one-token derivation fits the unsplit token), got %d", len(roots))
	}

	p2 := NewParser(g)
	roots2, err := p2.Parse([]interface{}{"-", "7"})
	if err != nil {
		t.Fatal(err)
	}
	if len(roots2) != 1 {
		t.Fatalf("expected one root for the pre-split token sequence, got %d", len(roots2))
	}
}

func TestParseEpsilonCompletionMidBucket(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earley.recognizer")
	defer teardown()
	//
	// S -> A; A -> ε, parsed against empty input. A's completion at
	// bucket 0 has it.ori == i == 0, so grid[it.ori] is the very same
	// bucket the outer Parse loop is still walking — the aliased-cursor
	// case complete() must handle without truncating that bucket's
	// remaining items (spec §3.1 "RHS may be empty").
	g := grammar.New("S")
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(g.AddRule("S", "A"))
	must(g.AddRule("A", nil))

	p := NewParser(g)
	roots, err := p.Parse([]interface{}{})
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 {
		t.Fatalf("expected exactly one parse tree for the epsilon derivation, got %d", len(roots))
	}
	root := roots[0]
	if root.IsToken() || len(root.Children) != 1 {
		t.Fatalf("expected S's branch to wrap A's single (empty) child, got %s", root.Pretty())
	}
	a := root.Children[0]
	if a.IsToken() || len(a.Children) != 0 {
		t.Fatalf("expected A's branch to have no children (epsilon), got %s", a.Pretty())
	}
}

func TestParseAmbiguousGrammarReturnsEveryDistinctParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "earley.recognizer")
	defer teardown()
	//
	// S -> S S | /a/ is ambiguous on three or more tokens: "a a a" can be
	// bracketed as (a (a a)) or ((a a) a). Spec §1/§8: "for ambiguous
	// grammars every distinct parse is returned."
	g := grammar.New("S")
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(g.AddRule("S", []interface{}{"S", "S"}))
	must(g.AddRule("S", grammar.Regex(`a`)))

	p := NewParser(g)
	roots, err := p.Parse([]interface{}{"a", "a", "a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) < 2 {
		t.Fatalf("expected at least 2 distinct parse trees for an ambiguous grammar, got %d", len(roots))
	}
	for i := range roots {
		for j := i + 1; j < len(roots); j++ {
			if forest.DefaultComparator(roots[i], roots[j]) {
				t.Errorf("expected roots[%d] and roots[%d] to be structurally distinct, both are %s", i, j, roots[i].Pretty())
			}
		}
	}
}

func TestParseUnknownNonterminalFails(t *testing.T) {
	g := grammar.New("P")
	if err := g.AddRule("P", "Missing"); err != nil {
		t.Fatal(err)
	}
	p := NewParser(g)
	_, err := p.Parse([]interface{}{"x"})
	if !errors.Is(err, grammar.ErrUnknownNonterminal) {
		t.Errorf("expected ErrUnknownNonterminal, got %v", err)
	}
}

func TestParseIterationLimitExceeded(t *testing.T) {
	// A grammar with heavy nonterminal fan-out and a low cap should trip
	// the limit before producing a result.
	g := grammar.New("P")
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(g.AddRule("P", "A"))
	must(g.AddRule("A", "A"))
	must(g.AddRule("A", grammar.Regex(`a`)))
	p := NewParser(g)
	_, err := p.Parse([]interface{}{"a"}, WithMaxIterations(1))
	if err != grammar.ErrIterationLimitExceeded {
		t.Errorf("expected ErrIterationLimitExceeded, got %v", err)
	}
}

func TestParseNoMatchYieldsNoRootsNoError(t *testing.T) {
	g := buildArithmetic(t)
	p := NewParser(g)
	roots, err := p.Parse([]interface{}{"notanumber"})
	if err != nil {
		t.Fatalf("unparseable input must not be an error, got %v", err)
	}
	if len(roots) != 0 {
		t.Errorf("expected no roots, got %d", len(roots))
	}
}

func TestExpressionBuilderRejectsWholeCandidate(t *testing.T) {
	g := buildArithmetic(t)
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(g.SetOption("collapseBranches", true))
	must(g.SetOption("expressionBuilder", grammar.ExpressionBuilder(func(n forest.Node) (forest.Node, bool) {
		return forest.Node{}, false // reject every subtree
	})))
	p := NewParser(g)
	roots, err := p.Parse([]interface{}{"1", "+", "2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 0 {
		t.Errorf("expected the builder's rejection to discard the candidate, got %d roots", len(roots))
	}
}

func TestExpressionBuilderEvaluatesArithmetic(t *testing.T) {
	g := buildArithmetic(t)
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(g.SetOption("collapseBranches", true))
	must(g.SetOption("expressionBuilder", grammar.ExpressionBuilder(evalBuilder)))
	p := NewParser(g)
	roots, err := p.Parse([]interface{}{"1", "+", "2", "*", "3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 {
		t.Fatalf("expected one evaluated root, got %d", len(roots))
	}
	if v, ok := roots[0].Value.(int); !ok || v != 7 {
		t.Errorf("expected evaluated value 7, got %v", roots[0].Value)
	}
}

// evalBuilder folds a binary-operator branch (left, operator-token,
// right) into a single int-valued token; anything else passes through
// unevaluated.
func evalBuilder(n forest.Node) (forest.Node, bool) {
	if len(n.Children) != 3 {
		return n, true
	}
	left, lok := toInt(n.Children[0].Value)
	right, rok := toInt(n.Children[2].Value)
	if !lok || !rok {
		return n, true
	}
	var result int
	switch n.Children[1].Value {
	case "+":
		result = left + right
	case "*":
		result = left * right
	default:
		return n, true
	}
	return forest.Token(result, n.Span[0], n.Span[1]), true
}

func toInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case string:
		n, err := strconv.Atoi(x)
		return n, err == nil
	default:
		return 0, false
	}
}

/*
Package grammar implements the "Grammar / Parser" component of spec
§4.2: storing production rules, exposing the options table, and
delegating actual recognition to package recognizer. It is the Go
analog of gorgo's lr.NewGrammarBuilder/lr.Grammar split (lr/doc.go),
adapted from LR-table construction to the simpler Earley rule-storage
contract described in spec §3/§4.2.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package grammar

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"

	"github.com/go-earley/earley/forest"
	"github.com/go-earley/earley/internal/matrix"
	"github.com/go-earley/earley/symbol"
	"github.com/go-earley/earley/tokenizer"
)

// tracer traces with key 'earley.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("earley.grammar")
}

// Two distinguished error kinds a parse may raise (spec §7). All other
// failure modes are returned as data, never as an error.
var (
	// ErrUnknownNonterminal is raised when a production references a
	// nonterminal with no definitions, discovered during prediction.
	ErrUnknownNonterminal = errors.New("grammar: reference to undefined nonterminal")
	// ErrIterationLimitExceeded is raised when MaxIterations is
	// breached.
	ErrIterationLimitExceeded = errors.New("grammar: iteration limit exceeded")
)

// Regex is the terminal marker type for an rhs_spec element
// or a whole rhs_spec meant to be a single-terminal production (spec
// §4.2's "a single terminal regex, interpreted as a one-element rhs").
// A plain string rhs_spec is instead split on spaces into nonterminal
// names, and a plain string element inside a []interface{} rhs_spec is
// a bare nonterminal name — exactly spec §4.2's three shapes.
type Regex string

// ExpressionBuilder is invoked once per completed nonterminal subtree,
// bottom-up. Returning ok=false discards the whole candidate parse
// containing that subtree (spec §4.2 "reject" sentinel). With
// CollapseBranches set and AddCategories unset, a completion with a
// single child is replaced by that child when it is built and is not
// passed to the builder.
type ExpressionBuilder func(n forest.Node) (rewritten forest.Node, ok bool)

// Options holds the per-grammar defaults from spec §4.2's options
// table. They may also be overridden per call to Parse.
type Options struct {
	AddCategories       bool
	CollapseBranches    bool
	ShowDebuggingOutput bool
	ExpressionBuilder   ExpressionBuilder
	Tokenizer           *tokenizer.Tokenizer
	Comparator          forest.Comparator
	MaxIterations       int // <= 0 means unlimited
}

// Grammar stores a start-symbol name and a mapping from nonterminal name
// to its ordered list of productions (spec §3 "Grammar"). Rule addition
// order controls the order alternative parses are discovered, and hence
// the order of Parse's results (spec §4.2 "Ordering and tie-breaks").
type Grammar struct {
	mu             sync.RWMutex
	start          string
	rules          map[string][]symbol.Production
	order          []string // insertion order of distinct lhs names, for Dump
	opts           Options
	debugOccupancy *matrix.IntMatrix // last Parse's bucket/rule hit counts, if ShowDebuggingOutput was set
}

// New creates an empty grammar whose start symbol is start. The start
// symbol need not yet be defined (spec §4.2 "new").
func New(start string) *Grammar {
	return &Grammar{
		start: start,
		rules: make(map[string][]symbol.Production),
		opts:  Options{MaxIterations: 0},
	}
}

// Start returns the grammar's start-symbol name.
func (g *Grammar) Start() string {
	return g.start
}

// Options returns a copy of the grammar's current default options.
func (g *Grammar) Options() Options {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.opts
}

// SetOption sets a single default option by its spec §4.2 wire name.
// Prefer the typed Set* helpers below from Go code; SetOption exists to
// mirror the dynamically-typed setOption(name, value) contract spec §4.2
// describes (and is what a worker/command shell, spec §6, would call).
func (g *Grammar) SetOption(name string, value interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch name {
	case "addCategories":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("grammar: addCategories wants bool, got %T", value)
		}
		g.opts.AddCategories = v
	case "collapseBranches":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("grammar: collapseBranches wants bool, got %T", value)
		}
		g.opts.CollapseBranches = v
	case "showDebuggingOutput":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("grammar: showDebuggingOutput wants bool, got %T", value)
		}
		g.opts.ShowDebuggingOutput = v
	case "expressionBuilder":
		v, ok := value.(ExpressionBuilder)
		if !ok {
			return fmt.Errorf("grammar: expressionBuilder wants ExpressionBuilder, got %T", value)
		}
		g.opts.ExpressionBuilder = v
	case "tokenizer":
		v, ok := value.(*tokenizer.Tokenizer)
		if !ok {
			return fmt.Errorf("grammar: tokenizer wants *tokenizer.Tokenizer, got %T", value)
		}
		g.opts.Tokenizer = v
	case "comparator":
		v, ok := value.(forest.Comparator)
		if !ok {
			return fmt.Errorf("grammar: comparator wants forest.Comparator, got %T", value)
		}
		g.opts.Comparator = v
	case "maxIterations":
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("grammar: maxIterations wants int, got %T", value)
		}
		g.opts.MaxIterations = v
	default:
		return fmt.Errorf("grammar: unknown option %q", name)
	}
	tracer().Debugf("option %s set to %v", name, value)
	return nil
}

// AddRule registers one or more productions for lhs. Each rhsSpec may be
// (spec §4.2):
//   - a grammar.Regex, interpreted as a one-element rhs holding that
//     terminal;
//   - a string, split on ASCII space characters into a sequence of
//     nonterminal names;
//   - a []interface{} whose elements are strings (nonterminal names) or
//     grammar.Regex values (terminals).
//
// Every terminal regex is rewrapped with whole-string anchoring before
// storage (symbol.NewTerminal does this), so terminals always match
// exactly one whole token regardless of how the caller wrote them.
func (g *Grammar) AddRule(lhs string, rhsSpecs ...interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, spec := range rhsSpecs {
		rhs, err := toRHS(spec)
		if err != nil {
			return fmt.Errorf("grammar: rule %s: %w", lhs, err)
		}
		if _, seen := g.rules[lhs]; !seen {
			g.order = append(g.order, lhs)
		}
		g.rules[lhs] = append(g.rules[lhs], symbol.Production{LHS: lhs, RHS: rhs})
		tracer().Debugf("added rule %s", symbol.Production{LHS: lhs, RHS: rhs})
	}
	return nil
}

func toRHS(spec interface{}) ([]symbol.Symbol, error) {
	switch v := spec.(type) {
	case Regex:
		t, err := symbol.NewTerminal(string(v))
		if err != nil {
			return nil, err
		}
		return []symbol.Symbol{symbol.T(t)}, nil
	case string:
		return splitNames(v), nil
	case []interface{}:
		rhs := make([]symbol.Symbol, 0, len(v))
		for _, el := range v {
			switch e := el.(type) {
			case Regex:
				t, err := symbol.NewTerminal(string(e))
				if err != nil {
					return nil, err
				}
				rhs = append(rhs, symbol.T(t))
			case string:
				rhs = append(rhs, symbol.N(e))
			default:
				return nil, fmt.Errorf("rhs element must be string or grammar.Regex, got %T", el)
			}
		}
		return rhs, nil
	case nil:
		return nil, nil // epsilon production
	default:
		return nil, fmt.Errorf("rhs_spec must be grammar.Regex, string, or []interface{}, got %T", spec)
	}
}

func splitNames(s string) []symbol.Symbol {
	fields := strings.Split(s, " ")
	rhs := make([]symbol.Symbol, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		rhs = append(rhs, symbol.N(f))
	}
	return rhs
}

// Productions returns the ordered productions for a nonterminal name, or
// nil if it is undefined.
func (g *Grammar) Productions(name string) []symbol.Production {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rules[name]
}

// Defined reports whether name has at least one production.
func (g *Grammar) Defined(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.rules[name]
	return ok
}

// RuleIndex returns lhs -> rhs's position in Dump's flat numbering, or
// -1 if no such production is registered. Used by package recognizer
// to key debug occupancy telemetry by (bucket index, rule index).
func (g *Grammar) RuleIndex(lhs string, rhs []symbol.Symbol) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, name := range g.order {
		for _, p := range g.rules[name] {
			if p.LHS == lhs && symbol.RHSEqual(p.RHS, rhs) {
				return n
			}
			n++
		}
	}
	return -1
}

// DebugOccupancy returns the bucket/rule hit-count matrix recorded by
// the most recent Parse call made with ShowDebuggingOutput set, or nil
// if no such call has happened yet.
func (g *Grammar) DebugOccupancy() *matrix.IntMatrix {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.debugOccupancy
}

// StoreDebugOccupancy records m as the grammar's latest debug
// occupancy matrix. Called by package recognizer at the end of a Parse
// made with ShowDebuggingOutput set.
func (g *Grammar) StoreDebugOccupancy(m *matrix.IntMatrix) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.debugOccupancy = m
}

// Dump pretty-prints the rule table, one production per line, in the
// order rules were added — grounded on gorgo's lr/doc.go doc-comment
// example ("b.Grammar().Dump()" -> a numbered rule listing).
func (g *Grammar) Dump() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var b strings.Builder
	n := 0
	for _, lhs := range g.order {
		for _, p := range g.rules[lhs] {
			fmt.Fprintf(&b, "%d: %s\n", n, p)
			n++
		}
	}
	return b.String()
}

/*
Package lexadapt is a DFA-compiled alternative front end for package
tokenizer, for grammars with enough terminal types that compiling a
single lexmachine DFA up front is worth it instead of trying each
tokenizer.Type's regexp in registration order per position (spec §4.1,
"Domain-stack addition").

Grounded on gorgo's lr/scanner/lexmach/lexmachine.go: same
NewLMAdapter(init, ...)/Lexer.Scanner(input) shape, same package-local
tracer key convention. Unlike lexmachine.Action, which hands back
access to regexp submatches only through *machines.Match.Bytes, a
lexmachine DFA reports the whole matched lexeme and no capture groups
— so tokenizer.Template formatters here only ever see a single,
whole-match group at index 0; this is a real capability gap against
the regexp-based tokenizer, not an oversight, and is documented rather
than worked around.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package lexadapt

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/go-earley/earley/tokenizer"
)

// tracer traces with key 'earley.tokenizer.lexadapt'.
func tracer() tracing.Trace {
	return tracing.Select("earley.tokenizer.lexadapt")
}

// Rule pairs a lexmachine pattern with the tokenizer.Formatter applied
// to whatever it matches. Rules are tried by the compiled DFA in
// parallel, not in registration order — ties are broken by whichever
// pattern lexmachine's longest-match rule picks, which is why this
// adapter is a distinct type rather than a drop-in tokenizer.Tokenizer
// replacement (spec §4.1 notes regexp-tokenizer semantics are
// first-match, not longest-match; lexadapt is deliberately the other
// way around).
type Rule struct {
	Pattern   string
	Formatter tokenizer.Formatter
}

// Adapter scans input with a single compiled DFA over all registered
// rules.
type Adapter struct {
	lexer *lexmachine.Lexer
	rules []Rule
}

// NewAdapter compiles rules into a DFA. Rule order determines the id
// each match action carries, used to look the originating Rule back
// up.
func NewAdapter(rules []Rule) (*Adapter, error) {
	a := &Adapter{rules: rules}
	a.lexer = lexmachine.NewLexer()
	for i, r := range rules {
		id := i
		a.lexer.Add([]byte(r.Pattern), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
			return s.Token(id, nil, m), nil
		})
	}
	if err := a.lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return a, nil
}

// Tokenize scans the whole of input, applying each match's rule
// formatter and skipping values a formatter drops (spec §4.1 "drop
// signal"). It fails with tokenizer.ErrNoMatch on the first stretch of
// input no rule's DFA branch accepts, mirroring the regexp tokenizer's
// all-or-nothing failure semantics (spec §7).
func (a *Adapter) Tokenize(input string) ([]interface{}, error) {
	scanner, err := a.lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	var out []interface{}
	for {
		tok, err, eof := scanner.Next()
		if eof {
			break
		}
		if err != nil {
			if ui, is := err.(*machines.UnconsumedInput); is {
				tracer().Errorf("no rule matches at byte %d", ui.StartColumn)
				return nil, tokenizer.ErrNoMatch
			}
			return nil, err
		}
		t := tok.(*lexmachine.Token)
		id := t.Type
		rule := a.rules[id]
		matched := string(t.Lexeme)
		value, ok := applyFormatter(rule.Formatter, matched)
		if !ok {
			tracer().Debugf("dropped %q", matched)
			continue
		}
		out = append(out, value)
	}
	return out, nil
}

// applyFormatter mirrors Tokenize's per-match dispatch, but with only a
// single whole-match group — lexmachine carries no submatch info.
func applyFormatter(f tokenizer.Formatter, matched string) (interface{}, bool) {
	return tokenizer.Apply(f, matched, []string{matched})
}

/*
Package tokenizer implements greedy, ordered regex tokenization of a
string into a sequence of formatted tokens, as described in spec §4.1.
It interlocks with the grammar/recognizer packages: a Tokenizer may be
attached to a grammar and is invoked implicitly during parse when the
input is a raw string.

Grounded on gorgo's lr/scanner package (scanner.go, lex.go): same
package-local tracer idiom, same "first match wins" framing, adapted
from gorgo's single Go-syntax scanner to the spec's caller-registered,
ordered list of regex types.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package tokenizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'earley.tokenizer'.
func tracer() tracing.Trace {
	return tracing.Select("earley.tokenizer")
}

// Callable is a formatter function, receiving the matched text and its
// capture groups (groups[0] is the whole match), returning either the
// token value to emit or ok=false to drop the match entirely.
type Callable func(matched string, groups []string) (value interface{}, ok bool)

// FormatterKind tags which variant of spec §9's dynamic-dispatch
// formatter union a Formatter holds.
type FormatterKind int

const (
	// IdentityFormatter emits the whole match unchanged.
	IdentityFormatter FormatterKind = iota
	// CallableFormatter delegates to a Callable function.
	CallableFormatter
	// TemplateFormatter expands a %N-placeholder template string.
	TemplateFormatter
)

// Formatter is the tagged variant {Callable(fn), Template(string),
// Identity} from spec §9 ("Dynamic dispatch in formatters and
// builders").
type Formatter struct {
	Kind     FormatterKind
	Fn       Callable
	Template string
}

// Identity is the absent-formatter default: emit the match unchanged.
func Identity() Formatter {
	return Formatter{Kind: IdentityFormatter}
}

// Func wraps a Callable as a Formatter.
func Func(fn Callable) Formatter {
	return Formatter{Kind: CallableFormatter, Fn: fn}
}

// Drop is a ready-made Callable formatter that discards every match —
// used for whitespace and comments (spec §8 scenario 4).
func Drop(string, []string) (interface{}, bool) {
	return nil, false
}

// Template wraps a %N-placeholder template string as a Formatter (spec
// §4.1 formatter variant (b)).
func Template(tmpl string) Formatter {
	return Formatter{Kind: TemplateFormatter, Template: tmpl}
}

func (f Formatter) apply(matched string, groups []string) (interface{}, bool) {
	switch f.Kind {
	case CallableFormatter:
		return f.Fn(matched, groups)
	case TemplateFormatter:
		return expandTemplate(f.Template, groups), true
	default:
		return matched, true
	}
}

// Apply runs a Formatter the same way Tokenize does, exported for
// front ends other than the regexp-based Tokenizer (lexadapt.Adapter)
// that produce their own (matched, groups) pairs.
func Apply(f Formatter, matched string, groups []string) (interface{}, bool) {
	return f.apply(matched, groups)
}

// expandTemplate scans tmpl left to right, replacing each %N with the
// Nth capture group (0 = whole match) and preserving literal text
// between placeholders. A '%' not followed by a digit is preserved
// literally — spec §9 leaves this case unspecified in the source, and
// this package documents "preserve literally" as the chosen behavior.
func expandTemplate(tmpl string, groups []string) string {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '%' || i+1 >= len(tmpl) || tmpl[i+1] < '0' || tmpl[i+1] > '9' {
			b.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
			j++
		}
		n, _ := strconv.Atoi(tmpl[i+1 : j])
		if n < len(groups) {
			b.WriteString(groups[n])
		}
		i = j - 1
	}
	return b.String()
}

// Type is a registered token type: an anchored pattern plus the
// formatter applied to matches.
type Type struct {
	pattern   string // caller's original pattern
	re        *regexp.Regexp
	Formatter Formatter
}

// Tokenizer repeatedly tries registered types in insertion order at the
// current position, takes the first one that matches, and applies its
// formatter to produce (or drop) a token (spec §4.1).
type Tokenizer struct {
	types []*Type
}

// New creates an empty Tokenizer.
func New() *Tokenizer {
	return &Tokenizer{}
}

// AddType registers a token type. pattern is wrapped so it only matches
// at the start of the remaining input (a '^' is prepended if absent);
// the caller's original pattern text is left untouched from their point
// of view. formatter may be the zero Formatter (treated as Identity).
func (t *Tokenizer) AddType(pattern string, formatter Formatter) (*Type, error) {
	anchored := startAnchor(pattern)
	re, err := regexp.Compile(anchored)
	if err != nil {
		tracer().Errorf("token type pattern %q does not compile: %s", pattern, err)
		return nil, err
	}
	ty := &Type{pattern: pattern, re: re, Formatter: formatter}
	t.types = append(t.types, ty)
	tracer().Debugf("registered token type %q (anchored %q)", pattern, anchored)
	return ty, nil
}

func startAnchor(pattern string) string {
	if strings.HasPrefix(pattern, "^") {
		return pattern
	}
	return "^(?:" + pattern + ")"
}

// ErrNoMatch is returned by Tokenize when no registered type matches at
// some position — the whole tokenization fails, never a partial result
// (spec §4.1).
var ErrNoMatch = fmt.Errorf("tokenizer: no registered type matches remaining input")

// Tokenize scans input from position 0, trying each registered type in
// insertion order at each position and using the first that matches
// (greedy-first, not longest-match — spec §4.1 "Algorithmic notes").
// On success it returns the ordered, formatted token values (dropped
// matches omitted). On failure (some position matched by no type) it
// returns ErrNoMatch and no partial result.
func (t *Tokenizer) Tokenize(input string) ([]interface{}, error) {
	var out []interface{}
	pos := 0
	for pos < len(input) {
		remaining := input[pos:]
		matchedAny := false
		for _, ty := range t.types {
			loc := ty.re.FindStringSubmatchIndex(remaining)
			if loc == nil {
				continue
			}
			matchedAny = true
			matched := remaining[loc[0]:loc[1]]
			groups := submatches(remaining, loc)
			value, ok := ty.Formatter.apply(matched, groups)
			if ok {
				out = append(out, value)
				tracer().Debugf("token %q -> %v", matched, value)
			} else {
				tracer().Debugf("token %q dropped", matched)
			}
			pos += len(matched)
			break
		}
		if !matchedAny {
			tracer().Errorf("no token type matches at position %d: %q", pos, remaining)
			return nil, ErrNoMatch
		}
	}
	return out, nil
}

func submatches(s string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		a, b := loc[2*i], loc[2*i+1]
		if a < 0 || b < 0 {
			continue
		}
		groups[i] = s[a:b]
	}
	return groups
}

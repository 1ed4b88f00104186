package stream

import (
	"slices"
	"strings"

	"plsqldoc/internal/token"
)

// Pattern describes which tokens are acceptable at a point of the grammar:
// a set of kinds, a set of values, or both, optionally negated, or an
// alternation of patterns. The zero Pattern matches any significant token.
type Pattern struct {
	kinds []token.Kind
	words []string // upper case, unquoted words only
	ops   []string // exact operator text
	not   bool
	alts  []Pattern
	name  string
}

// Kind matches tokens of any of the given kinds.
func Kind(kinds ...token.Kind) Pattern {
	return Pattern{kinds: kinds}
}

// Word matches the unquoted word w in any case.
func Word(w string) Pattern {
	return Pattern{words: []string{strings.ToUpper(w)}}
}

// Words matches any of the unquoted words.
func Words(ws ...string) Pattern {
	up := make([]string, len(ws))
	for i, w := range ws {
		up[i] = strings.ToUpper(w)
	}
	return Pattern{words: up}
}

// Op matches an operator, '/' or ';' by exact text.
func Op(op string) Pattern {
	return Pattern{ops: []string{op}}
}

// Ops matches any of the operators.
func Ops(ops ...string) Pattern {
	return Pattern{ops: ops}
}

// Not inverts p. EOF never matches a negated pattern.
func Not(p Pattern) Pattern {
	return Pattern{alts: []Pattern{p}, not: true}
}

// Or matches when any of ps matches.
func Or(ps ...Pattern) Pattern {
	return Pattern{alts: ps}
}

// Named overrides the description used in syntax errors.
func (p Pattern) Named(name string) Pattern {
	p.name = name
	return p
}

var (
	// Identifier accepts plain/quoted identifiers and non-reserved keywords.
	Identifier = Kind(token.Ident, token.Keyword).Named("identifier")
	// AnyWord accepts every word, reserved ones included.
	AnyWord = Kind(token.Ident, token.Keyword, token.Reserved).Named("word")
	// Semicolon is ';'.
	Semicolon = Kind(token.Semicolon).Named("';'")
	// Slash is '/'.
	Slash = Kind(token.Slash).Named("'/'")
	// EOF is the end of input.
	EOF = Kind(token.EOF).Named("end of input")
	// Literal accepts string and numeric literals.
	Literal = Kind(token.String, token.Number).Named("literal")
)

// Match reports whether tok satisfies the pattern.
func (p Pattern) Match(tok *token.Token) bool {
	if tok == nil {
		return false
	}
	if p.not {
		return tok.Kind != token.EOF && !p.alts[0].Match(tok)
	}
	if len(p.alts) > 0 {
		for i := range p.alts {
			if p.alts[i].Match(tok) {
				return true
			}
		}
		return false
	}
	if len(p.kinds) > 0 && !slices.Contains(p.kinds, tok.Kind) {
		return false
	}
	if len(p.kinds) == 0 && tok.Kind == token.EOF {
		return false
	}
	if len(p.words) > 0 {
		if !tok.Kind.IsWord() || tok.IsQuoted() || !slices.Contains(p.words, strings.ToUpper(tok.Text)) {
			return false
		}
	}
	if len(p.ops) > 0 {
		switch tok.Kind {
		case token.Operator, token.Slash, token.Semicolon:
			if !slices.Contains(p.ops, tok.Text) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (p Pattern) String() string {
	if p.name != "" {
		return p.name
	}
	if p.not {
		return "not " + p.alts[0].String()
	}
	if len(p.alts) > 0 {
		parts := make([]string, len(p.alts))
		for i := range p.alts {
			parts[i] = p.alts[i].String()
		}
		return strings.Join(parts, " or ")
	}
	var parts []string
	parts = append(parts, p.words...)
	for _, op := range p.ops {
		parts = append(parts, "'"+op+"'")
	}
	if len(parts) == 0 {
		for _, k := range p.kinds {
			parts = append(parts, strings.ToLower(k.String()))
		}
	}
	if len(parts) == 0 {
		return "token"
	}
	return strings.Join(parts, " or ")
}

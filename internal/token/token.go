package token

import (
	"strings"

	"plsqldoc/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	// Trimmed is the literal payload: the inner text of a quoted identifier or
	// string literal with escapes collapsed, or the body of a comment.
	Trimmed string
	// Err is the lexer error for a malformed token, empty otherwise.
	Err string

	Leading  []Token
	Trailing []Token
}

// IsQuoted reports whether the token is a quoted identifier.
func (t *Token) IsQuoted() bool {
	return t.Kind == Ident && strings.HasPrefix(t.Text, `"`)
}

// Word returns the canonical spelling of a word token: upper case for plain
// words, the unquoted text for quoted identifiers. Other kinds return Text.
func (t *Token) Word() string {
	if !t.Kind.IsWord() {
		return t.Text
	}
	if t.IsQuoted() {
		return t.Trimmed
	}
	return strings.ToUpper(t.Text)
}

// Is reports whether t is the unquoted word w (case-insensitive).
func (t *Token) Is(w string) bool {
	return t.Kind.IsWord() && !t.IsQuoted() && strings.EqualFold(t.Text, w)
}

// IsOp reports whether t is the operator or punctuation op.
func (t *Token) IsOp(op string) bool {
	switch t.Kind {
	case Operator, Slash, Semicolon:
		return t.Text == op
	default:
		return false
	}
}

// IsLiteral reports whether the token is a string or numeric literal.
func (t *Token) IsLiteral() bool {
	return t.Kind == String || t.Kind == Number
}

// FullText returns the token text surrounded by its trivia.
func (t *Token) FullText() string {
	if len(t.Leading) == 0 && len(t.Trailing) == 0 {
		return t.Text
	}
	var sb strings.Builder
	for i := range t.Leading {
		sb.WriteString(t.Leading[i].Text)
	}
	sb.WriteString(t.Text)
	for i := range t.Trailing {
		sb.WriteString(t.Trailing[i].Text)
	}
	return sb.String()
}

// StartsLine reports whether a line break precedes t (or t starts the script).
func (t *Token) StartsLine() bool {
	if t.Span.Start.Column == 1 {
		return true
	}
	return HasNewline(t.Leading)
}

func (t *Token) String() string {
	return t.Kind.String() + " " + quoteText(t.Text)
}

func quoteText(s string) string {
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return "'" + s + "'"
}

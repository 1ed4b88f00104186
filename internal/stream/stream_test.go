package stream

import (
	"errors"
	"strings"
	"testing"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/lexer"
	"plsqldoc/internal/source"
	"plsqldoc/internal/token"
)

func cursorFor(t *testing.T, src string) *Cursor {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.sql", []byte(src)))
	return New(lexer.Tokenize(file, lexer.Options{}))
}

func TestPatternMatch(t *testing.T) {
	c := cursorFor(t, `IS is "IS" x := ; /`)
	toks := c.Tokens()
	is, isLower, quoted, x, assign, semi, slash := &toks[0], &toks[1], &toks[2], &toks[3], &toks[4], &toks[5], &toks[6]

	tests := []struct {
		name string
		p    Pattern
		tok  *token.Token
		want bool
	}{
		{"word upper", Word("is"), is, true},
		{"word lower", Word("IS"), isLower, true},
		{"quoted is not a word", Word("IS"), quoted, false},
		{"identifier accepts quoted", Identifier, quoted, true},
		{"identifier rejects reserved", Identifier, is, false},
		{"any word", AnyWord, is, true},
		{"op", Op(":="), assign, true},
		{"op mismatch", Op("=>"), assign, false},
		{"semicolon via op", Op(";"), semi, true},
		{"semicolon kind", Semicolon, semi, true},
		{"slash", Slash, slash, true},
		{"not", Not(Semicolon), x, true},
		{"not on match", Not(Semicolon), semi, false},
		{"or", Or(Word("AS"), Word("IS")), is, true},
		{"words", Words("as", "is"), isLower, true},
		{"zero pattern skips EOF", Pattern{}, &toks[len(toks)-1], false},
		{"not skips EOF", Not(Semicolon), &toks[len(toks)-1], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Match(tt.tok); got != tt.want {
				t.Errorf("%v.Match(%v) = %v, want %v", tt.p, tt.tok, got, tt.want)
			}
		})
	}
}

func TestPatternString(t *testing.T) {
	cases := map[string]Pattern{
		"IS or AS":     Or(Word("is"), Word("as")),
		"';'":          Semicolon,
		"':=' or '=>'": Ops(":=", "=>"),
		"identifier":   Identifier,
		"type name":    AnyWord.Named("type name"),
		"not ';'":      Not(Semicolon),
	}
	for want, p := range cases {
		if got := p.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestTryMatchSequenceRewinds(t *testing.T) {
	c := cursorFor(t, "create or replace package")
	if got := c.TryMatchSequence(Word("create"), Word("or"), Word("editionable")); got != nil {
		t.Fatalf("sequence must fail, got %v", got)
	}
	if c.Peek().Word() != "CREATE" {
		t.Fatalf("cursor moved to %v", c.Peek())
	}
	got := c.TryMatchSequence(Word("create"), Word("or"), Word("replace"))
	if len(got) != 3 || c.Peek().Word() != "PACKAGE" {
		t.Fatalf("sequence = %v, next = %v", got, c.Peek())
	}
}

func TestMatchReportsLocatedError(t *testing.T) {
	c := cursorFor(t, "begin\n  null\nend;")
	if _, err := c.MatchSequence(Word("begin"), Word("null")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := c.Match(Semicolon)
	var se *diag.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("want *diag.SyntaxError, got %v", err)
	}
	if se.Span.Start.Line != 3 || se.Span.Start.Column != 1 {
		t.Errorf("error at %v, want 3:1", se.Span.Start)
	}
	if se.Expected != "';'" || se.Got != "END" {
		t.Errorf("expected/got = %q/%q", se.Expected, se.Got)
	}
	if c.Peek().Word() != "END" {
		t.Errorf("failed Match must not consume")
	}
}

func TestMatchAtEOF(t *testing.T) {
	c := cursorFor(t, "end")
	c.Next()
	_, err := c.Match(Semicolon)
	if !errors.Is(err, diag.ErrUnexpectedEOF) {
		t.Fatalf("want unexpected EOF, got %v", err)
	}
	if c.Next().Kind != token.EOF || !c.EOF() {
		t.Fatalf("Next at EOF must stay on EOF")
	}
}

func TestPeekAndSkipUntil(t *testing.T) {
	c := cursorFor(t, "grant select on t to u; x")
	if c.PeekN(1).Word() != "SELECT" || c.PeekN(100).Kind != token.EOF {
		t.Fatalf("PeekN mismatch")
	}
	if !c.AtSequence(Word("grant"), Word("select")) || c.AtSequence(Word("select")) {
		t.Fatalf("AtSequence mismatch")
	}
	skipped := c.SkipUntil(Semicolon)
	if len(skipped) != 6 || !c.At(Semicolon) {
		t.Fatalf("skipped %d tokens, at %v", len(skipped), c.Peek())
	}
	m := c.Mark()
	c.Next()
	if len(c.Since(m)) != 1 || c.Prev().Kind != token.Semicolon {
		t.Fatalf("Since/Prev mismatch")
	}
	c.Reset(m)
	if !c.At(Semicolon) {
		t.Fatalf("Reset failed")
	}
}

func TestDocSniffing(t *testing.T) {
	c := cursorFor(t, "x number; /** trailing */\n/** leading */\nfunction f")
	c.SkipUntil(Semicolon)
	c.Next()
	if doc := c.LastTrailingDoc(); doc == nil || !strings.Contains(doc.Text, "trailing") {
		t.Fatalf("trailing doc = %v", doc)
	}
	doc := c.SniffDoc()
	if doc == nil || !strings.Contains(doc.Text, "leading") {
		t.Fatalf("leading doc = %v", doc)
	}
	if c.Peek().Word() != "FUNCTION" {
		t.Fatalf("sniffing must not consume")
	}
}

func TestNewAddsEOF(t *testing.T) {
	c := New([]token.Token{{Kind: token.Ident, Text: "x"}})
	if len(c.Tokens()) != 2 || c.Tokens()[1].Kind != token.EOF {
		t.Fatalf("tokens = %v", c.Tokens())
	}
}

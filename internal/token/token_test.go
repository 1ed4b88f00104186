package token

import (
	"testing"

	"plsqldoc/internal/source"
)

func TestLookupWord(t *testing.T) {
	cases := map[string]Kind{
		"begin":       Reserved,
		"BEGIN":       Reserved,
		"Number":      Reserved,
		"varchar2":    Reserved,
		"loop":        Keyword,
		"PLS_INTEGER": Keyword,
		"body":        Keyword,
		"user":        Keyword,
		"sysdate":     Keyword,
		"rownum":      Keyword,
		"a":           Ident,
		"c":           Ident,
		"mod":         Ident,
		"v_total":     Ident,
		"my$pkg#1":    Ident,
	}
	for word, want := range cases {
		if got := LookupWord(word); got != want {
			t.Errorf("LookupWord(%q) = %v, want %v", word, got, want)
		}
	}
}

func TestReservedAndKeywordSetsAreDisjoint(t *testing.T) {
	for w := range reserved {
		if _, dup := keywords[w]; dup {
			t.Errorf("%s is both reserved and keyword", w)
		}
	}
}

func TestWordAndIs(t *testing.T) {
	plain := &Token{Kind: Keyword, Text: "Loop"}
	quoted := &Token{Kind: Ident, Text: `"Loop"`, Trimmed: "Loop"}

	if plain.Word() != "LOOP" || !plain.Is("loop") {
		t.Errorf("plain word: %q", plain.Word())
	}
	if quoted.Word() != "Loop" || quoted.Is("loop") || !quoted.IsQuoted() {
		t.Errorf("quoted word: %q", quoted.Word())
	}
	op := &Token{Kind: Operator, Text: ":="}
	if !op.IsOp(":=") || op.Is(":=") {
		t.Errorf("operator checks failed")
	}
	semi := &Token{Kind: Semicolon, Text: ";"}
	if !semi.IsOp(";") {
		t.Errorf("semicolon must match IsOp")
	}
}

func tok(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text, Span: source.Span{Start: source.Position{Line: 2, Column: 3}}}
}

func TestAttachTrivia(t *testing.T) {
	flat := []Token{
		tok(DocComment, "/** doc */"),
		tok(Newline, "\n"),
		tok(Reserved, "BEGIN"),
		tok(Whitespace, " "),
		tok(LineComment, "-- start"),
		tok(Newline, "\n"),
		tok(Whitespace, "  "),
		tok(Reserved, "NULL"),
		tok(Semicolon, ";"),
		tok(Newline, "\n"),
		tok(EOF, ""),
	}
	out := AttachTrivia(flat)
	if len(out) != 4 {
		t.Fatalf("got %d significant tokens, want 4", len(out))
	}

	begin := out[0]
	if len(begin.Leading) != 2 || begin.Leading[0].Kind != DocComment {
		t.Errorf("BEGIN leading = %v", begin.Leading)
	}
	if len(begin.Trailing) != 2 || begin.Trailing[1].Kind != LineComment {
		t.Errorf("BEGIN trailing = %v", begin.Trailing)
	}
	if LastDoc(begin.Leading) == nil {
		t.Errorf("doc comment must be found in leading trivia")
	}
	null := out[1]
	if len(null.Leading) != 2 || !HasNewline(null.Leading) {
		t.Errorf("NULL leading = %v", null.Leading)
	}
	if out[3].Kind != EOF || len(out[3].Leading) != 1 {
		t.Errorf("EOF leading = %v", out[3].Leading)
	}

	var rebuilt string
	for i := range out {
		rebuilt += out[i].FullText()
	}
	var want string
	for _, f := range flat {
		want += f.Text
	}
	if rebuilt != want {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", rebuilt, want)
	}
}

func TestAttachTriviaSynthesizesEOF(t *testing.T) {
	out := AttachTrivia([]Token{tok(Whitespace, "  ")})
	if len(out) != 1 || out[0].Kind != EOF || len(out[0].Leading) != 1 {
		t.Fatalf("got %v", out)
	}
}

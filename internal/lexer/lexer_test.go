package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/lexer"
	"plsqldoc/internal/source"
	"plsqldoc/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.sql", []byte(input)))
	reporter := &testReporter{}
	return lexer.New(file, lexer.Options{Reporter: reporter}), reporter
}

// significant убирает trivia и EOF
func significant(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind.IsTrivia() || tok.Kind == token.EOF {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type kt struct {
	kind token.Kind
	text string
}

// expectTokens проверяет последовательность значимых токенов
func expectTokens(t *testing.T, input string, expected []kt) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := significant(lx.All())

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %v\ndiags: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.codes())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i].kind || tok.Text != expected[i].text {
			t.Errorf("token %d: expected %v(%q), got %v(%q)",
				i, expected[i].kind, expected[i].text, tok.Kind, tok.Text)
		}
	}
}

func TestWordClassification(t *testing.T) {
	expectTokens(t, `create or replace package Body_Util is`, []kt{
		{token.Reserved, "create"},
		{token.Reserved, "or"},
		{token.Keyword, "replace"},
		{token.Keyword, "package"},
		{token.Ident, "Body_Util"},
		{token.Reserved, "is"},
	})
	expectTokens(t, `v$session x#1 "Mixed Case" pls_integer`, []kt{
		{token.Ident, "v$session"},
		{token.Ident, "x#1"},
		{token.Ident, `"Mixed Case"`},
		{token.Keyword, "pls_integer"},
	})
}

func TestQuotedIdentifierTrimmed(t *testing.T) {
	lx, rep := makeTestLexer(`"a""b"`)
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Trimmed != `a"b` || tok.Err != "" {
		t.Fatalf("got %+v", tok)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics %v", rep.codes())
	}
}

func TestOperatorsAreGreedy(t *testing.T) {
	expectTokens(t, `x:=a||b**2;y=>1..10<>z!=w^=v~=u<=t>=s<<l>>&&k`, []kt{
		{token.Ident, "x"}, {token.Operator, ":="},
		{token.Ident, "a"}, {token.Operator, "||"},
		{token.Ident, "b"}, {token.Operator, "**"}, {token.Number, "2"},
		{token.Semicolon, ";"},
		{token.Ident, "y"}, {token.Operator, "=>"},
		{token.Number, "1"}, {token.Operator, ".."}, {token.Number, "10"},
		{token.Operator, "<>"}, {token.Ident, "z"},
		{token.Operator, "!="}, {token.Ident, "w"},
		{token.Operator, "^="}, {token.Ident, "v"},
		{token.Operator, "~="}, {token.Ident, "u"},
		{token.Operator, "<="}, {token.Ident, "t"},
		{token.Operator, ">="}, {token.Ident, "s"},
		{token.Operator, "<<"}, {token.Ident, "l"}, {token.Operator, ">>"},
		{token.Operator, "&&"}, {token.Ident, "k"},
	})
	expectTokens(t, `a / b`, []kt{{token.Ident, "a"}, {token.Slash, "/"}, {token.Ident, "b"}})
}

func TestNumbers(t *testing.T) {
	tests := []string{"1", "1.5", ".5", "1e10", "2.5E-3", "10f", "10d", "7."}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			expectTokens(t, in, []kt{{token.Number, in}})
		})
	}
	expectTokens(t, `1 else`, []kt{{token.Number, "1"}, {token.Reserved, "else"}})
}

func TestBadExponentReported(t *testing.T) {
	lx, rep := makeTestLexer("1e+")
	tok := lx.Next()
	if tok.Kind != token.Number || tok.Err == "" {
		t.Fatalf("got %+v", tok)
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexBadNumber {
		t.Fatalf("diags = %v", rep.codes())
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		in      string
		trimmed string
	}{
		{`'abc'`, "abc"},
		{`'it''s'`, "it's"},
		{`N'nat'`, "nat"},
		{`q'[it's]'`, "it's"},
		{`Q'{a}b}'`, "a}b"},
		{`nq'!x!'`, "x"},
		{"'multi\nline'", "multi\nline"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lx, rep := makeTestLexer(tt.in)
			tok := lx.Next()
			if tok.Kind != token.String || tok.Text != tt.in || tok.Trimmed != tt.trimmed {
				t.Fatalf("got %v %q trimmed %q", tok.Kind, tok.Text, tok.Trimmed)
			}
			if len(rep.diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics %v", rep.codes())
			}
		})
	}
}

func TestUnterminatedLiteralsReportAndContinue(t *testing.T) {
	tests := []struct {
		in   string
		kind token.Kind
		code diag.Code
	}{
		{`'abc`, token.String, diag.LexUnterminatedString},
		{`/* never closed`, token.BlockComment, diag.LexUnterminatedBlockComment},
		{`"abc`, token.Ident, diag.LexUnterminatedQuotedIdent},
		{"`", token.Invalid, diag.LexUnknownChar},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lx, rep := makeTestLexer(tt.in)
			all := lx.All()
			if all[0].Kind != tt.kind || all[0].Err == "" {
				t.Fatalf("first token = %+v", all[0])
			}
			if all[len(all)-1].Kind != token.EOF {
				t.Fatalf("lexing must reach EOF")
			}
			if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != tt.code {
				t.Fatalf("diags = %v", rep.codes())
			}
		})
	}
}

func TestComments(t *testing.T) {
	lx, _ := makeTestLexer("-- line\n/* block */ /** doc */ /**/")
	var kinds []token.Kind
	for _, tok := range lx.All() {
		if tok.Kind != token.Whitespace && tok.Kind != token.Newline {
			kinds = append(kinds, tok.Kind)
		}
	}
	want := []token.Kind{token.LineComment, token.BlockComment, token.DocComment, token.BlockComment, token.EOF}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}

	lx, _ = makeTestLexer("/** Returns the total. */")
	if doc := lx.Next(); doc.Trimmed != " Returns the total. " {
		t.Fatalf("doc body = %q", doc.Trimmed)
	}
}

func TestPreprocessorAndInquiry(t *testing.T) {
	expectTokens(t, `$IF $$debug $THEN x $ELSE y $END $ERROR 'e' $END`, []kt{
		{token.Preprocessor, "$IF"},
		{token.Ident, "$$debug"},
		{token.Preprocessor, "$THEN"},
		{token.Ident, "x"},
		{token.Preprocessor, "$ELSE"},
		{token.Ident, "y"},
		{token.Preprocessor, "$END"},
		{token.Preprocessor, "$ERROR"},
		{token.String, "'e'"},
		{token.Preprocessor, "$END"},
	})
}

func TestSQLPlusLines(t *testing.T) {
	lx, _ := makeTestLexer("REM header text\nprompt Creating package 'x'...\nrem := 1;\n")
	tokens := lx.All()
	if tokens[0].Kind != token.LineComment || tokens[0].Trimmed != "header text" {
		t.Fatalf("REM line = %+v", tokens[0])
	}
	sig := significant(tokens)
	want := []kt{
		{token.Ident, "prompt"},
		{token.String, "Creating package 'x'..."},
		{token.Ident, "rem"},
		{token.Operator, ":="},
		{token.Number, "1"},
		{token.Semicolon, ";"},
	}
	if len(sig) != len(want) {
		t.Fatalf("tokens = %v", tokensToString(sig))
	}
	for i := range want {
		if sig[i].Kind != want[i].kind || sig[i].Text != want[i].text {
			t.Errorf("token %d = %v(%q)", i, sig[i].Kind, sig[i].Text)
		}
	}
}

func TestSQLPlusWordsAsDeclarations(t *testing.T) {
	expectTokens(t, "  prompt VARCHAR2(10);\nrem t_emp;\nprompt NUMBER\n", []kt{
		{token.Ident, "prompt"},
		{token.Reserved, "VARCHAR2"},
		{token.Operator, "("},
		{token.Number, "10"},
		{token.Operator, ")"},
		{token.Semicolon, ";"},
		{token.Ident, "rem"},
		{token.Ident, "t_emp"},
		{token.Semicolon, ";"},
		{token.Ident, "prompt"},
		{token.Reserved, "NUMBER"},
	})
}

func TestSpansAndRoundTrip(t *testing.T) {
	input := "begin\n  x := 'a\nb';  -- c\nend;\n/\n"
	lx, _ := makeTestLexer(input)
	tokens := lx.All()

	var sb strings.Builder
	prev := source.Origin
	for _, tok := range tokens {
		if tok.Span.Start != prev {
			t.Fatalf("token %v starts at %v, previous ended at %v", tok, tok.Span.Start, prev)
		}
		prev = tok.Span.End
		sb.WriteString(tok.Text)
	}
	if sb.String() != input {
		t.Fatalf("round trip mismatch: %q", sb.String())
	}

	grouped := token.AttachTrivia(tokens)
	sb.Reset()
	for i := range grouped {
		sb.WriteString(grouped[i].FullText())
	}
	if sb.String() != input {
		t.Fatalf("grouped round trip mismatch: %q", sb.String())
	}
	end := significant(tokens)[5]
	if end.Text != "end" || end.Span.Start.Line != 4 || end.Span.Start.Column != 1 {
		t.Fatalf("END at %v", end.Span)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	p := lx.Peek()
	n := lx.Next()
	if p.Text != "a" || n.Text != "a" {
		t.Fatalf("Peek/Next mismatch: %q %q", p.Text, n.Text)
	}
	for range 5 {
		lx.Next()
	}
	if lx.Next().Kind != token.EOF {
		t.Fatal("Next after EOF must keep returning EOF")
	}
}

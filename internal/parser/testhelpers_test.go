package parser

import (
	"fmt"
	"strings"
	"testing"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/lexer"
	"plsqldoc/internal/source"
	"plsqldoc/internal/testkit"
	"plsqldoc/internal/token"
)

func lex(tb testing.TB, src string) []token.Token {
	tb.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.sql", []byte(src)))
	return lexer.Tokenize(file, lexer.Options{})
}

// parseSrc разбирает скрипт и проверяет round-trip; ошибку не проверяет
func parseSrc(tb testing.TB, src string) (*ast.Script, *diag.Bag, error) {
	tb.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.sql", []byte(src)))
	toks := lexer.Tokenize(file, lexer.Options{})
	bag := diag.NewBag(100)
	script, err := ParseScript(toks, Options{Reporter: diag.BagReporter{Bag: bag}})
	if script == nil {
		tb.Fatalf("ParseScript returned nil script")
	}
	if got := script.String(); got != src {
		tb.Fatalf("round-trip mismatch:\nwant %q\ngot  %q", src, got)
	}
	if err := testkit.CheckSpanInvariants(script, file); err != nil {
		tb.Fatalf("span invariants: %v", err)
	}
	if err := testkit.CheckTokenOwnership(script, toks); err != nil {
		tb.Fatalf("token ownership: %v", err)
	}
	return script, bag, err
}

// mustParse fails the test on any error diagnostic.
func mustParse(tb testing.TB, src string) (*ast.Script, *diag.Bag) {
	tb.Helper()
	script, bag, err := parseSrc(tb, src)
	if err != nil {
		tb.Fatalf("unexpected error: %v (diagnostics: %s)", err, diagnosticsSummary(bag))
	}
	if bag.HasErrors() {
		tb.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	return script, bag
}

func singleUnit[U ast.Unit](tb testing.TB, src string) U {
	tb.Helper()
	script, _ := mustParse(tb, src)
	if len(script.Units) != 1 {
		tb.Fatalf("expected 1 unit, got %d", len(script.Units))
	}
	u, ok := script.Units[0].(U)
	if !ok {
		tb.Fatalf("unit is %T", script.Units[0])
	}
	return u
}

func expr(tb testing.TB, src string) ast.Expr {
	tb.Helper()
	e, err := ParseExpression(lex(tb, src), Options{})
	if err != nil {
		tb.Fatalf("ParseExpression(%q): %v", src, err)
	}
	return e
}

func stmt(tb testing.TB, src string) ast.Stmt {
	tb.Helper()
	s, err := ParseStatement(lex(tb, src), Options{})
	if err != nil {
		tb.Fatalf("ParseStatement(%q): %v", src, err)
	}
	return s
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

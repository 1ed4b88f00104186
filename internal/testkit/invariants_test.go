package testkit_test

import (
	"strings"
	"testing"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/lexer"
	"plsqldoc/internal/parser"
	"plsqldoc/internal/source"
	"plsqldoc/internal/testkit"
	"plsqldoc/internal/token"
)

var scripts = []string{
	"CREATE OR REPLACE PACKAGE emp_api AS\n  /** Bonus. */\n  FUNCTION bonus(p_id IN NUMBER) RETURN NUMBER;\n  c_max CONSTANT PLS_INTEGER := 10;\nEND emp_api;\n/\n",
	"DECLARE\n  x NUMBER := 1;\nBEGIN\n  IF x > 0 THEN\n    x := x + 1;\n  END IF;\nEXCEPTION\n  WHEN OTHERS THEN NULL;\nEND;\n/\n",
	"BEGIN\n  x := ;\nEND;\n/\nBEGIN NULL; END;\n/\n",
	"-- only a comment\n",
	"",
}

func parse(t *testing.T, src string) (*source.File, []token.Token, *ast.Script) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("kit.sql", []byte(src)))
	toks := lexer.Tokenize(file, lexer.Options{})
	script, _ := parser.ParseScript(toks, parser.Options{})
	return file, toks, script
}

func TestInvariantsHold(t *testing.T) {
	for _, src := range scripts {
		file, toks, script := parse(t, src)
		if err := testkit.CheckSpanInvariants(script, file); err != nil {
			t.Errorf("spans %q: %v", src, err)
		}
		if err := testkit.CheckRoundTrip(script, file); err != nil {
			t.Errorf("round-trip %q: %v", src, err)
		}
		if err := testkit.CheckTokenOwnership(script, toks); err != nil {
			t.Errorf("ownership %q: %v", src, err)
		}
	}
}

func TestViolationsReported(t *testing.T) {
	file, toks, script := parse(t, scripts[0])

	other := source.NewFileSet()
	other.AddVirtual("a.sql", nil)
	wrong := other.Get(other.AddVirtual("b.sql", []byte(scripts[0])))
	if err := testkit.CheckSpanInvariants(script, wrong); err == nil || !strings.Contains(err.Error(), "points to file") {
		t.Errorf("file mismatch not reported: %v", err)
	}

	edited := *file
	edited.Content = append([]byte(nil), file.Content...)
	edited.Content[7] = 'X'
	if err := testkit.CheckRoundTrip(script, &edited); err == nil || !strings.Contains(err.Error(), "offset 7") {
		t.Errorf("round-trip mismatch not reported: %v", err)
	}

	if err := testkit.CheckTokenOwnership(script, toks[1:]); err == nil {
		t.Errorf("missing token not reported")
	}
}

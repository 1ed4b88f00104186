package annotate_test

import (
	"testing"

	"plsqldoc/internal/annotate"
	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/lexer"
	"plsqldoc/internal/parser"
	"plsqldoc/internal/source"
	"plsqldoc/internal/token"
)

func lex(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	return lexer.Tokenize(fs.Get(fs.AddVirtual("test.sql", []byte(src))), lexer.Options{})
}

// decls парсит секцию объявлений без разрешения прагм
func decls(t *testing.T, src string) []ast.Decl {
	t.Helper()
	ds, err := parser.ParseDeclarations(lex(t, src), parser.Options{NoResolve: true})
	if err != nil {
		t.Fatalf("ParseDeclarations(%q): %v", src, err)
	}
	return ds
}

func annotations(d ast.Decl) []ast.AnnotationKind {
	var kinds []ast.AnnotationKind
	for _, a := range d.Annotations() {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

func TestErrorID(t *testing.T) {
	tests := []struct {
		src  string
		code int
		id   string
	}{
		{"100", 100, "ORA-01403"},
		{"+100", 100, "ORA-01403"},
		{"-20001", -20001, "ORA-20001"},
		{"-1403", -1403, "ORA-01403"},
		{"-1", -1, "ORA-00001"},
	}
	for _, tt := range tests {
		e, err := parser.ParseExpression(lex(t, tt.src), parser.Options{})
		if err != nil {
			t.Fatalf("%s: %v", tt.src, err)
		}
		code, ok := annotate.ErrorCode(e)
		if !ok || code != tt.code {
			t.Errorf("ErrorCode(%s) = %d, %v", tt.src, code, ok)
		}
		if got := annotate.ErrorID(code); got != tt.id {
			t.Errorf("ErrorID(%d) = %q, want %q", code, got, tt.id)
		}
	}
	for _, src := range []string{"x", "'1'", "1.5", "-x"} {
		e, err := parser.ParseExpression(lex(t, src), parser.Options{})
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if _, ok := annotate.ErrorCode(e); ok {
			t.Errorf("ErrorCode(%s) accepted", src)
		}
	}
}

func TestPreviousTarget(t *testing.T) {
	ds := decls(t, `e_a EXCEPTION; e_b EXCEPTION;
PRAGMA EXCEPTION_INIT(e_a, -20001);
PROCEDURE proc;
PRAGMA DEPRECATE(pkg.proc, 'use proc2');`)
	res := annotate.Resolve(nil, ds, nil)
	if res.Applied != 2 || len(res.Dangling) != 0 {
		t.Fatalf("applied=%d dangling=%d", res.Applied, len(res.Dangling))
	}
	if got := ds[0].(*ast.ExceptionDecl).ErrorID(); got != "ORA-20001" {
		t.Errorf("e_a ErrorID = %q", got)
	}
	if len(ds[1].Annotations()) != 0 {
		t.Errorf("e_b annotated: %v", annotations(ds[1]))
	}
	anns := ds[3].Annotations()
	if len(anns) != 1 || anns[0].Kind != ast.AnnDeprecated || anns[0].Message != "use proc2" {
		t.Errorf("proc annotations = %v", anns)
	}
}

func TestSiblingsDefault(t *testing.T) {
	ds := decls(t, `FUNCTION f RETURN NUMBER;
x NUMBER;
FUNCTION g RETURN NUMBER;
PRAGMA RESTRICT_REFERENCES(DEFAULT, WNDS);`)
	res := annotate.Resolve(nil, ds, nil)
	if res.Applied != 2 {
		t.Fatalf("applied = %d, want 2", res.Applied)
	}
	for _, i := range []int{0, 2} {
		if k := annotations(ds[i]); len(k) != 1 || k[0] != ast.AnnRestrictReferences {
			t.Errorf("decl %d annotations = %v", i, k)
		}
	}
	if len(ds[1].Annotations()) != 0 {
		t.Errorf("variable annotated by DEFAULT")
	}
}

func TestNextTarget(t *testing.T) {
	ds := decls(t, `PRAGMA INLINE(p, 'YES');
x NUMBER;
PROCEDURE p;`)
	res := annotate.Resolve(nil, ds, nil)
	if res.Applied != 1 || len(res.Dangling) != 0 {
		t.Fatalf("applied=%d dangling=%d", res.Applied, len(res.Dangling))
	}
	if k := annotations(ds[2]); len(k) != 1 || k[0] != ast.AnnInline {
		t.Errorf("p annotations = %v", k)
	}
}

func TestParentTarget(t *testing.T) {
	owner := decls(t, "PROCEDURE log_it;")[0]
	ds := decls(t, "PRAGMA AUTONOMOUS_TRANSACTION; x NUMBER;")
	res := annotate.Resolve(owner, ds, nil)
	if res.Applied != 1 {
		t.Fatalf("applied = %d", res.Applied)
	}
	if k := annotations(owner); len(k) != 1 || k[0] != ast.AnnAutonomousTransaction {
		t.Errorf("owner annotations = %v", k)
	}

	// без владельца (анонимный блок) прагма молча принимается
	res = annotate.Resolve(nil, decls(t, "PRAGMA AUTONOMOUS_TRANSACTION;"), nil)
	if res.Applied != 0 || len(res.Dangling) != 0 {
		t.Errorf("anonymous block: applied=%d dangling=%d", res.Applied, len(res.Dangling))
	}
}

func TestDanglingReported(t *testing.T) {
	bag := diag.NewBag(10)
	ds := decls(t, `e EXCEPTION;
PRAGMA EXCEPTION_INIT(other, -1);
PRAGMA INLINE(missing, 'NO');`)
	res := annotate.Resolve(nil, ds, diag.BagReporter{Bag: bag})
	if len(res.Dangling) != 2 {
		t.Fatalf("dangling = %d, want 2", len(res.Dangling))
	}
	if bag.Len() != 2 {
		t.Fatalf("diagnostics = %d, want 2", bag.Len())
	}
	for _, d := range bag.Items() {
		if d.Code != diag.SemaDanglingPragma || d.Severity != diag.SevWarning {
			t.Errorf("unexpected diagnostic %s: %s", d.Code.ID(), d.Message)
		}
	}
}

func TestUnknownReportedOnce(t *testing.T) {
	bag := diag.NewBag(10)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	ds := decls(t, "PRAGMA FOO; x NUMBER; PRAGMA foo(1);")
	res := annotate.Resolve(nil, ds, rep)
	if len(res.Unknown) != 2 || len(res.Dangling) != 0 {
		t.Fatalf("unknown=%d dangling=%d", len(res.Unknown), len(res.Dangling))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaUnknownPragma {
		t.Errorf("expected one unknown-pragma info, got %d", bag.Len())
	}
	// тот же сеанс: повторно не сообщается
	annotate.Resolve(nil, decls(t, "PRAGMA FOO;"), rep)
	if bag.Len() != 1 {
		t.Errorf("unknown pragma reported again")
	}
}

func TestBadExceptionCode(t *testing.T) {
	bag := diag.NewBag(10)
	ds := decls(t, "e EXCEPTION; PRAGMA EXCEPTION_INIT(e, c_code);")
	res := annotate.Resolve(nil, ds, diag.BagReporter{Bag: bag})
	if res.Applied != 1 {
		t.Fatalf("applied = %d", res.Applied)
	}
	if ds[0].(*ast.ExceptionDecl).ErrorID() != "" {
		t.Errorf("ErrorID set for non-literal code")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaPragmaArgs {
		t.Errorf("expected SemaPragmaArgs warning")
	}
}

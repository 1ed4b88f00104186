package parser

import (
	"testing"

	"plsqldoc/internal/ast"
)

func TestStatementKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind ast.Kind
	}{
		{"x := 1;", ast.KindAssignment},
		{"rec.field(i).x := y;", ast.KindAssignment},
		{":out := 1;", ast.KindAssignment},
		{"pkg.proc(1, 'a');", ast.KindCall},
		{"proc;", ast.KindCall},
		{"NULL;", ast.KindNullStmt},
		{"RETURN;", ast.KindReturn},
		{"RETURN x + 1;", ast.KindReturn},
		{"RAISE;", ast.KindRaise},
		{"RAISE pkg.e_fail;", ast.KindRaise},
		{"EXIT;", ast.KindExit},
		{"CONTINUE outer WHEN i > 2;", ast.KindExit},
		{"PRAGMA INLINE(f, 'YES');", ast.KindPragmaDecl},
		{"PIPE ROW (r);", ast.KindPipeRow},
		{"OPEN c(1);", ast.KindOpen},
		{"OPEN rc FOR SELECT * FROM emp;", ast.KindOpen},
		{"FETCH c BULK COLLECT INTO l_tab LIMIT 100;", ast.KindFetch},
		{"CLOSE c;", ast.KindClose},
		{"FORALL i IN 1 .. l_tab.COUNT INSERT INTO t VALUES l_tab(i);", ast.KindForall},
		{"SELECT COUNT(*) INTO n FROM emp;", ast.KindSQL},
		{"INSERT INTO t (a) VALUES (1);", ast.KindSQL},
		{"EXECUTE IMMEDIATE 'truncate table t';", ast.KindSQL},
		{"COMMIT;", ast.KindSQL},
		{"SET TRANSACTION READ ONLY;", ast.KindSQL},
		{"commit := 1;", ast.KindAssignment},
		{"BEGIN NULL; END;", ast.KindBlock},
		{"DECLARE x NUMBER; BEGIN x := 1; END;", ast.KindBlock},
		{"<<outer>> LOOP EXIT outer; END LOOP outer;", ast.KindLabeledStmt},
		{"WHILE i < 10 LOOP i := i + 1; END LOOP;", ast.KindWhileLoop},
		{"FOR r IN c_emp(10) LOOP NULL; END LOOP;", ast.KindForLoop},
		{"IF a THEN NULL; ELSIF b THEN NULL; ELSE NULL; END IF;", ast.KindIf},
		{"CASE x WHEN 1 THEN NULL; ELSE NULL; END CASE;", ast.KindCaseStmt},
		{"$IF $$debug $THEN", ast.KindDirective},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s := stmt(t, tt.src)
			if s.Base().Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", s.Base().Kind(), tt.kind)
			}
			if s.Base().String() != tt.src {
				t.Errorf("text = %q", s.Base().String())
			}
		})
	}
}

func TestCaseStatementForms(t *testing.T) {
	simple := stmt(t, "CASE x WHEN 1 THEN a := 1; WHEN 2 THEN a := 2; END CASE;").(*ast.CaseStmt)
	if !simple.IsSimple() || len(simple.Whens) != 2 || simple.Else != nil {
		t.Errorf("simple CASE: simple=%v whens=%d", simple.IsSimple(), len(simple.Whens))
	}
	searched := stmt(t, "CASE WHEN x > 1 THEN NULL; END CASE;").(*ast.CaseStmt)
	if searched.IsSimple() {
		t.Errorf("searched CASE reported as simple")
	}
}

func TestForLoopForms(t *testing.T) {
	numeric := stmt(t, "FOR i IN REVERSE 1 .. n LOOP NULL; END LOOP;").(*ast.ForLoop)
	if !numeric.IsNumeric() || numeric.Reverse == nil || numeric.Index.Text != "i" {
		t.Errorf("numeric FOR not recognised")
	}
	query := stmt(t, "FOR r IN (SELECT * FROM emp) LOOP NULL; END LOOP;").(*ast.ForLoop)
	if query.IsNumeric() {
		t.Errorf("query FOR reported as numeric")
	}
	if p, ok := query.Low.(*ast.Paren); !ok || p.Items[0].Base().Kind() != ast.KindSubquery {
		t.Errorf("query FOR source is %T", query.Low)
	}
}

func TestLabeledLoop(t *testing.T) {
	ls := stmt(t, "<<outer>> LOOP EXIT outer WHEN done; END LOOP outer;").(*ast.LabeledStmt)
	loop, ok := ls.Stmt.(*ast.Loop)
	if !ok || len(ls.Labels) != 1 || ls.Labels[0].NameTok.Text != "outer" {
		t.Fatalf("labelled loop not recognised")
	}
	exit := loop.Stmts[0].(*ast.Exit)
	if exit.Label == nil || exit.Cond == nil || exit.IsContinue() {
		t.Errorf("EXIT label=%v cond=%v", exit.Label, exit.Cond)
	}
	if loop.Label == nil || loop.Label.Text != "outer" {
		t.Errorf("END LOOP label missing")
	}
}

func TestNestedBlockResolvesPragmas(t *testing.T) {
	b := stmt(t, "DECLARE e EXCEPTION; PRAGMA EXCEPTION_INIT(e, 100); BEGIN NULL; END;").(*ast.Block)
	exc := b.Decls[0].(*ast.ExceptionDecl)
	if exc.ErrorID() != "ORA-01403" {
		t.Errorf("ErrorID = %q, want ORA-01403", exc.ErrorID())
	}
}

package parser

import (
	"errors"
	"testing"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
)

func TestTypeNames(t *testing.T) {
	tests := []struct {
		src, want string
	}{
		{"NUMBER", "NUMBER"},
		{"NUMBER(10,2)", "NUMBER(10,2)"},
		{"NUMBER(5, -2)", "NUMBER(5,-2)"},
		{"FLOAT(*)", "FLOAT(*)"},
		{"VARCHAR2(30 CHAR)", "VARCHAR2(30 CHAR)"},
		{"varchar2(30)", "VARCHAR2(30)"},
		{"DOUBLE PRECISION", "DOUBLE PRECISION"},
		{"LONG RAW", "LONG RAW"},
		{"NATIONAL CHARACTER VARYING(10)", "NATIONAL CHARACTER VARYING(10)"},
		{"emp.sal%TYPE", "EMP.SAL%TYPE"},
		{"emp%ROWTYPE", "EMP%ROWTYPE"},
		{"scott.pkg.t_rec", "SCOTT.PKG.T_REC"},
		{"PLS_INTEGER RANGE 1 .. 10", "PLS_INTEGER RANGE 1..10"},
		{"NUMBER NOT NULL", "NUMBER"},
		{"VARCHAR2(10) CHARACTER SET ANY_CS", "VARCHAR2(10)"},
		{"INTERVAL DAY(2) TO SECOND(6)", "INTERVAL DAY(2) TO SECOND(6)"},
		{"INTERVAL YEAR TO MONTH", "INTERVAL YEAR TO MONTH"},
		{"TIMESTAMP(3) WITH LOCAL TIME ZONE", "TIMESTAMP(3) WITH LOCAL TIME ZONE"},
		{"TIMESTAMP", "TIMESTAMP"},
		{"REF CURSOR", "REF CURSOR"},
		{"REF CURSOR RETURN emp%ROWTYPE", "REF CURSOR RETURN EMP%ROWTYPE"},
		{"TABLE OF NUMBER INDEX BY VARCHAR2(10)", "TABLE OF NUMBER INDEX BY VARCHAR2(10)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			typ, err := ParseType(lex(t, tt.src), Options{})
			if err != nil {
				t.Fatalf("ParseType: %v", err)
			}
			if got := ast.TypeName(typ); got != tt.want {
				t.Errorf("TypeName = %q, want %q", got, tt.want)
			}
			if typ.Base().String() != tt.src {
				t.Errorf("text = %q", typ.Base().String())
			}
		})
	}
}

func TestBuiltinVersusUserType(t *testing.T) {
	builtin, _ := ParseType(lex(t, "NUMBER"), Options{})
	user, _ := ParseType(lex(t, "my_type"), Options{})
	if !builtin.(*ast.NamedType).IsBuiltin() || user.(*ast.NamedType).IsBuiltin() {
		t.Errorf("builtin detection failed")
	}
}

func TestVarrayType(t *testing.T) {
	for _, src := range []string{"VARRAY(10) OF NUMBER", "VARYING ARRAY(10) OF NUMBER"} {
		_, err := ParseType(lex(t, src), Options{})
		if !errors.Is(err, diag.ErrNotImplemented) {
			t.Errorf("%s: err = %v", src, err)
		}
	}
}

package ast

import (
	"errors"
	"testing"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/names"
	"plsqldoc/internal/token"
)

func word(text string) *token.Token {
	return &token.Token{Kind: token.LookupWord(text), Text: text}
}

func op(text string) *token.Token {
	k := token.Operator
	switch text {
	case ";":
		k = token.Semicolon
	case "/":
		k = token.Slash
	}
	return &token.Token{Kind: k, Text: text}
}

func spaced(tok *token.Token) *token.Token {
	tok.Leading = []token.Token{{Kind: token.Whitespace, Text: " "}}
	return tok
}

func ref(parts ...string) *Reference {
	toks := make([]*token.Token, 0, len(parts))
	for _, p := range parts {
		toks = append(toks, word(p))
	}
	return Finish(&Reference{NameToks: toks, Name: names.Must(toks...)})
}

func TestBuilderOrderAndString(t *testing.T) {
	target := ref("x")
	value := Finish(&Literal{Tok: spaced(&token.Token{Kind: token.Number, Text: "1"})})
	stmt := Finish(&Assignment{Target: target, Op: spaced(op(":=")), Value: value, Semi: op(";")})

	if got := stmt.String(); got != "x := 1;" {
		t.Fatalf("String() = %q", got)
	}
	if got := len(stmt.Tokens()); got != 4 {
		t.Fatalf("Tokens() = %d, want 4", got)
	}
	if got := len(stmt.Children()); got != 2 {
		t.Fatalf("Children() = %d, want 2", got)
	}
	if stmt.Kind() != KindAssignment {
		t.Fatalf("Kind() = %s", stmt.Kind())
	}
}

func TestAbsentSlotsAreSkipped(t *testing.T) {
	var body *Block
	ret := Finish(&Return{ReturnTok: word("RETURN"), Semi: op(";")})
	decl := Finish(&RoutineDecl{
		Heading: Finish(&RoutineHeading{Kw: word("PROCEDURE"), NameToks: []*token.Token{spaced(word("p"))}, Name: names.Must(word("p"))}),
		Body:    body,
		Semi:    op(";"),
	})
	if got := decl.String(); got != "PROCEDURE p;" {
		t.Fatalf("String() = %q", got)
	}
	if decl.IsDefinition() {
		t.Fatalf("forward declaration reported as definition")
	}
	if got := ret.String(); got != "RETURN;" {
		t.Fatalf("String() = %q", got)
	}
}

func TestSepInterleaves(t *testing.T) {
	a, b, c := ref("a"), ref("b"), ref("c")
	p := Finish(&Paren{LParen: op("("), Items: []Expr{a, b, c}, Commas: []*token.Token{op(","), op(",")}, RParen: op(")")})
	if got := p.String(); got != "(a,b,c)" {
		t.Fatalf("String() = %q", got)
	}
	if !p.IsList() {
		t.Fatalf("IsList() = false")
	}
}

func TestResolveToken(t *testing.T) {
	tok := word("x")
	tests := []struct {
		name string
		in   any
		want *token.Token
	}{
		{"nil", nil, nil},
		{"token", tok, tok},
		{"empty slice", []*token.Token{}, nil},
		{"one", []*token.Token{tok}, tok},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveToken(tt.in); got != tt.want {
				t.Fatalf("ResolveToken = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveTokenPanics(t *testing.T) {
	for _, in := range []any{[]*token.Token{word("a"), word("b")}, 42, "x"} {
		func() {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, diag.ErrInvalidArgument) {
					t.Fatalf("ResolveToken(%v) recovered %v, want invalid argument", in, r)
				}
			}()
			ResolveToken(in)
		}()
	}
}

func TestInspectVisitsDepthFirst(t *testing.T) {
	left := ref("a")
	right := ref("b")
	bin := Finish(&Binary{Left: left, Op: op("+"), Right: right})
	var kinds []Kind
	Inspect(bin, func(s Syntax) bool {
		kinds = append(kinds, s.Base().Kind())
		return true
	})
	want := []Kind{KindBinary, KindReference, KindReference}
	if len(kinds) != len(want) {
		t.Fatalf("visited %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("visited %v, want %v", kinds, want)
		}
	}
}

func TestDocComments(t *testing.T) {
	name := word("e")
	name.Leading = []token.Token{
		{Kind: token.DocComment, Text: "/** boom */"},
		{Kind: token.Newline, Text: "\n"},
	}
	semi := op(";")
	semi.Trailing = []token.Token{{Kind: token.DocComment, Text: "/** tail */"}}
	d := Finish(&ExceptionDecl{NameTok: name, Exception: spaced(word("EXCEPTION")), Semi: semi})

	if doc := d.Doc(); doc == nil || doc.Text != "/** boom */" {
		t.Fatalf("Doc() = %v", doc)
	}
	if got := len(d.DocComments()); got != 2 {
		t.Fatalf("DocComments() = %d, want 2", got)
	}

	plain := Finish(&ExceptionDecl{NameTok: word("f"), Exception: spaced(word("EXCEPTION")), Semi: semi})
	if doc := plain.Doc(); doc == nil || doc.Text != "/** tail */" {
		t.Fatalf("trailing Doc() = %v", doc)
	}
}

func TestRoutineUniqueID(t *testing.T) {
	param := func(n, typ string) *Parameter {
		return Finish(&Parameter{NameTok: word(n), Type: Finish(&NamedType{NameToks: []*token.Token{word(typ)}})})
	}
	heading := func(params ...*Parameter) *RoutineHeading {
		h := &RoutineHeading{Kw: word("FUNCTION"), NameToks: []*token.Token{word("get")}, Name: names.Must(word("get"))}
		if params != nil {
			h.Params = Finish(&ParamList{LParen: op("("), Params: params, RParen: op(")")})
		}
		return Finish(h)
	}
	if got := heading().UniqueID().Value(); got != "GET" {
		t.Fatalf("no params: %q", got)
	}
	if got := heading(param("a", "number"), param("b", "varchar2")).UniqueID().Value(); got != "GET-NUMBER-VARCHAR2" {
		t.Fatalf("params: %q", got)
	}
}

func TestConstructorPatchedOnce(t *testing.T) {
	h := Finish(&RoutineHeading{
		Modifiers:    []*token.Token{word("CONSTRUCTOR")},
		Kw:           word("FUNCTION"),
		NameToks:     []*token.Token{word("pt")},
		Name:         names.Must(word("pt")),
		Return:       word("RETURN"),
		SelfAsResult: []*token.Token{word("SELF"), word("AS"), word("RESULT")},
	})
	h.PatchResult(names.Must(word("pt")))
	h.PatchResult(names.Must(word("other")))
	if got := h.ReturnTypeName(); got != "PT" {
		t.Fatalf("ReturnTypeName() = %q", got)
	}
	if !h.IsConstructor() || !h.IsFunction() {
		t.Fatalf("constructor flags wrong")
	}
}

func TestTypeName(t *testing.T) {
	num := Finish(&NamedType{
		NameToks: []*token.Token{word("number")},
		Restriction: Finish(&PrecisionRestriction{
			LParen: op("("), Precision: &token.Token{Kind: token.Number, Text: "10"},
			Comma: op(","), Scale: &token.Token{Kind: token.Number, Text: "2"}, RParen: op(")"),
		}),
	})
	if got := TypeName(num); got != "NUMBER(10,2)" {
		t.Fatalf("TypeName = %q", got)
	}
	user := Finish(&NamedType{
		NameToks: []*token.Token{word("emp"), op("."), word("sal")},
		Name:     names.Must(word("emp"), word("sal")),
		Percent:  op("%"),
		Attr:     word("type"),
	})
	if got := TypeName(user); got != "EMP.SAL%TYPE" {
		t.Fatalf("TypeName = %q", got)
	}
	tab := Finish(&TableType{Table: word("TABLE"), Of: word("OF"), Elem: num, Index: word("INDEX"), By: word("BY"),
		Key: Finish(&NamedType{NameToks: []*token.Token{word("pls_integer")}})})
	if got := TypeName(tab); got != "TABLE OF NUMBER(10,2) INDEX BY PLS_INTEGER" {
		t.Fatalf("TypeName = %q", got)
	}
}

func TestPragmaCatalog(t *testing.T) {
	spec, ok := LookupPragma("deprecate")
	if !ok {
		t.Fatalf("DEPRECATE not registered")
	}
	if !spec.Hints.Has(SearchParent) || !spec.Hints.Has(SearchPrevious) || spec.Hints.Has(SearchNext) {
		t.Fatalf("DEPRECATE hints = %s", spec.Hints)
	}
	if !spec.AcceptsArgs(1) || !spec.AcceptsArgs(2) || spec.AcceptsArgs(3) {
		t.Fatalf("DEPRECATE arity wrong")
	}
	if _, ok := LookupPragma("nope"); ok {
		t.Fatalf("unknown pragma found")
	}
	specs := PragmaSpecs()
	for i := 1; i < len(specs); i++ {
		if specs[i-1].Name >= specs[i].Name {
			t.Fatalf("PragmaSpecs not sorted: %s >= %s", specs[i-1].Name, specs[i].Name)
		}
	}
}

func TestPragmaTarget(t *testing.T) {
	p := Finish(&PragmaDecl{
		Pragma:  word("PRAGMA"),
		NameTok: word("EXCEPTION_INIT"),
		LParen:  op("("),
		Args:    []Expr{ref("e_x"), Finish(&Literal{Tok: &token.Token{Kind: token.Number, Text: "20001"}})},
		Commas:  []*token.Token{op(",")},
		RParen:  op(")"),
		Semi:    op(";"),
	})
	if got := p.Target().Value(); got != "E_X" {
		t.Fatalf("Target() = %q", got)
	}
	def := Finish(&PragmaDecl{Pragma: word("PRAGMA"), NameTok: word("RESTRICT_REFERENCES"), Args: []Expr{ref("DEFAULT")}})
	if !def.IsDefault() {
		t.Fatalf("IsDefault() = false")
	}
}

func TestAnnotations(t *testing.T) {
	d := Finish(&ExceptionDecl{NameTok: word("e"), Exception: word("EXCEPTION"), Semi: op(";")})
	d.Annotate(Annotation{Kind: AnnExceptionInit, Code: -20001, ErrorID: "ORA-20001"})
	if got := d.ErrorID(); got != "ORA-20001" {
		t.Fatalf("ErrorID() = %q", got)
	}
	if !d.HasAnnotation(AnnExceptionInit) || d.HasAnnotation(AnnDeprecated) {
		t.Fatalf("HasAnnotation wrong")
	}
	if got := d.Annotations()[0].String(); got != "exception_init(ORA-20001)" {
		t.Fatalf("String() = %q", got)
	}
}

package ast

import (
	"strings"

	"plsqldoc/internal/names"
	"plsqldoc/internal/token"
)

// Stmt is an executable statement.
type Stmt interface {
	Syntax
	stmtNode()
}

// Block is [DECLARE decls] BEGIN stmts [EXCEPTION handlers] END [label][;].
// Routine and package bodies start after IS/AS and have no DECLARE; a
// package body may omit BEGIN.
type Block struct {
	Node
	Declare   *token.Token
	Decls     []Decl
	Begin     *token.Token
	Stmts     []Stmt
	Exception *token.Token
	Handlers  []*ExceptionHandler
	End       *token.Token
	EndName   *token.Token
	Semi      *token.Token
}

func (b *Block) finish() {
	b.build(KindBlock, T(b.Declare), Ns(b.Decls), T(b.Begin), Ns(b.Stmts), T(b.Exception),
		Ns(b.Handlers), T(b.End), T(b.EndName), T(b.Semi))
}

// Label is <<name>>.
type Label struct {
	Node
	Open    *token.Token
	NameTok *token.Token
	Close   *token.Token
}

func (l *Label) finish() {
	l.build(KindLabel, T(l.Open), T(l.NameTok), T(l.Close))
}

func (l *Label) Name() names.Name { return nameOf(l.NameTok) }

// LabeledStmt is a statement preceded by one or more labels.
type LabeledStmt struct {
	Node
	Labels []*Label
	Stmt   Stmt
}

func (s *LabeledStmt) finish() {
	s.build(KindLabeledStmt, Ns(s.Labels), N(s.Stmt))
}

// ExceptionHandler is WHEN a [OR b ...] THEN stmts.
type ExceptionHandler struct {
	Node
	When       *token.Token
	ChoiceToks []*token.Token
	Choices    []names.Name
	Then       *token.Token
	Stmts      []Stmt
}

func (h *ExceptionHandler) finish() {
	h.build(KindExceptionHandler, T(h.When), Ts(h.ChoiceToks), T(h.Then), Ns(h.Stmts))
}

// IsOthers reports whether the handler catches OTHERS.
func (h *ExceptionHandler) IsOthers() bool {
	for _, c := range h.Choices {
		if c.Value() == "OTHERS" {
			return true
		}
	}
	return false
}

// Assignment is target := value;
type Assignment struct {
	Node
	Target Expr
	Op     *token.Token
	Value  Expr
	Semi   *token.Token
}

func (s *Assignment) finish() {
	s.build(KindAssignment, N(s.Target), T(s.Op), N(s.Value), T(s.Semi))
}

// Loop is LOOP stmts END LOOP [label]; and the body of FOR and WHILE loops.
type Loop struct {
	Node
	LoopTok *token.Token
	Stmts   []Stmt
	End     *token.Token
	EndLoop *token.Token
	Label   *token.Token
	Semi    *token.Token
}

func (s *Loop) finish() {
	s.build(KindLoop, T(s.LoopTok), Ns(s.Stmts), T(s.End), T(s.EndLoop), T(s.Label), T(s.Semi))
}

// ForLoop is FOR i IN [REVERSE] lo..hi LOOP ... or FOR r IN cursor LOOP ...
type ForLoop struct {
	Node
	For     *token.Token
	Index   *token.Token
	In      *token.Token
	Reverse *token.Token
	Low     Expr
	DotDot  *token.Token
	High    Expr
	Body    *Loop
}

func (s *ForLoop) finish() {
	s.build(KindForLoop, T(s.For), T(s.Index), T(s.In), T(s.Reverse), N(s.Low), T(s.DotDot),
		N(s.High), N(s.Body))
}

// IsNumeric reports whether the loop iterates over a range.
func (s *ForLoop) IsNumeric() bool { return s.DotDot != nil }

// WhileLoop is WHILE cond LOOP ...
type WhileLoop struct {
	Node
	While *token.Token
	Cond  Expr
	Body  *Loop
}

func (s *WhileLoop) finish() {
	s.build(KindWhileLoop, T(s.While), N(s.Cond), N(s.Body))
}

// CaseStmt is CASE [selector] WHEN ... THEN stmts ... [ELSE stmts] END CASE [label];
type CaseStmt struct {
	Node
	Case      *token.Token
	Selector  Expr
	Whens     []*CaseStmtWhen
	Else      *token.Token
	ElseStmts []Stmt
	End       *token.Token
	EndCase   *token.Token
	Label     *token.Token
	Semi      *token.Token
}

func (s *CaseStmt) finish() {
	s.build(KindCaseStmt, T(s.Case), N(s.Selector), Ns(s.Whens), T(s.Else), Ns(s.ElseStmts),
		T(s.End), T(s.EndCase), T(s.Label), T(s.Semi))
}

// IsSimple reports whether the CASE compares a selector.
func (s *CaseStmt) IsSimple() bool { return s.Selector != nil }

// CaseStmtWhen is WHEN cond THEN stmts.
type CaseStmtWhen struct {
	Node
	When  *token.Token
	Cond  Expr
	Then  *token.Token
	Stmts []Stmt
}

func (w *CaseStmtWhen) finish() {
	w.build(KindCaseStmtWhen, T(w.When), N(w.Cond), T(w.Then), Ns(w.Stmts))
}

// If is IF cond THEN stmts {ELSIF ...} [ELSE stmts] END IF;
type If struct {
	Node
	IfTok     *token.Token
	Cond      Expr
	Then      *token.Token
	Stmts     []Stmt
	Elsifs    []*Elsif
	Else      *token.Token
	ElseStmts []Stmt
	End       *token.Token
	EndIf     *token.Token
	Semi      *token.Token
}

func (s *If) finish() {
	s.build(KindIf, T(s.IfTok), N(s.Cond), T(s.Then), Ns(s.Stmts), Ns(s.Elsifs), T(s.Else),
		Ns(s.ElseStmts), T(s.End), T(s.EndIf), T(s.Semi))
}

// Elsif is ELSIF cond THEN stmts.
type Elsif struct {
	Node
	Elsif *token.Token
	Cond  Expr
	Then  *token.Token
	Stmts []Stmt
}

func (e *Elsif) finish() {
	e.build(KindElsif, T(e.Elsif), N(e.Cond), T(e.Then), Ns(e.Stmts))
}

// Open is OPEN cursor [(args)] [FOR query | USING ...];
type Open struct {
	Node
	OpenTok *token.Token
	Cursor  Expr
	Rest    []*token.Token
	Semi    *token.Token
}

func (s *Open) finish() {
	s.build(KindOpen, T(s.OpenTok), N(s.Cursor), Ts(s.Rest), T(s.Semi))
}

// Close is CLOSE cursor;
type Close struct {
	Node
	CloseTok *token.Token
	Cursor   Expr
	Semi     *token.Token
}

func (s *Close) finish() {
	s.build(KindClose, T(s.CloseTok), N(s.Cursor), T(s.Semi))
}

// Fetch is FETCH cursor INTO ... | BULK COLLECT INTO ... [LIMIT n];
type Fetch struct {
	Node
	FetchTok *token.Token
	Cursor   Expr
	Rest     []*token.Token
	Semi     *token.Token
}

func (s *Fetch) finish() {
	s.build(KindFetch, T(s.FetchTok), N(s.Cursor), Ts(s.Rest), T(s.Semi))
}

// Forall is FORALL i IN bounds dml; with the bounds and DML kept as tokens.
type Forall struct {
	Node
	ForallTok *token.Token
	Index     *token.Token
	In        *token.Token
	Rest      []*token.Token
	Semi      *token.Token
}

func (s *Forall) finish() {
	s.build(KindForall, T(s.ForallTok), T(s.Index), T(s.In), Ts(s.Rest), T(s.Semi))
}

// Exit is EXIT|CONTINUE [label] [WHEN cond];
type Exit struct {
	Node
	Kw    *token.Token
	Label *token.Token
	When  *token.Token
	Cond  Expr
	Semi  *token.Token
}

func (s *Exit) finish() {
	s.build(KindExit, T(s.Kw), T(s.Label), T(s.When), N(s.Cond), T(s.Semi))
}

// IsContinue reports whether the statement is CONTINUE.
func (s *Exit) IsContinue() bool { return s.Kw.Is("CONTINUE") }

// Raise is RAISE [exception];
type Raise struct {
	Node
	RaiseTok  *token.Token
	Exception Expr
	Semi      *token.Token
}

func (s *Raise) finish() {
	s.build(KindRaise, T(s.RaiseTok), N(s.Exception), T(s.Semi))
}

// Return is RETURN [expr];
type Return struct {
	Node
	ReturnTok *token.Token
	Value     Expr
	Semi      *token.Token
}

func (s *Return) finish() {
	s.build(KindReturn, T(s.ReturnTok), N(s.Value), T(s.Semi))
}

// PipeRow is PIPE ROW (expr);
type PipeRow struct {
	Node
	Pipe  *token.Token
	Row   *token.Token
	Value Expr
	Semi  *token.Token
}

func (s *PipeRow) finish() {
	s.build(KindPipeRow, T(s.Pipe), T(s.Row), N(s.Value), T(s.Semi))
}

// NullStmt is NULL;
type NullStmt struct {
	Node
	NullTok *token.Token
	Semi    *token.Token
}

func (s *NullStmt) finish() {
	s.build(KindNullStmt, T(s.NullTok), T(s.Semi))
}

// SQL is an embedded SQL statement kept as tokens.
type SQL struct {
	Node
	Toks []*token.Token
	Semi *token.Token
}

func (s *SQL) finish() {
	s.build(KindSQL, Ts(s.Toks), T(s.Semi))
}

// Verb is the leading keyword(s): "SELECT", "EXECUTE IMMEDIATE", ...
func (s *SQL) Verb() string {
	if len(s.Toks) == 0 {
		return ""
	}
	verb := s.Toks[0].Word()
	if len(s.Toks) > 1 && (verb == "EXECUTE" || verb == "SET" || verb == "LOCK") {
		verb += " " + s.Toks[1].Word()
	}
	return strings.TrimSpace(verb)
}

// Call is a procedure invocation used as a statement.
type Call struct {
	Node
	Target Expr
	Semi   *token.Token
}

func (s *Call) finish() {
	s.build(KindCall, N(s.Target), T(s.Semi))
}

func (*Block) stmtNode()       {}
func (*LabeledStmt) stmtNode() {}
func (*Assignment) stmtNode()  {}
func (*Loop) stmtNode()        {}
func (*ForLoop) stmtNode()     {}
func (*WhileLoop) stmtNode()   {}
func (*CaseStmt) stmtNode()    {}
func (*If) stmtNode()          {}
func (*Open) stmtNode()        {}
func (*Close) stmtNode()       {}
func (*Fetch) stmtNode()       {}
func (*Forall) stmtNode()      {}
func (*Exit) stmtNode()        {}
func (*Raise) stmtNode()       {}
func (*Return) stmtNode()      {}
func (*PipeRow) stmtNode()     {}
func (*NullStmt) stmtNode()    {}
func (*SQL) stmtNode()         {}
func (*Call) stmtNode()        {}
func (*Directive) stmtNode()   {}

// PRAGMA INLINE may stand before a statement.
func (*PragmaDecl) stmtNode() {}

package ast

import (
	"strings"

	"plsqldoc/internal/names"
	"plsqldoc/internal/token"
)

// Expr is an expression.
type Expr interface {
	Syntax
	exprNode()
}

// Literal is a string or numeric literal.
type Literal struct {
	Node
	Tok *token.Token
}

func (e *Literal) finish() { e.build(KindLiteral, T(e.Tok)) }

// IsString reports whether the literal is quoted text.
func (e *Literal) IsString() bool { return e.Tok.Kind == token.String }

// Value is the string payload or the number text.
func (e *Literal) Value() string {
	if e.IsString() {
		return e.Tok.Trimmed
	}
	return e.Tok.Text
}

// Bind is a host variable :name or :1.
type Bind struct {
	Node
	Colon   *token.Token
	NameTok *token.Token
}

func (e *Bind) finish() { e.build(KindBind, T(e.Colon), T(e.NameTok)) }

// Substitution is a SQL*Plus substitution variable &name or &&name.
type Substitution struct {
	Node
	Amp     *token.Token
	NameTok *token.Token
}

func (e *Substitution) finish() { e.build(KindSubstitution, T(e.Amp), T(e.NameTok)) }

// SQLAttribute is SQL%ROWCOUNT, SQL%BULK_ROWCOUNT(i) and friends.
type SQLAttribute struct {
	Node
	SQLTok  *token.Token
	Percent *token.Token
	Attr    *token.Token
	Args    *ArgList
}

func (e *SQLAttribute) finish() {
	e.build(KindSQLAttribute, T(e.SQLTok), T(e.Percent), T(e.Attr), N(e.Args))
}

// Paren is a parenthesised expression or expression list.
type Paren struct {
	Node
	LParen *token.Token
	Items  []Expr
	Commas []*token.Token
	RParen *token.Token
}

func (e *Paren) finish() {
	e.build(KindParen, T(e.LParen), Sep(e.Items, e.Commas), T(e.RParen))
}

// IsList reports whether the parentheses hold more than one expression.
func (e *Paren) IsList() bool { return len(e.Items) > 1 }

// Unary is a prefix operator: + - NOT PRIOR.
type Unary struct {
	Node
	Op      *token.Token
	Operand Expr
}

func (e *Unary) finish() { e.build(KindUnary, T(e.Op), N(e.Operand)) }

// CaseExpr is CASE [selector] WHEN ... THEN ... [ELSE ...] END.
type CaseExpr struct {
	Node
	Case      *token.Token
	Selector  Expr
	Whens     []*CaseWhen
	Else      *token.Token
	ElseValue Expr
	End       *token.Token
}

func (e *CaseExpr) finish() {
	e.build(KindCaseExpr, T(e.Case), N(e.Selector), Ns(e.Whens), T(e.Else), N(e.ElseValue), T(e.End))
}

// IsSimple reports whether the CASE compares a selector.
func (e *CaseExpr) IsSimple() bool { return e.Selector != nil }

// CaseWhen is WHEN cond THEN result.
type CaseWhen struct {
	Node
	When   *token.Token
	Cond   Expr
	Then   *token.Token
	Result Expr
}

func (w *CaseWhen) finish() {
	w.build(KindCaseWhen, T(w.When), N(w.Cond), T(w.Then), N(w.Result))
}

// TypedLiteral is DATE '...', TIMESTAMP '...' or INTERVAL '...' qualifier.
type TypedLiteral struct {
	Node
	Kw        *token.Token
	Value     *token.Token
	Qualifier []*token.Token
}

func (e *TypedLiteral) finish() {
	e.build(KindTypedLiteral, T(e.Kw), T(e.Value), Ts(e.Qualifier))
}

// Null is the NULL literal.
type Null struct {
	Node
	Tok *token.Token
}

func (e *Null) finish() { e.build(KindNull, T(e.Tok)) }

// Treat is TREAT(expr AS [REF] type).
type Treat struct {
	Node
	TreatTok *token.Token
	LParen   *token.Token
	Operand  Expr
	As       *token.Token
	Ref      *token.Token
	Type     TypeExpr
	RParen   *token.Token
}

func (e *Treat) finish() {
	e.build(KindTreat, T(e.TreatTok), T(e.LParen), N(e.Operand), T(e.As), T(e.Ref), N(e.Type), T(e.RParen))
}

// New is NEW type(args).
type New struct {
	Node
	NewTok   *token.Token
	NameToks []*token.Token
	Name     names.Name
	Args     *ArgList
}

func (e *New) finish() {
	e.build(KindNew, T(e.NewTok), Ts(e.NameToks), N(e.Args))
}

// Reference is a compound identifier with an optional %attribute.
type Reference struct {
	Node
	NameToks []*token.Token
	Name     names.Name
	Percent  *token.Token
	Attr     *token.Token
}

func (e *Reference) finish() {
	e.build(KindReference, Ts(e.NameToks), T(e.Percent), T(e.Attr))
}

// AttrName is the upper-cased %attribute, "" without one.
func (e *Reference) AttrName() string {
	if e.Attr == nil {
		return ""
	}
	return e.Attr.Word()
}

// Invocation is name(args).
type Invocation struct {
	Node
	NameToks []*token.Token
	Name     names.Name
	Args     *ArgList
}

func (e *Invocation) finish() {
	e.build(KindInvocation, Ts(e.NameToks), N(e.Args))
}

// UniqueID folds the argument values into the invoked name.
func (e *Invocation) UniqueID() names.UniqueID {
	if e.Args == nil {
		return names.IDOf(e.Name)
	}
	values := make([]string, 0, len(e.Args.Args))
	for _, a := range e.Args.Args {
		values = append(values, ExprValue(a.Value))
	}
	return names.IDWithParams(e.Name, values...)
}

// ArgList is ( arg, ... ).
type ArgList struct {
	Node
	LParen *token.Token
	Args   []*Argument
	Commas []*token.Token
	RParen *token.Token
}

func (l *ArgList) finish() {
	l.build(KindArgList, T(l.LParen), Sep(l.Args, l.Commas), T(l.RParen))
}

// Argument is [name =>] value.
type Argument struct {
	Node
	NameTok *token.Token
	Arrow   *token.Token
	Value   Expr
}

func (a *Argument) finish() {
	a.build(KindArgument, T(a.NameTok), T(a.Arrow), N(a.Value))
}

// Binary is left op right; Op may span several words (NOT LIKE is a Like).
type Binary struct {
	Node
	Left  Expr
	Op    *token.Token
	Right Expr
}

func (e *Binary) finish() { e.build(KindBinary, N(e.Left), T(e.Op), N(e.Right)) }

// OpText is the canonical operator: "+", "||", "AND", ".".
func (e *Binary) OpText() string { return e.Op.Word() }

// InList is left [NOT] IN (list).
type InList struct {
	Node
	Left Expr
	Not  *token.Token
	In   *token.Token
	List *Paren
}

func (e *InList) finish() { e.build(KindInList, N(e.Left), T(e.Not), T(e.In), N(e.List)) }

// Like is left [NOT] LIKE pattern [ESCAPE e].
type Like struct {
	Node
	Left        Expr
	Not         *token.Token
	Op          *token.Token
	Pattern     Expr
	Escape      *token.Token
	EscapeValue Expr
}

func (e *Like) finish() {
	e.build(KindLike, N(e.Left), T(e.Not), T(e.Op), N(e.Pattern), T(e.Escape), N(e.EscapeValue))
}

// Between is left [NOT] BETWEEN low AND high.
type Between struct {
	Node
	Left    Expr
	Not     *token.Token
	Between *token.Token
	Low     Expr
	And     *token.Token
	High    Expr
}

func (e *Between) finish() {
	e.build(KindBetween, N(e.Left), T(e.Not), T(e.Between), N(e.Low), T(e.And), N(e.High))
}

// IsNull is left IS [NOT] NULL.
type IsNull struct {
	Node
	Left Expr
	Is   *token.Token
	Not  *token.Token
	Null *token.Token
}

func (e *IsNull) finish() { e.build(KindIsNull, N(e.Left), T(e.Is), T(e.Not), T(e.Null)) }

// Subquery is an embedded query kept as tokens.
type Subquery struct {
	Node
	Toks []*token.Token
}

func (e *Subquery) finish() { e.build(KindSubquery, Ts(e.Toks)) }

// ExprValue is the canonical text of an expression: the name value of
// references and invocations, the source text otherwise.
func ExprValue(e Expr) string {
	switch v := e.(type) {
	case nil:
		return ""
	case *Reference:
		if v.Attr != nil {
			return v.Name.Value() + "%" + v.AttrName()
		}
		return v.Name.Value()
	case *Literal:
		return v.Tok.Text
	case *Null:
		return "NULL"
	}
	if isNil(e) {
		return ""
	}
	return strings.TrimSpace(e.Base().Text())
}

func (*Literal) exprNode()      {}
func (*Bind) exprNode()         {}
func (*Substitution) exprNode() {}
func (*SQLAttribute) exprNode() {}
func (*Paren) exprNode()        {}
func (*Unary) exprNode()        {}
func (*CaseExpr) exprNode()     {}
func (*TypedLiteral) exprNode() {}
func (*Null) exprNode()         {}
func (*Treat) exprNode()        {}
func (*New) exprNode()          {}
func (*Reference) exprNode()    {}
func (*Invocation) exprNode()   {}
func (*Binary) exprNode()       {}
func (*InList) exprNode()       {}
func (*Like) exprNode()         {}
func (*Between) exprNode()      {}
func (*IsNull) exprNode()       {}
func (*Subquery) exprNode()     {}

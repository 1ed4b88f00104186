package ast

import (
	"strings"

	"plsqldoc/internal/names"
	"plsqldoc/internal/token"
)

// TypeExpr is a datatype expression.
type TypeExpr interface {
	Syntax
	typeNode()
}

// Restriction constrains a named type: (n [CHAR|BYTE]), (p[, s]), RANGE a..b.
type Restriction interface {
	Syntax
	restrictionNode()
}

// NamedType is a built-in or user type with optional restriction,
// %TYPE/%ROWTYPE attribute, CHARACTER SET clause and NOT NULL.
type NamedType struct {
	Node
	NameToks []*token.Token
	// Name is set for user types (qualified identifiers); built-in words such
	// as DOUBLE PRECISION leave it zero.
	Name        names.Name
	Percent     *token.Token
	Attr        *token.Token
	Restriction Restriction
	CharSet     []*token.Token
	NotNull     []*token.Token
}

func (t *NamedType) finish() {
	t.build(KindNamedType, Ts(t.NameToks), T(t.Percent), T(t.Attr), N(t.Restriction), Ts(t.CharSet),
		Ts(t.NotNull))
}

// IsBuiltin reports whether the type is a predefined datatype word.
func (t *NamedType) IsBuiltin() bool { return t.Name.IsZero() }

// BaseName is the type name without restriction: "NUMBER", "DOUBLE PRECISION",
// "EMP.SAL%TYPE".
func (t *NamedType) BaseName() string {
	var base string
	if t.Name.IsZero() {
		words := make([]string, 0, len(t.NameToks))
		for _, w := range t.NameToks {
			words = append(words, w.Word())
		}
		base = strings.Join(words, " ")
	} else {
		base = t.Name.Value()
	}
	if t.Attr != nil {
		base += "%" + t.Attr.Word()
	}
	return base
}

// IntervalType is INTERVAL YEAR[(p)] TO MONTH or INTERVAL DAY[(p)] TO SECOND[(p)].
type IntervalType struct {
	Node
	Interval  *token.Token
	Leading   *token.Token
	LeadPrec  Restriction
	To        *token.Token
	Trailing  *token.Token
	TrailPrec Restriction
	NotNull   []*token.Token
}

func (t *IntervalType) finish() {
	t.build(KindIntervalType, T(t.Interval), T(t.Leading), N(t.LeadPrec), T(t.To), T(t.Trailing),
		N(t.TrailPrec), Ts(t.NotNull))
}

// TimestampType is TIMESTAMP[(p)] [WITH [LOCAL] TIME ZONE].
type TimestampType struct {
	Node
	Timestamp *token.Token
	Precision Restriction
	With      []*token.Token
	NotNull   []*token.Token
}

func (t *TimestampType) finish() {
	t.build(KindTimestampType, T(t.Timestamp), N(t.Precision), Ts(t.With), Ts(t.NotNull))
}

// RefType is REF CURSOR [RETURN type] or REF type.
type RefType struct {
	Node
	Ref     *token.Token
	Cursor  *token.Token
	Return  *token.Token
	Target  TypeExpr
	NotNull []*token.Token
}

func (t *RefType) finish() {
	t.build(KindRefType, T(t.Ref), T(t.Cursor), T(t.Return), N(t.Target), Ts(t.NotNull))
}

// IsCursor reports whether the type is a cursor variable type.
func (t *RefType) IsCursor() bool { return t.Cursor != nil }

// IsWeak reports whether a REF CURSOR has no RETURN clause.
func (t *RefType) IsWeak() bool { return t.Cursor != nil && t.Return == nil }

// TableType is TABLE OF elem [INDEX BY key].
type TableType struct {
	Node
	Table *token.Token
	Of    *token.Token
	Elem  TypeExpr
	Index *token.Token
	By    *token.Token
	Key   TypeExpr
}

func (t *TableType) finish() {
	t.build(KindTableType, T(t.Table), T(t.Of), N(t.Elem), T(t.Index), T(t.By), N(t.Key))
}

// LengthRestriction is (n [CHAR|BYTE]).
type LengthRestriction struct {
	Node
	LParen    *token.Token
	Length    *token.Token
	Semantics *token.Token
	RParen    *token.Token
}

func (r *LengthRestriction) finish() {
	r.build(KindLengthRestriction, T(r.LParen), T(r.Length), T(r.Semantics), T(r.RParen))
}

// PrecisionRestriction is (p [, [-]s]). Precision may be '*'.
type PrecisionRestriction struct {
	Node
	LParen    *token.Token
	Precision *token.Token
	Comma     *token.Token
	Sign      *token.Token
	Scale     *token.Token
	RParen    *token.Token
}

func (r *PrecisionRestriction) finish() {
	r.build(KindPrecisionRestriction, T(r.LParen), T(r.Precision), T(r.Comma), T(r.Sign), T(r.Scale),
		T(r.RParen))
}

// RangeRestriction is RANGE low .. high.
type RangeRestriction struct {
	Node
	Range  *token.Token
	Low    Expr
	DotDot *token.Token
	High   Expr
}

func (r *RangeRestriction) finish() {
	r.build(KindRangeRestriction, T(r.Range), N(r.Low), T(r.DotDot), N(r.High))
}

// TypeName renders a type expression on one line in canonical case.
func TypeName(t TypeExpr) string {
	switch v := t.(type) {
	case nil:
		return ""
	case *NamedType:
		return v.BaseName() + restrictionText(v.Restriction)
	case *IntervalType:
		var sb strings.Builder
		sb.WriteString("INTERVAL ")
		sb.WriteString(v.Leading.Word())
		sb.WriteString(restrictionText(v.LeadPrec))
		sb.WriteString(" TO ")
		sb.WriteString(v.Trailing.Word())
		sb.WriteString(restrictionText(v.TrailPrec))
		return sb.String()
	case *TimestampType:
		s := "TIMESTAMP" + restrictionText(v.Precision)
		for _, w := range v.With {
			s += " " + w.Word()
		}
		return s
	case *RefType:
		switch {
		case v.Cursor != nil && v.Target != nil:
			return "REF CURSOR RETURN " + TypeName(v.Target)
		case v.Cursor != nil:
			return "REF CURSOR"
		}
		return "REF " + TypeName(v.Target)
	case *TableType:
		s := "TABLE OF " + TypeName(v.Elem)
		if v.Key != nil {
			s += " INDEX BY " + TypeName(v.Key)
		}
		return s
	}
	return ""
}

func restrictionText(r Restriction) string {
	switch v := r.(type) {
	case *LengthRestriction:
		if v == nil {
			return ""
		}
		if v.Semantics != nil {
			return "(" + v.Length.Text + " " + v.Semantics.Word() + ")"
		}
		return "(" + v.Length.Text + ")"
	case *PrecisionRestriction:
		if v == nil {
			return ""
		}
		s := "(" + v.Precision.Text
		if v.Scale != nil {
			s += ","
			if v.Sign != nil {
				s += v.Sign.Text
			}
			s += v.Scale.Text
		}
		return s + ")"
	case *RangeRestriction:
		if v == nil {
			return ""
		}
		return " RANGE " + ExprValue(v.Low) + ".." + ExprValue(v.High)
	}
	return ""
}

func (*NamedType) typeNode()     {}
func (*IntervalType) typeNode()  {}
func (*TimestampType) typeNode() {}
func (*RefType) typeNode()       {}
func (*TableType) typeNode()     {}

func (*LengthRestriction) restrictionNode()    {}
func (*PrecisionRestriction) restrictionNode() {}
func (*RangeRestriction) restrictionNode()     {}

package ast

import (
	"strings"

	"plsqldoc/internal/names"
	"plsqldoc/internal/token"
)

func nameOf(tok *token.Token) names.Name {
	if tok == nil {
		return names.Name{}
	}
	return names.Must(tok)
}

// SubtypeDecl is SUBTYPE name IS type;
type SubtypeDecl struct {
	declBase
	Subtype *token.Token
	NameTok *token.Token
	Is      *token.Token
	Type    TypeExpr
	Semi    *token.Token
}

func (d *SubtypeDecl) finish() {
	d.build(KindSubtypeDecl, T(d.Subtype), T(d.NameTok), T(d.Is), N(d.Type), T(d.Semi))
}

func (d *SubtypeDecl) DeclName() names.Name { return nameOf(d.NameTok) }

// RecordTypeDecl is TYPE name IS RECORD (fields);
type RecordTypeDecl struct {
	declBase
	TypeTok *token.Token
	NameTok *token.Token
	Is      *token.Token
	Record  *token.Token
	LParen  *token.Token
	Fields  []*RecordField
	Commas  []*token.Token
	RParen  *token.Token
	Semi    *token.Token
}

func (d *RecordTypeDecl) finish() {
	d.build(KindRecordTypeDecl, T(d.TypeTok), T(d.NameTok), T(d.Is), T(d.Record), T(d.LParen),
		Sep(d.Fields, d.Commas), T(d.RParen), T(d.Semi))
}

func (d *RecordTypeDecl) DeclName() names.Name { return nameOf(d.NameTok) }

// RecordField is one field of a record type.
type RecordField struct {
	Node
	NameTok *token.Token
	Type    TypeExpr
	Assign  *token.Token // := or DEFAULT
	Default Expr
}

func (f *RecordField) finish() {
	f.build(KindRecordField, T(f.NameTok), N(f.Type), T(f.Assign), N(f.Default))
}

func (f *RecordField) Name() names.Name { return nameOf(f.NameTok) }

// CollectionTypeDecl is TYPE name IS TABLE OF ...;
type CollectionTypeDecl struct {
	declBase
	TypeTok *token.Token
	NameTok *token.Token
	Is      *token.Token
	Table   *TableType
	Semi    *token.Token
}

func (d *CollectionTypeDecl) finish() {
	d.build(KindCollectionTypeDecl, T(d.TypeTok), T(d.NameTok), T(d.Is), N(d.Table), T(d.Semi))
}

func (d *CollectionTypeDecl) DeclName() names.Name { return nameOf(d.NameTok) }

// IsAssociative reports whether the collection has an INDEX BY clause.
func (d *CollectionTypeDecl) IsAssociative() bool { return d.Table != nil && d.Table.Index != nil }

// RefCursorTypeDecl is TYPE name IS REF CURSOR [RETURN type];
type RefCursorTypeDecl struct {
	declBase
	TypeTok *token.Token
	NameTok *token.Token
	Is      *token.Token
	Ref     *RefType
	Semi    *token.Token
}

func (d *RefCursorTypeDecl) finish() {
	d.build(KindRefCursorTypeDecl, T(d.TypeTok), T(d.NameTok), T(d.Is), N(d.Ref), T(d.Semi))
}

func (d *RefCursorTypeDecl) DeclName() names.Name { return nameOf(d.NameTok) }

// TypeDecl is any other TYPE declaration, kept as tokens.
type TypeDecl struct {
	declBase
	TypeTok *token.Token
	NameTok *token.Token
	Is      *token.Token
	Toks    []*token.Token
	Semi    *token.Token
}

func (d *TypeDecl) finish() {
	d.build(KindTypeDecl, T(d.TypeTok), T(d.NameTok), T(d.Is), Ts(d.Toks), T(d.Semi))
}

func (d *TypeDecl) DeclName() names.Name { return nameOf(d.NameTok) }

// ParamList is ( param, ... ).
type ParamList struct {
	Node
	LParen *token.Token
	Params []*Parameter
	Commas []*token.Token
	RParen *token.Token
}

func (l *ParamList) finish() {
	l.build(KindParamList, T(l.LParen), Sep(l.Params, l.Commas), T(l.RParen))
}

// Parameter is name [IN|OUT|IN OUT] [NOCOPY] type [:= expr].
type Parameter struct {
	Node
	NameTok *token.Token
	Mode    []*token.Token
	Type    TypeExpr
	Assign  *token.Token
	Default Expr
}

func (p *Parameter) finish() {
	p.build(KindParameter, T(p.NameTok), Ts(p.Mode), N(p.Type), T(p.Assign), N(p.Default))
}

func (p *Parameter) Name() names.Name { return nameOf(p.NameTok) }

// ModeString is "IN", "OUT" or "IN OUT"; IN when no mode was written.
func (p *Parameter) ModeString() string {
	in, out := false, false
	for _, m := range p.Mode {
		switch {
		case m.Is("IN"):
			in = true
		case m.Is("OUT"):
			out = true
		}
	}
	switch {
	case in && out:
		return "IN OUT"
	case out:
		return "OUT"
	}
	return "IN"
}

// NoCopy reports whether NOCOPY was given.
func (p *Parameter) NoCopy() bool {
	for _, m := range p.Mode {
		if m.Is("NOCOPY") {
			return true
		}
	}
	return false
}

// RoutineHeading is [modifiers] FUNCTION|PROCEDURE name [(params)]
// [RETURN type | RETURN SELF AS RESULT] [properties].
type RoutineHeading struct {
	Node
	Modifiers    []*token.Token
	Kw           *token.Token
	NameToks     []*token.Token
	Name         names.Name
	Params       *ParamList
	Return       *token.Token
	ReturnType   TypeExpr
	SelfAsResult []*token.Token
	Props        []*Property
	// ResultName is the owning type of a constructor, patched in once known.
	ResultName names.Name
}

func (h *RoutineHeading) finish() {
	h.build(KindRoutineHeading, Ts(h.Modifiers), T(h.Kw), Ts(h.NameToks), N(h.Params), T(h.Return),
		N(h.ReturnType), Ts(h.SelfAsResult), Ns(h.Props))
}

// IsFunction reports whether the routine returns a value.
func (h *RoutineHeading) IsFunction() bool { return h.Kw != nil && h.Kw.Is("FUNCTION") }

// IsConstructor reports whether the heading declares an object constructor.
func (h *RoutineHeading) IsConstructor() bool { return h.HasModifier("CONSTRUCTOR") }

// HasModifier reports whether the heading carries the modifier word.
func (h *RoutineHeading) HasModifier(word string) bool {
	for _, m := range h.Modifiers {
		if m.Is(word) {
			return true
		}
	}
	return false
}

// PatchResult records the type a constructor returns. Only the first call
// has an effect.
func (h *RoutineHeading) PatchResult(owner names.Name) {
	if h.ResultName.IsZero() {
		h.ResultName = owner
	}
}

// ReturnTypeName is the textual return type, "" for procedures.
func (h *RoutineHeading) ReturnTypeName() string {
	switch {
	case h.ReturnType != nil:
		return TypeName(h.ReturnType)
	case !h.ResultName.IsZero():
		return h.ResultName.Value()
	case len(h.SelfAsResult) > 0:
		return "SELF"
	}
	return ""
}

// ParamsOrNil returns the declared parameters (nil without a list).
func (h *RoutineHeading) ParamsOrNil() []*Parameter {
	if h.Params == nil {
		return nil
	}
	return h.Params.Params
}

// UniqueID is the routine name folded with its parameter type values. A
// routine without a parameter list has no list; "()" is never valid PL/SQL.
func (h *RoutineHeading) UniqueID() names.UniqueID {
	if h.Params == nil {
		return names.IDOf(h.Name)
	}
	values := make([]string, 0, len(h.Params.Params))
	for _, p := range h.Params.Params {
		values = append(values, TypeName(p.Type))
	}
	return names.IDWithParams(h.Name, values...)
}

// Signature renders name(mode type, ...) [RETURN type] on one line.
func (h *RoutineHeading) Signature() string {
	var sb strings.Builder
	sb.WriteString(h.Name.Text())
	if h.Params != nil {
		sb.WriteByte('(')
		for i, p := range h.Params.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.NameTok.Text)
			sb.WriteByte(' ')
			if len(p.Mode) > 0 {
				sb.WriteString(p.ModeString())
				if p.NoCopy() {
					sb.WriteString(" NOCOPY")
				}
				sb.WriteByte(' ')
			}
			sb.WriteString(TypeName(p.Type))
		}
		sb.WriteByte(')')
	}
	if rt := h.ReturnTypeName(); rt != "" {
		sb.WriteString(" RETURN ")
		sb.WriteString(rt)
	}
	return sb.String()
}

// RoutineDecl is a nested or packaged routine: a forward declaration
// (heading;), a definition (heading IS ... END;) or an object method.
type RoutineDecl struct {
	declBase
	Heading *RoutineHeading
	Is      *token.Token
	Body    *Block
	Semi    *token.Token
}

func (d *RoutineDecl) finish() {
	d.build(KindRoutineDecl, N(d.Heading), T(d.Is), N(d.Body), T(d.Semi))
}

func (d *RoutineDecl) DeclName() names.Name { return d.Heading.Name }

// UniqueID folds the parameter types into the name.
func (d *RoutineDecl) UniqueID() names.UniqueID { return d.Heading.UniqueID() }

// IsDefinition reports whether the routine has a body.
func (d *RoutineDecl) IsDefinition() bool { return d.Body != nil }

// PragmaDecl is PRAGMA name [(args)];
type PragmaDecl struct {
	declBase
	Pragma  *token.Token
	NameTok *token.Token
	LParen  *token.Token
	Args    []Expr
	Commas  []*token.Token
	RParen  *token.Token
	Semi    *token.Token
	Hints   SearchHints
}

func (d *PragmaDecl) finish() {
	d.build(KindPragmaDecl, T(d.Pragma), T(d.NameTok), T(d.LParen), Sep(d.Args, d.Commas),
		T(d.RParen), T(d.Semi))
}

// DeclName of a pragma is the pragma name itself.
func (d *PragmaDecl) DeclName() names.Name { return nameOf(d.NameTok) }

// PragmaName is the upper-cased pragma name.
func (d *PragmaDecl) PragmaName() string { return d.NameTok.Word() }

// Spec returns the catalogue entry of the pragma.
func (d *PragmaDecl) Spec() (PragmaSpec, bool) { return LookupPragma(d.PragmaName()) }

// Target is the name the pragma refers to: its first argument when that
// is a plain reference. RESTRICT_REFERENCES(DEFAULT, ...) has no target.
func (d *PragmaDecl) Target() names.Name {
	if len(d.Args) == 0 {
		return names.Name{}
	}
	if ref, ok := d.Args[0].(*Reference); ok && ref.Attr == nil {
		return ref.Name
	}
	return names.Name{}
}

// IsDefault reports whether the first argument is the DEFAULT keyword.
func (d *PragmaDecl) IsDefault() bool {
	if len(d.Args) == 0 {
		return false
	}
	ref, ok := d.Args[0].(*Reference)
	return ok && ref.Name.Count() == 1 && ref.Name.Parts()[0].Is("DEFAULT")
}

// CursorDecl is CURSOR name [(params)] [RETURN type] [IS query];
type CursorDecl struct {
	declBase
	Cursor     *token.Token
	NameTok    *token.Token
	Params     *ParamList
	Return     *token.Token
	ReturnType TypeExpr
	Is         *token.Token
	Query      *Subquery
	Semi       *token.Token
}

func (d *CursorDecl) finish() {
	d.build(KindCursorDecl, T(d.Cursor), T(d.NameTok), N(d.Params), T(d.Return), N(d.ReturnType),
		T(d.Is), N(d.Query), T(d.Semi))
}

func (d *CursorDecl) DeclName() names.Name { return nameOf(d.NameTok) }

// IsDefinition reports whether the cursor carries its query.
func (d *CursorDecl) IsDefinition() bool { return d.Is != nil }

// VariableDecl is name type [:= expr];
type VariableDecl struct {
	declBase
	NameTok *token.Token
	Type    TypeExpr
	Assign  *token.Token
	Default Expr
	Semi    *token.Token
}

func (d *VariableDecl) finish() {
	d.build(KindVariableDecl, T(d.NameTok), N(d.Type), T(d.Assign), N(d.Default), T(d.Semi))
}

func (d *VariableDecl) DeclName() names.Name { return nameOf(d.NameTok) }

// ConstantDecl is name CONSTANT type := expr;
type ConstantDecl struct {
	declBase
	NameTok  *token.Token
	Constant *token.Token
	Type     TypeExpr
	Assign   *token.Token
	Value    Expr
	Semi     *token.Token
}

func (d *ConstantDecl) finish() {
	d.build(KindConstantDecl, T(d.NameTok), T(d.Constant), N(d.Type), T(d.Assign), N(d.Value), T(d.Semi))
}

func (d *ConstantDecl) DeclName() names.Name { return nameOf(d.NameTok) }

// ExceptionDecl is name EXCEPTION;
type ExceptionDecl struct {
	declBase
	NameTok   *token.Token
	Exception *token.Token
	Semi      *token.Token
}

func (d *ExceptionDecl) finish() {
	d.build(KindExceptionDecl, T(d.NameTok), T(d.Exception), T(d.Semi))
}

func (d *ExceptionDecl) DeclName() names.Name { return nameOf(d.NameTok) }

// ErrorID returns the ORA code bound by EXCEPTION_INIT, or "".
func (d *ExceptionDecl) ErrorID() string {
	for _, a := range d.annotations {
		if a.Kind == AnnExceptionInit {
			return a.ErrorID
		}
	}
	return ""
}

// AttributeDecl is an object type attribute: name type.
type AttributeDecl struct {
	declBase
	NameTok *token.Token
	Type    TypeExpr
}

func (d *AttributeDecl) finish() {
	d.build(KindAttributeDecl, T(d.NameTok), N(d.Type))
}

func (d *AttributeDecl) DeclName() names.Name { return nameOf(d.NameTok) }

// SkippedDecl holds the tokens of a package specification item that could
// not be read, up to and including its ';'.
type SkippedDecl struct {
	declBase
	Toks []*token.Token
	Semi *token.Token
	Err  error
}

func (d *SkippedDecl) finish() {
	d.build(KindSkippedDecl, Ts(d.Toks), T(d.Semi))
}

func (d *SkippedDecl) DeclName() names.Name { return names.Name{} }

package ast

import (
	"strings"

	"plsqldoc/internal/names"
	"plsqldoc/internal/token"
)

// Unit is a top-level item of a script.
type Unit interface {
	Syntax
	unitNode()
}

// Script is a whole parsed file. EOF carries the trailing trivia.
type Script struct {
	Node
	Units []Unit
	EOF   *token.Token
}

func (s *Script) finish() {
	s.build(KindScript, Ns(s.Units), T(s.EOF))
}

// CreatePrefix is CREATE [OR REPLACE] [EDITIONABLE|NONEDITIONABLE].
type CreatePrefix struct {
	Node
	Create      *token.Token
	Or          *token.Token
	Replace     *token.Token
	Editionable *token.Token
}

func (p *CreatePrefix) finish() {
	p.build(KindCreatePrefix, T(p.Create), T(p.Or), T(p.Replace), T(p.Editionable))
}

// OrReplace reports whether OR REPLACE was given.
func (p *CreatePrefix) OrReplace() bool { return p != nil && p.Replace != nil }

// Terminator is ';' optionally followed by '/'.
type Terminator struct {
	Node
	Semi  *token.Token
	Slash *token.Token
}

func (t *Terminator) finish() {
	t.build(KindTerminator, T(t.Semi), T(t.Slash))
}

// Property is a unit or routine property such as AUTHID DEFINER or
// RESULT_CACHE RELIES_ON (t). Words holds every token of it.
type Property struct {
	Node
	Words []*token.Token
}

func (p *Property) finish() {
	p.build(KindProperty, Ts(p.Words))
}

// Keyword is the property name: "AUTHID", "ACCESSIBLE BY", "PARALLEL_ENABLE", ...
func (p *Property) Keyword() string {
	if len(p.Words) == 0 {
		return ""
	}
	kw := p.Words[0].Word()
	switch kw {
	case "ACCESSIBLE", "DEFAULT", "AGGREGATE":
		if len(p.Words) > 1 {
			kw += " " + p.Words[1].Word()
		}
	}
	return kw
}

// Value is the text after the keyword, e.g. "DEFINER" for AUTHID DEFINER.
func (p *Property) Value() string {
	skip := len(strings.Fields(p.Keyword()))
	var parts []string
	for _, w := range p.Words[min(skip, len(p.Words)):] {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

// PackageSpec is CREATE PACKAGE name ... IS decls END [name];
type PackageSpec struct {
	declBase
	Prefix   *CreatePrefix
	Package  *token.Token
	NameToks []*token.Token
	Name     names.Name
	Props    []*Property
	Is       *token.Token
	Decls    []Decl
	End      *token.Token
	EndName  *token.Token
	Term     *Terminator
}

func (p *PackageSpec) finish() {
	p.build(KindPackageSpec, N(p.Prefix), T(p.Package), Ts(p.NameToks), Ns(p.Props), T(p.Is),
		Ns(p.Decls), T(p.End), T(p.EndName), N(p.Term))
}

func (p *PackageSpec) DeclName() names.Name { return p.Name }

// PackageBody is CREATE PACKAGE BODY name IS decls [BEGIN stmts] END [name];
type PackageBody struct {
	declBase
	Prefix   *CreatePrefix
	Package  *token.Token
	BodyTok  *token.Token
	NameToks []*token.Token
	Name     names.Name
	Props    []*Property
	Is       *token.Token
	Body     *Block
	Term     *Terminator
}

func (p *PackageBody) finish() {
	p.build(KindPackageBody, N(p.Prefix), T(p.Package), T(p.BodyTok), Ts(p.NameToks), Ns(p.Props),
		T(p.Is), N(p.Body), N(p.Term))
}

func (p *PackageBody) DeclName() names.Name { return p.Name }

// Decls returns the declarations of the body.
func (p *PackageBody) Decls() []Decl {
	if p.Body == nil {
		return nil
	}
	return p.Body.Decls
}

// RoutineUnit is a standalone CREATE FUNCTION / PROCEDURE.
type RoutineUnit struct {
	declBase
	Prefix  *CreatePrefix
	Heading *RoutineHeading
	Is      *token.Token
	Body    *Block
	Term    *Terminator
}

func (r *RoutineUnit) finish() {
	r.build(KindRoutineUnit, N(r.Prefix), N(r.Heading), T(r.Is), N(r.Body), N(r.Term))
}

func (r *RoutineUnit) DeclName() names.Name { return r.Heading.Name }

// UniqueID folds the parameter types into the name.
func (r *RoutineUnit) UniqueID() names.UniqueID { return r.Heading.UniqueID() }

// ObjectType is CREATE TYPE name AS OBJECT (...) or UNDER super (...).
type ObjectType struct {
	declBase
	Prefix        *CreatePrefix
	TypeTok       *token.Token
	NameToks      []*token.Token
	Name          names.Name
	Force         *token.Token
	OID           []*token.Token
	Props         []*Property
	Is            *token.Token // IS / AS
	ObjectTok     *token.Token
	Under         *token.Token
	SupertypeToks []*token.Token
	Supertype     names.Name
	LParen        *token.Token
	Members       []Decl
	Commas        []*token.Token
	RParen        *token.Token
	Modifiers     []*token.Token // [NOT] FINAL / INSTANTIABLE / PERSISTABLE
	Term          *Terminator
}

func (o *ObjectType) finish() {
	o.build(KindObjectType, N(o.Prefix), T(o.TypeTok), Ts(o.NameToks), T(o.Force), Ts(o.OID),
		Ns(o.Props), T(o.Is), T(o.ObjectTok), T(o.Under), Ts(o.SupertypeToks), T(o.LParen),
		Sep(o.Members, o.Commas), T(o.RParen), Ts(o.Modifiers), N(o.Term))
}

func (o *ObjectType) DeclName() names.Name { return o.Name }

// IsSubtype reports whether the type is declared UNDER a supertype.
func (o *ObjectType) IsSubtype() bool { return o.Under != nil }

// NestedTableType is CREATE TYPE name AS TABLE OF elem.
type NestedTableType struct {
	declBase
	Prefix   *CreatePrefix
	TypeTok  *token.Token
	NameToks []*token.Token
	Name     names.Name
	Force    *token.Token
	Props    []*Property
	Is       *token.Token
	Table    *TableType
	Term     *Terminator
}

func (n *NestedTableType) finish() {
	n.build(KindNestedTableType, N(n.Prefix), T(n.TypeTok), Ts(n.NameToks), T(n.Force), Ns(n.Props),
		T(n.Is), N(n.Table), N(n.Term))
}

func (n *NestedTableType) DeclName() names.Name { return n.Name }

// Synonym is CREATE [PUBLIC] SYNONYM name FOR target[@link].
type Synonym struct {
	declBase
	Prefix     *CreatePrefix
	Public     *token.Token
	SynonymTok *token.Token
	NameToks   []*token.Token
	Name       names.Name
	For        *token.Token
	TargetToks []*token.Token
	Target     names.Name
	Link       []*token.Token // @ dblink
	Term       *Terminator
}

func (s *Synonym) finish() {
	s.build(KindSynonym, N(s.Prefix), T(s.Public), T(s.SynonymTok), Ts(s.NameToks), T(s.For),
		Ts(s.TargetToks), Ts(s.Link), N(s.Term))
}

func (s *Synonym) DeclName() names.Name { return s.Name }

// OpaqueUnit is a CREATE statement kept as text (triggers, type bodies, DDL).
type OpaqueUnit struct {
	declBase
	Prefix   *CreatePrefix
	UnitType string
	// Name is a best-effort guess, zero when the header could not be read.
	Name names.Name
	Toks []*token.Token
	Term *Terminator
}

func (o *OpaqueUnit) finish() {
	o.build(KindOpaqueUnit, N(o.Prefix), Ts(o.Toks), N(o.Term))
}

func (o *OpaqueUnit) DeclName() names.Name { return o.Name }

// Passthrough is a SQL statement at script level (GRANT, INSERT, ...).
type Passthrough struct {
	Node
	Verb string
	Toks []*token.Token
	Term *Terminator
}

func (p *Passthrough) finish() {
	p.build(KindPassthrough, Ts(p.Toks), N(p.Term))
}

// AnonymousBlock is [DECLARE ...] BEGIN ... END; at script level.
type AnonymousBlock struct {
	Node
	Labels []*Label
	Block  *Block
	Term   *Terminator
}

func (a *AnonymousBlock) finish() {
	a.build(KindAnonymousBlock, Ns(a.Labels), N(a.Block), N(a.Term))
}

// SQLPlusCommand is a client command running to the end of its line.
type SQLPlusCommand struct {
	Node
	Command string
	Toks    []*token.Token
}

func (c *SQLPlusCommand) finish() {
	c.build(KindSQLPlusCommand, Ts(c.Toks))
}

// Directive is a conditional compilation directive: $IF cond $THEN,
// $ELSIF cond $THEN, $ELSE, $END or $ERROR expr $END. It may appear as a
// unit, a declaration or a statement.
type Directive struct {
	declBase
	Keyword *token.Token
	Cond    Expr
	Then    *token.Token
	End     *token.Token
}

func (d *Directive) finish() {
	d.build(KindDirective, T(d.Keyword), N(d.Cond), T(d.Then), T(d.End))
}

func (d *Directive) DeclName() names.Name { return names.Name{} }

// Word is the directive keyword in upper case, e.g. "$IF".
func (d *Directive) Word() string { return strings.ToUpper(d.Keyword.Text) }

// EmptyUnit is a lone '/' or ';'.
type EmptyUnit struct {
	Node
	Term *Terminator
}

func (e *EmptyUnit) finish() {
	e.build(KindEmptyUnit, N(e.Term))
}

// ErrorUnit holds the tokens skipped after a failed unit.
type ErrorUnit struct {
	Node
	Toks []*token.Token
	Err  error
}

func (e *ErrorUnit) finish() {
	e.build(KindErrorUnit, Ts(e.Toks))
}

func (*PackageSpec) unitNode()     {}
func (*PackageBody) unitNode()     {}
func (*RoutineUnit) unitNode()     {}
func (*ObjectType) unitNode()      {}
func (*NestedTableType) unitNode() {}
func (*Synonym) unitNode()         {}
func (*OpaqueUnit) unitNode()      {}
func (*Passthrough) unitNode()     {}
func (*AnonymousBlock) unitNode()  {}
func (*SQLPlusCommand) unitNode()  {}
func (*Directive) unitNode()       {}
func (*EmptyUnit) unitNode()       {}
func (*ErrorUnit) unitNode()       {}

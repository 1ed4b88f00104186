package outline

import (
	"strings"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/token"
)

// Member kinds.
const (
	KindFunction    = "function"
	KindProcedure   = "procedure"
	KindType        = "type"
	KindSubtype     = "subtype"
	KindVariable    = "variable"
	KindConstant    = "constant"
	KindException   = "exception"
	KindCursor      = "cursor"
	KindAttribute   = "attribute"
	KindConstructor = "constructor"
)

// Build extracts the outline of script. file is recorded as given.
func Build(file string, script *ast.Script) *Outline {
	o := &Outline{File: file}
	if script == nil {
		return o
	}
	for _, u := range script.Units {
		if _, ok := u.(*ast.ErrorUnit); ok {
			o.Errors++
			continue
		}
		if unit := buildUnit(u); unit != nil {
			o.Units = append(o.Units, unit)
		}
	}
	return o
}

func buildUnit(u ast.Unit) *Unit {
	switch v := u.(type) {
	case *ast.PackageSpec:
		unit := newUnit("PACKAGE", v, v.Prefix)
		unit.Properties = properties(v.Props)
		unit.Members = members(v.Decls, false)
		return unit
	case *ast.PackageBody:
		unit := newUnit("PACKAGE BODY", v, v.Prefix)
		unit.Properties = properties(v.Props)
		unit.Members = members(v.Decls(), true)
		return unit
	case *ast.RoutineUnit:
		kind := "PROCEDURE"
		if v.Heading.IsFunction() {
			kind = "FUNCTION"
		}
		unit := newUnit(kind, v, v.Prefix)
		unit.ID = v.UniqueID().Value()
		unit.Signature = v.Heading.Signature()
		unit.Properties = properties(v.Heading.Props)
		if v.Body != nil {
			unit.Members = members(v.Body.Decls, true)
		}
		return unit
	case *ast.ObjectType:
		unit := newUnit("TYPE", v, v.Prefix)
		unit.Properties = properties(v.Props)
		if v.IsSubtype() {
			unit.Supertype = v.Supertype.Value()
		}
		unit.Members = members(v.Members, false)
		return unit
	case *ast.NestedTableType:
		unit := newUnit("TYPE", v, v.Prefix)
		unit.Properties = properties(v.Props)
		unit.Type = ast.TypeName(v.Table)
		return unit
	case *ast.Synonym:
		kind := "SYNONYM"
		if v.Public != nil {
			kind = "PUBLIC SYNONYM"
		}
		unit := newUnit(kind, v, v.Prefix)
		unit.Target = v.Target.Value()
		return unit
	case *ast.OpaqueUnit:
		if v.Name.IsZero() {
			return nil
		}
		return newUnit(v.UnitType, v, v.Prefix)
	}
	return nil
}

func newUnit(kind string, d ast.Decl, prefix *ast.CreatePrefix) *Unit {
	name := d.DeclName()
	return &Unit{
		Kind:        kind,
		Name:        name.Value(),
		Text:        name.Text(),
		Pos:         posOf(d.Base().Span()),
		OrReplace:   prefix.OrReplace(),
		Doc:         docOf(d),
		Annotations: annotationsOf(d),
	}
}

func members(decls []ast.Decl, definitions bool) []*Member {
	var out []*Member
	for _, d := range decls {
		if m := member(d); m != nil {
			out = append(out, m)
		}
	}
	if definitions {
		for _, m := range out {
			if m.Kind == KindFunction || m.Kind == KindProcedure {
				m.Definition = true
			}
		}
	}
	return out
}

func member(d ast.Decl) *Member {
	m := &Member{}
	switch v := d.(type) {
	case *ast.RoutineDecl:
		h := v.Heading
		switch {
		case h.IsConstructor():
			m.Kind = KindConstructor
		case h.IsFunction():
			m.Kind = KindFunction
		default:
			m.Kind = KindProcedure
		}
		m.ID = v.UniqueID().Value()
		m.Signature = h.Signature()
		m.Returns = h.ReturnTypeName()
		m.Params = params(h.ParamsOrNil())
		m.Definition = v.IsDefinition()
	case *ast.SubtypeDecl:
		m.Kind = KindSubtype
		m.Type = ast.TypeName(v.Type)
	case *ast.RecordTypeDecl:
		m.Kind = KindType
		m.Type = "RECORD"
		for _, f := range v.Fields {
			m.Fields = append(m.Fields, Field{Name: f.Name().Value(), Type: ast.TypeName(f.Type), Default: ast.ExprValue(f.Default)})
		}
	case *ast.CollectionTypeDecl:
		m.Kind = KindType
		m.Type = ast.TypeName(v.Table)
	case *ast.RefCursorTypeDecl:
		m.Kind = KindType
		m.Type = ast.TypeName(v.Ref)
	case *ast.TypeDecl:
		m.Kind = KindType
		m.Type = joinTokens(v.Toks)
	case *ast.VariableDecl:
		m.Kind = KindVariable
		m.Type = ast.TypeName(v.Type)
		m.Default = ast.ExprValue(v.Default)
	case *ast.ConstantDecl:
		m.Kind = KindConstant
		m.Type = ast.TypeName(v.Type)
		m.Default = ast.ExprValue(v.Value)
	case *ast.ExceptionDecl:
		m.Kind = KindException
	case *ast.CursorDecl:
		m.Kind = KindCursor
		if v.Params != nil {
			m.Params = params(v.Params.Params)
		}
		m.Returns = ast.TypeName(v.ReturnType)
		m.Definition = v.IsDefinition()
	case *ast.AttributeDecl:
		m.Kind = KindAttribute
		m.Type = ast.TypeName(v.Type)
	default:
		// pragmas, directives and skipped items are not documented
		return nil
	}
	name := d.DeclName()
	m.Name, m.Text = name.Value(), name.Text()
	m.Pos = posOf(d.Base().Span())
	m.Doc = docOf(d)
	m.Annotations = annotationsOf(d)
	return m
}

func params(ps []*ast.Parameter) []Param {
	out := make([]Param, 0, len(ps))
	for _, p := range ps {
		out = append(out, Param{
			Name:    p.Name().Value(),
			Mode:    p.ModeString(),
			NoCopy:  p.NoCopy(),
			Type:    ast.TypeName(p.Type),
			Default: ast.ExprValue(p.Default),
		})
	}
	return out
}

func properties(props []*ast.Property) []Property {
	var out []Property
	for _, p := range props {
		out = append(out, Property{Name: p.Keyword(), Value: p.Value()})
	}
	return out
}

func annotationsOf(d ast.Decl) []Annotation {
	var out []Annotation
	for _, a := range d.Annotations() {
		out = append(out, Annotation{Kind: a.Kind.String(), Message: a.Message, ErrorID: a.ErrorID})
	}
	return out
}

func joinTokens(toks []*token.Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

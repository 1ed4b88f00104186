package parser

import (
	"errors"
	"fmt"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/names"
	"plsqldoc/internal/stream"
	"plsqldoc/internal/token"
)

// parseDecls reads declarations up to BEGIN, END or EOF. In a package
// specification an unreadable item is reported and skipped to its ';'.
func (p *Parser) parseDecls(inSpec bool) ([]ast.Decl, error) {
	var decls []ast.Decl
	for !p.c.EOF() && !p.atWord("BEGIN", "END") {
		m := p.c.Mark()
		d, err := p.parseDecl()
		if err == nil {
			decls = append(decls, d)
			continue
		}
		var se *diag.SyntaxError
		if !inSpec || !errors.As(err, &se) || se.AtEOF {
			return nil, err
		}
		p.c.Reset(m)
		p.report(diag.SynUnexpectedInSpec, diag.SevError, se.Span, err.Error())
		toks := p.scanToSemi()
		if len(toks) == 0 && !p.at(pSemi) {
			// nothing to skip: stray '/' or EOF
			return nil, err
		}
		decls = append(decls, ast.Finish(&ast.SkippedDecl{Toks: toks, Semi: p.accept(pSemi), Err: err}))
	}
	return decls, nil
}

// parseDecl выбирает распознаватель объявления по первому токену.
func (p *Parser) parseDecl() (ast.Decl, error) {
	tok := p.peek()
	switch {
	case tok.Kind == token.Preprocessor:
		return p.parseDirective()
	case tok.Is("SUBTYPE"):
		return p.parseSubtype()
	case tok.Is("TYPE"):
		return p.parseTypeDecl()
	case tok.Is("FUNCTION") || tok.Is("PROCEDURE"):
		return p.parseRoutineDecl()
	case tok.Is("PRAGMA"):
		return p.parsePragma(false)
	case tok.Is("CURSOR"):
		return p.parseCursor()
	}
	return p.parseVariable()
}

// parseBody reads the part of a routine or package body after IS/AS:
// decls BEGIN stmts [EXCEPTION handlers] END [name]. A package body may
// omit BEGIN.
func (p *Parser) parseBody(owner names.Name, optionalBegin bool) (*ast.Block, error) {
	b := &ast.Block{}
	var err error
	if b.Decls, err = p.parseDecls(false); err != nil {
		return nil, err
	}
	if optionalBegin {
		b.Begin = p.acceptWord("BEGIN")
	} else if b.Begin, err = p.expectWord("BEGIN"); err != nil {
		return nil, err
	}
	if b.Begin != nil {
		if err := p.parseBlockTail(b); err != nil {
			return nil, err
		}
	}
	if b.End, b.EndName, err = p.parseEndLabel(owner); err != nil {
		return nil, err
	}
	return ast.Finish(b), nil
}

// parseBlock reads [DECLARE decls] BEGIN ... END [label], with the ';' when
// withSemi is set.
func (p *Parser) parseBlock(withSemi bool) (*ast.Block, error) {
	b := &ast.Block{}
	var err error
	if b.Declare = p.acceptWord("DECLARE"); b.Declare != nil {
		if b.Decls, err = p.parseDecls(false); err != nil {
			return nil, err
		}
	}
	if b.Begin, err = p.expectWord("BEGIN"); err != nil {
		return nil, err
	}
	if err := p.parseBlockTail(b); err != nil {
		return nil, err
	}
	if b.End, b.EndName, err = p.parseEndLabel(names.Name{}); err != nil {
		return nil, err
	}
	if withSemi {
		if b.Semi, err = p.expect(pSemi); err != nil {
			return nil, err
		}
	}
	b = ast.Finish(b)
	p.resolve(nil, b.Decls)
	return b, nil
}

// parseBlockTail reads stmts [EXCEPTION handlers] after BEGIN.
func (p *Parser) parseBlockTail(b *ast.Block) error {
	var err error
	if b.Stmts, err = p.parseStmts(); err != nil {
		return err
	}
	if b.Exception = p.acceptWord("EXCEPTION"); b.Exception != nil {
		for p.atWord("WHEN") {
			h, err := p.parseHandler()
			if err != nil {
				return err
			}
			b.Handlers = append(b.Handlers, h)
		}
	}
	return nil
}

// parseHandler reads WHEN name [OR name ...] THEN stmts.
func (p *Parser) parseHandler() (*ast.ExceptionHandler, error) {
	h := &ast.ExceptionHandler{When: p.advance()}
	for {
		toks, n, err := p.parseName()
		if err != nil {
			return nil, err
		}
		h.ChoiceToks = append(h.ChoiceToks, toks...)
		h.Choices = append(h.Choices, n)
		or := p.acceptWord("OR")
		if or == nil {
			break
		}
		h.ChoiceToks = append(h.ChoiceToks, or)
	}
	var err error
	if h.Then, err = p.expectWord("THEN"); err != nil {
		return nil, err
	}
	if h.Stmts, err = p.parseStmts(); err != nil {
		return nil, err
	}
	return ast.Finish(h), nil
}

func (p *Parser) parseSubtype() (*ast.SubtypeDecl, error) {
	d := &ast.SubtypeDecl{Subtype: p.advance()}
	var err error
	if d.NameTok, err = p.expect(pIdent); err != nil {
		return nil, err
	}
	if d.Is, err = p.expect(pIsAs); err != nil {
		return nil, err
	}
	if d.Type, err = p.parseType(); err != nil {
		return nil, err
	}
	if d.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return commented(p, ast.Finish(d)), nil
}

// parseTypeDecl reads TYPE name IS RECORD | TABLE OF | REF CURSOR | other.
func (p *Parser) parseTypeDecl() (ast.Decl, error) {
	typeTok := p.advance()
	nameTok, err := p.expect(pIdent)
	if err != nil {
		return nil, err
	}
	is, err := p.expect(pIsAs)
	if err != nil {
		return nil, err
	}
	switch tok := p.peek(); {
	case tok.Is("RECORD"):
		return p.parseRecord(typeTok, nameTok, is)
	case tok.Is("TABLE"):
		table, err := p.parseTableType()
		if err != nil {
			return nil, err
		}
		semi, err := p.expect(pSemi)
		if err != nil {
			return nil, err
		}
		d := &ast.CollectionTypeDecl{TypeTok: typeTok, NameTok: nameTok, Is: is, Table: table, Semi: semi}
		return commented(p, ast.Finish(d)), nil
	case tok.Is("REF") && p.c.PeekN(1).Is("CURSOR"):
		ref, err := p.parseRefType()
		if err != nil {
			return nil, err
		}
		semi, err := p.expect(pSemi)
		if err != nil {
			return nil, err
		}
		d := &ast.RefCursorTypeDecl{TypeTok: typeTok, NameTok: nameTok, Is: is, Ref: ref, Semi: semi}
		return commented(p, ast.Finish(d)), nil
	case tok.Is("VARRAY") || tok.Is("VARYING"):
		return nil, &diag.NotImplementedError{Construct: "VARRAY", Span: tok.Span}
	}
	toks := p.scanToSemi()
	semi, err := p.expect(pSemi)
	if err != nil {
		return nil, err
	}
	d := &ast.TypeDecl{TypeTok: typeTok, NameTok: nameTok, Is: is, Toks: toks, Semi: semi}
	return commented(p, ast.Finish(d)), nil
}

func (p *Parser) parseRecord(typeTok, nameTok, is *token.Token) (ast.Decl, error) {
	d := &ast.RecordTypeDecl{TypeTok: typeTok, NameTok: nameTok, Is: is, Record: p.advance()}
	var err error
	if d.LParen, err = p.expect(pLParen); err != nil {
		return nil, err
	}
	for {
		f := &ast.RecordField{}
		if f.NameTok, err = p.expect(pIdent); err != nil {
			return nil, err
		}
		if f.Type, err = p.parseType(); err != nil {
			return nil, err
		}
		if f.Assign = p.accept(stream.Or(pAssign, pDefault)); f.Assign != nil {
			if f.Default, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		d.Fields = append(d.Fields, ast.Finish(f))
		c := p.accept(pComma)
		if c == nil {
			break
		}
		d.Commas = append(d.Commas, c)
	}
	if d.RParen, err = p.expect(pRParen); err != nil {
		return nil, err
	}
	if d.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return commented(p, ast.Finish(d)), nil
}

// parsePragma reads PRAGMA name [(args)]; object type members omit the ';'.
func (p *Parser) parsePragma(member bool) (*ast.PragmaDecl, error) {
	d := &ast.PragmaDecl{Pragma: p.advance()}
	var err error
	if d.NameTok, err = p.expect(pIdent); err != nil {
		return nil, err
	}
	if d.LParen = p.accept(pLParen); d.LParen != nil {
		for {
			var arg ast.Expr
			if def := p.accept(pDefault); def != nil {
				arg = ast.Finish(&ast.Reference{NameToks: []*token.Token{def}, Name: names.Must(def)})
			} else if arg, err = p.parseExpr(); err != nil {
				return nil, err
			}
			d.Args = append(d.Args, arg)
			c := p.accept(pComma)
			if c == nil {
				break
			}
			d.Commas = append(d.Commas, c)
		}
		if d.RParen, err = p.expect(pRParen); err != nil {
			return nil, err
		}
	}
	if !member {
		if d.Semi, err = p.expect(pSemi); err != nil {
			return nil, err
		}
	}
	spec, known := ast.LookupPragma(d.PragmaName())
	if known {
		d.Hints = spec.Hints
		if !spec.AcceptsArgs(len(d.Args)) {
			p.report(diag.SemaPragmaArgs, diag.SevWarning, d.NameTok.Span,
				fmt.Sprintf("PRAGMA %s takes %d..%d arguments, got %d", spec.Name, spec.MinArgs, spec.MaxArgs, len(d.Args)))
		}
	}
	if d.PragmaName() == "RESTRICT_REFERENCES" && d.IsDefault() {
		d.Hints = ast.SearchSiblings
	}
	return commented(p, ast.Finish(d)), nil
}

// parseCursor reads CURSOR name [(params)] [RETURN type] [IS query];
func (p *Parser) parseCursor() (*ast.CursorDecl, error) {
	d := &ast.CursorDecl{Cursor: p.advance()}
	var err error
	if d.NameTok, err = p.expect(pIdent); err != nil {
		return nil, err
	}
	if p.at(pLParen) {
		if d.Params, err = p.parseParamList(); err != nil {
			return nil, err
		}
	}
	if d.Return = p.acceptWord("RETURN"); d.Return != nil {
		if d.ReturnType, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if d.Is = p.acceptWord("IS"); d.Is != nil {
		toks := p.scanToSemi()
		if len(toks) == 0 {
			return nil, p.c.Expected("query")
		}
		d.Query = ast.Finish(&ast.Subquery{Toks: toks})
	}
	if d.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return commented(p, ast.Finish(d)), nil
}

// parseVariable reads name EXCEPTION; | name CONSTANT type := expr; |
// name type [:= expr];
func (p *Parser) parseVariable() (ast.Decl, error) {
	nameTok, err := p.expect(pIdent)
	if err != nil {
		return nil, err
	}
	if exc := p.acceptWord("EXCEPTION"); exc != nil {
		semi, err := p.expect(pSemi)
		if err != nil {
			return nil, err
		}
		return commented(p, ast.Finish(&ast.ExceptionDecl{NameTok: nameTok, Exception: exc, Semi: semi})), nil
	}
	if constant := p.acceptWord("CONSTANT"); constant != nil {
		d := &ast.ConstantDecl{NameTok: nameTok, Constant: constant}
		if d.Type, err = p.parseType(); err != nil {
			return nil, err
		}
		if d.Assign, err = p.expect(stream.Or(pAssign, pDefault).Named("':=' or DEFAULT")); err != nil {
			return nil, err
		}
		if d.Value, err = p.parseExpr(); err != nil {
			return nil, err
		}
		if d.Semi, err = p.expect(pSemi); err != nil {
			return nil, err
		}
		return commented(p, ast.Finish(d)), nil
	}
	d := &ast.VariableDecl{NameTok: nameTok}
	if d.Type, err = p.parseType(); err != nil {
		return nil, err
	}
	if d.Assign = p.accept(stream.Or(pAssign, pDefault)); d.Assign != nil {
		if d.Default, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if d.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return commented(p, ast.Finish(d)), nil
}

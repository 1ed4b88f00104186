// Package parser reads PL/SQL scripts into syntax trees. One Parser is one
// session: a cursor over the tokens of one script, its diagnostics and its
// "seen" set.
package parser

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"plsqldoc/internal/annotate"
	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/stream"
	"plsqldoc/internal/token"
)

type Options struct {
	Reporter      diag.Reporter
	MaxErrors     uint
	CurrentErrors uint
	// NoResolve skips pragma resolution of declaration lists.
	NoResolve bool
	// CommentParser, when set, receives the doc comment of every declaration.
	CommentParser ast.CommentParser
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser: состояние парсера на один скрипт
type Parser struct {
	c     *stream.Cursor
	opts  Options
	dedup *diag.DedupReporter
}

// New creates a session over grouped tokens (see token.AttachTrivia).
func New(toks []token.Token, opts Options) *Parser {
	next := opts.Reporter
	if next == nil {
		next = diag.NopReporter{}
	}
	return &Parser{
		c:     stream.New(toks),
		opts:  opts,
		dedup: diag.NewDedupReporter(next),
	}
}

// ParseScript reads every unit of the script. The tree is always returned;
// the error joins the failures of the units that were replaced by
// ast.ErrorUnit.
func ParseScript(toks []token.Token, opts Options) (*ast.Script, error) {
	return New(toks, opts).ParseScript()
}

// ParseScript reads the remaining units.
func (p *Parser) ParseScript() (*ast.Script, error) {
	var (
		units []ast.Unit
		errs  []error
	)
	for u, err := range p.Units() {
		units = append(units, u)
		if err != nil {
			errs = append(errs, err)
		}
	}
	script := ast.Finish(&ast.Script{Units: units, EOF: p.c.Peek()})
	return script, errors.Join(errs...)
}

// Units pulls units lazily; the caller may stop early.
func (p *Parser) Units() iter.Seq2[ast.Unit, error] {
	return func(yield func(ast.Unit, error) bool) {
		for {
			u, err := p.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(u, err) {
				return
			}
		}
	}
}

// Next reads one unit. A unit that fails is reported, replaced by an
// ast.ErrorUnit holding the skipped tokens and returned together with the
// error. At the end of input Next returns io.EOF.
func (p *Parser) Next() (ast.Unit, error) {
	if p.c.EOF() {
		return nil, io.EOF
	}
	m := p.c.Mark()
	u, err := p.unitSafe()
	if err == nil {
		return u, nil
	}
	p.reportErr(err)
	p.c.Reset(m)
	toks := p.skipUnit()
	return ast.Finish(&ast.ErrorUnit{Toks: toks, Err: err}), err
}

// unitSafe turns constructor contract panics into errors.
func (p *Parser) unitSafe() (u ast.Unit, err error) {
	defer func() {
		if r := recover(); r != nil {
			ia, ok := r.(*diag.InvalidArgumentError)
			if !ok {
				panic(r)
			}
			u, err = nil, ia
		}
	}()
	return p.parseUnit()
}

// skipUnit consumes the tokens of a failed unit: up to and including the
// next '/' on its own line, or up to a CREATE starting a line, or EOF.
// At least one token is consumed.
func (p *Parser) skipUnit() []*token.Token {
	m := p.c.Mark()
	p.c.Next()
	for !p.c.EOF() {
		tok := p.c.Peek()
		if p.atUnitSlash() {
			p.c.Next()
			break
		}
		if tok.Is("CREATE") && tok.StartsLine() {
			break
		}
		p.c.Next()
	}
	return p.c.Since(m)
}

func (p *Parser) reportErr(err error) {
	sp, _ := diag.SpanOf(err)
	code := diag.CodeOf(err)
	if code == diag.UnknownCode {
		code = diag.SynUnexpectedToken
	}
	p.report(code, diag.SevError, sp, err.Error())
}

// ===== single-construct entry points =====

// ParseUnit reads exactly one unit; no recovery is attempted.
func ParseUnit(toks []token.Token, opts Options) (ast.Unit, error) {
	p := New(toks, opts)
	u, err := p.unitSafe()
	if err != nil {
		return nil, err
	}
	return u, p.expectEOF()
}

// ParseStatement reads exactly one statement.
func ParseStatement(toks []token.Token, opts Options) (s ast.Stmt, err error) {
	p := New(toks, opts)
	defer p.recoverInvalid(&err)
	if s, err = p.parseStmt(); err != nil {
		return nil, err
	}
	return s, p.expectEOF()
}

// ParseExpression reads exactly one expression.
func ParseExpression(toks []token.Token, opts Options) (e ast.Expr, err error) {
	p := New(toks, opts)
	defer p.recoverInvalid(&err)
	if e, err = p.parseExpr(); err != nil {
		return nil, err
	}
	return e, p.expectEOF()
}

// ParseType reads exactly one type expression.
func ParseType(toks []token.Token, opts Options) (t ast.TypeExpr, err error) {
	p := New(toks, opts)
	defer p.recoverInvalid(&err)
	if t, err = p.parseType(); err != nil {
		return nil, err
	}
	return t, p.expectEOF()
}

// ParseDeclarations reads a declare section (the part between DECLARE and
// BEGIN) and resolves its pragmas without an owner.
func ParseDeclarations(toks []token.Token, opts Options) (ds []ast.Decl, err error) {
	p := New(toks, opts)
	defer p.recoverInvalid(&err)
	if ds, err = p.parseDecls(false); err != nil {
		return nil, err
	}
	p.resolve(nil, ds)
	return ds, p.expectEOF()
}

func (p *Parser) recoverInvalid(err *error) {
	if r := recover(); r != nil {
		ia, ok := r.(*diag.InvalidArgumentError)
		if !ok {
			panic(r)
		}
		*err = ia
	}
}

func (p *Parser) expectEOF() error {
	if p.c.EOF() {
		return nil
	}
	return p.c.Expected("end of input")
}

// resolve applies the pragmas of a finished declaration list.
func (p *Parser) resolve(owner ast.Decl, decls []ast.Decl) {
	if p.opts.NoResolve || len(decls) == 0 {
		return
	}
	annotate.Resolve(owner, decls, p)
}

// commented runs the comment hand-off for a finished declaration.
func commented[D ast.Decl](p *Parser, d D) D {
	if p.opts.CommentParser == nil {
		return d
	}
	doc := d.Doc()
	if doc == nil {
		return d
	}
	c, err := p.opts.CommentParser.ParseComment(doc)
	if err != nil {
		p.report(diag.SemaInfo, diag.SevWarning, doc.Span, fmt.Sprintf("doc comment: %v", err))
		return d
	}
	d.SetComment(c)
	return d
}

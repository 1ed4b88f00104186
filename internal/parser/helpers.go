package parser

import (
	"plsqldoc/internal/diag"
	"plsqldoc/internal/names"
	"plsqldoc/internal/source"
	"plsqldoc/internal/stream"
	"plsqldoc/internal/token"
)

var (
	pIdent   = stream.Identifier
	pWord    = stream.AnyWord
	pSemi    = stream.Semicolon
	pLParen  = stream.Op("(").Named("'('")
	pRParen  = stream.Op(")").Named("')'")
	pComma   = stream.Op(",")
	pDot     = stream.Op(".")
	pDotDot  = stream.Op("..").Named("'..'")
	pAssign  = stream.Op(":=").Named("':='")
	pArrow   = stream.Op("=>")
	pIsAs    = stream.Words("IS", "AS")
	pNumber  = stream.Kind(token.Number).Named("number")
	pString  = stream.Kind(token.String).Named("string")
	pDefault = stream.Word("DEFAULT")
)

func (p *Parser) peek() *token.Token { return p.c.Peek() }

// advance съедает следующий токен
func (p *Parser) advance() *token.Token { return p.c.Next() }

func (p *Parser) at(pat stream.Pattern) bool { return p.c.At(pat) }

func (p *Parser) atWord(ws ...string) bool { return p.c.At(stream.Words(ws...)) }

func (p *Parser) atOp(op string) bool { return p.c.Peek().IsOp(op) }

func (p *Parser) accept(pat stream.Pattern) *token.Token { return p.c.TryMatch(pat) }

func (p *Parser) acceptWord(w string) *token.Token { return p.c.TryMatch(stream.Word(w)) }

func (p *Parser) acceptOp(op string) *token.Token { return p.c.TryMatch(stream.Op(op)) }

func (p *Parser) expect(pat stream.Pattern) (*token.Token, error) { return p.c.Match(pat) }

func (p *Parser) expectWord(w string) (*token.Token, error) { return p.c.Match(stream.Word(w)) }

func (p *Parser) expectOp(op string) (*token.Token, error) {
	return p.c.Match(stream.Op(op).Named("'" + op + "'"))
}

// acceptWords consumes the word sequence ws entirely or not at all.
func (p *Parser) acceptWords(ws ...string) []*token.Token {
	pats := make([]stream.Pattern, len(ws))
	for i, w := range ws {
		pats[i] = stream.Word(w)
	}
	return p.c.TryMatchSequence(pats...)
}

// acceptNotNull consumes NOT NULL.
func (p *Parser) acceptNotNull() []*token.Token {
	return p.acceptWords("NOT", "NULL")
}

// atUnitSlash: '/' в начале строки завершает единицу SQL*Plus.
func (p *Parser) atUnitSlash() bool {
	tok := p.c.Peek()
	return tok.Kind == token.Slash && tok.StartsLine()
}

// ===== reporting =====

// Report makes the session usable as a diag.Reporter (the resolver reports
// through it): error counting, the MaxErrors limit and deduplication apply.
func (p *Parser) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) {
	if sev == diag.SevError {
		if p.opts.Enough() {
			return
		}
		p.opts.CurrentErrors++
	}
	p.dedup.Report(code, sev, sp, msg, notes)
}

// Once reports whether key is new to this session.
func (p *Parser) Once(key string) bool { return p.dedup.Once(key) }

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	p.Report(code, sev, sp, msg, nil)
}

// ===== names =====

// parseName reads a compound identifier of up to three parts. Parts after a
// dot may be any word (pkg.delete, t.count).
func (p *Parser) parseName() ([]*token.Token, names.Name, error) {
	first, err := p.expect(pIdent)
	if err != nil {
		return nil, names.Name{}, err
	}
	toks := []*token.Token{first}
	parts := []*token.Token{first}
	for len(parts) < names.MaxParts && p.c.AtSequence(pDot, pWord) {
		dot := p.advance()
		part := p.advance()
		toks = append(toks, dot, part)
		parts = append(parts, part)
	}
	n, err := names.New(parts...)
	return toks, n, err
}

// ===== opaque scans =====

// scanToSemi collects tokens up to (not including) the first ';' outside
// parentheses. It stops early at a unit '/' or EOF.
func (p *Parser) scanToSemi() []*token.Token {
	m := p.c.Mark()
	depth := 0
	for !p.c.EOF() && !p.atUnitSlash() {
		tok := p.c.Peek()
		switch {
		case tok.IsOp("("):
			depth++
		case tok.IsOp(")"):
			if depth > 0 {
				depth--
			}
		case tok.Kind == token.Semicolon && depth == 0:
			return p.c.Since(m)
		}
		p.c.Next()
	}
	return p.c.Since(m)
}

// scanToCloseParen collects tokens up to (not including) the ')' that closes
// the current parenthesis level.
func (p *Parser) scanToCloseParen() ([]*token.Token, error) {
	m := p.c.Mark()
	depth := 0
	for {
		tok := p.c.Peek()
		switch {
		case tok.Kind == token.EOF:
			return nil, &diag.SyntaxError{Span: tok.Span, Expected: "')'", Got: "end of input", AtEOF: true,
				Message: "unbalanced parenthesis"}
		case tok.IsOp("("):
			depth++
		case tok.IsOp(")"):
			if depth == 0 {
				return p.c.Since(m), nil
			}
			depth--
		}
		p.c.Next()
	}
}

// balanced consumes "( ... )" with nested parentheses, returning all tokens.
func (p *Parser) balanced() ([]*token.Token, error) {
	open, err := p.expect(pLParen)
	if err != nil {
		return nil, err
	}
	inner, err := p.scanToCloseParen()
	if err != nil {
		return nil, err
	}
	toks := append([]*token.Token{open}, inner...)
	return append(toks, p.advance()), nil
}

// atQuery reports whether a subquery starts here.
func (p *Parser) atQuery() bool {
	return p.atWord("SELECT", "WITH")
}

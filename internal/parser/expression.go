package parser

import (
	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/names"
	"plsqldoc/internal/stream"
	"plsqldoc/internal/token"
)

// intervalUnits may follow an INTERVAL literal.
var intervalUnits = stream.Words("YEAR", "MONTH", "DAY", "HOUR", "MINUTE", "SECOND", "TO")

// parseExpr - главная точка входа для выражений.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseBinary(precOr)
}

// parseBinary реализует precedence climbing; minPrec - минимальный приоритет
// текущего уровня.
func (p *Parser) parseBinary(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if minPrec <= precCompare {
			next, ok, err := p.parseComparisonTail(left)
			if err != nil {
				return nil, err
			}
			if ok {
				left = next
				continue
			}
		}

		tok := p.peek()
		prec, rightAssoc := binaryPrec(tok)
		if prec < 0 || prec < minPrec {
			return left, nil
		}
		op := p.advance()
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right, err := p.parseBinary(nextMin)
		if err != nil {
			return nil, err
		}
		left = ast.Finish(&ast.Binary{Left: left, Op: op, Right: right})
	}
}

// parseUnary обрабатывает префиксы NOT, +, -, PRIOR.
func (p *Parser) parseUnary() (ast.Expr, error) {
	tok := p.peek()
	switch {
	case tok.Is("NOT"):
		op := p.advance()
		operand, err := p.parseBinary(precNot)
		if err != nil {
			return nil, err
		}
		return ast.Finish(&ast.Unary{Op: op, Operand: operand}), nil
	case isUnaryOp(tok):
		op := p.advance()
		operand, err := p.parseBinary(precPow)
		if err != nil {
			return nil, err
		}
		return ast.Finish(&ast.Unary{Op: op, Operand: operand}), nil
	}
	return p.parsePostfix()
}

// parseComparisonTail reads IS [NOT] NULL, [NOT] LIKE, [NOT] BETWEEN and
// [NOT] IN after left. ok is false when none of them follows.
func (p *Parser) parseComparisonTail(left ast.Expr) (ast.Expr, bool, error) {
	tok, next := p.peek(), p.c.PeekN(1)
	var not *token.Token
	if tok.Is("NOT") {
		if !(inSet(likeOps, next) || next.Is("BETWEEN") || next.Is("IN")) {
			return nil, false, nil
		}
		not = p.advance()
		tok = p.peek()
	}
	var err error
	switch {
	case tok.Is("IS"):
		e := &ast.IsNull{Left: left, Is: p.advance(), Not: p.acceptWord("NOT")}
		if e.Null, err = p.expectWord("NULL"); err != nil {
			return nil, false, err
		}
		return ast.Finish(e), true, nil
	case inSet(likeOps, tok):
		e := &ast.Like{Left: left, Not: not, Op: p.advance()}
		if e.Pattern, err = p.parseBinary(precAdd); err != nil {
			return nil, false, err
		}
		if e.Escape = p.acceptWord("ESCAPE"); e.Escape != nil {
			if e.EscapeValue, err = p.parseBinary(precAdd); err != nil {
				return nil, false, err
			}
		}
		return ast.Finish(e), true, nil
	case tok.Is("BETWEEN"):
		e := &ast.Between{Left: left, Not: not, Between: p.advance()}
		if e.Low, err = p.parseBinary(precAdd); err != nil {
			return nil, false, err
		}
		if e.And, err = p.expectWord("AND"); err != nil {
			return nil, false, err
		}
		if e.High, err = p.parseBinary(precAdd); err != nil {
			return nil, false, err
		}
		return ast.Finish(e), true, nil
	case tok.Is("IN"):
		e := &ast.InList{Left: left, Not: not, In: p.advance()}
		if !p.at(pLParen) {
			return nil, false, p.c.Expected("'('")
		}
		if e.List, err = p.parseParen(); err != nil {
			return nil, false, err
		}
		return ast.Finish(e), true, nil
	}
	return nil, false, nil
}

// parsePostfix: первичное выражение и цепочка .member / .method(args).
func (p *Parser) parsePostfix() (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.c.AtSequence(pDot, pWord) {
		dot := p.advance()
		part := p.advance()
		name := names.Must(part)
		var right ast.Expr
		if p.at(pLParen) {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			right = ast.Finish(&ast.Invocation{NameToks: []*token.Token{part}, Name: name, Args: args})
		} else {
			ref := &ast.Reference{NameToks: []*token.Token{part}, Name: name}
			if pct := p.c.TryMatchSequence(stream.Op("%"), pWord); pct != nil {
				ref.Percent, ref.Attr = pct[0], pct[1]
			}
			right = ast.Finish(ref)
		}
		left = ast.Finish(&ast.Binary{Left: left, Op: dot, Right: right})
	}
	return left, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch {
	case tok.IsLiteral():
		return ast.Finish(&ast.Literal{Tok: p.advance()}), nil
	case tok.IsOp(":"):
		colon := p.advance()
		name, err := p.expect(stream.Or(pWord, pNumber).Named("bind name"))
		if err != nil {
			return nil, err
		}
		return ast.Finish(&ast.Bind{Colon: colon, NameTok: name}), nil
	case tok.IsOp("&") || tok.IsOp("&&"):
		amp := p.advance()
		name, err := p.expect(pWord)
		if err != nil {
			return nil, err
		}
		return ast.Finish(&ast.Substitution{Amp: amp, NameTok: name}), nil
	case tok.Is("SQL") && p.c.PeekN(1).IsOp("%"):
		return p.parseSQLAttribute()
	case tok.IsOp("("):
		return p.parseParen()
	case tok.Is("CASE"):
		return p.parseCaseExpr()
	case tok.Is("NULL"):
		return ast.Finish(&ast.Null{Tok: p.advance()}), nil
	case (tok.Is("DATE") || tok.Is("TIMESTAMP") || tok.Is("INTERVAL")) && p.c.PeekN(1).Kind == token.String:
		return p.parseTypedLiteral()
	case tok.Is("TREAT") && p.c.PeekN(1).IsOp("("):
		return p.parseTreat()
	case tok.Is("NEW") && stream.Identifier.Match(p.c.PeekN(1)) && (p.c.PeekN(2).IsOp("(") || p.c.PeekN(2).IsOp(".")):
		return p.parseNew()
	case stream.Identifier.Match(tok):
		return p.parseReference()
	}
	return nil, p.c.Expected("expression")
}

// parseReference reads name, name%attr or name(args).
func (p *Parser) parseReference() (ast.Expr, error) {
	toks, name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if p.at(pLParen) {
		args, err := p.parseArgList()
		if err != nil {
			return nil, err
		}
		return ast.Finish(&ast.Invocation{NameToks: toks, Name: name, Args: args}), nil
	}
	ref := &ast.Reference{NameToks: toks, Name: name}
	if pct := p.c.TryMatchSequence(stream.Op("%"), pWord); pct != nil {
		ref.Percent, ref.Attr = pct[0], pct[1]
	}
	return ast.Finish(ref), nil
}

// parseSQLAttribute reads SQL%FOUND, SQL%BULK_ROWCOUNT(i) and friends.
func (p *Parser) parseSQLAttribute() (ast.Expr, error) {
	e := &ast.SQLAttribute{SQLTok: p.advance(), Percent: p.advance()}
	var err error
	if e.Attr, err = p.expect(pWord); err != nil {
		return nil, err
	}
	if p.at(pLParen) {
		if e.Args, err = p.parseArgList(); err != nil {
			return nil, err
		}
	}
	return ast.Finish(e), nil
}

// parseParen reads (expr), (e1, e2, ...) or (subquery).
func (p *Parser) parseParen() (*ast.Paren, error) {
	e := &ast.Paren{LParen: p.advance()}
	if p.atQuery() {
		toks, err := p.scanToCloseParen()
		if err != nil {
			return nil, err
		}
		e.Items = []ast.Expr{ast.Finish(&ast.Subquery{Toks: toks})}
	} else {
		for {
			item, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			e.Items = append(e.Items, item)
			comma := p.accept(pComma)
			if comma == nil {
				break
			}
			e.Commas = append(e.Commas, comma)
		}
	}
	var err error
	if e.RParen, err = p.expect(pRParen); err != nil {
		return nil, err
	}
	return ast.Finish(e), nil
}

// parseCaseExpr reads simple (CASE x WHEN v THEN r) and searched
// (CASE WHEN cond THEN r) forms.
func (p *Parser) parseCaseExpr() (ast.Expr, error) {
	e := &ast.CaseExpr{Case: p.advance()}
	var err error
	if !p.atWord("WHEN") {
		if e.Selector, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if !p.atWord("WHEN") {
		return nil, p.c.Expected("WHEN")
	}
	for p.atWord("WHEN") {
		w := &ast.CaseWhen{When: p.advance()}
		if w.Cond, err = p.parseExpr(); err != nil {
			return nil, err
		}
		if w.Then, err = p.expectWord("THEN"); err != nil {
			return nil, err
		}
		if w.Result, err = p.parseExpr(); err != nil {
			return nil, err
		}
		e.Whens = append(e.Whens, ast.Finish(w))
	}
	if e.Else = p.acceptWord("ELSE"); e.Else != nil {
		if e.ElseValue, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if e.End, err = p.expectWord("END"); err != nil {
		return nil, err
	}
	return ast.Finish(e), nil
}

// parseTypedLiteral reads DATE '...', TIMESTAMP '...' and
// INTERVAL '...' DAY[(p)] [TO SECOND[(p)]].
func (p *Parser) parseTypedLiteral() (ast.Expr, error) {
	e := &ast.TypedLiteral{Kw: p.advance(), Value: p.advance()}
	if e.Kw.Is("INTERVAL") {
		for p.at(intervalUnits) {
			e.Qualifier = append(e.Qualifier, p.advance())
			if p.at(pLParen) {
				toks, err := p.balanced()
				if err != nil {
					return nil, err
				}
				e.Qualifier = append(e.Qualifier, toks...)
			}
		}
	}
	return ast.Finish(e), nil
}

// parseTreat reads TREAT(expr AS [REF] type).
func (p *Parser) parseTreat() (ast.Expr, error) {
	e := &ast.Treat{TreatTok: p.advance(), LParen: p.advance()}
	var err error
	if e.Operand, err = p.parseExpr(); err != nil {
		return nil, err
	}
	if e.As, err = p.expectWord("AS"); err != nil {
		return nil, err
	}
	e.Ref = p.acceptWord("REF")
	if e.Type, err = p.parseType(); err != nil {
		return nil, err
	}
	if e.RParen, err = p.expect(pRParen); err != nil {
		return nil, err
	}
	return ast.Finish(e), nil
}

// parseNew reads NEW type_name(args).
func (p *Parser) parseNew() (ast.Expr, error) {
	e := &ast.New{NewTok: p.advance()}
	var err error
	if e.NameToks, e.Name, err = p.parseName(); err != nil {
		return nil, err
	}
	if !p.at(pLParen) {
		return nil, p.c.Expected("'('")
	}
	if e.Args, err = p.parseArgList(); err != nil {
		return nil, err
	}
	return ast.Finish(e), nil
}

// parseArgList reads ( [name =>] value, ... ).
func (p *Parser) parseArgList() (*ast.ArgList, error) {
	l := &ast.ArgList{LParen: p.advance()}
	if !p.at(pRParen) {
		for {
			arg, err := p.parseArgument()
			if err != nil {
				return nil, err
			}
			l.Args = append(l.Args, arg)
			comma := p.accept(pComma)
			if comma == nil {
				break
			}
			l.Commas = append(l.Commas, comma)
		}
	}
	var err error
	if l.RParen, err = p.expect(pRParen); err != nil {
		return nil, err
	}
	return ast.Finish(l), nil
}

// parseArgument falls back to raw tokens for SQL-only argument syntax:
// CAST(x AS t), EXTRACT(YEAR FROM d), COUNT(*).
func (p *Parser) parseArgument() (*ast.Argument, error) {
	a := &ast.Argument{}
	if named := p.c.TryMatchSequence(pIdent, pArrow); named != nil {
		a.NameTok, a.Arrow = named[0], named[1]
	}
	if p.atQuery() {
		toks, err := p.scanToCloseParen()
		if err != nil {
			return nil, err
		}
		a.Value = ast.Finish(&ast.Subquery{Toks: toks})
		return ast.Finish(a), nil
	}
	m := p.c.Mark()
	v, err := p.parseExpr()
	if err == nil && (p.at(pComma) || p.at(pRParen)) {
		a.Value = v
		return ast.Finish(a), nil
	}
	p.c.Reset(m)
	toks, rawErr := p.scanArgument()
	if rawErr != nil {
		return nil, rawErr
	}
	if len(toks) == 0 {
		if err == nil {
			err = p.c.Expected("expression")
		}
		return nil, err
	}
	a.Value = ast.Finish(&ast.Subquery{Toks: toks})
	return ast.Finish(a), nil
}

// scanArgument collects tokens up to a ',' or ')' of the current level.
func (p *Parser) scanArgument() ([]*token.Token, error) {
	m := p.c.Mark()
	depth := 0
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.EOF || tok.Kind == token.Semicolon:
			return nil, &diag.SyntaxError{Span: tok.Span, Expected: "')'", Got: describeTok(tok),
				AtEOF: tok.Kind == token.EOF, Message: "unbalanced parenthesis"}
		case tok.IsOp("("):
			depth++
		case tok.IsOp(")"):
			if depth == 0 {
				return p.c.Since(m), nil
			}
			depth--
		case tok.IsOp(",") && depth == 0:
			return p.c.Since(m), nil
		}
		p.advance()
	}
}

func describeTok(tok *token.Token) string {
	if tok.Kind == token.EOF {
		return "end of input"
	}
	return tok.Text
}

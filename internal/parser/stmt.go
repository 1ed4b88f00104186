package parser

import (
	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/stream"
	"plsqldoc/internal/token"
)

// stmtStop ends a statement list.
var stmtStop = stream.Or(stream.Words("END", "EXCEPTION", "ELSE", "ELSIF", "WHEN"), stream.EOF)

// sqlVerbs start embedded SQL kept as tokens up to ';'.
var sqlVerbs = wordSet(`SELECT INSERT UPDATE DELETE MERGE COMMIT ROLLBACK SAVEPOINT SET LOCK WITH`)

// parseStmts читает операторы до END, EXCEPTION, ELSE, ELSIF, WHEN или конца.
func (p *Parser) parseStmts() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.at(stmtStop) && !p.atUnitSlash() {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	tok := p.peek()
	switch {
	case tok.Kind == token.Preprocessor:
		d, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		return d, nil
	case tok.IsOp("<<"):
		return p.parseLabeledStmt()
	case tok.Is("DECLARE") || tok.Is("BEGIN"):
		b, err := p.parseBlock(true)
		if err != nil {
			return nil, err
		}
		return b, nil
	case tok.Is("IF"):
		return p.parseIf()
	case tok.Is("CASE"):
		return p.parseCaseStmt()
	case tok.Is("LOOP"):
		l, err := p.parseLoop()
		if err != nil {
			return nil, err
		}
		return l, nil
	case tok.Is("FOR"):
		return p.parseFor()
	case tok.Is("WHILE"):
		return p.parseWhile()
	case tok.Is("OPEN"):
		return p.parseOpen()
	case tok.Is("CLOSE"):
		return p.parseClose()
	case tok.Is("FETCH"):
		return p.parseFetch()
	case tok.Is("FORALL"):
		return p.parseForall()
	case tok.Is("GOTO"):
		return nil, &diag.NotImplementedError{Construct: "GOTO", Span: tok.Span}
	case tok.Is("EXIT") || tok.Is("CONTINUE"):
		return p.parseExit()
	case tok.Is("RAISE"):
		return p.parseRaise()
	case tok.Is("RETURN"):
		return p.parseReturn()
	case tok.Is("PRAGMA"):
		// остаётся без цели: annotate обходит только списки объявлений
		return p.parsePragma(false)
	case tok.Is("PIPE") && p.c.PeekN(1).Is("ROW"):
		return p.parsePipeRow()
	case tok.Is("NULL"):
		s := &ast.NullStmt{NullTok: p.advance()}
		var err error
		if s.Semi, err = p.expect(pSemi); err != nil {
			return nil, err
		}
		return ast.Finish(s), nil
	case p.atSQL():
		return p.parseSQL()
	}
	return p.parseAssignOrCall()
}

// atSQL: SQL-глагол, не использованный как имя (commit := 1).
func (p *Parser) atSQL() bool {
	tok, next := p.peek(), p.c.PeekN(1)
	if next.IsOp(":=") || next.IsOp(".") {
		return false
	}
	if tok.Is("EXECUTE") {
		return next.Is("IMMEDIATE")
	}
	return inSet(sqlVerbs, tok)
}

func (p *Parser) parseSQL() (ast.Stmt, error) {
	s := &ast.SQL{Toks: p.scanToSemi()}
	var err error
	if s.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

// parseLabels reads <<name>> labels.
func (p *Parser) parseLabels() ([]*ast.Label, error) {
	var labels []*ast.Label
	for p.atOp("<<") {
		l := &ast.Label{Open: p.advance()}
		var err error
		if l.NameTok, err = p.expect(pIdent); err != nil {
			return nil, err
		}
		if l.Close, err = p.expectOp(">>"); err != nil {
			return nil, err
		}
		labels = append(labels, ast.Finish(l))
	}
	return labels, nil
}

func (p *Parser) parseLabeledStmt() (ast.Stmt, error) {
	labels, err := p.parseLabels()
	if err != nil {
		return nil, err
	}
	s, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return ast.Finish(&ast.LabeledStmt{Labels: labels, Stmt: s}), nil
}

// parseAssignOrCall: target := value; или вызов процедуры.
func (p *Parser) parseAssignOrCall() (ast.Stmt, error) {
	target, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if op := p.accept(pAssign); op != nil {
		s := &ast.Assignment{Target: target, Op: op}
		if s.Value, err = p.parseExpr(); err != nil {
			return nil, err
		}
		if s.Semi, err = p.expect(pSemi); err != nil {
			return nil, err
		}
		return ast.Finish(s), nil
	}
	s := &ast.Call{Target: target}
	if s.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

// ===== control flow =====

func (p *Parser) parseIf() (ast.Stmt, error) {
	s := &ast.If{IfTok: p.advance()}
	var err error
	if s.Cond, err = p.parseExpr(); err != nil {
		return nil, err
	}
	if s.Then, err = p.expectWord("THEN"); err != nil {
		return nil, err
	}
	if s.Stmts, err = p.parseStmts(); err != nil {
		return nil, err
	}
	for p.atWord("ELSIF") {
		e := &ast.Elsif{Elsif: p.advance()}
		if e.Cond, err = p.parseExpr(); err != nil {
			return nil, err
		}
		if e.Then, err = p.expectWord("THEN"); err != nil {
			return nil, err
		}
		if e.Stmts, err = p.parseStmts(); err != nil {
			return nil, err
		}
		s.Elsifs = append(s.Elsifs, ast.Finish(e))
	}
	if s.Else = p.acceptWord("ELSE"); s.Else != nil {
		if s.ElseStmts, err = p.parseStmts(); err != nil {
			return nil, err
		}
	}
	if s.End, err = p.expectWord("END"); err != nil {
		return nil, err
	}
	if s.EndIf, err = p.expectWord("IF"); err != nil {
		return nil, err
	}
	if s.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

func (p *Parser) parseCaseStmt() (ast.Stmt, error) {
	s := &ast.CaseStmt{Case: p.advance()}
	var err error
	if !p.atWord("WHEN") {
		if s.Selector, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if !p.atWord("WHEN") {
		return nil, p.c.Expected("WHEN")
	}
	for p.atWord("WHEN") {
		w := &ast.CaseStmtWhen{When: p.advance()}
		if w.Cond, err = p.parseExpr(); err != nil {
			return nil, err
		}
		if w.Then, err = p.expectWord("THEN"); err != nil {
			return nil, err
		}
		if w.Stmts, err = p.parseStmts(); err != nil {
			return nil, err
		}
		s.Whens = append(s.Whens, ast.Finish(w))
	}
	if s.Else = p.acceptWord("ELSE"); s.Else != nil {
		if s.ElseStmts, err = p.parseStmts(); err != nil {
			return nil, err
		}
	}
	if s.End, err = p.expectWord("END"); err != nil {
		return nil, err
	}
	if s.EndCase, err = p.expectWord("CASE"); err != nil {
		return nil, err
	}
	s.Label = p.accept(pIdent)
	if s.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

// parseLoop reads LOOP stmts END LOOP [label];
func (p *Parser) parseLoop() (*ast.Loop, error) {
	l := &ast.Loop{}
	var err error
	if l.LoopTok, err = p.expectWord("LOOP"); err != nil {
		return nil, err
	}
	if l.Stmts, err = p.parseStmts(); err != nil {
		return nil, err
	}
	if l.End, err = p.expectWord("END"); err != nil {
		return nil, err
	}
	if l.EndLoop, err = p.expectWord("LOOP"); err != nil {
		return nil, err
	}
	l.Label = p.accept(pIdent)
	if l.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(l), nil
}

// parseFor reads FOR i IN [REVERSE] lo..hi, FOR r IN cursor[(args)] and
// FOR r IN (subquery).
func (p *Parser) parseFor() (ast.Stmt, error) {
	s := &ast.ForLoop{For: p.advance()}
	var err error
	if s.Index, err = p.expect(pIdent); err != nil {
		return nil, err
	}
	if s.In, err = p.expectWord("IN"); err != nil {
		return nil, err
	}
	s.Reverse = p.acceptWord("REVERSE")
	if s.Low, err = p.parseBinary(precAdd); err != nil {
		return nil, err
	}
	if s.DotDot = p.accept(pDotDot); s.DotDot != nil {
		if s.High, err = p.parseBinary(precAdd); err != nil {
			return nil, err
		}
	}
	if s.Body, err = p.parseLoop(); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	s := &ast.WhileLoop{While: p.advance()}
	var err error
	if s.Cond, err = p.parseExpr(); err != nil {
		return nil, err
	}
	if s.Body, err = p.parseLoop(); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

// ===== cursors =====

func (p *Parser) parseOpen() (ast.Stmt, error) {
	s := &ast.Open{OpenTok: p.advance()}
	var err error
	if s.Cursor, err = p.parsePostfix(); err != nil {
		return nil, err
	}
	s.Rest = p.scanToSemi()
	if s.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

func (p *Parser) parseClose() (ast.Stmt, error) {
	s := &ast.Close{CloseTok: p.advance()}
	var err error
	if s.Cursor, err = p.parsePostfix(); err != nil {
		return nil, err
	}
	if s.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

func (p *Parser) parseFetch() (ast.Stmt, error) {
	s := &ast.Fetch{FetchTok: p.advance()}
	var err error
	if s.Cursor, err = p.parsePostfix(); err != nil {
		return nil, err
	}
	s.Rest = p.scanToSemi()
	if s.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

// parseForall keeps the bounds and the DML statement as tokens.
func (p *Parser) parseForall() (ast.Stmt, error) {
	s := &ast.Forall{ForallTok: p.advance()}
	var err error
	if s.Index, err = p.expect(pIdent); err != nil {
		return nil, err
	}
	if s.In, err = p.expectWord("IN"); err != nil {
		return nil, err
	}
	s.Rest = p.scanToSemi()
	if s.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

// ===== simple statements =====

// parseExit reads EXIT|CONTINUE [label] [WHEN cond];
func (p *Parser) parseExit() (ast.Stmt, error) {
	s := &ast.Exit{Kw: p.advance()}
	s.Label = p.accept(pIdent)
	var err error
	if s.When = p.acceptWord("WHEN"); s.When != nil {
		if s.Cond, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if s.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

func (p *Parser) parseRaise() (ast.Stmt, error) {
	s := &ast.Raise{RaiseTok: p.advance()}
	var err error
	if !p.at(pSemi) {
		if s.Exception, err = p.parsePostfix(); err != nil {
			return nil, err
		}
	}
	if s.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	s := &ast.Return{ReturnTok: p.advance()}
	var err error
	if !p.at(pSemi) {
		if s.Value, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if s.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

func (p *Parser) parsePipeRow() (ast.Stmt, error) {
	s := &ast.PipeRow{Pipe: p.advance(), Row: p.advance()}
	var err error
	if s.Value, err = p.parseExpr(); err != nil {
		return nil, err
	}
	if s.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	return ast.Finish(s), nil
}

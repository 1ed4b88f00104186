package parser

import (
	"plsqldoc/internal/ast"
	"plsqldoc/internal/stream"
	"plsqldoc/internal/token"
)

var (
	methodStart = stream.Words("MEMBER", "STATIC", "MAP", "ORDER", "CONSTRUCTOR", "OVERRIDING", "FINAL",
		"INSTANTIABLE", "NOT", "FUNCTION", "PROCEDURE")
	routineModifier = stream.Words("MEMBER", "STATIC", "MAP", "ORDER", "CONSTRUCTOR", "OVERRIDING", "FINAL",
		"INSTANTIABLE", "NOT")
	routineKw = stream.Words("FUNCTION", "PROCEDURE").Named("FUNCTION or PROCEDURE")
	paramMode = stream.Words("IN", "OUT", "NOCOPY")
)

// parseHeading reads [modifiers] FUNCTION|PROCEDURE name [(params)]
// [RETURN type | RETURN SELF AS RESULT] [properties].
func (p *Parser) parseHeading() (*ast.RoutineHeading, error) {
	h := &ast.RoutineHeading{}
	for p.at(routineModifier) {
		h.Modifiers = append(h.Modifiers, p.advance())
	}
	var err error
	if h.Kw, err = p.expect(routineKw); err != nil {
		return nil, err
	}
	if h.NameToks, h.Name, err = p.parseName(); err != nil {
		return nil, err
	}
	if p.at(pLParen) {
		if h.Params, err = p.parseParamList(); err != nil {
			return nil, err
		}
	}
	if h.Return = p.acceptWord("RETURN"); h.Return != nil {
		if self := p.acceptWords("SELF", "AS", "RESULT"); self != nil {
			h.SelfAsResult = self
		} else if h.ReturnType, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if h.Props, err = p.parseRoutineProps(); err != nil {
		return nil, err
	}
	return ast.Finish(h), nil
}

func (p *Parser) parseParamList() (*ast.ParamList, error) {
	l := &ast.ParamList{LParen: p.advance()}
	for {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		l.Params = append(l.Params, param)
		c := p.accept(pComma)
		if c == nil {
			break
		}
		l.Commas = append(l.Commas, c)
	}
	var err error
	if l.RParen, err = p.expect(pRParen); err != nil {
		return nil, err
	}
	return ast.Finish(l), nil
}

// parseParam reads name [IN] [OUT] [NOCOPY] type [:= | DEFAULT expr].
func (p *Parser) parseParam() (*ast.Parameter, error) {
	param := &ast.Parameter{}
	var err error
	if param.NameTok, err = p.expect(pIdent); err != nil {
		return nil, err
	}
	for p.at(paramMode) {
		param.Mode = append(param.Mode, p.advance())
	}
	if param.Type, err = p.parseType(); err != nil {
		return nil, err
	}
	if param.Assign = p.accept(stream.Or(pAssign, pDefault)); param.Assign != nil {
		if param.Default, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	return ast.Finish(param), nil
}

// parseRoutineProps reads routine properties in any order.
func (p *Parser) parseRoutineProps() ([]*ast.Property, error) {
	var props []*ast.Property
	for {
		words, err := p.parseRoutineProp()
		if err != nil {
			return nil, err
		}
		if words == nil {
			return props, nil
		}
		props = append(props, ast.Finish(&ast.Property{Words: words}))
	}
}

func (p *Parser) parseRoutineProp() ([]*token.Token, error) {
	tok := p.peek()
	switch {
	case tok.Is("DETERMINISTIC"):
		return []*token.Token{p.advance()}, nil
	case tok.Is("PIPELINED"):
		words := []*token.Token{p.advance()}
		if poly := p.accept(stream.Words("ROW", "TABLE")); poly != nil {
			words = append(words, poly)
			kw, err := p.expectWord("POLYMORPHIC")
			if err != nil {
				return nil, err
			}
			words = append(words, kw)
		}
		return p.withUsing(words)
	case tok.Is("PARALLEL_ENABLE") || tok.Is("SQL_MACRO"):
		return p.withOptionalParens([]*token.Token{p.advance()})
	case tok.Is("RESULT_CACHE"):
		words := []*token.Token{p.advance()}
		if relies := p.acceptWord("RELIES_ON"); relies != nil {
			words = append(words, relies)
			list, err := p.balanced()
			if err != nil {
				return nil, err
			}
			words = append(words, list...)
		}
		return words, nil
	case tok.Is("AUTHID"):
		return p.c.MatchSequence(stream.Word("AUTHID"), stream.Words("DEFINER", "CURRENT_USER"))
	case tok.Is("ACCESSIBLE"):
		return p.parseAccessibleBy()
	case tok.Is("AGGREGATE"):
		words, err := p.c.MatchSequence(stream.Word("AGGREGATE"), stream.Word("USING"))
		if err != nil {
			return nil, err
		}
		nameToks, _, err := p.parseName()
		if err != nil {
			return nil, err
		}
		return append(words, nameToks...), nil
	}
	return nil, nil
}

func (p *Parser) withOptionalParens(words []*token.Token) ([]*token.Token, error) {
	if !p.at(pLParen) {
		return words, nil
	}
	list, err := p.balanced()
	if err != nil {
		return nil, err
	}
	return append(words, list...), nil
}

func (p *Parser) withUsing(words []*token.Token) ([]*token.Token, error) {
	using := p.acceptWord("USING")
	if using == nil {
		return words, nil
	}
	nameToks, _, err := p.parseName()
	if err != nil {
		return nil, err
	}
	return append(append(words, using), nameToks...), nil
}

// parseRoutineDecl reads a packaged or nested routine: a forward
// declaration, or a definition with its body.
func (p *Parser) parseRoutineDecl() (*ast.RoutineDecl, error) {
	heading, err := p.parseHeading()
	if err != nil {
		return nil, err
	}
	d := &ast.RoutineDecl{Heading: heading}
	if d.Is = p.accept(pIsAs); d.Is != nil {
		if err := p.rejectCallSpec(); err != nil {
			return nil, err
		}
		if d.Body, err = p.parseBody(heading.Name, false); err != nil {
			return nil, err
		}
	}
	if d.Semi, err = p.expect(pSemi); err != nil {
		return nil, err
	}
	d = commented(p, ast.Finish(d))
	if d.Body != nil {
		p.resolve(d, d.Body.Decls)
	}
	return d, nil
}

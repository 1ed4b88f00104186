package parser

import (
	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/stream"
	"plsqldoc/internal/token"
)

// builtinTypes are single-word predefined datatypes.
var builtinTypes = wordSet(`
	NUMBER CHAR CHARACTER VARCHAR VARCHAR2 NVARCHAR2 NCHAR DATE INTEGER INT SMALLINT DECIMAL DEC
	NUMERIC FLOAT REAL RAW LONG BOOLEAN PLS_INTEGER BINARY_INTEGER NATURAL NATURALN POSITIVE
	POSITIVEN SIGNTYPE SIMPLE_INTEGER SIMPLE_FLOAT SIMPLE_DOUBLE BINARY_FLOAT BINARY_DOUBLE CLOB
	NCLOB BLOB BFILE ROWID UROWID STRING MLSLABEL
`)

// lengthTypes take (n [CHAR|BYTE]); the others take (p[, s]).
var lengthTypes = wordSet(`CHAR CHARACTER VARCHAR VARCHAR2 NVARCHAR2 NCHAR RAW STRING UROWID NATIONAL`)

// parseType reads a datatype expression.
func (p *Parser) parseType() (ast.TypeExpr, error) {
	tok := p.peek()
	switch {
	case tok.Is("REF"):
		return p.parseRefType()
	case tok.Is("TABLE"):
		return p.parseTableType()
	case tok.Is("VARRAY") || p.c.AtSequence(stream.Word("VARYING"), stream.Word("ARRAY")):
		return nil, &diag.NotImplementedError{Construct: "VARRAY", Span: tok.Span}
	case tok.Is("INTERVAL") && stream.Words("YEAR", "DAY").Match(p.c.PeekN(1)):
		return p.parseIntervalType()
	case tok.Is("TIMESTAMP"):
		return p.parseTimestampType()
	}
	return p.parseNamedType()
}

func (p *Parser) parseNamedType() (*ast.NamedType, error) {
	t := &ast.NamedType{}
	var err error
	lengthFamily := false
	if words := p.builtinWords(); words != nil {
		t.NameToks = words
		lengthFamily = inSet(lengthTypes, words[0])
	} else {
		if t.NameToks, t.Name, err = p.parseName(); err != nil {
			return nil, err
		}
		if pct := p.c.TryMatchSequence(stream.Op("%"), stream.Words("TYPE", "ROWTYPE")); pct != nil {
			t.Percent, t.Attr = pct[0], pct[1]
		}
	}

	switch {
	case p.at(pLParen):
		if t.Restriction, err = p.parseParenRestriction(lengthFamily); err != nil {
			return nil, err
		}
	case p.atWord("RANGE"):
		if t.Restriction, err = p.parseRange(); err != nil {
			return nil, err
		}
	}
	if cs := p.acceptWords("CHARACTER", "SET"); cs != nil {
		if anyCS := p.acceptWord("ANY_CS"); anyCS != nil {
			cs = append(cs, anyCS)
		} else {
			toks, _, err := p.parseName()
			if err != nil {
				return nil, err
			}
			cs = append(cs, toks...)
			pct, err := p.c.MatchSequence(stream.Op("%"), stream.Word("CHARSET"))
			if err != nil {
				return nil, err
			}
			cs = append(cs, pct...)
		}
		t.CharSet = cs
	}
	t.NotNull = p.acceptNotNull()
	return ast.Finish(t), nil
}

// builtinWords consumes a predefined type name, compound ones included.
func (p *Parser) builtinWords() []*token.Token {
	tok := p.peek()
	if !tok.Kind.IsWord() || tok.IsQuoted() {
		return nil
	}
	if next := p.c.PeekN(1); next.IsOp(".") || next.IsOp("%") {
		return nil
	}
	switch tok.Word() {
	case "DOUBLE":
		return p.acceptWords("DOUBLE", "PRECISION")
	case "LONG":
		if w := p.acceptWords("LONG", "RAW"); w != nil {
			return w
		}
	case "CHARACTER", "CHAR", "NCHAR":
		if p.c.PeekN(1).Is("VARYING") {
			return []*token.Token{p.advance(), p.advance()}
		}
	case "NATIONAL":
		w, err := p.c.MatchSequence(stream.Word("NATIONAL"), stream.Words("CHAR", "CHARACTER"))
		if err != nil {
			return nil
		}
		if v := p.acceptWord("VARYING"); v != nil {
			w = append(w, v)
		}
		return w
	}
	if inSet(builtinTypes, tok) {
		return []*token.Token{p.advance()}
	}
	return nil
}

// parseParenRestriction decides between (n [CHAR|BYTE]) and (p[, s]).
func (p *Parser) parseParenRestriction(lengthFamily bool) (ast.Restriction, error) {
	third := p.c.PeekN(2)
	switch {
	case third.IsOp(","):
		return p.parsePrecision()
	case third.Is("CHAR") || third.Is("BYTE"):
		return p.parseLength()
	case lengthFamily:
		return p.parseLength()
	}
	return p.parsePrecision()
}

func (p *Parser) parseLength() (*ast.LengthRestriction, error) {
	r := &ast.LengthRestriction{LParen: p.advance()}
	var err error
	if r.Length, err = p.expect(pNumber); err != nil {
		return nil, err
	}
	r.Semantics = p.accept(stream.Words("CHAR", "BYTE"))
	if r.RParen, err = p.expect(pRParen); err != nil {
		return nil, err
	}
	return ast.Finish(r), nil
}

// parsePrecision reads (p [, [-]s]); p may be '*'.
func (p *Parser) parsePrecision() (*ast.PrecisionRestriction, error) {
	r := &ast.PrecisionRestriction{LParen: p.advance()}
	var err error
	if r.Precision, err = p.expect(stream.Or(pNumber, stream.Op("*")).Named("precision")); err != nil {
		return nil, err
	}
	if r.Comma = p.accept(pComma); r.Comma != nil {
		r.Sign = p.accept(stream.Ops("-", "+"))
		if r.Scale, err = p.expect(pNumber); err != nil {
			return nil, err
		}
	}
	if r.RParen, err = p.expect(pRParen); err != nil {
		return nil, err
	}
	return ast.Finish(r), nil
}

func (p *Parser) parseRange() (*ast.RangeRestriction, error) {
	r := &ast.RangeRestriction{Range: p.advance()}
	var err error
	if r.Low, err = p.parseBinary(precAdd); err != nil {
		return nil, err
	}
	if r.DotDot, err = p.expect(pDotDot); err != nil {
		return nil, err
	}
	if r.High, err = p.parseBinary(precAdd); err != nil {
		return nil, err
	}
	return ast.Finish(r), nil
}

// parseIntervalType reads INTERVAL YEAR[(p)] TO MONTH | DAY[(p)] TO SECOND[(p)].
func (p *Parser) parseIntervalType() (*ast.IntervalType, error) {
	t := &ast.IntervalType{Interval: p.advance(), Leading: p.advance()}
	var err error
	if p.at(pLParen) {
		if t.LeadPrec, err = p.parsePrecision(); err != nil {
			return nil, err
		}
	}
	if t.To, err = p.expectWord("TO"); err != nil {
		return nil, err
	}
	trailing := stream.Word("MONTH")
	if t.Leading.Is("DAY") {
		trailing = stream.Word("SECOND")
	}
	if t.Trailing, err = p.expect(trailing); err != nil {
		return nil, err
	}
	if t.Trailing.Is("SECOND") && p.at(pLParen) {
		if t.TrailPrec, err = p.parsePrecision(); err != nil {
			return nil, err
		}
	}
	t.NotNull = p.acceptNotNull()
	return ast.Finish(t), nil
}

// parseTimestampType reads TIMESTAMP[(p)] [WITH [LOCAL] TIME ZONE].
func (p *Parser) parseTimestampType() (*ast.TimestampType, error) {
	t := &ast.TimestampType{Timestamp: p.advance()}
	var err error
	if p.at(pLParen) {
		if t.Precision, err = p.parsePrecision(); err != nil {
			return nil, err
		}
	}
	if with := p.acceptWords("WITH", "LOCAL", "TIME", "ZONE"); with != nil {
		t.With = with
	} else if with := p.acceptWords("WITH", "TIME", "ZONE"); with != nil {
		t.With = with
	}
	t.NotNull = p.acceptNotNull()
	return ast.Finish(t), nil
}

// parseRefType reads REF CURSOR [RETURN type] or REF type.
func (p *Parser) parseRefType() (*ast.RefType, error) {
	r := &ast.RefType{Ref: p.advance()}
	var err error
	if r.Cursor = p.acceptWord("CURSOR"); r.Cursor != nil {
		if r.Return = p.acceptWord("RETURN"); r.Return != nil {
			if r.Target, err = p.parseType(); err != nil {
				return nil, err
			}
		}
	} else if r.Target, err = p.parseNamedType(); err != nil {
		return nil, err
	}
	r.NotNull = p.acceptNotNull()
	return ast.Finish(r), nil
}

// parseTableType reads TABLE OF type [INDEX BY type].
func (p *Parser) parseTableType() (*ast.TableType, error) {
	t := &ast.TableType{Table: p.advance()}
	var err error
	if t.Of, err = p.expectWord("OF"); err != nil {
		return nil, err
	}
	if t.Elem, err = p.parseType(); err != nil {
		return nil, err
	}
	if ib := p.acceptWords("INDEX", "BY"); ib != nil {
		t.Index, t.By = ib[0], ib[1]
		if t.Key, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	return ast.Finish(t), nil
}

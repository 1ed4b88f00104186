package stream

import (
	"plsqldoc/internal/diag"
	"plsqldoc/internal/token"
)

// Cursor walks the significant tokens of one script. Every matching
// primitive either consumes tokens or leaves the position untouched.
type Cursor struct {
	toks []token.Token
	pos  int
}

// Mark is a saved cursor position.
type Mark int

// New wraps grouped tokens (see token.AttachTrivia). A trailing EOF is added
// when missing.
func New(toks []token.Token) *Cursor {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		var eof token.Token
		eof.Kind = token.EOF
		if len(toks) > 0 {
			last := toks[len(toks)-1].Span
			eof.Span = last
			eof.Span.Start = last.End
		}
		toks = append(toks[:len(toks):len(toks)], eof)
	}
	return &Cursor{toks: toks}
}

// Tokens returns every token, EOF included.
func (c *Cursor) Tokens() []token.Token {
	return c.toks
}

// Peek returns the next unconsumed token (EOF at the end).
func (c *Cursor) Peek() *token.Token {
	return &c.toks[c.pos]
}

// PeekN looks n tokens ahead; PeekN(0) == Peek(). Clamps to EOF.
func (c *Cursor) PeekN(n int) *token.Token {
	i := min(c.pos+n, len(c.toks)-1)
	return &c.toks[i]
}

// Prev returns the last consumed token, or nil at the start.
func (c *Cursor) Prev() *token.Token {
	if c.pos == 0 {
		return nil
	}
	return &c.toks[c.pos-1]
}

// EOF reports whether only the EOF token remains.
func (c *Cursor) EOF() bool {
	return c.toks[c.pos].Kind == token.EOF
}

// Mark saves the position.
func (c *Cursor) Mark() Mark {
	return Mark(c.pos)
}

// Reset rewinds to m.
func (c *Cursor) Reset(m Mark) {
	c.pos = int(m)
}

// Since returns the tokens consumed after m.
func (c *Cursor) Since(m Mark) []*token.Token {
	out := make([]*token.Token, 0, c.pos-int(m))
	for i := int(m); i < c.pos; i++ {
		out = append(out, &c.toks[i])
	}
	return out
}

// Next consumes one token unconditionally. At EOF it returns EOF and stays.
func (c *Cursor) Next() *token.Token {
	tok := &c.toks[c.pos]
	if tok.Kind != token.EOF {
		c.pos++
	}
	return tok
}

// At reports whether the next token matches p.
func (c *Cursor) At(p Pattern) bool {
	return p.Match(c.Peek())
}

// AtSequence reports whether the next tokens match ps in order.
func (c *Cursor) AtSequence(ps ...Pattern) bool {
	for i := range ps {
		if !ps[i].Match(c.PeekN(i)) {
			return false
		}
	}
	return true
}

// TryMatch consumes and returns the next token when it matches p, else nil.
func (c *Cursor) TryMatch(p Pattern) *token.Token {
	if !c.At(p) {
		return nil
	}
	return c.Next()
}

// TryMatchSequence consumes all of ps or nothing.
func (c *Cursor) TryMatchSequence(ps ...Pattern) []*token.Token {
	m := c.Mark()
	out := make([]*token.Token, 0, len(ps))
	for i := range ps {
		tok := c.TryMatch(ps[i])
		if tok == nil {
			c.Reset(m)
			return nil
		}
		out = append(out, tok)
	}
	return out
}

// Match is TryMatch that fails with a *diag.SyntaxError.
func (c *Cursor) Match(p Pattern) (*token.Token, error) {
	if tok := c.TryMatch(p); tok != nil {
		return tok, nil
	}
	return nil, c.Expected(p.String())
}

// MatchSequence is TryMatchSequence that fails with a *diag.SyntaxError
// located at the first mismatching token. The cursor is rewound on failure.
func (c *Cursor) MatchSequence(ps ...Pattern) ([]*token.Token, error) {
	m := c.Mark()
	out := make([]*token.Token, 0, len(ps))
	for i := range ps {
		tok, err := c.Match(ps[i])
		if err != nil {
			c.Reset(m)
			return nil, err
		}
		out = append(out, tok)
	}
	return out, nil
}

// SkipUntil consumes tokens until one matches stop (not consumed) or EOF.
func (c *Cursor) SkipUntil(stop Pattern) []*token.Token {
	m := c.Mark()
	for !c.EOF() && !c.At(stop) {
		c.Next()
	}
	return c.Since(m)
}

// Expected builds a syntax error for the next token.
func (c *Cursor) Expected(what string) *diag.SyntaxError {
	tok := c.Peek()
	return &diag.SyntaxError{
		Span:     tok.Span,
		Expected: what,
		Got:      describe(tok),
		AtEOF:    tok.Kind == token.EOF,
	}
}

// SniffDoc returns the doc comment in the leading trivia of the next token
// without consuming anything.
func (c *Cursor) SniffDoc() *token.Token {
	return token.LastDoc(c.Peek().Leading)
}

// LastTrailingDoc returns a doc comment trailing the last consumed token.
func (c *Cursor) LastTrailingDoc() *token.Token {
	prev := c.Prev()
	if prev == nil {
		return nil
	}
	return token.FirstDoc(prev.Trailing)
}

func describe(tok *token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Reserved, token.Keyword:
		return tok.Word()
	default:
		return "'" + tok.Text + "'"
	}
}

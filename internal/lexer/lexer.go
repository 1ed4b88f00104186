package lexer

import (
	"plsqldoc/internal/source"
	"plsqldoc/internal/token"
)

// Lexer produces the flat token stream of one script, trivia included.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	pos    source.Position // позиция начала следующего токена
	look   *token.Token

	lineStart  bool // ещё не было значимых токенов на текущей строке
	restOfLine bool // после PROMPT: остаток строки идёт одним String
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:      file,
		cursor:    NewCursor(file),
		opts:      opts,
		pos:       source.Origin,
		lineStart: true,
	}
}

// Tokenize lexes the whole file and groups trivia onto significant tokens.
func Tokenize(file *source.File, opts Options) []token.Token {
	return token.AttachTrivia(New(file, opts).All())
}

// All returns every remaining raw token, ending with EOF.
func (lx *Lexer) All() []token.Token {
	out := make([]token.Token, 0, len(lx.file.Content)/3+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Next возвращает следующий токен сырого потока (включая trivia).
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: source.Span{File: lx.file.ID, Start: lx.pos, End: lx.pos}}
	}

	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '\n':
		lx.cursor.Bump()
		tok = lx.emit(token.Newline, start)
		lx.lineStart = true
		lx.restOfLine = false
		return tok

	case isBlank(ch):
		for isBlank(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.emit(token.Whitespace, start)

	case lx.restOfLine:
		lx.cursor.SkipToEOL()
		tok = lx.emit(token.String, start)
		tok.Trimmed = trimRight(tok.Text)
		lx.restOfLine = false

	case ch == '-' && lx.cursor.PeekAt(1) == '-':
		lx.cursor.SkipToEOL()
		tok = lx.emit(token.LineComment, start)
		tok.Trimmed = tok.Text[2:]
		return tok

	case ch == '/' && lx.cursor.PeekAt(1) == '*':
		return lx.scanBlockComment(start)

	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanWord(start)

	case isDec(ch) || (ch == '.' && isDec(lx.cursor.PeekAt(1))):
		tok = lx.scanNumber(start)

	case ch == '\'':
		tok = lx.scanString(start, 0)

	case ch == '"':
		tok = lx.scanQuotedIdent(start)

	case ch == '$':
		tok = lx.scanDollar(start)

	default:
		tok = lx.scanOperatorOrPunct(start)
	}

	if tok.Kind.IsComment() {
		return tok
	}
	lx.lineStart = false
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// emit builds a token for the bytes since start and advances the position.
func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	text := lx.cursor.Text(start)
	sp := source.SpanOf(lx.file.ID, lx.pos, text)
	lx.pos = sp.End
	return token.Token{Kind: kind, Span: sp, Text: text, Trimmed: text}
}

// fail marks tok as malformed and reports it.
func (lx *Lexer) fail(tok token.Token, code codeMsg) token.Token {
	tok.Err = code.msg
	lx.report(code.code, tok.Span, code.msg)
	return tok
}

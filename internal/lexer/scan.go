package lexer

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/token"
)

const utf8RuneSelf = 0x80

type codeMsg struct {
	code diag.Code
	msg  string
}

var (
	errUnterminatedString  = codeMsg{diag.LexUnterminatedString, "unterminated string literal"}
	errUnterminatedComment = codeMsg{diag.LexUnterminatedBlockComment, "unterminated block comment"}
	errUnterminatedIdent   = codeMsg{diag.LexUnterminatedQuotedIdent, "unterminated quoted identifier"}
	errBadExponent         = codeMsg{diag.LexBadNumber, "exponent has no digits"}
	errUnknownChar         = codeMsg{diag.LexUnknownChar, "unknown character"}
)

// selection directives; $$NAME inquiry directives are identifiers
var preprocessorWords = map[string]struct{}{
	"IF": {}, "THEN": {}, "ELSIF": {}, "ELSE": {}, "END": {}, "ERROR": {},
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v'
}

func isIdentStartByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b) || b == '_' || b == '$' || b == '#'
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func trimRight(s string) string {
	return strings.TrimRight(s, " \t\r")
}

// bumpIdentRest consumes identifier continuation characters, Unicode letters included.
func (lx *Lexer) bumpIdentRest() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				return
			}
			lx.cursor.Bump()
			continue
		}
		r, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return
		}
		lx.cursor.BumpN(sz)
	}
}

// scanWord: identifiers, keywords, reserved words, N'..', Q'..', REM and PROMPT.
func (lx *Lexer) scanWord(start Mark) token.Token {
	b := lx.cursor.Peek()
	if b >= utf8RuneSelf {
		r, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		if !unicode.IsLetter(r) {
			lx.cursor.BumpN(max(sz, 1))
			return lx.fail(lx.emit(token.Invalid, start), errUnknownChar)
		}
		lx.cursor.BumpN(sz)
	} else {
		lx.cursor.Bump()
	}

	// N'..', Q'..', NQ'..'
	if lx.cursor.Peek() == '\'' {
		switch lower(b) {
		case 'n':
			return lx.scanString(start, 0)
		case 'q':
			return lx.scanString(start, 'q')
		}
	}
	if lower(b) == 'n' && lower(lx.cursor.Peek()) == 'q' && lx.cursor.PeekAt(1) == '\'' {
		lx.cursor.Bump()
		return lx.scanString(start, 'q')
	}

	lx.bumpIdentRest()
	text := lx.cursor.Text(start)

	if lx.lineStart && !lx.opts.NoSQLPlus {
		switch strings.ToUpper(text) {
		case "REM", "REMARK":
			if lx.looksLikeCommandLine() {
				lx.cursor.SkipToEOL()
				tok := lx.emit(token.LineComment, start)
				tok.Trimmed = strings.TrimSpace(tok.Text[len(text):])
				return tok
			}
		case "PROMPT":
			if lx.looksLikeCommandLine() {
				lx.restOfLine = true
			}
		}
	}
	return lx.emit(token.LookupWord(text), start)
}

// looksLikeCommandLine: после слова пробел или конец строки, и дальше не
// оператор (иначе это переменная PL/SQL: "rem := 1;").
func (lx *Lexer) looksLikeCommandLine() bool {
	b := lx.cursor.Peek()
	if lx.cursor.EOF() || b == '\n' {
		return true
	}
	if !isBlank(b) {
		return false
	}
	var n uint32 = 1
	for isBlank(lx.cursor.PeekAt(n)) {
		n++
	}
	if strings.IndexByte(":=(.;,%", lx.cursor.PeekAt(n)) >= 0 {
		return false
	}
	// объявление в пакете: "prompt VARCHAR2(10);", "rem t_emp;"
	rest := lx.file.Content[lx.cursor.Off:]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return !bytes.HasSuffix(bytes.TrimSpace(rest), []byte(";"))
}

// scanString reads a quoted literal where a doubled quote escapes itself;
// mode 'q' is alternative quoting q'X..X'.
// The cursor stands on the opening quote.
func (lx *Lexer) scanString(start Mark, mode byte) token.Token {
	lx.cursor.Bump() // '
	var body strings.Builder

	if mode == 'q' {
		open := lx.cursor.Bump()
		closer := open
		switch open {
		case '[':
			closer = ']'
		case '{':
			closer = '}'
		case '(':
			closer = ')'
		case '<':
			closer = '>'
		}
		for !lx.cursor.EOF() {
			c := lx.cursor.Bump()
			if c == closer && lx.cursor.Peek() == '\'' {
				lx.cursor.Bump()
				tok := lx.emit(token.String, start)
				tok.Trimmed = body.String()
				return tok
			}
			body.WriteByte(c)
		}
		tok := lx.emit(token.String, start)
		tok.Trimmed = body.String()
		return lx.fail(tok, errUnterminatedString)
	}

	for !lx.cursor.EOF() {
		c := lx.cursor.Bump()
		if c == '\'' {
			if lx.cursor.Peek() == '\'' {
				lx.cursor.Bump()
				body.WriteByte('\'')
				continue
			}
			tok := lx.emit(token.String, start)
			tok.Trimmed = body.String()
			return tok
		}
		body.WriteByte(c)
	}
	tok := lx.emit(token.String, start)
	tok.Trimmed = body.String()
	return lx.fail(tok, errUnterminatedString)
}

// scanQuotedIdent: "..." with "" collapsed.
func (lx *Lexer) scanQuotedIdent(start Mark) token.Token {
	lx.cursor.Bump()
	var body strings.Builder
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		c := lx.cursor.Bump()
		if c == '"' {
			if lx.cursor.Peek() == '"' {
				lx.cursor.Bump()
				body.WriteByte('"')
				continue
			}
			tok := lx.emit(token.Ident, start)
			tok.Trimmed = body.String()
			return tok
		}
		body.WriteByte(c)
	}
	tok := lx.emit(token.Ident, start)
	tok.Trimmed = body.String()
	return lx.fail(tok, errUnterminatedIdent)
}

// scanNumber: 1, 1.5, .5, 1e10, 2.5E-3, 10f, 10d; "1..10" stops before "..".
func (lx *Lexer) scanNumber(start Mark) token.Token {
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' {
		next := lx.cursor.PeekAt(1)
		switch {
		case next == '.':
			// диапазон
		case isDec(next):
			lx.cursor.Bump()
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		case !isIdentStartByte(next):
			lx.cursor.Bump() // "1."
		}
	}

	bad := false
	if e := lx.cursor.Peek(); e == 'e' || e == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		} else if isIdentContinueByte(lx.cursor.Peek()) {
			// "1else": не экспонента
			lx.cursor.Reset(mark)
		} else {
			bad = true
		}
	}
	if s := lower(lx.cursor.Peek()); (s == 'f' || s == 'd') && !isIdentContinueByte(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
	}

	tok := lx.emit(token.Number, start)
	if bad {
		return lx.fail(tok, errBadExponent)
	}
	return tok
}

// scanDollar: $IF and friends, $$NAME, plain $NAME.
func (lx *Lexer) scanDollar(start Mark) token.Token {
	lx.cursor.Bump()
	if lx.cursor.Peek() == '$' {
		lx.cursor.Bump()
		lx.bumpIdentRest()
		return lx.emit(token.Ident, start)
	}
	if !isIdentStartByte(lx.cursor.Peek()) {
		return lx.fail(lx.emit(token.Invalid, start), errUnknownChar)
	}
	lx.bumpIdentRest()
	text := lx.cursor.Text(start)
	if _, ok := preprocessorWords[strings.ToUpper(text[1:])]; ok {
		return lx.emit(token.Preprocessor, start)
	}
	return lx.emit(token.Ident, start)
}

// scanBlockComment: /* */ and /** */ (but /**/ is a plain block comment).
func (lx *Lexer) scanBlockComment(start Mark) token.Token {
	lx.cursor.BumpN(2)
	kind := token.BlockComment
	if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) != '/' {
		kind = token.DocComment
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.BumpN(2)
			tok := lx.emit(kind, start)
			tok.Trimmed = commentBody(tok.Text, kind)
			return tok
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(kind, start)
	tok.Trimmed = strings.TrimPrefix(tok.Text, "/*")
	return lx.fail(tok, errUnterminatedComment)
}

func commentBody(text string, kind token.Kind) string {
	body := strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	if kind == token.DocComment {
		body = strings.TrimPrefix(body, "*")
	}
	return body
}

// Жадность: сначала 2-символьные, затем 1-символьные.
var twoCharOps = [...]string{":=", "=>", "..", "||", "**", "<>", "!=", "^=", "~=", "<=", ">=", "<<", ">>", "&&"}

const oneCharOps = "(),.+-*=<>@%:&|^~![]{}?"

func (lx *Lexer) scanOperatorOrPunct(start Mark) token.Token {
	b0, b1 := lx.cursor.Peek(), lx.cursor.PeekAt(1)
	for _, op := range twoCharOps {
		if op[0] == b0 && op[1] == b1 {
			lx.cursor.BumpN(2)
			return lx.emit(token.Operator, start)
		}
	}
	lx.cursor.Bump()
	switch {
	case b0 == '/':
		return lx.emit(token.Slash, start)
	case b0 == ';':
		return lx.emit(token.Semicolon, start)
	case strings.IndexByte(oneCharOps, b0) >= 0:
		return lx.emit(token.Operator, start)
	}
	return lx.fail(lx.emit(token.Invalid, start), errUnknownChar)
}

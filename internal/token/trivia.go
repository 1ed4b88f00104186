package token

// AttachTrivia groups a flat lexer stream into significant tokens. Trivia on
// the same line after a significant token (up to, not including, the line
// break) become its Trailing; everything else becomes the Leading of the next
// significant token. The final EOF token carries whatever remains.
func AttachTrivia(flat []Token) []Token {
	out := make([]Token, 0, len(flat)/2+1)
	var pending []Token
	trailing := false

	for _, tok := range flat {
		if tok.Kind.IsTrivia() {
			if trailing && tok.Kind != Newline {
				last := &out[len(out)-1]
				last.Trailing = append(last.Trailing, tok)
				continue
			}
			trailing = false
			pending = append(pending, tok)
			continue
		}
		tok.Leading = pending
		tok.Trailing = nil
		pending = nil
		out = append(out, tok)
		trailing = tok.Kind != EOF
	}

	if len(out) == 0 || out[len(out)-1].Kind != EOF {
		eof := Token{Kind: EOF, Leading: pending}
		if len(flat) > 0 {
			end := flat[len(flat)-1].Span
			eof.Span = end
			eof.Span.Start = end.End
		}
		out = append(out, eof)
	} else if len(pending) > 0 {
		last := &out[len(out)-1]
		last.Leading = append(last.Leading, pending...)
	}
	return out
}

// HasNewline reports whether the trivia list contains a line break.
func HasNewline(trivia []Token) bool {
	for i := range trivia {
		if trivia[i].Kind == Newline {
			return true
		}
	}
	return false
}

// LastDoc returns the doc comment closest to the end of the trivia list, or nil.
// Only whitespace may separate it from the end.
func LastDoc(trivia []Token) *Token {
	for i := len(trivia) - 1; i >= 0; i-- {
		switch trivia[i].Kind {
		case Whitespace, Newline:
			continue
		case DocComment:
			return &trivia[i]
		default:
			return nil
		}
	}
	return nil
}

// FirstDoc returns the first doc comment in the trivia list, or nil.
func FirstDoc(trivia []Token) *Token {
	for i := range trivia {
		if trivia[i].Kind == DocComment {
			return &trivia[i]
		}
	}
	return nil
}

package token

// Kind represents the category of a PL/SQL token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the script; it carries the final leading trivia.
	EOF

	// Reserved is a reserved word (BEGIN, END, NUMBER, ...).
	Reserved
	// Keyword is a known non-reserved word (LOOP, RETURN, BODY, ...).
	Keyword
	// Ident is a plain or quoted identifier, or an inquiry directive ($$NAME).
	Ident
	// Operator covers punctuation and operators (:= => .. ( ) , ...).
	Operator
	// String is a character literal, or the text of a PROMPT command.
	String
	// Number is a numeric literal.
	Number

	// LineComment is a -- comment or a REM line.
	LineComment
	// BlockComment is a /* */ comment.
	BlockComment
	// DocComment is a /** */ comment.
	DocComment
	// Preprocessor is a selection directive ($IF, $THEN, $ELSIF, $ELSE, $END, $ERROR).
	Preprocessor
	// Whitespace is a run of blanks and tabs.
	Whitespace
	// Newline is a single line break.
	Newline

	// Slash is the SQL*Plus execute terminator or the division operator.
	Slash
	// Semicolon terminates statements and declarations.
	Semicolon
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Reserved:     "Reserved",
	Keyword:      "Keyword",
	Ident:        "Ident",
	Operator:     "Operator",
	String:       "String",
	Number:       "Number",
	LineComment:  "LineComment",
	BlockComment: "BlockComment",
	DocComment:   "DocComment",
	Preprocessor: "Preprocessor",
	Whitespace:   "Whitespace",
	Newline:      "Newline",
	Slash:        "Slash",
	Semicolon:    "Semicolon",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTrivia reports whether tokens of this kind are grouped as trivia.
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, Newline, LineComment, BlockComment, DocComment:
		return true
	default:
		return false
	}
}

// IsComment reports whether k is one of the comment kinds.
func (k Kind) IsComment() bool {
	return k == LineComment || k == BlockComment || k == DocComment
}

// IsWord reports whether k is a word kind.
func (k Kind) IsWord() bool {
	return k == Reserved || k == Keyword || k == Ident
}

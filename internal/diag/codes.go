package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedQuotedIdent  Code = 1005

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnexpectedEOF      Code = 2002
	SynNotImplemented     Code = 2003
	SynInvalidArgument    Code = 2004
	SynUnexpectedInSpec   Code = 2005
	SynOpaqueUnit         Code = 2006
	SynMissingTerminator  Code = 2007
	SynUnbalancedParen    Code = 2008
	SynMismatchedEndLabel Code = 2009

	// Аннотации
	SemaInfo           Code = 3000
	SemaUnknownPragma  Code = 3001
	SemaDanglingPragma Code = 3002
	SemaPragmaArgs     Code = 3003

	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number literal",
		LexUnterminatedQuotedIdent:  "Unterminated quoted identifier",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnexpectedEOF:            "Unexpected end of input",
		SynNotImplemented:           "Construct not supported",
		SynInvalidArgument:          "Invalid construction",
		SynUnexpectedInSpec:         "Unexpected item in package specification",
		SynOpaqueUnit:               "Unit kept as opaque text",
		SynMissingTerminator:        "Missing unit terminator",
		SynUnbalancedParen:          "Unbalanced parenthesis",
		SynMismatchedEndLabel:       "END label does not match",
		SemaInfo:                    "Annotation information",
		SemaUnknownPragma:           "Unknown pragma",
		SemaDanglingPragma:          "Pragma does not apply to any declaration",
		SemaPragmaArgs:              "Malformed pragma arguments",
		IOLoadFileError:             "I/O load file error",
		IOCacheError:                "Outline cache unavailable",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ANN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

package source

import (
	"fmt"
	"strings"
)

// Position is a point in a script: byte offset plus 1-based line and column.
// Columns count bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Origin is the position of the first byte of a file.
var Origin = Position{Offset: 0, Line: 1, Column: 1}

// Advance returns the position reached after consuming text.
func (p Position) Advance(text string) Position {
	if text == "" {
		return p
	}
	p.Offset += len(text)
	nl := strings.Count(text, "\n")
	if nl == 0 {
		p.Column += len(text)
		return p
	}
	p.Line += nl
	p.Column = len(text) - strings.LastIndexByte(text, '\n')
	return p
}

// Before reports whether p precedes other.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}

// Compare orders positions by offset.
func (p Position) Compare(other Position) int {
	switch {
	case p.Offset < other.Offset:
		return -1
	case p.Offset > other.Offset:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether p was produced by Advance (zero value is not).
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

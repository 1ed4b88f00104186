package source

import (
	"fmt"
)

// Span is a half-open region [Start, End) of one file.
type Span struct {
	File  FileID
	Start Position
	End   Position // не включительно
}

// SpanOf builds the span covering text starting at start.
func SpanOf(file FileID, start Position, text string) Span {
	return Span{File: file, Start: start, End: start.Advance(text)}
}

func (s Span) Empty() bool {
	return s.Start.Offset == s.End.Offset
}

func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%s-%s", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans of different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start.Before(s.Start) {
		s.Start = other.Start
	}
	if s.End.Before(other.End) {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File &&
		s.Start.Offset <= other.Start.Offset &&
		other.End.Offset <= s.End.Offset
}

// Before reports whether s ends no later than other starts.
func (s Span) Before(other Span) bool {
	return s.End.Offset <= other.Start.Offset
}

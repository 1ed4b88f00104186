package lexer

import (
	"testing"

	"plsqldoc/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sql", []byte(content))
	return fs.Get(id)
}

func TestCursorSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatal("cursor must be exhausted")
	}
}

func TestCursorPeekAtAndEatFold(t *testing.T) {
	cursor := NewCursor(createFile("q'[x]'"))
	if cursor.PeekAt(1) != '\'' || cursor.PeekAt(2) != '[' || cursor.PeekAt(10) != 0 {
		t.Fatal("PeekAt mismatch")
	}
	if !cursor.EatFold('Q') || cursor.Off != 1 {
		t.Fatal("EatFold must accept either case")
	}
	if cursor.EatFold('x') {
		t.Fatal("EatFold must reject other bytes")
	}
}

func TestCursorMarkTextReset(t *testing.T) {
	cursor := NewCursor(createFile("select -- c\nfrom"))
	m := cursor.Mark()
	cursor.BumpN(7)
	cursor.SkipToEOL()
	if got := cursor.Text(m); got != "select -- c" {
		t.Fatalf("Text = %q", got)
	}
	cursor.Reset(m)
	if cursor.Off != 0 || cursor.Peek() != 's' {
		t.Fatal("Reset did not rewind")
	}
}
